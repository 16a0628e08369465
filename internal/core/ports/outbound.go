package ports

import (
	"context"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
)

// ContentRepository persists the corpus and its stored vectors, and exposes
// the host's full-text search as a ranked list.
type ContentRepository interface {
	ListPublished(ctx context.Context) ([]domain.Document, error)
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	Upsert(ctx context.Context, doc *domain.Document) error
	SaveEmbedding(ctx context.Context, id, serialized string) error
	MarkEmbeddingStale(ctx context.Context, id string) error
	SearchKeyword(ctx context.Context, query string, limit int) ([]domain.KeywordResult, error)
}

// SettingsStore holds operator configuration; an empty credential disables
// both indexing and querying.
type SettingsStore interface {
	APIKey(ctx context.Context) (string, error)
	SetAPIKey(ctx context.Context, key string) error
}

// Embedder converts text to a fixed-length vector. Oversized input is
// truncated deterministically by the implementation.
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float64, error)
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
}

// AnswerGenerator produces the grounded answer for a query and its context.
type AnswerGenerator interface {
	Generate(ctx context.Context, query, context string) (string, error)
}

// SessionStore is the session-keyed history capability. Append enforces the
// history cap; History returns turns in chronological order.
type SessionStore interface {
	History(ctx context.Context, sessionID string) ([]domain.ChatTurn, error)
	Append(ctx context.Context, sessionID string, turn domain.ChatTurn) error
}

// TextSanitizer strips markup down to plain text.
type TextSanitizer interface {
	Strip(input string) string
}

// MessageQueue carries content-change notifications from the host.
type MessageQueue interface {
	PublishContentUpdated(ctx context.Context, documentID string) error
	SubscribeContentUpdated(ctx context.Context, handler func(context.Context, string) error) error
}
