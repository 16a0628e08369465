package ports

import (
	"context"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
)

// SearchService is the inbound contract for one-shot grounded search.
type SearchService interface {
	Search(ctx context.Context, query string) (*domain.SearchResult, error)
}

// ChatService is the inbound contract for session-aware grounded chat.
type ChatService interface {
	Chat(ctx context.Context, sessionID, message string) (*domain.ChatReply, error)
}

// IndexProgress is one per-document indexing report.
type IndexProgress struct {
	DocumentID string
	Title      string
	Type       domain.ContentType
	Err        error
}

// ContentIndexer runs the synchronous batch embedding job.
type ContentIndexer interface {
	IndexAll(ctx context.Context, report func(IndexProgress)) (int, error)
}

// ContentWriter is the inbound contract for corpus upserts.
type ContentWriter interface {
	Upsert(ctx context.Context, doc *domain.Document) (*domain.Document, error)
}
