package domain

import "time"

type ContentType string

const (
	TypePost ContentType = "post"
	TypePage ContentType = "page"
)

type PublicationStatus string

const (
	StatusPublished PublicationStatus = "published"
	StatusDraft     PublicationStatus = "draft"
)

// Document is one entry of the content corpus. Body may contain markup and
// must be stripped before embedding or prompt assembly. Embedding holds the
// stored vector as a serialized numeric sequence; empty means never indexed.
type Document struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Type           ContentType       `json:"type"`
	Status         PublicationStatus `json:"status"`
	Permalink      string            `json:"permalink"`
	Embedding      string            `json:"-"`
	EmbeddingStale bool              `json:"embedding_stale,omitempty"`
	IndexedAt      *time.Time        `json:"indexed_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (t ContentType) Valid() bool {
	return t == TypePost || t == TypePage
}
