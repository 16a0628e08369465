package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
	"github.com/sitebrain/vectorsearch/internal/core/ports"
)

type ContentUseCase struct {
	repo  ports.ContentRepository
	queue ports.MessageQueue
}

func NewContentUseCase(repo ports.ContentRepository, queue ports.MessageQueue) *ContentUseCase {
	return &ContentUseCase{repo: repo, queue: queue}
}

// Upsert stores a corpus document and announces the change. A stored vector
// is never touched here: the worker only flags it stale, and re-embedding
// stays an explicit operator action.
func (uc *ContentUseCase) Upsert(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if doc == nil || strings.TrimSpace(doc.Title) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upsert document", errors.New("title is required"))
	}
	if !doc.Type.Valid() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upsert document", fmt.Errorf("unknown content type %q", doc.Type))
	}
	if doc.Status == "" {
		doc.Status = domain.StatusPublished
	}

	now := time.Now().UTC()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
		doc.CreatedAt = now
	}
	if doc.Permalink == "" {
		doc.Permalink = "/" + string(doc.Type) + "/" + slugify(doc.Title)
	}
	doc.UpdatedAt = now

	if err := uc.repo.Upsert(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	if err := uc.queue.PublishContentUpdated(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish content update: %w", err)
	}
	return doc, nil
}

func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return "document"
	}
	return slug
}
