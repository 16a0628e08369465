package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
)

type ContentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) ListPublished(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, body, type, status, permalink, COALESCE(embedding, ''), embedding_stale, indexed_at, created_at, updated_at
FROM documents
WHERE status = $1
ORDER BY created_at ASC
`, string(domain.StatusPublished))
	if err != nil {
		return nil, fmt.Errorf("list published documents: %w", err)
	}
	defer rows.Close()

	var out []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate published documents: %w", err)
	}
	return out, nil
}

func (r *ContentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, body, type, status, permalink, COALESCE(embedding, ''), embedding_stale, indexed_at, created_at, updated_at
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, err
	}
	return doc, nil
}

// Upsert writes the editorial fields only. The stored vector survives a
// content update; the worker flags it stale separately.
func (r *ContentRepository) Upsert(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (id, title, body, type, status, permalink, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE
SET title = EXCLUDED.title,
    body = EXCLUDED.body,
    type = EXCLUDED.type,
    status = EXCLUDED.status,
    permalink = EXCLUDED.permalink,
    updated_at = EXCLUDED.updated_at
`, doc.ID, doc.Title, doc.Body, string(doc.Type), string(doc.Status), doc.Permalink, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (r *ContentRepository) SaveEmbedding(ctx context.Context, id, serialized string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents
SET embedding = $2, embedding_stale = FALSE, indexed_at = $3
WHERE id = $1
`, id, serialized, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save embedding: %w", err)
	}
	return requireRow(result, "save embedding", id)
}

func (r *ContentRepository) MarkEmbeddingStale(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents
SET embedding_stale = TRUE
WHERE id = $1
`, id)
	if err != nil {
		return fmt.Errorf("mark embedding stale: %w", err)
	}
	return requireRow(result, "mark embedding stale", id)
}

// SearchKeyword runs the host full-text search and returns positional ranks
// starting at 1.
func (r *ContentRepository) SearchKeyword(ctx context.Context, query string, limit int) ([]domain.KeywordResult, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, ts_headline('english', body, websearch_to_tsquery('english', $1))
FROM documents
WHERE status = $2
  AND to_tsvector('english', title || ' ' || body) @@ websearch_to_tsquery('english', $1)
ORDER BY ts_rank(to_tsvector('english', title || ' ' || body), websearch_to_tsquery('english', $1)) DESC
LIMIT $3
`, query, string(domain.StatusPublished), limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	defer rows.Close()

	out := make([]domain.KeywordResult, 0, limit)
	for rows.Next() {
		var result domain.KeywordResult
		if err := rows.Scan(&result.DocumentID, &result.Title, &result.Excerpt); err != nil {
			return nil, fmt.Errorf("scan keyword result: %w", err)
		}
		result.Rank = len(out) + 1
		out = append(out, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keyword results: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var docType, status string
	var indexedAt sql.NullTime

	err := row.Scan(
		&doc.ID, &doc.Title, &doc.Body, &docType, &status, &doc.Permalink,
		&doc.Embedding, &doc.EmbeddingStale, &indexedAt, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	doc.Type = domain.ContentType(docType)
	doc.Status = domain.PublicationStatus(status)
	if indexedAt.Valid {
		t := indexedAt.Time
		doc.IndexedAt = &t
	}
	return &doc, nil
}

func requireRow(result sql.Result, operation, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("id %s", id))
	}
	return nil
}
