package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
)

func newContentRepoWithMock(t *testing.T) (*ContentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ContentRepository{db: db}, mock, func() { _ = db.Close() }
}

func documentColumns() []string {
	return []string{"id", "title", "body", "type", "status", "permalink", "embedding", "embedding_stale", "indexed_at", "created_at", "updated_at"}
}

func TestListPublishedScansStoredVector(t *testing.T) {
	repo, mock, done := newContentRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, title, body, type, status").
		WithArgs(string(domain.StatusPublished)).
		WillReturnRows(sqlmock.NewRows(documentColumns()).
			AddRow("d1", "Hours", "Nine to five", "page", "published", "/page/hours", "[0.1,0.2]", false, now, now, now).
			AddRow("d2", "News", "Fresh", "post", "published", "/post/news", "", false, nil, now, now))

	docs, err := repo.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("ListPublished() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Embedding != "[0.1,0.2]" || docs[0].IndexedAt == nil {
		t.Fatalf("unexpected first document %+v", docs[0])
	}
	if docs[1].Embedding != "" || docs[1].IndexedAt != nil {
		t.Fatalf("unindexed document must carry empty vector, got %+v", docs[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newContentRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, title, body, type, status").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveEmbeddingReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newContentRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", "[0.1]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveEmbedding(context.Background(), "missing", "[0.1]")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMarkEmbeddingStale(t *testing.T) {
	repo, mock, done := newContentRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkEmbeddingStale(context.Background(), "d1"); err != nil {
		t.Fatalf("MarkEmbeddingStale() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSearchKeywordAssignsPositionalRanks(t *testing.T) {
	repo, mock, done := newContentRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, title, ts_headline").
		WithArgs("opening hours", string(domain.StatusPublished), 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "excerpt"}).
			AddRow("d2", "Hours", "open <b>hours</b>").
			AddRow("d5", "Contact", "call during <b>hours</b>"))

	results, err := repo.SearchKeyword(context.Background(), "opening hours", 20)
	if err != nil {
		t.Fatalf("SearchKeyword() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Rank != 1 || results[1].Rank != 2 {
		t.Fatalf("expected ranks 1 and 2, got %d and %d", results[0].Rank, results[1].Rank)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
