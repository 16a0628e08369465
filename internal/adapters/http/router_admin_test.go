package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
	"github.com/sitebrain/vectorsearch/internal/core/ports"
)

func TestReindexStreamsProgressLines(t *testing.T) {
	router, fakes := newTestRouter(Options{})
	fakes.indexer.progress = []ports.IndexProgress{
		{DocumentID: "d1", Title: "Hours", Type: domain.TypePage},
		{DocumentID: "d2", Title: "Broken", Type: domain.TypePost, Err: errors.New("embed failed")},
	}
	fakes.indexer.count = 1

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/reindex", nil)
	res := httptest.NewRecorder()
	router.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	body := res.Body.String()
	if !strings.Contains(body, "indexed Hours (page)") {
		t.Fatalf("expected success line, got %s", body)
	}
	if !strings.Contains(body, "failed Broken (post): embed failed") {
		t.Fatalf("expected failure line, got %s", body)
	}
	if !strings.Contains(body, "done: 1 documents indexed") {
		t.Fatalf("expected summary line, got %s", body)
	}
}

func TestReindexRefusedWithoutCredential(t *testing.T) {
	router, fakes := newTestRouter(Options{})
	fakes.indexer.err = domain.WrapError(domain.ErrNotConfigured, "run indexer", errors.New("no api key found"))

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/reindex", nil)
	res := httptest.NewRecorder()
	router.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d", res.Code)
	}
}

func TestSettingsReportsConfiguredWithoutEchoingKey(t *testing.T) {
	router, fakes := newTestRouter(Options{})
	fakes.settings.key = "super-secret"

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/settings", nil)
	res := httptest.NewRecorder()
	router.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if strings.Contains(res.Body.String(), "super-secret") {
		t.Fatalf("credential must not be echoed: %s", res.Body.String())
	}
	var payload map[string]bool
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload["configured"] {
		t.Fatalf("expected configured=true, got %+v", payload)
	}
}

func TestSettingsStoresKey(t *testing.T) {
	router, fakes := newTestRouter(Options{})

	req := httptest.NewRequest(http.MethodPut, "/v1/admin/settings", strings.NewReader(`{"api_key":"  new-key  "}`))
	res := httptest.NewRecorder()
	router.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.Code)
	}
	if fakes.settings.stored != "new-key" {
		t.Fatalf("expected trimmed key stored, got %q", fakes.settings.stored)
	}
}

func TestUpsertDocumentReturnsStoredDocument(t *testing.T) {
	router, _ := newTestRouter(Options{})

	body := `{"title":"Opening Hours","body":"<p>Nine to five</p>","type":"page"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var doc domain.Document
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.Title != "Opening Hours" || doc.Type != domain.TypePage {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestUpsertDocumentRejectsUnknownType(t *testing.T) {
	router, fakes := newTestRouter(Options{})
	fakes.content.err = domain.WrapError(domain.ErrInvalidInput, "upsert document", errors.New("unknown content type"))

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader(`{"title":"t","type":"video"}`))
	res := httptest.NewRecorder()
	router.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}
