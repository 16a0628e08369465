package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
)

type upsertDocumentRequest struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

func (rt *Router) upsertDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req upsertDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	doc, err := rt.contentUC.Upsert(r.Context(), &domain.Document{
		ID:     strings.TrimSpace(req.ID),
		Title:  req.Title,
		Body:   req.Body,
		Type:   domain.ContentType(req.Type),
		Status: domain.PublicationStatus(req.Status),
	})
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		if status >= 500 {
			requestLogError(r, "upsert document", err)
			writeJSON(w, status, map[string]string{"error": "store failed"})
			return
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, doc)
}
