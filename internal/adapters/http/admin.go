package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
	"github.com/sitebrain/vectorsearch/internal/core/ports"
)

// reindex runs the batch embedding job and streams one progress line per
// document, so an operator watching the response sees movement on large
// corpora instead of a silent long request.
func (rt *Router) reindex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	flusher, _ := w.(http.Flusher)

	started := false
	count, err := rt.indexer.IndexAll(r.Context(), func(progress ports.IndexProgress) {
		if !started {
			started = true
			w.WriteHeader(http.StatusOK)
		}
		if progress.Err != nil {
			fmt.Fprintf(w, "failed %s (%s): %v\n", progress.Title, progress.Type, progress.Err)
		} else {
			fmt.Fprintf(w, "indexed %s (%s)\n", progress.Title, progress.Type)
		}
		if rt.metrics != nil {
			rt.metrics.RecordIndexedDocument(rt.service, progress.Err)
		}
		if flusher != nil {
			flusher.Flush()
		}
	})
	if err != nil {
		if !started {
			status := mapErrorToHTTPStatus(err)
			if domain.IsKind(err, domain.ErrNotConfigured) {
				http.Error(w, "no api key configured", status)
				return
			}
			requestLogError(r, "reindex", err)
			http.Error(w, "reindex failed", status)
			return
		}
		fmt.Fprintf(w, "aborted after %d documents: %v\n", count, err)
		return
	}

	if !started {
		w.WriteHeader(http.StatusOK)
	}
	fmt.Fprintf(w, "done: %d documents indexed\n", count)
}

type settingsRequest struct {
	APIKey string `json:"api_key"`
}

// settingsHandler reads or replaces the upstream credential. The key itself
// is never echoed back.
func (rt *Router) settingsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		key, err := rt.settings.APIKey(r.Context())
		if err != nil {
			requestLogError(r, "load settings", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "load failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"configured": key != ""})
	case http.MethodPut:
		var req settingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if err := rt.settings.SetAPIKey(r.Context(), strings.TrimSpace(req.APIKey)); err != nil {
			requestLogError(r, "store settings", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store failed"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}
