package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatEnvelope struct {
	Success bool     `json:"success"`
	Data    chatData `json:"data"`
}

type chatData struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

func (rt *Router) chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, chatEnvelope{Data: chatData{Message: "method not allowed"}})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatEnvelope{Data: chatData{Message: "invalid json"}})
		return
	}

	start := time.Now()
	reply, err := rt.chatUC.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		rt.writeChatError(w, r, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordRetrieval(rt.service, "chat", chatHitCount(reply), time.Since(start))
		if reply.GenerationFailed {
			rt.metrics.RecordGenerationFailure(rt.service, "chat", "upstream")
		}
	}

	writeJSON(w, http.StatusOK, chatEnvelope{
		Success: true,
		Data:    chatData{SessionID: reply.SessionID, Message: reply.Message},
	})
}

func (rt *Router) writeChatError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsKind(err, domain.ErrEmbeddingFailed):
		writeJSON(w, http.StatusOK, chatEnvelope{Data: chatData{Message: domain.EmbeddingFailedMessage}})
	case domain.IsKind(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, chatEnvelope{Data: chatData{Message: err.Error()}})
	default:
		status := mapErrorToHTTPStatus(err)
		requestLogError(r, "chat", err)
		writeJSON(w, status, chatEnvelope{Data: chatData{Message: "chat failed"}})
	}
}

func chatHitCount(reply *domain.ChatReply) int {
	if reply.Message == domain.NoInformationMessage {
		return 0
	}
	return 1
}
