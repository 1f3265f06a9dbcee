package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carebridge-ai/hospital-chatbot/internal/middleware"
	"github.com/carebridge-ai/hospital-chatbot/internal/service"
	"github.com/carebridge-ai/hospital-chatbot/pkg/logger"
)

// ConversationHandler handles conversation history endpoints.
type ConversationHandler struct {
	dialog *service.DialogService
	logger *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(dialog *service.DialogService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		dialog: dialog,
		logger: log,
	}
}

// Get handles GET /conversation/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.dialog.History(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			writeError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		h.logger.Error("failed to read conversation")
		writeError(w, http.StatusInternalServerError, "failed to read conversation")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /conversation/{id}. Deletion is idempotent:
// clearing an unknown id succeeds.
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.dialog.Clear(r.Context(), conversationID); err != nil {
		h.logger.Error("failed to clear conversation")
		writeError(w, http.StatusInternalServerError, "failed to clear conversation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Conversation cleared successfully",
	})
}
