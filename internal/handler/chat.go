package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/carebridge-ai/hospital-chatbot/internal/middleware"
	"github.com/carebridge-ai/hospital-chatbot/internal/model"
	"github.com/carebridge-ai/hospital-chatbot/internal/service"
	"github.com/carebridge-ai/hospital-chatbot/pkg/logger"
	"github.com/carebridge-ai/hospital-chatbot/pkg/metrics"
)

// ChatHandler handles the chat endpoints.
type ChatHandler struct {
	dialog *service.DialogService
	logger *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(dialog *service.DialogService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		dialog: dialog,
		logger: log,
	}
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessage(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.dialog.Chat(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to process chat request")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing chat request: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ChatStream handles POST /chat/stream
func (h *ChatHandler) ChatStream(w http.ResponseWriter, r *http.Request) {
	var req model.ChatStreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessage(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	sink := &sseSink{w: w, flusher: flusher}
	if err := h.dialog.ChatStream(r.Context(), &req, sink); err != nil {
		// The stream already carried its terminal event, or the client is
		// gone; either way there is nothing left to write.
		h.logger.Debug("chat stream ended early")
	}
}

// sseSink writes discriminated JSON events in server-sent-events framing,
// one data line per event.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *sseSink) Send(event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
