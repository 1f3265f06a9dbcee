package handler

import (
	"net/http"

	"github.com/carebridge-ai/hospital-chatbot/internal/faq"
	"github.com/carebridge-ai/hospital-chatbot/internal/hospital"
	"github.com/carebridge-ai/hospital-chatbot/internal/model"
)

// InfoHandler serves the static hospital information payload.
type InfoHandler struct {
	corpus faq.Corpus
}

// NewInfoHandler creates a new info handler.
func NewInfoHandler(corpus faq.Corpus) *InfoHandler {
	return &InfoHandler{corpus: corpus}
}

// Info handles GET /hospital-info
func (h *InfoHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HospitalInfoResponse{
		Info:             hospital.Info,
		Services:         hospital.Services,
		FAQQuestions:     h.corpus.Questions(),
		PopularQuestions: hospital.PopularQuestions,
	})
}
