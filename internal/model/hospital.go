package model

// HospitalInfoResponse is the static informational payload for GET /hospital-info.
type HospitalInfoResponse struct {
	Info             map[string]string `json:"info"`
	Services         []string          `json:"services"`
	FAQQuestions     []string          `json:"faq_questions"`
	PopularQuestions []string          `json:"popular_questions"`
}
