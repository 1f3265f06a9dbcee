package model

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatStreamRequest is the body of POST /chat/stream.
type ChatStreamRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	Stream         bool   `json:"stream,omitempty"`
}

// ChatResponse is the single-shot chat response.
type ChatResponse struct {
	Response       string   `json:"response"`
	ConversationID string   `json:"conversation_id"`
	IsFAQ          bool     `json:"is_faq"`
	Sources        []string `json:"sources"`
}

// ConversationResponse is the response for GET /conversation/{id}.
type ConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	Messages       []Turn `json:"messages"`
	MessageCount   int    `json:"message_count"`
}

// Tier identifies which resolution strategy produced an answer.
type Tier string

const (
	TierFAQExact    Tier = "faq_exact"
	TierFAQFollowUp Tier = "faq_follow_up"
	TierDelegated   Tier = "delegated"
)

// Resolution is the outcome of routing a message through the tiers.
type Resolution struct {
	Tier     Tier
	Response string
	Sources  []string
}

// IsFAQ reports whether the resolution came from an FAQ tier.
func (r Resolution) IsFAQ() bool {
	return r.Tier == TierFAQExact || r.Tier == TierFAQFollowUp
}
