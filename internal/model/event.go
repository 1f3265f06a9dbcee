package model

// EventType discriminates stream event payloads.
type EventType string

const (
	EventToken  EventType = "token"
	EventStatus EventType = "status"
	EventEnd    EventType = "end"
	EventError  EventType = "error"
)

// ContentEvent carries token, status, and error stream events.
type ContentEvent struct {
	Type    EventType `json:"type"`
	Content string    `json:"content"`
}

// EndEvent terminates a successful stream. Sources is null (not omitted)
// when the answer carried no supporting documents.
type EndEvent struct {
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
	IsFAQ          bool      `json:"is_faq"`
	Sources        []string  `json:"sources"`
}

// TokenEvent builds a token event.
func TokenEvent(content string) ContentEvent {
	return ContentEvent{Type: EventToken, Content: content}
}

// StatusEvent builds a status event.
func StatusEvent(content string) ContentEvent {
	return ContentEvent{Type: EventStatus, Content: content}
}

// ErrorEvent builds a terminal error event.
func ErrorEvent(content string) ContentEvent {
	return ContentEvent{Type: EventError, Content: content}
}

// StreamEnd builds the terminal end event.
func StreamEnd(conversationID string, isFAQ bool, sources []string) EndEvent {
	return EndEvent{
		Type:           EventEnd,
		ConversationID: conversationID,
		IsFAQ:          isFAQ,
		Sources:        sources,
	}
}
