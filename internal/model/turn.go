// Package model defines data structures for the dialog gateway.
package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MaxSources is the maximum number of supporting source identifiers
// surfaced on an assistant turn.
const MaxSources = 3

// Turn represents one recorded message within a conversation.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Assistant-only fields.
	IsFAQ   bool     `json:"is_faq,omitempty"`
	Sources []string `json:"sources,omitempty"`
}

// UserTurn builds a user turn with the current time.
func UserTurn(content string) Turn {
	return Turn{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// AssistantTurn builds an assistant turn with the current time.
func AssistantTurn(content string, isFAQ bool, sources []string) Turn {
	if len(sources) > MaxSources {
		sources = sources[:MaxSources]
	}
	return Turn{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
		IsFAQ:     isFAQ,
		Sources:   sources,
	}
}
