package middleware

import (
	"errors"
	"unicode/utf8"
)

// ValidateMessage validates incoming chat message content.
func ValidateMessage(content string) error {
	if len(content) == 0 {
		return errors.New("message cannot be empty")
	}
	if len(content) > 100000 { // ~100KB limit
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateConversationID validates a conversation id. Ids are opaque
// caller-chosen strings, so only shape is checked.
func ValidateConversationID(id string) error {
	if len(id) == 0 {
		return errors.New("conversation id cannot be empty")
	}
	if len(id) > 128 {
		return errors.New("conversation id exceeds maximum length")
	}
	if !utf8.ValidString(id) {
		return errors.New("conversation id must be valid UTF-8")
	}
	return nil
}
