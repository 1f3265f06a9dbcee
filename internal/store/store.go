// Package store provides keyed conversation history storage.
package store

import (
	"context"

	"github.com/carebridge-ai/hospital-chatbot/internal/model"
)

// ConversationStore is a keyed, append-only-per-turn record of message
// history per conversation. Implementations must be safe for concurrent
// callers operating on different ids; serializing the full
// read-then-append sequence for one id is the caller's responsibility.
type ConversationStore interface {
	// Get returns the turns of a conversation in creation order. An
	// unknown id is not an error: it yields an empty slice and false.
	Get(ctx context.Context, id string) ([]model.Turn, bool, error)

	// Append adds a turn to a conversation, creating it if absent.
	Append(ctx context.Context, id string, turn model.Turn) error

	// Delete removes a conversation. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error
}
