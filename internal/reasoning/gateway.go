// Package reasoning provides the gateway to the reasoning pipeline used
// when both FAQ tiers miss.
package reasoning

import (
	"context"

	"github.com/carebridge-ai/hospital-chatbot/internal/model"
)

// Document is a supporting document returned alongside a generation.
type Document struct {
	Source  string
	Content string
}

// Result is the outcome of a pipeline invocation. Generation may be empty;
// substituting a fallback reply in that case is the caller's job, not the
// gateway's.
type Result struct {
	Generation string
	Documents  []Document
}

// Gateway answers a question given the conversation history up to, but not
// including, the current user turn.
type Gateway interface {
	Invoke(ctx context.Context, question string, history []model.Turn) (*Result, error)
}
