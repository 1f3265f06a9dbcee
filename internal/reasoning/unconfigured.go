package reasoning

import (
	"context"
	"errors"

	"github.com/carebridge-ai/hospital-chatbot/internal/model"
)

// UnconfiguredGateway rejects every invocation. It is wired when no LLM
// provider credentials are configured, so delegated questions degrade to
// the orchestrator's fallback reply instead of crashing startup.
type UnconfiguredGateway struct{}

// Invoke always fails.
func (UnconfiguredGateway) Invoke(ctx context.Context, question string, history []model.Turn) (*Result, error) {
	return nil, errors.New("reasoning pipeline is not configured")
}
