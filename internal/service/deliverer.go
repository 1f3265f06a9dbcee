package service

import (
	"context"
	"strings"
	"time"

	"github.com/carebridge-ai/hospital-chatbot/internal/model"
)

// EventSink receives stream events in order on one logical channel.
type EventSink interface {
	Send(event any) error
}

// Deliverer renders a resolution either as one synchronous value or as an
// ordered token stream.
type Deliverer struct {
	// tokenDelay paces delegated token emission to simulate incremental
	// generation. Zero disables pacing (tests, non-interactive use).
	tokenDelay time.Duration
}

// NewDeliverer creates a deliverer with the given inter-token delay.
func NewDeliverer(tokenDelay time.Duration) *Deliverer {
	return &Deliverer{tokenDelay: tokenDelay}
}

// Single renders the single-shot response.
func (d *Deliverer) Single(conversationID string, res model.Resolution) *model.ChatResponse {
	return &model.ChatResponse{
		Response:       res.Response,
		ConversationID: conversationID,
		IsFAQ:          res.IsFAQ(),
		Sources:        res.Sources,
	}
}

// Stream emits the resolution as an ordered event sequence terminated by a
// single end event. FAQ answers go out as one token; delegated answers are
// split on whitespace, the first word bare and each subsequent word
// prefixed with a single space so the client can reassemble them verbatim.
// A dead sink or canceled context stops emission without an end event.
func (d *Deliverer) Stream(ctx context.Context, sink EventSink, conversationID string, res model.Resolution) error {
	if res.IsFAQ() {
		if err := sink.Send(model.TokenEvent(res.Response)); err != nil {
			return err
		}
		return sink.Send(model.StreamEnd(conversationID, true, nil))
	}

	words := strings.Fields(res.Response)
	for i, word := range words {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		content := word
		if i > 0 {
			content = " " + word
		}
		if err := sink.Send(model.TokenEvent(content)); err != nil {
			return err
		}

		if d.tokenDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.tokenDelay):
			}
		}
	}

	return sink.Send(model.StreamEnd(conversationID, false, res.Sources))
}
