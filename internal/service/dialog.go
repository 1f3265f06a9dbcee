// Package service provides the dialog orchestration logic.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carebridge-ai/hospital-chatbot/internal/faq"
	"github.com/carebridge-ai/hospital-chatbot/internal/model"
	"github.com/carebridge-ai/hospital-chatbot/internal/reasoning"
	"github.com/carebridge-ai/hospital-chatbot/internal/store"
	"github.com/carebridge-ai/hospital-chatbot/pkg/logger"
	"github.com/carebridge-ai/hospital-chatbot/pkg/metrics"
)

// FallbackReply is substituted when the reasoning pipeline fails or yields
// no generation.
const FallbackReply = "I apologize, but I'm having trouble processing your request right now. Please try again."

// StatusProcessing is the status event content sent before delegation.
const StatusProcessing = "Processing your request..."

// recentWindow is how many trailing turns the follow-up heuristic sees.
const recentWindow = 5

// ErrConversationNotFound is returned when a conversation id is unknown.
var ErrConversationNotFound = errors.New("conversation not found")

// DialogService routes each incoming message through the resolution tiers,
// records the turn pair, and hands the result to the deliverer.
type DialogService struct {
	store     store.ConversationStore
	corpus    faq.Corpus
	gateway   reasoning.Gateway
	deliverer *Deliverer
	logger    *logger.Logger
	locks     keyedMutex
}

// NewDialogService creates a dialog service.
func NewDialogService(
	st store.ConversationStore,
	corpus faq.Corpus,
	gateway reasoning.Gateway,
	deliverer *Deliverer,
	log *logger.Logger,
) *DialogService {
	return &DialogService{
		store:     st,
		corpus:    corpus,
		gateway:   gateway,
		deliverer: deliverer,
		logger:    log,
	}
}

// Chat handles a single-shot message. An upstream failure never surfaces
// to the caller: the recorded assistant turn and the response both carry
// the fallback reply.
func (s *DialogService) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	id := s.conversationID(req.ConversationID)

	unlock := s.locks.lock(id)
	defer unlock()

	res, delegationErr := s.resolve(ctx, id, req.Message, nil)
	if res == nil {
		// Store failure before a turn pair could be recorded.
		return nil, delegationErr
	}
	if delegationErr != nil {
		s.logger.WithConversation(id).Warn("delegation failed, serving fallback", zap.Error(delegationErr))
	}

	return s.deliverer.Single(id, *res), nil
}

// ChatStream handles a streamed message. Exactly one terminal event is
// emitted: end on success, error on failure.
func (s *DialogService) ChatStream(ctx context.Context, req *model.ChatStreamRequest, sink EventSink) error {
	id := s.conversationID(req.ConversationID)

	unlock := s.locks.lock(id)
	defer unlock()

	beforeDelegate := func() error {
		return sink.Send(model.StatusEvent(StatusProcessing))
	}

	res, delegationErr := s.resolve(ctx, id, req.Message, beforeDelegate)
	if res == nil {
		return sink.Send(model.ErrorEvent(fmt.Sprintf("Error processing request: %v", delegationErr)))
	}
	if delegationErr != nil {
		s.logger.WithConversation(id).Warn("delegation failed", zap.Error(delegationErr))
		return sink.Send(model.ErrorEvent(fmt.Sprintf("Error processing request: %v", delegationErr)))
	}

	return s.deliverer.Stream(ctx, sink, id, *res)
}

// History returns the recorded turns of a conversation.
func (s *DialogService) History(ctx context.Context, id string) (*model.ConversationResponse, error) {
	turns, found, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}
	if !found {
		return nil, ErrConversationNotFound
	}

	return &model.ConversationResponse{
		ConversationID: id,
		Messages:       turns,
		MessageCount:   len(turns),
	}, nil
}

// Clear removes a conversation. Unknown ids succeed.
func (s *DialogService) Clear(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// resolve runs the tiered resolution under the caller-held conversation
// lock and records the user/assistant turn pair. The first tier returning
// an answer wins; later tiers are skipped. beforeDelegate, when non-nil,
// runs just before the gateway call (the streamed path sends its status
// event there).
//
// A nil resolution means the store failed before anything was recorded.
// A non-nil resolution with a non-nil error means delegation failed: the
// user turn is paired with a best-effort fallback assistant turn so no
// unanswered user turn is left behind.
func (s *DialogService) resolve(ctx context.Context, id, message string, beforeDelegate func() error) (*model.Resolution, error) {
	history, _, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	userTurn := model.UserTurn(message)
	if err := s.store.Append(ctx, id, userTurn); err != nil {
		return nil, fmt.Errorf("failed to record user turn: %w", err)
	}
	metrics.TurnsTotal.WithLabelValues(string(model.RoleUser)).Inc()

	res := model.Resolution{Tier: model.TierDelegated}
	var delegationErr error

	if answer, ok := faq.ResolveExact(message, s.corpus); ok {
		res = model.Resolution{Tier: model.TierFAQExact, Response: answer}
	} else if answer, ok := s.resolveFollowUp(message, append(history, userTurn)); ok {
		res = model.Resolution{Tier: model.TierFAQFollowUp, Response: answer}
	} else {
		if beforeDelegate != nil {
			if err := beforeDelegate(); err != nil {
				delegationErr = err
			}
		}
		if delegationErr == nil {
			res, delegationErr = s.delegate(ctx, message, history)
		}
		if delegationErr != nil {
			res = model.Resolution{Tier: model.TierDelegated, Response: FallbackReply}
		}
	}

	assistant := model.AssistantTurn(res.Response, res.IsFAQ(), res.Sources)
	if err := s.store.Append(ctx, id, assistant); err != nil {
		return nil, fmt.Errorf("failed to record assistant turn: %w", err)
	}
	metrics.TurnsTotal.WithLabelValues(string(model.RoleAssistant)).Inc()
	metrics.RecordResolution(string(res.Tier))

	return &res, delegationErr
}

// resolveFollowUp applies the follow-up heuristic over the trailing window
// of the conversation, current user turn included.
func (s *DialogService) resolveFollowUp(message string, recent []model.Turn) (string, bool) {
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	return faq.ResolveFollowUp(message, recent, s.corpus)
}

// delegate invokes the reasoning gateway with the history that excludes
// the current user turn, caps sources, and substitutes the fallback reply
// for an empty generation.
func (s *DialogService) delegate(ctx context.Context, message string, history []model.Turn) (model.Resolution, error) {
	result, err := s.gateway.Invoke(ctx, message, history)
	if err != nil {
		return model.Resolution{}, err
	}

	response := result.Generation
	if response == "" {
		response = FallbackReply
	}

	var sources []string
	for _, doc := range result.Documents {
		sources = append(sources, doc.Source)
		if len(sources) == model.MaxSources {
			break
		}
	}

	return model.Resolution{
		Tier:     model.TierDelegated,
		Response: response,
		Sources:  sources,
	}, nil
}

// conversationID returns the caller-supplied id or mints a fresh one.
// UUIDv7 ids stay time-ordered and collision-resistant under concurrent
// creation.
func (s *DialogService) conversationID(supplied string) string {
	if supplied != "" {
		return supplied
	}
	return "conv_" + uuid.Must(uuid.NewV7()).String()
}
