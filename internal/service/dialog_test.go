package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge-ai/hospital-chatbot/internal/faq"
	"github.com/carebridge-ai/hospital-chatbot/internal/model"
	"github.com/carebridge-ai/hospital-chatbot/internal/reasoning"
	"github.com/carebridge-ai/hospital-chatbot/internal/store"
	"github.com/carebridge-ai/hospital-chatbot/pkg/logger"
)

var testCorpus = faq.Corpus{
	"What are visiting hours?": "9am-5pm daily.",
}

// mockGateway is a scriptable reasoning gateway.
type mockGateway struct {
	mu         sync.Mutex
	result     *reasoning.Result
	err        error
	gotHistory []model.Turn
	calls      int
}

func (m *mockGateway) Invoke(ctx context.Context, question string, history []model.Turn) (*reasoning.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.gotHistory = append([]model.Turn{}, history...)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// captureSink records stream events in order.
type captureSink struct {
	events []any
}

func (s *captureSink) Send(event any) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(gw reasoning.Gateway) (*DialogService, *store.MemoryStore) {
	st := store.NewMemoryStore()
	svc := NewDialogService(st, testCorpus, gw, NewDeliverer(0), logger.NewNop())
	return svc, st
}

func TestChat_ExactFAQ(t *testing.T) {
	gw := &mockGateway{}
	svc, st := newTestService(gw)

	resp, err := svc.Chat(context.Background(), &model.ChatRequest{Message: "What are visiting hours?"})
	require.NoError(t, err)

	assert.Equal(t, "9am-5pm daily.", resp.Response)
	assert.True(t, resp.IsFAQ)
	assert.Nil(t, resp.Sources)
	assert.True(t, strings.HasPrefix(resp.ConversationID, "conv_"))
	assert.Zero(t, gw.calls, "exact match short-circuits delegation")

	turns, found, err := st.Get(context.Background(), resp.ConversationID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, model.RoleAssistant, turns[1].Role)
	assert.True(t, turns[1].IsFAQ)
}

func TestChat_FollowUpHeuristic(t *testing.T) {
	gw := &mockGateway{}
	svc, _ := newTestService(gw)
	ctx := context.Background()

	first, err := svc.Chat(ctx, &model.ChatRequest{Message: "What are visiting hours?"})
	require.NoError(t, err)

	second, err := svc.Chat(ctx, &model.ChatRequest{
		Message:        "how",
		ConversationID: first.ConversationID,
	})
	require.NoError(t, err)

	assert.Equal(t, faq.FollowUpReply, second.Response)
	assert.True(t, second.IsFAQ)
	assert.Zero(t, gw.calls)
}

func TestChat_Delegated(t *testing.T) {
	gw := &mockGateway{result: &reasoning.Result{
		Generation: "Answer Y",
		Documents: []reasoning.Document{
			{Source: "doc1"},
			{Source: "doc2"},
		},
	}}
	svc, _ := newTestService(gw)

	resp, err := svc.Chat(context.Background(), &model.ChatRequest{Message: "Something unmatched"})
	require.NoError(t, err)

	assert.Equal(t, "Answer Y", resp.Response)
	assert.False(t, resp.IsFAQ)
	assert.Equal(t, []string{"doc1", "doc2"}, resp.Sources)
	assert.Equal(t, 1, gw.calls)
}

func TestChat_DelegatedHistoryExcludesCurrentTurn(t *testing.T) {
	gw := &mockGateway{result: &reasoning.Result{Generation: "first answer"}}
	svc, _ := newTestService(gw)
	ctx := context.Background()

	first, err := svc.Chat(ctx, &model.ChatRequest{Message: "first question"})
	require.NoError(t, err)
	assert.Empty(t, gw.gotHistory, "first delegation sees no prior history")

	_, err = svc.Chat(ctx, &model.ChatRequest{
		Message:        "second question",
		ConversationID: first.ConversationID,
	})
	require.NoError(t, err)

	require.Len(t, gw.gotHistory, 2)
	assert.Equal(t, "first question", gw.gotHistory[0].Content)
	assert.Equal(t, "first answer", gw.gotHistory[1].Content)
}

func TestChat_SourcesCappedAtThree(t *testing.T) {
	gw := &mockGateway{result: &reasoning.Result{
		Generation: "answer",
		Documents: []reasoning.Document{
			{Source: "d1"}, {Source: "d2"}, {Source: "d3"}, {Source: "d4"}, {Source: "d5"},
		},
	}}
	svc, _ := newTestService(gw)

	resp, err := svc.Chat(context.Background(), &model.ChatRequest{Message: "question"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2", "d3"}, resp.Sources)
}

func TestChat_EmptyGenerationSubstitutesFallback(t *testing.T) {
	gw := &mockGateway{result: &reasoning.Result{Generation: ""}}
	svc, _ := newTestService(gw)

	resp, err := svc.Chat(context.Background(), &model.ChatRequest{Message: "question"})
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, resp.Response)
	assert.False(t, resp.IsFAQ)
}

func TestChat_GatewayFailurePairsFallbackTurn(t *testing.T) {
	gw := &mockGateway{err: errors.New("pipeline exploded")}
	svc, st := newTestService(gw)

	resp, err := svc.Chat(context.Background(), &model.ChatRequest{Message: "question"})
	require.NoError(t, err, "upstream failure never surfaces in single-shot mode")
	assert.Equal(t, FallbackReply, resp.Response)

	turns, _, err := st.Get(context.Background(), resp.ConversationID)
	require.NoError(t, err)
	require.Len(t, turns, 2, "user turn is paired with a fallback assistant turn")
	assert.Equal(t, FallbackReply, turns[1].Content)
}

func TestChat_TurnOrderingUnderConcurrency(t *testing.T) {
	gw := &mockGateway{result: &reasoning.Result{Generation: "answer"}}
	svc, st := newTestService(gw)
	ctx := context.Background()

	const requests = 20

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = svc.Chat(ctx, &model.ChatRequest{
					Message:        fmt.Sprintf("question-%d", i),
					ConversationID: "shared",
				})
			} else {
				err = svc.ChatStream(ctx, &model.ChatStreamRequest{
					Message:        fmt.Sprintf("question-%d", i),
					ConversationID: "shared",
				}, &captureSink{})
			}
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	turns, found, err := st.Get(ctx, "shared")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, turns, 2*requests)
	for i, turn := range turns {
		if i%2 == 0 {
			assert.Equal(t, model.RoleUser, turn.Role, "turn %d", i)
		} else {
			assert.Equal(t, model.RoleAssistant, turn.Role, "turn %d", i)
		}
	}
}

func TestChatStream_FAQ(t *testing.T) {
	gw := &mockGateway{}
	svc, _ := newTestService(gw)
	sink := &captureSink{}

	err := svc.ChatStream(context.Background(), &model.ChatStreamRequest{
		Message:        "What are visiting hours?",
		ConversationID: "c1",
	}, sink)
	require.NoError(t, err)

	require.Len(t, sink.events, 2)

	token, ok := sink.events[0].(model.ContentEvent)
	require.True(t, ok)
	assert.Equal(t, model.EventToken, token.Type)
	assert.Equal(t, "9am-5pm daily.", token.Content)

	end, ok := sink.events[1].(model.EndEvent)
	require.True(t, ok)
	assert.Equal(t, model.EventEnd, end.Type)
	assert.Equal(t, "c1", end.ConversationID)
	assert.True(t, end.IsFAQ)
	assert.Nil(t, end.Sources)
}

func TestChatStream_Delegated(t *testing.T) {
	gw := &mockGateway{result: &reasoning.Result{
		Generation: "Answer Y",
		Documents:  []reasoning.Document{{Source: "doc1"}, {Source: "doc2"}},
	}}
	svc, _ := newTestService(gw)
	sink := &captureSink{}

	err := svc.ChatStream(context.Background(), &model.ChatStreamRequest{
		Message:        "Something unmatched",
		ConversationID: "c1",
	}, sink)
	require.NoError(t, err)

	require.Len(t, sink.events, 4)

	status := sink.events[0].(model.ContentEvent)
	assert.Equal(t, model.EventStatus, status.Type)
	assert.Equal(t, StatusProcessing, status.Content)

	first := sink.events[1].(model.ContentEvent)
	assert.Equal(t, model.EventToken, first.Type)
	assert.Equal(t, "Answer", first.Content)

	second := sink.events[2].(model.ContentEvent)
	assert.Equal(t, " Y", second.Content, "subsequent words carry a leading space")

	end := sink.events[3].(model.EndEvent)
	assert.Equal(t, model.EventEnd, end.Type)
	assert.False(t, end.IsFAQ)
	assert.Equal(t, []string{"doc1", "doc2"}, end.Sources)
}

func TestChatStream_GatewayFailureEmitsSingleErrorEvent(t *testing.T) {
	gw := &mockGateway{err: errors.New("pipeline exploded")}
	svc, st := newTestService(gw)
	sink := &captureSink{}

	err := svc.ChatStream(context.Background(), &model.ChatStreamRequest{
		Message:        "question",
		ConversationID: "c1",
	}, sink)
	require.NoError(t, err)

	require.Len(t, sink.events, 2)
	assert.Equal(t, model.EventStatus, sink.events[0].(model.ContentEvent).Type)

	errEvent := sink.events[1].(model.ContentEvent)
	assert.Equal(t, model.EventError, errEvent.Type)
	assert.Contains(t, errEvent.Content, "pipeline exploded")

	// History keeps the pair even though the stream reported an error.
	turns, _, err := st.Get(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, FallbackReply, turns[1].Content)
}

func TestHistory_NotFound(t *testing.T) {
	svc, _ := newTestService(&mockGateway{})

	_, err := svc.History(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestHistory_ReturnsTurnsInOrder(t *testing.T) {
	gw := &mockGateway{}
	svc, _ := newTestService(gw)
	ctx := context.Background()

	resp, err := svc.Chat(ctx, &model.ChatRequest{Message: "What are visiting hours?"})
	require.NoError(t, err)

	hist, err := svc.History(ctx, resp.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, resp.ConversationID, hist.ConversationID)
	assert.Equal(t, 2, hist.MessageCount)
	require.Len(t, hist.Messages, 2)
}

func TestClear_Idempotent(t *testing.T) {
	svc, _ := newTestService(&mockGateway{})
	ctx := context.Background()

	require.NoError(t, svc.Clear(ctx, "never-existed"))

	resp, err := svc.Chat(ctx, &model.ChatRequest{Message: "What are visiting hours?"})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, resp.ConversationID))
	require.NoError(t, svc.Clear(ctx, resp.ConversationID))

	_, err = svc.History(ctx, resp.ConversationID)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestConversationIDsAreUnique(t *testing.T) {
	svc, _ := newTestService(&mockGateway{})
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		resp, err := svc.Chat(ctx, &model.ChatRequest{Message: "What are visiting hours?"})
		require.NoError(t, err)
		assert.False(t, seen[resp.ConversationID])
		seen[resp.ConversationID] = true
	}
}
