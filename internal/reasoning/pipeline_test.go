package reasoning

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge-ai/hospital-chatbot/internal/llm"
	"github.com/carebridge-ai/hospital-chatbot/internal/model"
	"github.com/carebridge-ai/hospital-chatbot/pkg/logger"
)

// fakeLLM captures the request and returns a canned completion.
type fakeLLM struct {
	gotReq *llm.CompletionRequest
	reply  string
	err    error
}

func (f *fakeLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.reply, Model: "fake"}, nil
}

func (f *fakeLLM) Name() string { return "fake" }

func TestPipelineGateway_Invoke(t *testing.T) {
	client := &fakeLLM{reply: "The pharmacy closes at 10pm."}
	retriever := NewRetriever(testDocs)
	gw := NewPipelineGateway(client, retriever, "", 5*time.Second, logger.NewNop())

	result, err := gw.Invoke(context.Background(), "when does the pharmacy close", nil)
	require.NoError(t, err)

	assert.Equal(t, "The pharmacy closes at 10pm.", result.Generation)
	require.NotEmpty(t, result.Documents)
	assert.Equal(t, "pharmacy-services", result.Documents[0].Source)
	assert.LessOrEqual(t, len(result.Documents), model.MaxSources)

	// Prompt carries the retrieved context and the question.
	require.NotNil(t, client.gotReq)
	last := client.gotReq.Messages[len(client.gotReq.Messages)-1]
	assert.Contains(t, last.Content, "pharmacy-services")
	assert.Contains(t, last.Content, "when does the pharmacy close")
}

func TestPipelineGateway_TrimsHistory(t *testing.T) {
	client := &fakeLLM{reply: "ok"}
	gw := NewPipelineGateway(client, NewRetriever(nil), "", 5*time.Second, logger.NewNop())

	var history []model.Turn
	for i := 0; i < 30; i++ {
		history = append(history, model.Turn{
			Role:    model.RoleUser,
			Content: fmt.Sprintf("turn-%d", i),
		})
	}

	_, err := gw.Invoke(context.Background(), "question", history)
	require.NoError(t, err)

	// system prompt + trimmed window + current question
	assert.Len(t, client.gotReq.Messages, 1+historyWindow+1)
	assert.Equal(t, "turn-20", client.gotReq.Messages[1].Content)
}

func TestPipelineGateway_PropagatesError(t *testing.T) {
	client := &fakeLLM{err: context.DeadlineExceeded}
	gw := NewPipelineGateway(client, NewRetriever(nil), "", 5*time.Second, logger.NewNop())

	_, err := gw.Invoke(context.Background(), "question", nil)
	assert.Error(t, err)
}
