package reasoning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carebridge-ai/hospital-chatbot/internal/llm"
	"github.com/carebridge-ai/hospital-chatbot/internal/model"
	"github.com/carebridge-ai/hospital-chatbot/pkg/logger"
	"github.com/carebridge-ai/hospital-chatbot/pkg/metrics"
)

const systemPrompt = "You are a helpful hospital assistant. Answer the patient's question " +
	"using the provided context where relevant. If the context does not cover the question, " +
	"answer from general knowledge and say so. Keep answers short and practical."

// historyWindow bounds how many prior turns are forwarded to the model.
const historyWindow = 10

// PipelineGateway answers questions with a retrieval step followed by an
// LLM completion. It is the in-process stand-in for an external reasoning
// service and satisfies the same Gateway contract.
type PipelineGateway struct {
	llmClient llm.Client
	retriever *Retriever
	modelName string
	timeout   time.Duration
	logger    *logger.Logger
}

// NewPipelineGateway creates a pipeline gateway.
func NewPipelineGateway(llmClient llm.Client, retriever *Retriever, modelName string, timeout time.Duration, log *logger.Logger) *PipelineGateway {
	return &PipelineGateway{
		llmClient: llmClient,
		retriever: retriever,
		modelName: modelName,
		timeout:   timeout,
		logger:    log,
	}
}

// Invoke retrieves supporting documents, assembles a prompt from them and
// the trimmed history, and asks the configured LLM for a generation.
func (g *PipelineGateway) Invoke(ctx context.Context, question string, history []model.Turn) (*Result, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	documents := g.retriever.Retrieve(question, model.MaxSources)

	messages := []llm.ChatMessage{{Role: "system", Content: systemPrompt}}

	trimmed := history
	if len(trimmed) > historyWindow {
		trimmed = trimmed[len(trimmed)-historyWindow:]
	}
	for _, turn := range trimmed {
		messages = append(messages, llm.ChatMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	messages = append(messages, llm.ChatMessage{
		Role:    "user",
		Content: promptWithContext(question, documents),
	})

	resp, err := g.llmClient.Complete(ctx, &llm.CompletionRequest{
		Model:    g.modelName,
		Messages: messages,
	})
	if err != nil {
		metrics.RecordReasoning("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("reasoning pipeline failed: %w", err)
	}

	metrics.RecordReasoning("success", time.Since(start).Seconds())
	g.logger.Debug("reasoning pipeline completed")

	return &Result{
		Generation: resp.Content,
		Documents:  documents,
	}, nil
}

func promptWithContext(question string, documents []Document) string {
	if len(documents) == 0 {
		return question
	}

	var b strings.Builder
	b.WriteString("Context:\n")
	for _, doc := range documents {
		fmt.Fprintf(&b, "[%s] %s\n", doc.Source, doc.Content)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
