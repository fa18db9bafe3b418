// Package llm wraps the completion provider behind a small interface so the
// chat service can be exercised against stubs and failures can be classified
// uniformly.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/rizecleaning/clara/internal/conversation"
)

// Params bounds a single completion call.
type Params struct {
	MaxTokens   int
	Temperature float64
}

// Client produces one completion for an ordered list of chat messages.
type Client interface {
	Complete(ctx context.Context, msgs []conversation.Message, p Params) (string, error)
}

// OpenAIClient calls the OpenAI chat completions API through langchaingo.
type OpenAIClient struct {
	model llms.Model
	name  string
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client for the given model. timeout caps every
// completion call at the HTTP layer, independent of request contexts.
func NewOpenAIClient(apiKey, model string, timeout time.Duration) (*OpenAIClient, error) {
	m, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	return &OpenAIClient{model: m, name: model}, nil
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string { return c.name }

// Complete sends msgs as one non-streaming chat completion and returns the
// assistant text. Every failure comes back as *InferenceError except context
// cancellation.
func (c *OpenAIClient) Complete(ctx context.Context, msgs []conversation.Message, p Params) (string, error) {
	content := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		content = append(content, llms.TextParts(chatRole(m.Role), m.Content))
	}

	resp, err := c.model.GenerateContent(ctx, content,
		llms.WithMaxTokens(p.MaxTokens),
		llms.WithTemperature(p.Temperature),
	)
	if err != nil {
		return "", Classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &InferenceError{Kind: KindBadResponse, Err: errors.New("completion has no choices")}
	}
	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", &InferenceError{Kind: KindBadResponse, Err: errors.New("completion has empty content")}
	}
	return text, nil
}

func chatRole(r conversation.Role) llms.ChatMessageType {
	switch r {
	case conversation.RoleSystem:
		return llms.ChatMessageTypeSystem
	case conversation.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
