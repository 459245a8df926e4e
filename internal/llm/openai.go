package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/PratikJH153/OrbitAI/internal/conversation"
)

var log = logrus.WithField("component", "llm")

// replyTemperature keeps the model near-deterministic so the JSON-contract
// compliance rate stays high. The decode ladder tolerates drift regardless.
const replyTemperature = 0.2

// OpenAIClient issues chat-completion requests constrained to a JSON object
// response. It wraps each hosted call with a per-attempt timeout and a
// bounded retry count; exhaustion surfaces as a single error to the caller.
type OpenAIClient struct {
	client  *openai.Client
	apiKey  string
	model   string
	timeout time.Duration
	retries int
}

// NewOpenAIClient builds a client for the hosted chat-completion service.
// baseURL may be empty to use the default endpoint.
func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration, retries int) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(cfg),
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		retries: retries,
	}
}

// Complete sends the message sequence and returns the raw model output.
func (c *OpenAIClient) Complete(ctx context.Context, messages []conversation.Message) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openai api key missing")
	}

	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    oaMsgs,
		Temperature: replyTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			log.Printf("completion retry %d/%d after error: %v", attempt, c.retries, lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateChatCompletion(attemptCtx, req)
		cancel()
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("openai: empty choices")
			continue
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}
	return "", fmt.Errorf("openai completion failed after %d attempts: %w", c.retries+1, lastErr)
}
