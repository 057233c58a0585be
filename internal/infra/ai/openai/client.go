package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/mindvault/curator/internal/domain/ai"
)

const maxTokens = 2048

// Client implementasi domain ai.Completer di atas OpenAI chat completions.
type Client struct {
	*openai.Client
	Model string
}

// NewClient returns nil-safe client; empty apiKey means not configured and
// every Complete call fails with ai.ErrNotConfigured.
func NewClient(apiKey, model string) *Client {
	if apiKey == "" {
		return &Client{Model: model}
	}
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

func (c *Client) Complete(ctx context.Context, prompt string, jsonOnly bool) (domai.Completion, error) {
	if c.Client == nil {
		return domai.Completion{}, domai.ErrNotConfigured
	}

	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonOnly {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
		req.Temperature = 0
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return domai.Completion{}, domai.ErrQuotaExceeded
		}
		return domai.Completion{}, fmt.Errorf("failed to create chat completion: %w", err)
	}

	return domai.Completion{
		Text:       resp.Choices[0].Message.Content,
		Model:      model,
		TokenCount: resp.Usage.TotalTokens,
	}, nil
}
