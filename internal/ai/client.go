package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const systemMessage = "You are a professional portfolio analyst. Always respond with valid JSON in the exact format requested."

// Completer produces a raw text completion for a prompt. The trading cycle
// consumes this interface so tests can script responses.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client wraps the OpenAI chat completion API.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds an OpenAI-backed Completer for the given model.
func NewClient(apiKey, model string) *Client {
	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
	}
}

// Complete sends the prompt and returns the model's raw text reply. The reply
// is untrusted free-form text; extraction and validation happen downstream.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.7,
		MaxTokens:   2500,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return resp.Choices[0].Message.Content, nil
}
