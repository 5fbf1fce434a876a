package responder

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// AnthropicResponder drafts replies with Claude models.
type AnthropicResponder struct {
	client anthropic.Client
	model  string
}

// NewAnthropicResponder creates an Anthropic-backed responder.
func NewAnthropicResponder(apiKey, model string) (*AnthropicResponder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	client := anthropic.NewClient()
	return &AnthropicResponder{client: client, model: model}, nil
}

// Name returns the responder identifier.
func (r *AnthropicResponder) Name() string {
	return "anthropic"
}

// Compose sends the draft to Claude and returns the reply text.
func (r *AnthropicResponder) Compose(ctx context.Context, draft Draft) (string, error) {
	resp, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(r.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(draft))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" {
		return "", fmt.Errorf("anthropic returned no text")
	}
	return content, nil
}
