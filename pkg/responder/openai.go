package responder

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// OpenAIResponder drafts replies with OpenAI models.
type OpenAIResponder struct {
	client openai.Client
	model  string
}

// NewOpenAIResponder creates an OpenAI-backed responder.
func NewOpenAIResponder(apiKey, model string) (*OpenAIResponder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if model == "" {
		model = "gpt-5.2-instant"
	}

	client := openai.NewClient()
	return &OpenAIResponder{client: client, model: model}, nil
}

// Name returns the responder identifier.
func (r *OpenAIResponder) Name() string {
	return "openai"
}

// Compose sends the draft to OpenAI and returns the reply text.
func (r *OpenAIResponder) Compose(ctx context.Context, draft Draft) (string, error) {
	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(draft)),
		},
		MaxCompletionTokens: openai.Int(1024),
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
