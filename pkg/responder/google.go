package responder

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GoogleResponder drafts replies with Gemini models.
type GoogleResponder struct {
	client *genai.Client
	model  string
}

// NewGoogleResponder creates a Gemini-backed responder.
func NewGoogleResponder(apiKey, model string) (*GoogleResponder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}
	if model == "" {
		model = "gemini-2.0-pro"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &GoogleResponder{client: client, model: model}, nil
}

// Name returns the responder identifier.
func (r *GoogleResponder) Name() string {
	return "google"
}

// Compose sends the draft to Gemini and returns the reply text.
func (r *GoogleResponder) Compose(ctx context.Context, draft Draft) (string, error) {
	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(buildPrompt(draft)), nil)
	if err != nil {
		return "", fmt.Errorf("google API error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("google returned no candidates")
	}

	var content string
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}
	if content == "" {
		return "", fmt.Errorf("google returned no text")
	}
	return content, nil
}
