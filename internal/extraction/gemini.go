package extraction

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generator is the boundary to the external text-generation service. One
// call, no internal retries; implementations may fail with network or service
// errors and the orchestrator treats every failure the same way.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DefaultModelName is the Gemini model used for extraction unless configured
// otherwise.
const DefaultModelName = "gemini-2.5-flash"

// GeminiGenerator implements Generator against the Gemini API. It holds a
// shared client so each extraction call does not open a new connection.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator. Credentials come from
// the environment (GEMINI_API_KEY or application default credentials).
func NewGeminiGenerator(ctx context.Context, model string) (*GeminiGenerator, error) {
	if model == "" {
		model = DefaultModelName
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiGenerator: create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends the prompt and returns the model's raw text reply.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GeminiGenerator.Generate: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("GeminiGenerator.Generate: empty response from model")
	}
	return text, nil
}
