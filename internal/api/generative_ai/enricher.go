// Package generativeai optionally rewrites template-rendered activity
// descriptions with a Gemini model. Generation never depends on it; when the
// feature is disabled or the API errors, the template text stands.
package generativeai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"google.golang.org/genai"
)

// Enricher rewrites a rendered activity description. Implementations must be
// safe for concurrent use.
type Enricher interface {
	EnrichDescription(ctx context.Context, loc types.Location, rendered string) (string, error)
}

var _ Enricher = (*GeminiEnricher)(nil)

type GeminiEnricher struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// NewGeminiEnricher builds the enricher, or returns an error when the API key
// is missing. Callers treat a nil Enricher as "feature off".
func NewGeminiEnricher(ctx context.Context, model string, logger *slog.Logger) (*GeminiEnricher, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiEnricher{
		logger: logger,
		client: client,
		model:  model,
	}, nil
}

func (e *GeminiEnricher) EnrichDescription(ctx context.Context, loc types.Location, rendered string) (string, error) {
	prompt := fmt.Sprintf(
		"Rewrite this travel activity description in one engaging sentence. "+
			"Place: %s (%s, %s). Draft: %q. Reply with the sentence only.",
		loc.Name, loc.Category, loc.City, rendered)

	result, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("model returned an empty description")
	}
	return text, nil
}
