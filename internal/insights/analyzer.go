// internal/insights/analyzer.go
package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/alkhair/demand-analytics/internal/config"
)

// DisabledAnswer is returned for every question when no API key is
// configured, so the dashboard degrades instead of erroring.
const DisabledAnswer = "AI insights are not configured. Set GEMINI_API_KEY to enable analysis."

// Analyzer answers analytical questions about the forecast data through
// the Gemini API. A zero-key configuration yields a disabled analyzer
// that still serves responses.
type Analyzer struct {
	client *genai.Client
	model  string
}

func NewAnalyzer(ctx context.Context, cfg config.InsightsConfig) (*Analyzer, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set, AI insights disabled")
		return &Analyzer{}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Analyzer{client: client, model: cfg.Model}, nil
}

func (a *Analyzer) Enabled() bool {
	return a.client != nil
}

func (a *Analyzer) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

// Generate sends one prompt under the analyst system instruction and
// returns the concatenated text parts of the first candidate.
func (a *Analyzer) Generate(ctx context.Context, prompt string) (string, error) {
	if !a.Enabled() {
		return DisabledAnswer, nil
	}

	model := a.client.GenerativeModel(a.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate insight: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty model response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return sb.String(), nil
}
