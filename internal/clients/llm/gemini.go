package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/quantdesk/advisor/internal/domain"
)

const defaultModel = "gemini-2.0-flash"

// GeminiExplainer generates explanations through the Gemini API.
type GeminiExplainer struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// GeminiOption configures the explainer
type GeminiOption func(*GeminiExplainer)

// WithModel sets the model to use
func WithModel(model string) GeminiOption {
	return func(g *GeminiExplainer) {
		if model != "" {
			g.model = model
		}
	}
}

// NewGeminiExplainer creates a new Gemini-backed explainer
func NewGeminiExplainer(ctx context.Context, apiKey string, log zerolog.Logger, opts ...GeminiOption) (*GeminiExplainer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g := &GeminiExplainer{
		client: client,
		model:  defaultModel,
		log:    log.With().Str("client", "gemini").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Explain asks the model for a short rationale for one scored asset.
func (g *GeminiExplainer) Explain(ctx context.Context, score domain.AssetScore) (*Explanation, error) {
	prompt := buildPrompt(score)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.log.Warn().Err(err).Str("code", score.Code).Msg("Explanation call failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrExplanationUnavailable, err)
	}

	raw, err := extractText(result)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExplanationUnavailable, err)
	}

	explanation := Normalize(raw)
	if explanation == nil {
		return nil, domain.ErrExplanationUnavailable
	}
	return explanation, nil
}

// buildPrompt renders the scored factor set into a compact prompt. Factor
// values are listed sorted by name so identical inputs produce identical
// prompts.
func buildPrompt(score domain.AssetScore) string {
	names := make([]string, 0, len(score.Factors))
	for name := range score.Factors {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an investment analyst. Explain in 2-3 sentences why %s (%s) ranks for the %s-term horizon.\n",
		score.Name, score.Code, score.Horizon)
	fmt.Fprintf(&sb, "Composite score: %.1f/100.\nFactors:\n", score.Score)
	for _, name := range names {
		v := score.Factors[name]
		if v == nil {
			fmt.Fprintf(&sb, "- %s: n/a\n", name)
			continue
		}
		fmt.Fprintf(&sb, "- %s: %.4f\n", name, *v)
	}
	sb.WriteString(`Respond as JSON: {"text": "...", "catalysts": ["..."], "risks": ["..."]}`)
	return sb.String()
}

func extractText(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text, nil
}
