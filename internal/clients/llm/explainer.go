// Package llm wraps the explanation collaborator. The model may answer with
// plain text or with a JSON object; Normalize is the single place that shape
// is resolved, so downstream code only ever sees an Explanation.
package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/quantdesk/advisor/internal/domain"
)

// Explanation is the normalized model output for one asset.
type Explanation struct {
	Text      string
	Catalysts []string
	Risks     []string
}

// Explainer produces a free-text explanation for a scored asset. Calls are
// best-effort: a failed or timed-out call leaves the asset's explanation
// absent but keeps the asset ranked.
type Explainer interface {
	Explain(ctx context.Context, score domain.AssetScore) (*Explanation, error)
}

// rawPayload mirrors the object shapes the model has been observed to emit.
type rawPayload struct {
	Text      string   `json:"text"`
	Logic     string   `json:"logic"`
	Catalysts []string `json:"catalysts"`
	Risks     []string `json:"risks"`
}

// Normalize turns a raw model reply into an Explanation. Accepted shapes:
// a plain string, or a JSON object carrying a "text" or "logic" field plus
// optional "catalysts"/"risks" lists. Anything else degrades to the trimmed
// raw string. Returns nil for an effectively empty reply.
func Normalize(raw string) *Explanation {
	trimmed := strings.TrimSpace(raw)
	trimmed = stripCodeFence(trimmed)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var payload rawPayload
		if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
			text := strings.TrimSpace(payload.Text)
			if text == "" {
				text = strings.TrimSpace(payload.Logic)
			}
			if text == "" && len(payload.Catalysts) == 0 && len(payload.Risks) == 0 {
				return nil
			}
			return &Explanation{
				Text:      text,
				Catalysts: cleanList(payload.Catalysts),
				Risks:     cleanList(payload.Risks),
			}
		}
	}

	return &Explanation{Text: trimmed}
}

// stripCodeFence removes a surrounding markdown code fence if present.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
