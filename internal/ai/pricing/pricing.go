// Package pricing estimates what a hosted generation cost, for usage logs.
package pricing

import (
	"strings"

	"github.com/thomas-vilte/prsummarizer/internal/models"
)

// Rate is the USD price per million tokens.
type Rate struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// https://ai.google.dev/gemini-api/docs/pricing
// https://openai.com/api/pricing
var rates = map[string]map[string]Rate{
	"gemini": {
		"gemini-1.5-flash": {InputPerMillion: 0.075, OutputPerMillion: 0.30},
		"gemini-1.5-pro":   {InputPerMillion: 1.25, OutputPerMillion: 5.00},
		"gemini-2.5-flash": {InputPerMillion: 0.10, OutputPerMillion: 0.40},
		"gemini-2.5-pro":   {InputPerMillion: 1.25, OutputPerMillion: 10.00},
	},
	"openai": {
		"gpt-3.5-turbo": {InputPerMillion: 0.50, OutputPerMillion: 1.50},
		"gpt-4o":        {InputPerMillion: 2.50, OutputPerMillion: 10.00},
		"gpt-4o-mini":   {InputPerMillion: 0.15, OutputPerMillion: 0.60},
		"gpt-4-turbo":   {InputPerMillion: 10.00, OutputPerMillion: 30.00},
	},
}

// Lookup returns the rate for a model. Versioned names such as
// "gpt-4o-mini-2024-07-18" resolve to the longest known prefix.
func Lookup(provider, model string) (Rate, bool) {
	table, ok := rates[strings.ToLower(provider)]
	if !ok {
		return Rate{}, false
	}

	model = strings.ToLower(model)
	if r, ok := table[model]; ok {
		return r, true
	}

	var (
		best    Rate
		bestLen int
	)
	for name, r := range table {
		if strings.HasPrefix(model, name) && len(name) > bestLen {
			best, bestLen = r, len(name)
		}
	}
	return best, bestLen > 0
}

// Estimate returns the USD cost of usage. Unknown models (local Ollama
// ones included) report false.
func Estimate(provider string, usage models.TokenUsage) (float64, bool) {
	r, ok := Lookup(provider, usage.Model)
	if !ok {
		return 0, false
	}
	in := float64(usage.InputTokens) / 1_000_000 * r.InputPerMillion
	out := float64(usage.OutputTokens) / 1_000_000 * r.OutputPerMillion
	return in + out, true
}

// LogAttrs renders usage as slog key/value pairs, adding the estimated cost
// when the model is priced.
func LogAttrs(provider string, usage models.TokenUsage) []any {
	attrs := []any{
		"model", usage.Model,
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"total_tokens", usage.TotalTokens,
		"duration_ms", usage.DurationMs,
	}
	if cost, ok := Estimate(provider, usage); ok {
		attrs = append(attrs, "estimated_cost_usd", cost)
	}
	return attrs
}
