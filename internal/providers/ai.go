package providers

import (
	"context"

	"github.com/thomas-vilte/prsummarizer/internal/ai"
	"github.com/thomas-vilte/prsummarizer/internal/ai/basic"
	"github.com/thomas-vilte/prsummarizer/internal/ai/gemini"
	"github.com/thomas-vilte/prsummarizer/internal/ai/ollama"
	"github.com/thomas-vilte/prsummarizer/internal/ai/openai"
	"github.com/thomas-vilte/prsummarizer/internal/config"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
)

// SummarizerOptions carries per-call overrides. Empty fields fall back to
// the configuration.
type SummarizerOptions struct {
	OpenAIKey   string
	OpenAIModel string
	OllamaURL   string
	OllamaModel string
	GeminiKey   string
	GeminiModel string
}

// NewPRSummarizer creates the summary generator registered under provider.
// The empty name selects the template generator.
func NewPRSummarizer(ctx context.Context, cfg *config.Config, provider string, opts SummarizerOptions) (ai.PRSummarizer, error) {
	p, ok := config.ParseProvider(provider)
	if !ok {
		return nil, domainErrors.ErrUnknownProvider.WithContext("detail", provider)
	}

	switch p {
	case config.ProviderOpenAI:
		s, err := openai.NewSummarizer(openai.Options{
			APIKey:  firstNonEmpty(opts.OpenAIKey, cfg.OpenAI.APIKey),
			Model:   firstNonEmpty(opts.OpenAIModel, cfg.OpenAI.Model),
			BaseURL: cfg.OpenAI.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.ProviderOllama:
		return ollama.NewSummarizer(ollama.Options{
			BaseURL: firstNonEmpty(opts.OllamaURL, cfg.Ollama.BaseURL),
			Model:   firstNonEmpty(opts.OllamaModel, cfg.Ollama.Model),
			Timeout: cfg.OllamaTimeout(),
		}), nil
	case config.ProviderGemini:
		s, err := gemini.NewSummarizer(ctx, gemini.Options{
			APIKey: firstNonEmpty(opts.GeminiKey, cfg.Gemini.APIKey),
			Model:  firstNonEmpty(opts.GeminiModel, cfg.Gemini.Model),
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return basic.NewSummarizer(cfg.RiskPolicy()), nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
