package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/thomas-vilte/prsummarizer/internal/ai"
	"github.com/thomas-vilte/prsummarizer/internal/ai/pricing"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/logger"
	"github.com/thomas-vilte/prsummarizer/internal/models"
	"google.golang.org/genai"
)

var _ ai.PRSummarizer = (*Summarizer)(nil)

const DefaultModel = "gemini-2.5-flash"

type Options struct {
	APIKey string
	Model  string
}

type generateFunc func(ctx context.Context, model string, prompt string) (*genai.GenerateContentResponse, error)

type Summarizer struct {
	client     *genai.Client
	model      string
	generateFn generateFunc
}

func NewSummarizer(ctx context.Context, opts Options) (*Summarizer, error) {
	if opts.APIKey == "" {
		return nil, domainErrors.ErrGeminiKeyMissing
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, "error creating Gemini client", err)
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	s := &Summarizer{
		client: client,
		model:  model,
	}
	s.generateFn = s.defaultGenerate
	return s, nil
}

func (s *Summarizer) defaultGenerate(ctx context.Context, model string, prompt string) (*genai.GenerateContentResponse, error) {
	return s.client.Models.GenerateContent(ctx, model, genai.Text(prompt), generateConfig())
}

func (s *Summarizer) Summarize(ctx context.Context, pr models.PullRequestSnapshot) (string, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	prompt, err := ai.BuildPRPrompt(pr)
	if err != nil {
		return "", domainErrors.NewAppError(domainErrors.TypeInternal, "failed to build prompt", err)
	}

	log.Info("generating PR summary via gemini",
		"model", s.model,
		"prompt_length", len(prompt))

	resp, err := s.generateFn(ctx, s.model, prompt)
	if err != nil {
		log.Error("gemini API call failed",
			"error", err,
			"model", s.model)
		return "", domainErrors.ErrGeminiGeneration.
			WithContext("model", s.model).
			WithError(err)
	}

	text := formatResponse(resp)
	if text == "" {
		return "", domainErrors.ErrEmptyGeneration.WithContext("provider", "gemini")
	}

	if usage := extractUsage(resp); usage != nil {
		usage.Model = s.model
		usage.DurationMs = time.Since(start).Milliseconds()
		log.Info("PR summary generated successfully via gemini", pricing.LogAttrs("gemini", *usage)...)
	}

	return text, nil
}

func generateConfig() *genai.GenerateContentConfig {
	temperature := float32(ai.Temperature)
	return &genai.GenerateContentConfig{
		Temperature: &temperature,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: ai.SystemPrompt}},
		},
	}
}

// formatResponse concatenates the text parts of every candidate, skipping
// thinking parts.
func formatResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func extractUsage(resp *genai.GenerateContentResponse) *models.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	return &models.TokenUsage{
		InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
	}
}
