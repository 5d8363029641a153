package openai

import (
	"context"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/thomas-vilte/prsummarizer/internal/ai"
	"github.com/thomas-vilte/prsummarizer/internal/ai/pricing"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/logger"
	"github.com/thomas-vilte/prsummarizer/internal/models"
)

var _ ai.PRSummarizer = (*Summarizer)(nil)

const DefaultModel = goopenai.GPT3Dot5Turbo

// Options configures the OpenAI summarizer. BaseURL is only needed for
// compatible gateways; empty means the public API.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Summarizer struct {
	client *goopenai.Client
	model  string
}

func NewSummarizer(opts Options) (*Summarizer, error) {
	if opts.APIKey == "" {
		return nil, domainErrors.ErrOpenAIKeyMissing
	}

	clientCfg := goopenai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		clientCfg.BaseURL = opts.BaseURL
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	return &Summarizer{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

func (s *Summarizer) Summarize(ctx context.Context, pr models.PullRequestSnapshot) (string, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	prompt, err := ai.BuildPRPrompt(pr)
	if err != nil {
		return "", domainErrors.NewAppError(domainErrors.TypeInternal, "failed to build prompt", err)
	}

	log.Info("generating PR summary via openai",
		"model", s.model,
		"prompt_length", len(prompt))

	resp, err := s.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: s.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: ai.SystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: ai.Temperature,
	})
	if err != nil {
		log.Error("openai API call failed",
			"error", err,
			"model", s.model)
		return "", domainErrors.ErrOpenAIGeneration.
			WithContext("model", s.model).
			WithError(err)
	}

	if len(resp.Choices) == 0 {
		return "", domainErrors.ErrEmptyGeneration.WithContext("provider", "openai")
	}

	usage := models.TokenUsage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
		Model:        s.model,
		DurationMs:   time.Since(start).Milliseconds(),
	}
	log.Info("PR summary generated successfully via openai", pricing.LogAttrs("openai", usage)...)

	return resp.Choices[0].Message.Content, nil
}
