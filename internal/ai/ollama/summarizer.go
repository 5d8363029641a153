package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/thomas-vilte/prsummarizer/internal/ai"
	"github.com/thomas-vilte/prsummarizer/internal/ai/pricing"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/httpclient"
	"github.com/thomas-vilte/prsummarizer/internal/logger"
	"github.com/thomas-vilte/prsummarizer/internal/models"
)

var _ ai.PRSummarizer = (*Summarizer)(nil)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama2"
	DefaultTimeout = 120 * time.Second

	// maxErrorBody bounds how much of an error response is quoted back.
	maxErrorBody = 512
)

type Options struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Summarizer struct {
	baseURL    string
	model      string
	httpClient httpclient.HTTPClient
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// NewSummarizer creates a summarizer for a local Ollama server. Empty options
// fall back to the defaults.
func NewSummarizer(opts Options) *Summarizer {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewSummarizerWithClient(opts, httpclient.NewDefaultHTTPClient(timeout))
}

func NewSummarizerWithClient(opts Options, client httpclient.HTTPClient) *Summarizer {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, pr models.PullRequestSnapshot) (string, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	prompt, err := ai.BuildPRPrompt(pr)
	if err != nil {
		return "", domainErrors.NewAppError(domainErrors.TypeInternal, "failed to build prompt", err)
	}

	payload, err := json.Marshal(generateRequest{
		Model:  s.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", domainErrors.NewAppError(domainErrors.TypeInternal, "failed to encode request", err)
	}

	url := s.baseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", s.generationError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Info("generating PR summary via ollama",
		"url", url,
		"model", s.model,
		"prompt_length", len(prompt))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error("ollama request failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return "", s.generationError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", s.generationError(fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", s.generationError(fmt.Errorf("failed to decode response: %w", err))
	}

	usage := models.TokenUsage{
		InputTokens:  result.PromptEvalCount,
		OutputTokens: result.EvalCount,
		TotalTokens:  result.PromptEvalCount + result.EvalCount,
		Model:        s.model,
		DurationMs:   time.Since(start).Milliseconds(),
	}
	log.Info("PR summary generated successfully via ollama", pricing.LogAttrs("ollama", usage)...)

	return result.Response, nil
}

func (s *Summarizer) generationError(err error) error {
	return domainErrors.ErrOllamaGeneration.
		WithContext("base_url", s.baseURL).
		WithContext("model", s.model).
		WithError(err)
}
