package services

import (
	"context"
	"net/url"
	"time"

	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/thomas-vilte/prsummarizer/internal/ai"
	"github.com/thomas-vilte/prsummarizer/internal/config"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/logger"
	"github.com/thomas-vilte/prsummarizer/internal/providers"
	"github.com/thomas-vilte/prsummarizer/internal/vcs"
)

const defaultGitHubHost = "github.com"

// SummarizeRequest describes one summarization. Token and Options override
// the configuration for this call only.
type SummarizeRequest struct {
	Repo     string
	PRNumber int
	Provider string
	Token    string
	Options  providers.SummarizerOptions
}

type (
	fetcherFactory    func(cfg *config.Config, repository string, token string) (vcs.PRFetcher, error)
	summarizerFactory func(ctx context.Context, cfg *config.Config, provider string, opts providers.SummarizerOptions) (ai.PRSummarizer, error)
	// tokenSource matches auth.TokenForHost: token and the place it came from.
	tokenSource func(host string) (string, string)
)

type PRService struct {
	config        *config.Config
	newFetcher    fetcherFactory
	newSummarizer summarizerFactory
	tokenForHost  tokenSource
}

type PROption func(*PRService)

func WithPRConfig(cfg *config.Config) PROption {
	return func(s *PRService) {
		s.config = cfg
	}
}

func WithFetcherFactory(f fetcherFactory) PROption {
	return func(s *PRService) {
		s.newFetcher = f
	}
}

func WithSummarizerFactory(f summarizerFactory) PROption {
	return func(s *PRService) {
		s.newSummarizer = f
	}
}

// WithTokenSource replaces the GitHub CLI credential lookup.
func WithTokenSource(f tokenSource) PROption {
	return func(s *PRService) {
		s.tokenForHost = f
	}
}

func NewPRService(opts ...PROption) *PRService {
	s := &PRService{
		config:        config.Default(),
		newFetcher:    providers.NewPRFetcher,
		newSummarizer: providers.NewPRSummarizer,
		tokenForHost:  auth.TokenForHost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize validates req, fetches the pull request and renders it with the
// selected provider. The generator is built before the fetch, so bad
// provider settings fail without network traffic.
func (s *PRService) Summarize(ctx context.Context, req SummarizeRequest) (string, error) {
	if _, _, err := vcs.ParseRepository(req.Repo); err != nil {
		return "", err
	}
	if req.PRNumber <= 0 {
		return "", domainErrors.ErrInvalidPRNumber.WithContext("pr_number", req.PRNumber)
	}

	providerName := req.Provider
	if providerName == "" {
		providerName = s.config.DefaultProvider
	}
	provider, ok := config.ParseProvider(providerName)
	if !ok {
		return "", domainErrors.ErrUnknownProvider.WithContext("detail", providerName)
	}

	ctx = logger.With(ctx,
		"repo", req.Repo,
		"pr_number", req.PRNumber,
		"provider", string(provider))
	start := time.Now()

	token, source := s.resolveToken(req.Token)
	if token == "" {
		return "", domainErrors.ErrGitHubTokenMissing.WithContext("repo", req.Repo)
	}
	logger.Debug(ctx, "github token resolved", "source", source)

	summarizer, err := s.newSummarizer(ctx, s.config, string(provider), req.Options)
	if err != nil {
		return "", err
	}

	fetcher, err := s.newFetcher(s.config, req.Repo, token)
	if err != nil {
		return "", err
	}

	logger.Info(ctx, "summarizing PR")

	pr, err := fetcher.GetPR(ctx, req.PRNumber)
	if err != nil {
		logger.Error(ctx, "failed to fetch PR", err)
		return "", err
	}

	summary, err := summarizer.Summarize(ctx, pr)
	if err != nil {
		logger.Error(ctx, "failed to generate summary", err)
		return "", err
	}

	logger.Info(ctx, "PR summarized",
		"files", len(pr.Files),
		"commits", len(pr.Commits),
		"duration", time.Since(start).Round(time.Millisecond))

	return summary, nil
}

// resolveToken picks the explicit token, then GITHUB_TOKEN from config or
// environment, then the credentials stored by the GitHub CLI.
func (s *PRService) resolveToken(explicit string) (string, string) {
	if explicit != "" {
		return explicit, "flag"
	}
	if s.config.GitHub.Token != "" {
		return s.config.GitHub.Token, "GITHUB_TOKEN"
	}
	if s.tokenForHost == nil {
		return "", ""
	}
	return s.tokenForHost(s.githubHost())
}

func (s *PRService) githubHost() string {
	if s.config.GitHub.APIURL == "" {
		return defaultGitHubHost
	}
	u, err := url.Parse(s.config.GitHub.APIURL)
	if err != nil || u.Hostname() == "" {
		return defaultGitHubHost
	}
	if u.Hostname() == "api.github.com" {
		return defaultGitHubHost
	}
	return u.Hostname()
}
