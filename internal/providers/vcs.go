package providers

import (
	"github.com/thomas-vilte/prsummarizer/internal/config"
	"github.com/thomas-vilte/prsummarizer/internal/vcs"
	"github.com/thomas-vilte/prsummarizer/internal/vcs/github"
)

// NewPRFetcher creates a fetcher for an "owner/repo" identifier.
func NewPRFetcher(cfg *config.Config, repository string, token string) (vcs.PRFetcher, error) {
	owner, repo, err := vcs.ParseRepository(repository)
	if err != nil {
		return nil, err
	}

	client, err := github.NewGitHubClient(owner, repo, token, cfg.GitHub.APIURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}
