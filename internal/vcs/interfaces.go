package vcs

import (
	"context"
	"strings"

	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/models"
)

// PRFetcher reads pull request data from a version control provider. A
// fetcher is bound to a single repository.
type PRFetcher interface {
	// GetPR returns a snapshot of the pull request with the given number,
	// including every changed file and commit.
	GetPR(ctx context.Context, prNumber int) (models.PullRequestSnapshot, error)
}

// ParseRepository splits an "owner/repo" identifier.
func ParseRepository(full string) (owner string, repo string, err error) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", "", domainErrors.ErrRepoRequired
	}

	parts := strings.Split(full, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", domainErrors.ErrInvalidRepo.WithContext("detail", full)
	}
	return parts[0], parts[1], nil
}
