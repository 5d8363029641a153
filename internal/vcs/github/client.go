package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/logger"
	"github.com/thomas-vilte/prsummarizer/internal/models"
	"github.com/thomas-vilte/prsummarizer/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.PRFetcher = (*GitHubClient)(nil)

const perPage = 100

type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
	ListCommits(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.RepositoryCommit, *github.Response, error)
}

type GitHubClient struct {
	prService PullRequestsService
	owner     string
	repo      string
}

// NewGitHubClient creates a client bound to owner/repo. An empty baseURL
// targets api.github.com; any other value is used as the REST root, e.g.
// https://ghe.example.com/api/v3 for GitHub Enterprise.
func NewGitHubClient(owner, repo, token, baseURL string) (*GitHubClient, error) {
	if token == "" {
		return nil, domainErrors.ErrGitHubNoToken.
			WithContext("repo", fmt.Sprintf("%s/%s", owner, repo))
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(context.Background(), ts))

	if baseURL != "" {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return nil, domainErrors.ErrInvalidConfig.
				WithContext("detail", "invalid GitHub API URL: "+baseURL).
				WithError(err)
		}
		client.BaseURL = u
	}

	return NewGitHubClientWithServices(client.PullRequests, owner, repo), nil
}

func NewGitHubClientWithServices(prService PullRequestsService, owner string, repo string) *GitHubClient {
	return &GitHubClient{
		prService: prService,
		owner:     owner,
		repo:      repo,
	}
}

func (ghc *GitHubClient) GetPR(ctx context.Context, prNumber int) (models.PullRequestSnapshot, error) {
	log := logger.FromContext(ctx)

	log.Debug("fetching github pull request",
		"owner", ghc.owner,
		"repo", ghc.repo,
		"pr_number", prNumber)

	pr, resp, err := ghc.prService.Get(ctx, ghc.owner, ghc.repo, prNumber)
	if err != nil {
		log.Error("failed to fetch github PR",
			"error", err,
			"owner", ghc.owner,
			"repo", ghc.repo,
			"pr_number", prNumber)
		return models.PullRequestSnapshot{}, ghc.mapError(resp, err, "get PR", prNumber)
	}

	files, err := ghc.listFiles(ctx, prNumber)
	if err != nil {
		return models.PullRequestSnapshot{}, err
	}

	commits, err := ghc.listCommits(ctx, prNumber)
	if err != nil {
		return models.PullRequestSnapshot{}, err
	}

	labels := make([]string, 0, len(pr.Labels))
	for _, label := range pr.Labels {
		labels = append(labels, label.GetName())
	}

	reviewers := make([]string, 0, len(pr.RequestedReviewers))
	for _, user := range pr.RequestedReviewers {
		reviewers = append(reviewers, user.GetLogin())
	}

	snapshot := models.PullRequestSnapshot{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Body:         pr.GetBody(),
		Author:       pr.GetUser().GetLogin(),
		State:        pr.GetState(),
		CreatedAt:    pr.GetCreatedAt().Time,
		BaseBranch:   pr.GetBase().GetRef(),
		HeadBranch:   pr.GetHead().GetRef(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
		Files:        files,
		Commits:      commits,
		Labels:       labels,
		Reviewers:    reviewers,
	}
	if snapshot.Number == 0 {
		snapshot.Number = prNumber
	}

	log.Debug("github PR fetched successfully",
		"pr_number", prNumber,
		"title", snapshot.Title,
		"files_count", len(files),
		"commits_count", len(commits))

	return snapshot, nil
}

func (ghc *GitHubClient) listFiles(ctx context.Context, prNumber int) ([]models.FileChange, error) {
	var files []models.FileChange
	opts := &github.ListOptions{PerPage: perPage}

	for {
		page, resp, err := ghc.prService.ListFiles(ctx, ghc.owner, ghc.repo, prNumber, opts)
		if err != nil {
			return nil, ghc.mapError(resp, err, "list PR files", prNumber)
		}

		for _, f := range page {
			change := models.FileChange{
				Filename:  f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
			}
			if f.Patch != nil {
				change.Patch = truncate(f.GetPatch(), models.MaxPatchLength)
				change.HasPatch = true
			}
			files = append(files, change)
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return files, nil
}

func (ghc *GitHubClient) listCommits(ctx context.Context, prNumber int) ([]models.CommitInfo, error) {
	var commits []models.CommitInfo
	opts := &github.ListOptions{PerPage: perPage}

	for {
		page, resp, err := ghc.prService.ListCommits(ctx, ghc.owner, ghc.repo, prNumber, opts)
		if err != nil {
			return nil, ghc.mapError(resp, err, "list PR commits", prNumber)
		}

		for _, c := range page {
			commits = append(commits, models.CommitInfo{
				SHA:     truncate(c.GetSHA(), models.ShortSHALength),
				Message: firstLine(c.GetCommit().GetMessage()),
				Author:  c.GetCommit().GetAuthor().GetName(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return commits, nil
}

func (ghc *GitHubClient) mapError(resp *github.Response, err error, operation string, prNumber int) error {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	var ghErr *github.ErrorResponse
	if status == 0 && errors.As(err, &ghErr) && ghErr.Response != nil {
		status = ghErr.Response.StatusCode
	}

	repo := fmt.Sprintf("%s/%s", ghc.owner, ghc.repo)

	// GitHub answers an exhausted quota with 403; the token itself is fine.
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return domainErrors.ErrFetchPR.
			WithContext("operation", operation).
			WithContext("pr_number", prNumber).
			WithContext("repo", repo).
			WithContext("detail", "GitHub API rate limit exceeded").
			WithError(err)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domainErrors.ErrGitHubTokenInvalid.
			WithContext("operation", operation).
			WithContext("repo", repo).
			WithError(err)
	case http.StatusNotFound:
		return domainErrors.ErrPullRequestNotFound.
			WithContext("operation", operation).
			WithContext("pr_number", prNumber).
			WithContext("repo", repo).
			WithContext("detail", fmt.Sprintf("%s#%d", repo, prNumber))
	}

	return domainErrors.ErrFetchPR.
		WithContext("operation", operation).
		WithContext("pr_number", prNumber).
		WithContext("repo", repo).
		WithError(err)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}
