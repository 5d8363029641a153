package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/models"
)

func newTestClient(pr *MockPRService) *GitHubClient {
	return NewGitHubClientWithServices(pr, "test-owner", "test-repo")
}

func statusResponse(code int) *github.Response {
	return &github.Response{Response: &http.Response{StatusCode: code}}
}

func TestNewGitHubClient(t *testing.T) {
	t.Run("should fail without token before any request", func(t *testing.T) {
		client, err := NewGitHubClient("owner", "repo", "", "")

		assert.Nil(t, client)
		require.Error(t, err)
		assert.True(t, domainErrors.IsType(err, domainErrors.TypeAuthentication))
	})

	t.Run("should reject an unparsable base URL", func(t *testing.T) {
		_, err := NewGitHubClient("owner", "repo", "token", "://bad")

		require.Error(t, err)
		assert.True(t, domainErrors.IsType(err, domainErrors.TypeConfiguration))
	})
}

func TestGitHubClient_GetPR(t *testing.T) {
	t.Run("should return PR data correctly", func(t *testing.T) {
		mockPR := &MockPRService{}
		client := newTestClient(mockPR)

		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		longPatch := strings.Repeat("a", 600)

		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 42).
			Return(&github.PullRequest{
				Number:       github.Ptr(42),
				Title:        github.Ptr("Fix login auth bug"),
				User:         &github.User{Login: github.Ptr("octocat")},
				State:        github.Ptr("open"),
				CreatedAt:    &github.Timestamp{Time: created},
				Base:         &github.PullRequestBranch{Ref: github.Ptr("main")},
				Head:         &github.PullRequestBranch{Ref: github.Ptr("fix/login")},
				Additions:    github.Ptr(30),
				Deletions:    github.Ptr(4),
				ChangedFiles: github.Ptr(2),
				Labels:       []*github.Label{{Name: github.Ptr("bug")}},
				RequestedReviewers: []*github.User{
					{Login: github.Ptr("alice")},
				},
			}, &github.Response{}, nil)

		mockPR.On("ListFiles", mock.Anything, "test-owner", "test-repo", 42, mock.Anything).
			Return([]*github.CommitFile{
				{Filename: github.Ptr("auth/login.py"), Status: github.Ptr("modified"), Additions: github.Ptr(20), Deletions: github.Ptr(4), Patch: github.Ptr(longPatch)},
				{Filename: github.Ptr("logo.png"), Status: github.Ptr("added"), Additions: github.Ptr(0), Deletions: github.Ptr(0)},
			}, &github.Response{}, nil)

		mockPR.On("ListCommits", mock.Anything, "test-owner", "test-repo", 42, mock.Anything).
			Return([]*github.RepositoryCommit{
				{
					SHA: github.Ptr("abcdef1234567890"),
					Commit: &github.Commit{
						Message: github.Ptr("Fix auth\n\nLonger description"),
						Author:  &github.CommitAuthor{Name: github.Ptr("Octo Cat")},
					},
				},
			}, &github.Response{}, nil)

		pr, err := client.GetPR(context.Background(), 42)

		require.NoError(t, err)
		assert.Equal(t, 42, pr.Number)
		assert.Equal(t, "Fix login auth bug", pr.Title)
		assert.Equal(t, "", pr.Body)
		assert.Equal(t, "octocat", pr.Author)
		assert.Equal(t, "open", pr.State)
		assert.Equal(t, created, pr.CreatedAt)
		assert.Equal(t, "main", pr.BaseBranch)
		assert.Equal(t, "fix/login", pr.HeadBranch)
		assert.Equal(t, 30, pr.Additions)
		assert.Equal(t, 4, pr.Deletions)
		assert.Equal(t, 2, pr.ChangedFiles)
		assert.Equal(t, []string{"bug"}, pr.Labels)
		assert.Equal(t, []string{"alice"}, pr.Reviewers)

		require.Len(t, pr.Files, 2)
		assert.Len(t, pr.Files[0].Patch, models.MaxPatchLength)
		assert.True(t, pr.Files[0].HasPatch)
		assert.False(t, pr.Files[1].HasPatch)
		assert.Equal(t, "", pr.Files[1].Patch)

		require.Len(t, pr.Commits, 1)
		assert.Equal(t, models.CommitInfo{SHA: "abcdef1", Message: "Fix auth", Author: "Octo Cat"}, pr.Commits[0])
		mockPR.AssertExpectations(t)
	})

	t.Run("should follow pagination for files and commits", func(t *testing.T) {
		mockPR := &MockPRService{}
		client := newTestClient(mockPR)

		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 7).
			Return(&github.PullRequest{Number: github.Ptr(7)}, &github.Response{}, nil)

		mockPR.On("ListFiles", mock.Anything, "test-owner", "test-repo", 7, mock.MatchedBy(func(opts *github.ListOptions) bool {
			return opts.PerPage == 100 && opts.Page == 0
		})).Return([]*github.CommitFile{{Filename: github.Ptr("a.go")}}, &github.Response{NextPage: 2}, nil).Once()
		mockPR.On("ListFiles", mock.Anything, "test-owner", "test-repo", 7, mock.MatchedBy(func(opts *github.ListOptions) bool {
			return opts.Page == 2
		})).Return([]*github.CommitFile{{Filename: github.Ptr("b.go")}}, &github.Response{}, nil).Once()

		mockPR.On("ListCommits", mock.Anything, "test-owner", "test-repo", 7, mock.Anything).
			Return([]*github.RepositoryCommit{{SHA: github.Ptr("123")}}, &github.Response{}, nil)

		pr, err := client.GetPR(context.Background(), 7)

		require.NoError(t, err)
		require.Len(t, pr.Files, 2)
		assert.Equal(t, "a.go", pr.Files[0].Filename)
		assert.Equal(t, "b.go", pr.Files[1].Filename)
		assert.Equal(t, "123", pr.Commits[0].SHA)
		mockPR.AssertExpectations(t)
	})
}

func TestGitHubClient_GetPR_ErrorCases(t *testing.T) {
	tests := []struct {
		name     string
		resp     *github.Response
		expected domainErrors.ErrorType
	}{
		{"unauthorized", statusResponse(http.StatusUnauthorized), domainErrors.TypeAuthentication},
		{"forbidden", statusResponse(http.StatusForbidden), domainErrors.TypeAuthentication},
		{"not found", statusResponse(http.StatusNotFound), domainErrors.TypeNotFound},
		{"server error", statusResponse(http.StatusBadGateway), domainErrors.TypeVCS},
		{"transport error", nil, domainErrors.TypeVCS},
	}

	t.Run("should map a secondary rate limit to a VCS error", func(t *testing.T) {
		mockPR := &MockPRService{}
		client := newTestClient(mockPR)

		httpResp := &http.Response{
			StatusCode: http.StatusForbidden,
			Request:    httptest.NewRequest(http.MethodGet, "/repos/test-owner/test-repo/pulls/1", nil),
		}
		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 1).
			Return((*github.PullRequest)(nil), &github.Response{Response: httpResp},
				&github.AbuseRateLimitError{Response: httpResp, Message: "secondary rate limit"})

		_, err := client.GetPR(context.Background(), 1)

		require.Error(t, err)
		assert.Equal(t, domainErrors.TypeVCS, domainErrors.TypeOf(err))
	})

	for _, tt := range tests {
		t.Run("should map "+tt.name+" when Get fails", func(t *testing.T) {
			mockPR := &MockPRService{}
			client := newTestClient(mockPR)

			mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 1).
				Return((*github.PullRequest)(nil), tt.resp, errors.New("boom"))

			_, err := client.GetPR(context.Background(), 1)

			require.Error(t, err)
			assert.Equal(t, tt.expected, domainErrors.TypeOf(err))
			mockPR.AssertNotCalled(t, "ListFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("should return error if ListCommits fails", func(t *testing.T) {
		mockPR := &MockPRService{}
		client := newTestClient(mockPR)

		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 1).
			Return(&github.PullRequest{}, &github.Response{}, nil)
		mockPR.On("ListFiles", mock.Anything, "test-owner", "test-repo", 1, mock.Anything).
			Return([]*github.CommitFile{}, &github.Response{}, nil)
		mockPR.On("ListCommits", mock.Anything, "test-owner", "test-repo", 1, mock.Anything).
			Return([]*github.RepositoryCommit(nil), statusResponse(http.StatusInternalServerError), errors.New("upstream"))

		_, err := client.GetPR(context.Background(), 1)

		require.Error(t, err)
		assert.True(t, domainErrors.IsType(err, domainErrors.TypeVCS))
		assert.Contains(t, err.Error(), "upstream")
	})
}

func TestGitHubClient_GetPR_OverHTTP(t *testing.T) {
	t.Run("should send the token and page through the REST API", func(t *testing.T) {
		var server *httptest.Server
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/o/r/pulls/5", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			_, _ = fmt.Fprint(w, `{"number":5,"title":"Update docs","body":null,"user":{"login":"octocat"},"state":"open"}`)
		})
		mux.HandleFunc("/repos/o/r/pulls/5/files", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			if r.URL.Query().Get("page") == "2" {
				_, _ = fmt.Fprint(w, `[{"filename":"docs/intro.md","status":"added","additions":3,"deletions":0}]`)
				return
			}
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/o/r/pulls/5/files?per_page=100&page=2>; rel="next"`, server.URL))
			_, _ = fmt.Fprint(w, `[{"filename":"README.md","status":"modified","additions":1,"deletions":1,"patch":"@@ -1 +1 @@"}]`)
		})
		mux.HandleFunc("/repos/o/r/pulls/5/commits", func(w http.ResponseWriter, r *http.Request) {
			_, _ = fmt.Fprint(w, `[{"sha":"0123456789","commit":{"message":"Update docs","author":{"name":"Octo"}}}]`)
		})
		server = httptest.NewServer(mux)
		defer server.Close()

		client, err := NewGitHubClient("o", "r", "secret", server.URL)
		require.NoError(t, err)

		pr, err := client.GetPR(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, "Update docs", pr.Title)
		assert.Equal(t, "", pr.Body)
		require.Len(t, pr.Files, 2)
		assert.Equal(t, "README.md", pr.Files[0].Filename)
		assert.Equal(t, "@@ -1 +1 @@", pr.Files[0].Patch)
		assert.Equal(t, "docs/intro.md", pr.Files[1].Filename)
		assert.Equal(t, "0123456", pr.Commits[0].SHA)
	})

	t.Run("should map an exhausted rate limit to a VCS error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Limit", "60")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", fmt.Sprint(time.Now().Add(time.Hour).Unix()))
			w.WriteHeader(http.StatusForbidden)
			_, _ = fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
		}))
		defer server.Close()

		client, err := NewGitHubClient("o", "r", "secret", server.URL)
		require.NoError(t, err)

		_, err = client.GetPR(context.Background(), 5)

		require.Error(t, err)
		assert.Equal(t, domainErrors.TypeVCS, domainErrors.TypeOf(err))
		assert.Contains(t, err.Error(), "rate limit")
	})

	t.Run("should map a 404 from the API to not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprint(w, `{"message":"Not Found"}`)
		}))
		defer server.Close()

		client, err := NewGitHubClient("o", "r", "secret", server.URL)
		require.NoError(t, err)

		_, err = client.GetPR(context.Background(), 99)

		require.Error(t, err)
		assert.True(t, domainErrors.IsType(err, domainErrors.TypeNotFound))
		assert.Contains(t, err.Error(), "o/r#99")
	})
}
