package models

import "time"

type (
	// PullRequestSnapshot is the state of one pull request at the moment it
	// was fetched. It is built once per summarization and never mutated.
	PullRequestSnapshot struct {
		Number       int
		Title        string
		Body         string
		Author       string
		State        string
		CreatedAt    time.Time
		BaseBranch   string
		HeadBranch   string
		Additions    int
		Deletions    int
		ChangedFiles int
		Files        []FileChange
		Commits      []CommitInfo
		Labels       []string
		Reviewers    []string
	}

	// FileChange is one entry of the PR file list. Patch holds at most
	// MaxPatchLength characters; HasPatch is false for binary or oversized
	// files where the API returns no patch.
	FileChange struct {
		Filename  string
		Status    string
		Additions int
		Deletions int
		Patch     string
		HasPatch  bool
	}

	// CommitInfo represents a commit included in the PR.
	CommitInfo struct {
		SHA     string
		Message string
		Author  string
	}
)

const (
	// MaxPatchLength bounds each fetched patch. Downstream consumers must not
	// assume they see complete diffs.
	MaxPatchLength = 500
	// ShortSHALength is the length of abbreviated commit hashes.
	ShortSHALength = 7
)

// Churn is the number of changed lines in the file.
func (f FileChange) Churn() int {
	return f.Additions + f.Deletions
}
