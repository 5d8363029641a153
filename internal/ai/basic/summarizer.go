// Package basic renders PR summaries from heuristics alone, without any
// network access. Output depends only on the snapshot.
package basic

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/thomas-vilte/prsummarizer/internal/ai"
	"github.com/thomas-vilte/prsummarizer/internal/heuristics"
	"github.com/thomas-vilte/prsummarizer/internal/logger"
	"github.com/thomas-vilte/prsummarizer/internal/models"
)

var _ ai.PRSummarizer = (*Summarizer)(nil)

const (
	maxFileTypes  = 5
	maxMajorFiles = 10
	noExtension   = "no extension"
)

var testingNotes = []string{
	"Review changes in critical files",
	"Test affected functionality",
	"Verify no breaking changes",
	"Check for proper error handling",
}

type Summarizer struct {
	policy heuristics.RiskPolicy
}

// NewSummarizer creates a template summarizer classifying risk with policy.
func NewSummarizer(policy heuristics.RiskPolicy) *Summarizer {
	return &Summarizer{policy: policy}
}

func (s *Summarizer) Summarize(ctx context.Context, pr models.PullRequestSnapshot) (string, error) {
	risk := s.policy.Assess(pr.Files, pr.Title, pr.Body)
	reviewers := heuristics.SuggestReviewers(pr.Files)

	logger.Debug(ctx, "rendering basic PR summary",
		"pr_number", pr.Number,
		"risk", string(risk.Level),
		"reviewers_count", len(reviewers))

	return Render(pr, risk, reviewers), nil
}

// Render builds the Markdown summary from already computed heuristics.
func Render(pr models.PullRequestSnapshot, risk heuristics.Assessment, reviewers []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# PR Summary: %s\n\n", pr.Title)

	b.WriteString("## TL;DR\n")
	fmt.Fprintf(&b, "%s by @%s - %d files changed (+%d/-%d lines)\n\n",
		pr.Title, pr.Author, pr.ChangedFiles, pr.Additions, pr.Deletions)

	b.WriteString("## Files Changed + Purpose\n")
	fmt.Fprintf(&b, "- **Total Files**: %d\n", pr.ChangedFiles)
	fmt.Fprintf(&b, "- **Lines Changed**: +%d additions, -%d deletions\n", pr.Additions, pr.Deletions)
	fmt.Fprintf(&b, "- **File Types**: %s\n\n", formatFileTypes(pr.Files))

	b.WriteString("### Major Files:\n")
	for _, f := range majorFiles(pr.Files) {
		fmt.Fprintf(&b, "- `%s` (%s, +%d/-%d)\n", f.Filename, f.Status, f.Additions, f.Deletions)
	}

	b.WriteString("\n## Risk Level\n")
	fmt.Fprintf(&b, "**%s** - %s\n\n", risk.Level, risk.Reasoning)

	b.WriteString("## Suggested Reviewers\n")
	if len(reviewers) == 0 {
		b.WriteString("- Review based on file ownership\n")
	}
	for _, r := range reviewers {
		fmt.Fprintf(&b, "- @%s\n", r)
	}

	b.WriteString("\n## Key Changes\n")
	fmt.Fprintf(&b, "- %d files modified\n", pr.ChangedFiles)
	fmt.Fprintf(&b, "- %d commits\n", len(pr.Commits))
	fmt.Fprintf(&b, "- Base: `%s` ← Head: `%s`\n", pr.BaseBranch, pr.HeadBranch)
	if len(pr.Labels) > 0 {
		fmt.Fprintf(&b, "- Labels: %s\n", strings.Join(pr.Labels, ", "))
	}

	b.WriteString("\n## Testing Notes\n")
	for _, note := range testingNotes {
		fmt.Fprintf(&b, "- %s\n", note)
	}

	return b.String()
}

type extCount struct {
	ext   string
	count int
}

// formatFileTypes lists the most frequent extensions. Ties keep the order in
// which extensions were first seen.
func formatFileTypes(files []models.FileChange) string {
	counts := make([]extCount, 0)
	index := make(map[string]int)
	for _, f := range files {
		ext := fileExtension(f.Filename)
		if i, ok := index[ext]; ok {
			counts[i].count++
			continue
		}
		index[ext] = len(counts)
		counts = append(counts, extCount{ext: ext, count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	if len(counts) > maxFileTypes {
		counts = counts[:maxFileTypes]
	}

	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s: %d", c.ext, c.count)
	}
	return strings.Join(parts, ", ")
}

// fileExtension returns the final suffix of the base name. Dotfiles such as
// ".gitignore" and names ending in a dot have none.
func fileExtension(name string) string {
	base := path.Base(name)
	ext := path.Ext(base)
	if ext == "" || ext == "." || ext == base {
		return noExtension
	}
	return ext
}

// majorFiles returns the files with the largest churn; ties keep fetch order.
func majorFiles(files []models.FileChange) []models.FileChange {
	sorted := make([]models.FileChange, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Churn() > sorted[j].Churn()
	})
	if len(sorted) > maxMajorFiles {
		sorted = sorted[:maxMajorFiles]
	}
	return sorted
}
