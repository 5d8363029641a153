package heuristics

import (
	"strings"

	"github.com/thomas-vilte/prsummarizer/internal/models"
)

// MaxReviewerSuggestions caps the number of suggested teams.
const MaxReviewerSuggestions = 3

// ReviewerRule maps filename substrings to a team label.
type ReviewerRule struct {
	Team     string
	Patterns []string
}

// DefaultReviewerRules are evaluated in order; each contributes its team at
// most once.
var DefaultReviewerRules = []ReviewerRule{
	{Team: "security-team", Patterns: []string{"auth", "security"}},
	{Team: "qa-team", Patterns: []string{"test"}},
	{Team: "frontend-team", Patterns: []string{"frontend", "ui"}},
	{Team: "backend-team", Patterns: []string{"backend", "api"}},
}

// SuggestReviewers returns up to MaxReviewerSuggestions team labels for the
// changed files.
// TODO: read CODEOWNERS and group files by directory once ownership data is fetched.
func SuggestReviewers(files []models.FileChange) []string {
	return suggest(files, DefaultReviewerRules, MaxReviewerSuggestions)
}

func suggest(files []models.FileChange, rules []ReviewerRule, limit int) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = strings.ToLower(f.Filename)
	}

	suggestions := make([]string, 0, limit)
	for _, rule := range rules {
		if anyContains(names, rule.Patterns) {
			suggestions = append(suggestions, rule.Team)
		}
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func anyContains(names []string, patterns []string) bool {
	for _, name := range names {
		for _, p := range patterns {
			if strings.Contains(name, p) {
				return true
			}
		}
	}
	return false
}
