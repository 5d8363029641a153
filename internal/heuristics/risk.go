// Package heuristics classifies pull requests with keyword and path rules.
// Matching is raw substring search on lowercased text, so "key" also hits
// "keyword" and "monkey".
package heuristics

import (
	"fmt"
	"strings"

	"github.com/thomas-vilte/prsummarizer/internal/models"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

var (
	DefaultHighRiskKeywords = []string{
		"auth", "authentication", "security", "password", "token", "credential",
		"payment", "billing", "charge", "transaction",
		"database", "migration", "schema", "sql",
		"config", "environment", "secret", "key",
	}

	DefaultMediumRiskKeywords = []string{
		"api", "endpoint", "route", "controller",
		"deploy", "infrastructure", "docker", "kubernetes",
		"test", "testing", "spec",
	}

	DefaultCriticalExtensions = []string{".py", ".js", ".ts", ".java", ".go", ".rb"}
)

const (
	// DefaultHighCriticalFiles is the number of critical files above which a PR is High.
	DefaultHighCriticalFiles = 10
	// DefaultMediumCriticalFiles is the number of critical files above which a PR is Medium.
	DefaultMediumCriticalFiles = 5
	// DefaultMediumKeywordHits is the number of medium keywords above which a PR is Medium.
	DefaultMediumKeywordHits = 2
)

// RiskPolicy holds the tunable inputs of the risk classifier.
type RiskPolicy struct {
	HighRiskKeywords    []string
	MediumRiskKeywords  []string
	CriticalExtensions  []string
	HighCriticalFiles   int
	MediumCriticalFiles int
	MediumKeywordHits   int
}

func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{
		HighRiskKeywords:    DefaultHighRiskKeywords,
		MediumRiskKeywords:  DefaultMediumRiskKeywords,
		CriticalExtensions:  DefaultCriticalExtensions,
		HighCriticalFiles:   DefaultHighCriticalFiles,
		MediumCriticalFiles: DefaultMediumCriticalFiles,
		MediumKeywordHits:   DefaultMediumKeywordHits,
	}
}

// Assessment is the outcome of a risk classification.
type Assessment struct {
	Level          RiskLevel
	Reasoning      string
	HighRiskHits   []string
	MediumRiskHits []string
	CriticalFiles  int
}

// AssessRisk classifies a PR with the default policy.
func AssessRisk(files []models.FileChange, title, body string) Assessment {
	return DefaultRiskPolicy().Assess(files, title, body)
}

// Assess classifies a PR. The first matching rule wins: high-risk keywords or
// many critical files give High, several medium keywords or a moderate number
// of critical files give Medium, anything else is Low.
func (p RiskPolicy) Assess(files []models.FileChange, title, body string) Assessment {
	filenames := make([]string, len(files))
	for i, f := range files {
		filenames[i] = strings.ToLower(f.Filename)
	}
	content := strings.ToLower(title+" "+body) + " " + strings.Join(filenames, " ")

	highHits := matchKeywords(content, p.HighRiskKeywords)
	mediumHits := matchKeywords(content, p.MediumRiskKeywords)

	critical := 0
	for _, f := range files {
		if hasAnySuffix(f.Filename, p.CriticalExtensions) {
			critical++
		}
	}

	a := Assessment{
		HighRiskHits:   highHits,
		MediumRiskHits: mediumHits,
		CriticalFiles:  critical,
	}

	switch {
	case len(highHits) > 0 || critical > p.HighCriticalFiles:
		a.Level = RiskHigh
		a.Reasoning = fmt.Sprintf("Touches %d high-risk areas or %d critical files", len(highHits), critical)
		a.Reasoning += matchedSuffix(highHits)
	case len(mediumHits) > p.MediumKeywordHits || critical > p.MediumCriticalFiles:
		a.Level = RiskMedium
		a.Reasoning = fmt.Sprintf("Moderate changes affecting %d areas or %d critical files", len(mediumHits), critical)
		a.Reasoning += matchedSuffix(mediumHits)
	default:
		a.Level = RiskLow
		a.Reasoning = "Limited scope, low-risk changes"
	}

	return a
}

// matchKeywords returns the keywords present in the lowercased content, in
// list order. Keywords match case-insensitively and count once no matter how
// often they occur.
func matchKeywords(content string, keywords []string) []string {
	hits := make([]string, 0)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(content, strings.ToLower(kw)) {
			hits = append(hits, kw)
		}
	}
	return hits
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func matchedSuffix(hits []string) string {
	if len(hits) == 0 {
		return ""
	}
	return " (matched: " + strings.Join(hits, ", ") + ")"
}
