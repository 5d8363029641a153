package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/thomas-vilte/prsummarizer/internal/models"
)

// Limits shared by every LLM backend so that swapping providers never changes
// the requested output shape.
const (
	MaxPromptBodyLength = 500
	MaxPromptFiles      = 20
	MaxPromptCommits    = 10
	// Temperature is kept low for reduced variance between runs.
	Temperature = 0.3
)

// SystemPrompt is sent as the system message to chat-style backends.
const SystemPrompt = "You are a helpful assistant that summarizes GitHub Pull Requests for code review."

// PromptData holds the pre-rendered pieces of the PR prompt.
type PromptData struct {
	Title        string
	Description  string
	Author       string
	ChangedFiles int
	Additions    int
	Deletions    int
	Files        string
	Commits      string
}

const prPromptTemplate = `Analyze this GitHub Pull Request and provide a concise summary:

Title: {{.Title}}
Description: {{.Description}}
Author: {{.Author}}
Files Changed: {{.ChangedFiles}} files (+{{.Additions}}/-{{.Deletions}} lines)

Files:
{{.Files}}

Commits:
{{.Commits}}

Provide a structured summary with:
1. TL;DR (one sentence)
2. Files Changed + Purpose (brief description of what each major file does)
3. Risk Level (Low/Medium/High) with reasoning
4. Suggested Reviewers (based on file ownership/patterns)
5. Key Changes (3-5 bullet points)
6. Testing Notes (what should be tested)

Format as Markdown.`

var prPrompt = template.Must(template.New("prPrompt").Parse(prPromptTemplate))

// NewPromptData extracts the prompt fields from a snapshot, applying the
// shared truncation limits.
func NewPromptData(pr models.PullRequestSnapshot) PromptData {
	files := pr.Files
	if len(files) > MaxPromptFiles {
		files = files[:MaxPromptFiles]
	}
	fileLines := make([]string, len(files))
	for i, f := range files {
		fileLines[i] = fmt.Sprintf("- %s (%s, +%d/-%d)", f.Filename, f.Status, f.Additions, f.Deletions)
	}

	commits := pr.Commits
	if len(commits) > MaxPromptCommits {
		commits = commits[:MaxPromptCommits]
	}
	commitLines := make([]string, len(commits))
	for i, c := range commits {
		commitLines[i] = fmt.Sprintf("- %s: %s", c.SHA, c.Message)
	}

	return PromptData{
		Title:        pr.Title,
		Description:  Truncate(pr.Body, MaxPromptBodyLength),
		Author:       pr.Author,
		ChangedFiles: pr.ChangedFiles,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
		Files:        strings.Join(fileLines, "\n"),
		Commits:      strings.Join(commitLines, "\n"),
	}
}

// BuildPRPrompt renders the user prompt for a snapshot.
func BuildPRPrompt(pr models.PullRequestSnapshot) (string, error) {
	var buf bytes.Buffer
	if err := prPrompt.Execute(&buf, NewPromptData(pr)); err != nil {
		return "", fmt.Errorf("error executing template prPrompt: %w", err)
	}
	return buf.String(), nil
}

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
