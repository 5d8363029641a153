package ai

import (
	"context"

	"github.com/thomas-vilte/prsummarizer/internal/models"
)

// PRSummarizer defines the interface for services that summarize Pull Requests.
type PRSummarizer interface {
	// Summarize produces a Markdown summary of the snapshot.
	Summarize(ctx context.Context, pr models.PullRequestSnapshot) (string, error)
}
