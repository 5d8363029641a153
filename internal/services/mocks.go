package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/prsummarizer/internal/models"
)

type (
	MockPRFetcher struct {
		mock.Mock
	}

	MockPRSummarizer struct {
		mock.Mock
	}
)

func (m *MockPRFetcher) GetPR(ctx context.Context, prNumber int) (models.PullRequestSnapshot, error) {
	args := m.Called(ctx, prNumber)
	return args.Get(0).(models.PullRequestSnapshot), args.Error(1)
}

func (m *MockPRSummarizer) Summarize(ctx context.Context, pr models.PullRequestSnapshot) (string, error) {
	args := m.Called(ctx, pr)
	return args.String(0), args.Error(1)
}
