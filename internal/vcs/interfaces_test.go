package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
)

func TestParseRepository(t *testing.T) {
	t.Run("should split owner and repo", func(t *testing.T) {
		owner, repo, err := ParseRepository(" facebook/react ")

		require.NoError(t, err)
		assert.Equal(t, "facebook", owner)
		assert.Equal(t, "react", repo)
	})

	tests := []struct {
		name     string
		input    string
		expected domainErrors.ErrorType
	}{
		{"empty", "", domainErrors.TypeValidation},
		{"missing slash", "facebook", domainErrors.TypeValidation},
		{"empty owner", "/react", domainErrors.TypeValidation},
		{"empty repo", "facebook/", domainErrors.TypeValidation},
		{"too many parts", "github.com/facebook/react", domainErrors.TypeValidation},
	}

	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			_, _, err := ParseRepository(tt.input)

			require.Error(t, err)
			assert.True(t, domainErrors.IsType(err, tt.expected))
		})
	}
}
