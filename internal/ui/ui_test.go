package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/i18n"
)

func init() {
	color.NoColor = true
}

func TestHandleAppError(t *testing.T) {
	t.Run("should print type, message, details and suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		err := domainErrors.ErrPullRequestNotFound.WithContext("detail", "o/r#9")

		HandleAppError(&buf, err, nil)

		out := buf.String()
		assert.Contains(t, out, "NOT_FOUND: repository or pull request not found")
		assert.Contains(t, out, "Details: o/r#9")
		assert.Contains(t, out, "💡 Try: Check the repository name")
	})

	t.Run("should indent multi-line suggestions", func(t *testing.T) {
		var buf bytes.Buffer
		err := domainErrors.NewAppError(domainErrors.TypeConfiguration, "bad", nil).
			WithSuggestion("first\nsecond")

		HandleAppError(&buf, err, nil)

		assert.Contains(t, buf.String(), "first\n       second\n")
	})

	t.Run("should translate labels", func(t *testing.T) {
		trans, err := i18n.NewTranslations("es", "")
		require.NoError(t, err)
		var buf bytes.Buffer

		HandleAppError(&buf, domainErrors.ErrOllamaGeneration.WithError(errors.New("refused")), trans)

		assert.Contains(t, buf.String(), "Detalles: refused")
		assert.Contains(t, buf.String(), "💡 Probá: Make sure Ollama is running")
	})

	t.Run("should print plain errors", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, errors.New("plain failure"), nil)

		assert.Equal(t, "❌ plain failure\n", buf.String())
	})

	t.Run("should ignore nil", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, nil, nil)

		assert.Empty(t, buf.String())
	})
}

func TestSmartSpinner_Success(t *testing.T) {
	var buf bytes.Buffer
	s := NewSmartSpinner(&buf, "working")

	s.Start()
	s.Success("done")

	assert.Contains(t, buf.String(), "✅")
	assert.Contains(t, buf.String(), "done")
}
