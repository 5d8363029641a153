package errors

import (
	"errors"
	"fmt"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration  ErrorType = "CONFIGURATION"
	TypeValidation     ErrorType = "VALIDATION"
	TypeAuthentication ErrorType = "AUTHENTICATION"
	TypeNotFound       ErrorType = "NOT_FOUND"
	TypeVCS            ErrorType = "VCS"
	TypeGeneration     ErrorType = "GENERATION"
	TypeInternal       ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if detail, ok := e.Context["detail"].(string); ok && detail != "" {
			msg += fmt.Sprintf(" - %s", detail)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// TypeOf returns the type of the outermost AppError in the chain, or
// TypeInternal when err carries none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// IsType reports whether err wraps an AppError of type t.
func IsType(err error, t ErrorType) bool {
	if err == nil {
		return false
	}
	return TypeOf(err) == t
}

// Configuration errors
var (
	ErrGitHubTokenMissing = NewAppError(TypeConfiguration, "GitHub token is missing", nil).
				WithSuggestion("Set GITHUB_TOKEN, pass --token, or log in with: gh auth login")

	ErrOpenAIKeyMissing = NewAppError(TypeConfiguration, "OpenAI API key is missing", nil).
				WithSuggestion("Set OPENAI_API_KEY or pass --openai-key")

	ErrGeminiKeyMissing = NewAppError(TypeConfiguration, "Gemini API key is missing", nil).
				WithSuggestion("Set GEMINI_API_KEY or pass --gemini-key")

	ErrInvalidConfig = NewAppError(TypeConfiguration, "configuration is not valid", nil).
				WithSuggestion("Review ~/.pr-summarizer/config.toml")
)

// Validation errors
var (
	ErrRepoRequired = NewAppError(TypeValidation, "Repository and PR number are required", nil)

	ErrInvalidRepo = NewAppError(TypeValidation, "repository must be in the form owner/repo", nil).
			WithSuggestion("Example: pr-summarizer summarize facebook/react 123")

	ErrInvalidPRNumber = NewAppError(TypeValidation, "PR number must be a positive integer", nil)

	ErrUnknownProvider = NewAppError(TypeValidation, "unknown summary provider", nil).
				WithSuggestion("Use one of: basic, openai, ollama, gemini")
)

// GitHub/VCS errors
var (
	ErrGitHubTokenInvalid = NewAppError(TypeAuthentication, "GitHub token is invalid or lacks access", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubNoToken = NewAppError(TypeAuthentication, "no GitHub credential was provided", nil)

	ErrPullRequestNotFound = NewAppError(TypeNotFound, "repository or pull request not found", nil).
				WithSuggestion("Check the repository name, PR number and token access")

	ErrFetchPR = NewAppError(TypeVCS, "failed to fetch pull request", nil)
)

// Generation errors
var (
	ErrOpenAIGeneration = NewAppError(TypeGeneration, "OpenAI API error", nil).
				WithSuggestion("Check your API key and model name")

	ErrOllamaGeneration = NewAppError(TypeGeneration, "Ollama API error", nil).
				WithSuggestion("Make sure Ollama is running: ollama serve")

	ErrGeminiGeneration = NewAppError(TypeGeneration, "Gemini API error", nil).
				WithSuggestion("Check your API key and quota")

	ErrEmptyGeneration = NewAppError(TypeGeneration, "LLM returned no content", nil)
)
