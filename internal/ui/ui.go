package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/i18n"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	SuccessEmoji = Success.Sprint("✅")
	InfoEmoji    = Info.Sprint("ℹ️")
	ReviewEmoji  = "🔎"
)

// SmartSpinner reports progress on stderr so stdout stays clean for the
// summary itself.
type SmartSpinner struct {
	spinner *spinner.Spinner
	out     io.Writer
}

func NewSmartSpinner(w io.Writer, initialMessage string) *SmartSpinner {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithColor("cyan"),
		spinner.WithWriter(w),
		spinner.WithSuffix(" "+ReviewEmoji+" "+initialMessage),
	)
	return &SmartSpinner{spinner: s, out: w}
}

func (s *SmartSpinner) Start() {
	s.spinner.Start()
}

func (s *SmartSpinner) Stop() {
	s.spinner.Stop()
}

func (s *SmartSpinner) Success(msg string) {
	s.Stop()
	PrintSuccess(s.out, msg)
}

func (s *SmartSpinner) Error(msg string) {
	s.Stop()
	PrintError(s.out, msg)
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
}

func PrintInfo(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", InfoEmoji, Info.Sprint(msg))
}

// HandleAppError prints err in a friendly way. If translations is nil,
// English labels are used.
func HandleAppError(w io.Writer, err error, t *i18n.Translations) {
	if err == nil {
		return
	}

	label := func(id, fallback string) string {
		if t == nil {
			return fallback
		}
		return t.GetMessage(id, 0, nil)
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		PrintError(w, err.Error())
		return
	}

	_, _ = fmt.Fprintln(w)
	_, _ = Error.Fprintf(w, "❌ %s: %s\n", appErr.Type, appErr.Message)

	if detail, ok := appErr.Context["detail"].(string); ok && detail != "" {
		_, _ = Dim.Fprintf(w, "   %s: %s\n", label("error_details", "Details"), detail)
	}
	if appErr.Err != nil {
		_, _ = Dim.Fprintf(w, "   %s: %v\n", label("error_details", "Details"), appErr.Err)
	}

	if appErr.Suggestion != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = Info.Fprintf(w, "💡 %s: ", label("error_suggestion", "Try"))
		lines := strings.Split(appErr.Suggestion, "\n")
		for i, line := range lines {
			if i == 0 {
				_, _ = fmt.Fprintln(w, line)
			} else {
				_, _ = fmt.Fprintf(w, "       %s\n", line)
			}
		}
	}
	_, _ = fmt.Fprintln(w)
}
