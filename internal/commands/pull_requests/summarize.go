package pull_requests

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	cfg "github.com/thomas-vilte/prsummarizer/internal/config"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/i18n"
	"github.com/thomas-vilte/prsummarizer/internal/logger"
	"github.com/thomas-vilte/prsummarizer/internal/providers"
	"github.com/thomas-vilte/prsummarizer/internal/services"
	"github.com/thomas-vilte/prsummarizer/internal/ui"
	"github.com/urfave/cli/v3"
)

const separatorWidth = 60

// PRService is a minimal interface for testing purposes
type PRService interface {
	Summarize(ctx context.Context, req services.SummarizeRequest) (string, error)
}

// PRServiceProvider is a function that returns a PRService on demand
type PRServiceProvider func(ctx context.Context) (PRService, error)

type SummarizeCommand struct {
	prProvider PRServiceProvider
	stdout     io.Writer
	stderr     io.Writer
}

func NewSummarizeCommand(prProvider PRServiceProvider) *SummarizeCommand {
	return &SummarizeCommand{
		prProvider: prProvider,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
}

func (c *SummarizeCommand) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:      "summarize",
		Aliases:   []string{"s"},
		Usage:     t.GetMessage("summarize_command_description", 0, nil),
		ArgsUsage: t.GetMessage("summarize_command_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   t.GetMessage("flag_provider", 0, nil),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   t.GetMessage("flag_output", 0, nil),
			},
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   t.GetMessage("flag_token", 0, nil),
			},
			&cli.StringFlag{Name: "openai-key", Usage: t.GetMessage("flag_openai_key", 0, nil)},
			&cli.StringFlag{Name: "openai-model", Usage: t.GetMessage("flag_openai_model", 0, nil)},
			&cli.StringFlag{Name: "ollama-url", Usage: t.GetMessage("flag_ollama_url", 0, nil)},
			&cli.StringFlag{Name: "ollama-model", Usage: t.GetMessage("flag_ollama_model", 0, nil)},
			&cli.StringFlag{Name: "gemini-key", Usage: t.GetMessage("flag_gemini_key", 0, nil)},
			&cli.StringFlag{Name: "gemini-model", Usage: t.GetMessage("flag_gemini_model", 0, nil)},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			start := time.Now()

			req, err := buildRequest(cmd, t)
			if err != nil {
				ui.HandleAppError(c.stderr, err, t)
				return err
			}

			log.Info("executing summarize command",
				"repo", req.Repo,
				"pr_number", req.PRNumber,
				"provider", req.Provider)

			prService, err := c.prProvider(ctx)
			if err != nil {
				log.Error("failed to create PR service",
					"error", err,
					"duration_ms", time.Since(start).Milliseconds())
				ui.HandleAppError(c.stderr, err, t)
				return err
			}

			providerLabel := req.Provider
			if providerLabel == "" {
				providerLabel = "default"
			}
			spinner := ui.NewSmartSpinner(c.stderr, t.GetMessage("summarizing_pr", 0, map[string]interface{}{
				"Number":   req.PRNumber,
				"Repo":     req.Repo,
				"Provider": providerLabel,
			}))
			spinner.Start()

			summary, err := prService.Summarize(ctx, req)
			if err != nil {
				log.Error("failed to summarize PR",
					"error", err,
					"duration_ms", time.Since(start).Milliseconds())
				spinner.Error(t.GetMessage("summary_failed", 0, nil))
				ui.HandleAppError(c.stderr, err, t)
				return err
			}

			if output := cmd.String("output"); output != "" {
				if err := os.WriteFile(output, []byte(summary), 0644); err != nil {
					appErr := domainErrors.NewAppError(domainErrors.TypeInternal,
						t.GetMessage("error_write_output", 0, map[string]interface{}{"Path": output}), err)
					spinner.Error(appErr.Message)
					return appErr
				}
				spinner.Success(t.GetMessage("summary_written", 0, map[string]interface{}{"Path": output}))
				return nil
			}

			spinner.Success(t.GetMessage("summary_ready", 0, nil))
			_, _ = fmt.Fprintf(c.stdout, "\n%s\n%s\n", strings.Repeat("=", separatorWidth), summary)

			log.Debug("summarize command finished",
				"duration_ms", time.Since(start).Milliseconds())
			return nil
		},
	}
}

func buildRequest(cmd *cli.Command, t *i18n.Translations) (services.SummarizeRequest, error) {
	if cmd.Args().Len() < 2 {
		return services.SummarizeRequest{}, domainErrors.NewAppError(domainErrors.TypeValidation,
			t.GetMessage("error_missing_args", 0, nil), nil).
			WithSuggestion("pr-summarizer summarize <owner/repo> <pr-number>")
	}

	raw := cmd.Args().Get(1)
	number, err := strconv.Atoi(strings.TrimPrefix(raw, "#"))
	if err != nil || number <= 0 {
		return services.SummarizeRequest{}, domainErrors.ErrInvalidPRNumber.
			WithContext("detail", t.GetMessage("error_invalid_pr_number", 0, map[string]interface{}{"Value": raw}))
	}

	return services.SummarizeRequest{
		Repo:     cmd.Args().Get(0),
		PRNumber: number,
		Provider: cmd.String("provider"),
		Token:    cmd.String("token"),
		Options: providers.SummarizerOptions{
			OpenAIKey:   cmd.String("openai-key"),
			OpenAIModel: cmd.String("openai-model"),
			OllamaURL:   cmd.String("ollama-url"),
			OllamaModel: cmd.String("ollama-model"),
			GeminiKey:   cmd.String("gemini-key"),
			GeminiModel: cmd.String("gemini-model"),
		},
	}, nil
}
