package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/thomas-vilte/prsummarizer/internal/commands/pull_requests"
	"github.com/thomas-vilte/prsummarizer/internal/commands/registry"
	"github.com/thomas-vilte/prsummarizer/internal/commands/server"
	cfg "github.com/thomas-vilte/prsummarizer/internal/config"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/i18n"
	"github.com/thomas-vilte/prsummarizer/internal/logger"
	"github.com/thomas-vilte/prsummarizer/internal/services"
	"github.com/thomas-vilte/prsummarizer/internal/ui"
	"github.com/thomas-vilte/prsummarizer/internal/version"
	"github.com/thomas-vilte/prsummarizer/internal/web"
	"github.com/urfave/cli/v3"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp(os.Args)
	if err != nil {
		ui.HandleAppError(os.Stderr, err, nil)
		os.Exit(1)
	}

	if err := app.Run(ctx, os.Args); err != nil {
		// Domain errors were already reported by the command that hit them.
		var appErr *domainErrors.AppError
		if !errors.As(err, &appErr) {
			ui.PrintError(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
}

func initializeApp(args []string) (*cli.Command, error) {
	cfgApp, err := cfg.LoadConfig(flagValue(args, "config"))
	if err != nil {
		return nil, err
	}

	lang := cfgApp.Language
	if l := flagValue(args, "lang"); l != "" {
		lang = l
	}

	translations, err := i18n.NewTranslations(lang, "")
	if err != nil {
		return nil, fmt.Errorf("error loading translations: %w", err)
	}

	prService := services.NewPRService(services.WithPRConfig(cfgApp))

	registerCommand := registry.NewRegistry(cfgApp, translations)

	summarizeCommand := pull_requests.NewSummarizeCommand(func(ctx context.Context) (pull_requests.PRService, error) {
		return prService, nil
	})
	if err := registerCommand.Register("summarize", summarizeCommand); err != nil {
		return nil, err
	}

	serveCommand := server.NewServeCommand(func(ctx context.Context) (web.PRService, error) {
		return prService, nil
	})
	if err := registerCommand.Register("serve", serveCommand); err != nil {
		return nil, err
	}

	return &cli.Command{
		Name:    "pr-summarizer",
		Usage:   translations.GetMessage("app_description", 0, nil),
		Version: version.FullVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: translations.GetMessage("flag_config", 0, nil)},
			&cli.StringFlag{Name: "lang", Usage: translations.GetMessage("flag_lang", 0, nil), Value: lang},
			&cli.BoolFlag{Name: "debug", Usage: translations.GetMessage("flag_debug", 0, nil)},
			&cli.BoolFlag{Name: "verbose", Usage: translations.GetMessage("flag_verbose", 0, nil)},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))
			return logger.WithLogger(ctx, logger.FromContext(ctx)), nil
		},
		Commands: registerCommand.CreateCommands(),
	}, nil
}

// flagValue finds a global flag before the CLI parses it. Config and
// language must be known to build the localized command tree.
func flagValue(args []string, name string) string {
	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		for _, prefix := range []string{"--" + name, "-" + name} {
			if arg == prefix && i+1 < len(args) {
				return args[i+1]
			}
			if v, ok := strings.CutPrefix(arg, prefix+"="); ok {
				return v
			}
		}
	}
	return ""
}
