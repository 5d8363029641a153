package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	cfg "github.com/thomas-vilte/prsummarizer/internal/config"
	"github.com/thomas-vilte/prsummarizer/internal/i18n"
	"github.com/thomas-vilte/prsummarizer/internal/logger"
	"github.com/thomas-vilte/prsummarizer/internal/ui"
	"github.com/thomas-vilte/prsummarizer/internal/web"
	"github.com/urfave/cli/v3"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// PRServiceProvider returns the orchestrator the handler delegates to.
type PRServiceProvider func(ctx context.Context) (web.PRService, error)

type ServeCommand struct {
	prProvider PRServiceProvider
	// ready, when set, receives the bound address once the server accepts
	// connections.
	ready func(addr string)
}

func NewServeCommand(prProvider PRServiceProvider) *ServeCommand {
	return &ServeCommand{
		prProvider: prProvider,
	}
}

func (c *ServeCommand) CreateCommand(t *i18n.Translations, config *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: t.GetMessage("serve_command_description", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: t.GetMessage("flag_addr", 0, nil),
				Value: config.Server.Addr,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			prService, err := c.prProvider(ctx)
			if err != nil {
				ui.HandleAppError(os.Stderr, err, t)
				return err
			}

			ln, err := net.Listen("tcp", cmd.String("addr"))
			if err != nil {
				log.Error("failed to listen", "error", err, "addr", cmd.String("addr"))
				return err
			}

			srv := &http.Server{
				Handler:           web.NewHandler(prService).Routes(ctx),
				ReadHeaderTimeout: readHeaderTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Serve(ln)
			}()

			addr := ln.Addr().String()
			log.Info("server started", "addr", addr)
			ui.PrintInfo(os.Stderr, t.GetMessage("server_listening", 0, map[string]interface{}{"Addr": addr}))
			if c.ready != nil {
				c.ready(addr)
			}

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("server shutdown failed", "error", err)
				return err
			}
			log.Info("server stopped")
			ui.PrintInfo(os.Stderr, t.GetMessage("server_stopped", 0, nil))
			return nil
		},
	}
}
