package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/tempo/internal/api"
	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr, seed string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and change feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := app.logger()
			if seed != "" {
				res, err := app.Services.Import.ImportSeed(ctx, seed)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(res))
			}

			srv := api.NewServer(app.Services, app.Feed, logger)
			logger.Info("server_start", "addr", addr)
			runErr := srv.Run(ctx, addr)

			if app.Config.Snapshot.Autosave {
				// The signal context is already cancelled here.
				if err := saveSnapshot(context.WithoutCancel(ctx), app); err != nil {
					logger.Error("autosave_failed", "error", err)
					if runErr == nil {
						runErr = err
					}
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.Config.HTTP.Addr, "Listen address")
	cmd.Flags().StringVar(&seed, "seed", app.Config.Seed.File, "YAML seed file applied before serving")

	return cmd
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}
