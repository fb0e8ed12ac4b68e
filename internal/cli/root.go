package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/tempo/internal/api"
	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/spf13/cobra"
)

// annotationMutates marks commands whose changes are written back to the
// snapshot database after a successful run.
const annotationMutates = "tempo/mutates"

// App holds everything CLI commands need.
type App struct {
	Services *service.Services
	Feed     *api.Feed
	Logger   *slog.Logger
	Config   config.Config

	// IsInteractive reports whether stdout is a terminal. Output is plain
	// when it returns false or when --plain is passed.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "tempo" command. Every command starts
// from the last saved snapshot; mutating commands save it again on success.
func NewRootCmd(app *App) *cobra.Command {
	var plain bool

	root := &cobra.Command{
		Use:           "tempo",
		Short:         "Timeline, sprint and task planner",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			formatter.SetPlain(plain || app.IsInteractive == nil || !app.IsInteractive())
			return loadSnapshot(cmd.Context(), app)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationMutates] == "" {
				return nil
			}
			return saveSnapshot(cmd.Context(), app)
		},
	}
	root.PersistentFlags().BoolVar(&plain, "plain", false, "Disable colors and styling")

	root.AddCommand(
		newServeCmd(app),
		newImportCmd(app),
		newTreeCmd(app),
		newTimelineCmd(app),
		newSprintCmd(app),
		newTaskCmd(app),
		newSearchCmd(app),
	)

	return root
}

func mutating(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationMutates] = "true"
	return cmd
}

func loadSnapshot(ctx context.Context, app *App) error {
	if app.Services.Snapshots == nil {
		return nil
	}
	if _, err := app.Services.Snapshots.Load(ctx); err != nil {
		return fmt.Errorf("restoring saved state: %w", err)
	}
	return nil
}

func saveSnapshot(ctx context.Context, app *App) error {
	if app.Services.Snapshots == nil {
		return nil
	}
	if _, err := app.Services.Snapshots.Save(ctx); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}
