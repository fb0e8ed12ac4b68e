package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/spf13/cobra"
)

func newTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [TIMELINE_ID]",
		Short: "Show timelines as a sprint, task and subtask tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				id, err := resolveTimelineID(ctx, app, args[0])
				if err != nil {
					return err
				}
				tl, err := app.Services.Timelines.GetByID(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatTimeline(tl))
				return nil
			}

			timelines, err := app.Services.Timelines.List(ctx)
			if err != nil {
				return err
			}
			if len(timelines) == 0 {
				fmt.Fprintln(out, "No timelines found.")
				return nil
			}
			for i, tl := range timelines {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, formatter.FormatTimeline(tl))
			}
			return nil
		},
	}
}

func newTimelineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Manage timelines",
	}

	cmd.AddCommand(
		newTimelineAddCmd(app),
		newTimelineListCmd(app),
		newTimelineRemoveCmd(app),
	)

	return cmd
}

func newTimelineAddCmd(app *App) *cobra.Command {
	var in domain.TimelineInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := app.Services.Timelines.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created timeline %s %s  %s\n", formatter.Bold(tl.Name), tl.ID,
				formatter.DateSpan(tl.StartDate, tl.EndDate, tl.Duration()))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.ProjectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&in.Name, "name", "", "Timeline name")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	dateFlag(cmd.Flags(), &in.StartDate, "start", "startDate", "Start date")
	dateFlag(cmd.Flags(), &in.EndDate, "end", "endDate", "End date")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return mutating(cmd)
}

func newTimelineListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List timelines",
		RunE: func(cmd *cobra.Command, args []string) error {
			timelines, err := app.Services.Timelines.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimelineList(timelines))
			return nil
		},
	}
}

func newTimelineRemoveCmd(app *App) *cobra.Command {
	return mutating(&cobra.Command{
		Use:   "rm ID",
		Short: "Delete a timeline with all its sprints and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTimelineID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Services.Timelines.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted timeline %s\n", id)
			return nil
		},
	})
}

func newSprintCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Manage sprints",
	}

	cmd.AddCommand(
		newSprintAddCmd(app),
		newSprintRemoveCmd(app),
	)

	return cmd
}

func newSprintAddCmd(app *App) *cobra.Command {
	var in domain.SprintInput

	cmd := &cobra.Command{
		Use:   "add TIMELINE_ID",
		Short: "Add a sprint to a timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			timelineID, err := resolveTimelineID(ctx, app, args[0])
			if err != nil {
				return err
			}
			sp, err := app.Services.Sprints.Create(ctx, timelineID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created sprint %s %s  %s\n", formatter.Bold(sp.Name), sp.ID,
				formatter.DateSpan(sp.StartDate, sp.EndDate, sp.Duration))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Sprint name")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	cmd.Flags().StringVar(&in.Department, "department", "", "Owning department")
	cmd.Flags().StringSliceVar(&in.Resources, "resource", nil, "Assigned member ID (repeatable)")
	dateFlag(cmd.Flags(), &in.StartDate, "start", "startDate", "Start date")
	dateFlag(cmd.Flags(), &in.EndDate, "end", "endDate", "End date")
	_ = cmd.MarkFlagRequired("name")

	return mutating(cmd)
}

func newSprintRemoveCmd(app *App) *cobra.Command {
	return mutating(&cobra.Command{
		Use:   "rm ID",
		Short: "Delete a sprint with its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSprintID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Services.Sprints.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted sprint %s\n", id)
			return nil
		},
	})
}

// changedDate returns a pointer to t when the flag was set.
func changedDate(cmd *cobra.Command, name string, t time.Time) *time.Time {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &t
}
