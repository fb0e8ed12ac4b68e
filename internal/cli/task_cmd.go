package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskSetCmd(app),
		newTaskMoveCmd(app),
		newTaskShiftCmd(app),
		newTaskRemoveCmd(app),
		newTaskListCmd(app),
		newSubtaskAddCmd(app),
	)

	return cmd
}

// workFlags binds the flags tasks and subtasks share.
type workFlags struct {
	name, description, department string
	status, priority              string
	progress                      int
	start, end                    time.Time
	resources                     []string
}

func (w *workFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&w.name, "name", "", "Name")
	f.StringVar(&w.description, "description", "", "Description")
	f.StringVar(&w.department, "department", "", "Owning department")
	f.StringVar(&w.status, "status", "", "Status (not-started|in-progress|completed|on-hold|cancelled)")
	f.StringVar(&w.priority, "priority", "", "Priority (low|medium|high|critical)")
	f.IntVar(&w.progress, "progress", 0, "Progress percentage 0-100")
	f.StringSliceVar(&w.resources, "resource", nil, "Assigned member ID (repeatable)")
	dateFlag(f, &w.start, "start", "startDate", "Start date")
	dateFlag(f, &w.end, "end", "endDate", "End date")
}

func (w *workFlags) input() (domain.WorkInput, error) {
	in := domain.WorkInput{
		Name:        w.name,
		Description: w.description,
		StartDate:   w.start,
		EndDate:     w.end,
		Progress:    w.progress,
		Department:  w.department,
		Resources:   w.resources,
	}
	if w.status != "" {
		s, err := domain.ParseTaskStatus(w.status)
		if err != nil {
			return in, err
		}
		in.Status = s
	}
	if w.priority != "" {
		p, err := domain.ParsePriority(w.priority)
		if err != nil {
			return in, err
		}
		in.Priority = p
	}
	return in, nil
}

// patch includes only the flags the user actually passed.
func (w *workFlags) patch(cmd *cobra.Command) (domain.WorkPatch, error) {
	changed := cmd.Flags().Changed
	var p domain.WorkPatch
	if changed("name") {
		p.Name = &w.name
	}
	if changed("description") {
		p.Description = &w.description
	}
	if changed("department") {
		p.Department = &w.department
	}
	if changed("progress") {
		p.Progress = &w.progress
	}
	if changed("resource") {
		p.Resources = &w.resources
	}
	p.StartDate = changedDate(cmd, "start", w.start)
	p.EndDate = changedDate(cmd, "end", w.end)
	if changed("status") {
		s, err := domain.ParseTaskStatus(w.status)
		if err != nil {
			return p, err
		}
		p.Status = &s
	}
	if changed("priority") {
		pr, err := domain.ParsePriority(w.priority)
		if err != nil {
			return p, err
		}
		p.Priority = &pr
	}
	return p, nil
}

func newTaskAddCmd(app *App) *cobra.Command {
	var w workFlags
	var deps []string

	cmd := &cobra.Command{
		Use:   "add SPRINT_ID",
		Short: "Add a task to a sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sprintID, err := resolveSprintID(ctx, app, args[0])
			if err != nil {
				return err
			}
			work, err := w.input()
			if err != nil {
				return err
			}
			t, err := app.Services.Tasks.Create(ctx, sprintID, domain.TaskInput{WorkInput: work, Dependencies: deps})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTask("Created", t))
			return nil
		},
	}

	w.register(cmd)
	cmd.Flags().StringSliceVar(&deps, "depends-on", nil, "Task ID this task depends on (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return mutating(cmd)
}

func newTaskSetCmd(app *App) *cobra.Command {
	var w workFlags
	var deps []string

	cmd := &cobra.Command{
		Use:   "set TASK_ID",
		Short: "Update task fields; only the flags given are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			work, err := w.patch(cmd)
			if err != nil {
				return err
			}
			patch := domain.TaskPatch{WorkPatch: work}
			if cmd.Flags().Changed("depends-on") {
				patch.Dependencies = &deps
			}
			t, err := app.Services.Tasks.Update(ctx, id, patch)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTask("Updated", t))
			return nil
		},
	}

	w.register(cmd)
	cmd.Flags().StringSliceVar(&deps, "depends-on", nil, "Replace the dependency list (repeatable)")

	return mutating(cmd)
}

func newTaskMoveCmd(app *App) *cobra.Command {
	return mutating(&cobra.Command{
		Use:   "move TASK_ID SPRINT_ID",
		Short: "Move a task to another sprint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			taskID, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			sprintID, err := resolveSprintID(ctx, app, args[1])
			if err != nil {
				return err
			}
			t, err := app.Services.Tasks.Move(ctx, taskID, sprintID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTask("Moved", t))
			return nil
		},
	})
}

func newTaskShiftCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "shift TASK_ID --days N",
		Short: "Move a task and its subtasks by N days (negative moves earlier)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Services.Tasks.Shift(ctx, id, days)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTask("Shifted", t))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Days to shift by")
	_ = cmd.MarkFlagRequired("days")

	return mutating(cmd)
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return mutating(&cobra.Command{
		Use:   "rm TASK_ID",
		Short: "Delete a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Services.Tasks.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", id)
			return nil
		},
	})
}

func newTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list SPRINT_ID",
		Short: "List the tasks of a sprint in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sprintID, err := resolveSprintID(ctx, app, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Services.Tasks.ListBySprint(ctx, sprintID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks.")
				return nil
			}
			rows := make([][]string, len(tasks))
			for i, t := range tasks {
				rows[i] = []string{
					formatter.TruncID(t.ID),
					t.Name,
					formatter.StatusStyle(t.Status).Render(string(t.Status)),
					formatter.DateSpan(t.StartDate, t.EndDate, t.Duration),
				}
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"ID", "TASK", "STATUS", "DATES"}, rows))
			return nil
		},
	}
}

func newSubtaskAddCmd(app *App) *cobra.Command {
	var w workFlags

	cmd := &cobra.Command{
		Use:   "subtask TASK_ID",
		Short: "Add a subtask to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			taskID, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			work, err := w.input()
			if err != nil {
				return err
			}
			st, err := app.Services.Subtasks.Create(ctx, taskID, domain.SubtaskInput{WorkInput: work})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created subtask %s %s  %s\n", formatter.Bold(st.Name), st.ID,
				formatter.DateSpan(st.StartDate, st.EndDate, st.Duration))
			return nil
		},
	}

	w.register(cmd)
	_ = cmd.MarkFlagRequired("name")

	return mutating(cmd)
}
