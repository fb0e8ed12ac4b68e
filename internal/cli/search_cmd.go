package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	var status, priority, department string
	var limit int
	var members bool

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search tasks across all timelines, or members with --members",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			text := strings.Join(args, " ")

			if members {
				found, err := app.Services.Search.SearchMembers(ctx, text)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatMembers(found))
				return nil
			}

			q := service.TaskQuery{Text: text, Department: department, Limit: limit}
			if status != "" {
				s, err := domain.ParseTaskStatus(status)
				if err != nil {
					return err
				}
				q.Status = s
			}
			if priority != "" {
				p, err := domain.ParsePriority(priority)
				if err != nil {
					return err
				}
				q.Priority = p
			}

			hits, err := app.Services.Search.SearchTasks(ctx, q)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatTaskHits(hits))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority")
	cmd.Flags().StringVar(&department, "department", "", "Filter by department")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum results (0 for all)")
	cmd.Flags().BoolVar(&members, "members", false, "Search members instead of tasks")

	return cmd
}
