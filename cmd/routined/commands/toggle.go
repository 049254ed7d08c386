package commands

import (
	"fmt"

	"github.com/sandeepkv93/routined/internal/routine"
	"github.com/sandeepkv93/routined/internal/storage"
	"github.com/sandeepkv93/routined/internal/views"
	"github.com/spf13/cobra"
)

func newToggleCmd(flags *rootFlags) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Mark a task done for its current period, or undo it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			celebrate := routine.WithCelebration(func(c routine.Celebration) {
				fmt.Fprintln(out, views.RenderCelebrationBanner(views.RenderCelebration(c.Streak, c.CompletedCount, c.TotalCount)))
			})
			a, err := openApp(cmd.Context(), flags, logQuiet, celebrate)
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			c, err := a.engine.Toggle(cmd.Context(), args[0], day)
			if err != nil {
				return err
			}
			if c == nil {
				fmt.Fprintf(out, "reopened %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "done %s for %s\n", args[0], c.Period)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day the completion belongs to (YYYY-MM-DD)")
	return cmd
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var taskID string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded completions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, logQuiet)
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.repo.ListCompletions(cmd.Context(), storage.CompletionListFilter{
				UserID: a.cfg.UserID,
				TaskID: taskID,
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return fmt.Errorf("failed to list completions: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No completions recorded")
				return nil
			}
			for _, c := range items {
				fmt.Fprintf(out, "%s  %-10s  %s\n", c.CompletedAt.In(a.loc).Format("2006-01-02 15:04"), c.Period, c.TaskID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "only show one task")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}
