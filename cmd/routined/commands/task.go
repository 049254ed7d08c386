package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/period"
	"github.com/sandeepkv93/routined/internal/routine"
	"github.com/sandeepkv93/routined/internal/views"
	"github.com/spf13/cobra"
)

func newTaskCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage routine tasks",
	}
	cmd.AddCommand(newTaskListCmd(flags))
	cmd.AddCommand(newTaskAddCmd(flags))
	cmd.AddCommand(newTaskDeleteCmd(flags))
	cmd.AddCommand(newTaskActiveCmd(flags, "activate", true))
	cmd.AddCommand(newTaskActiveCmd(flags, "deactivate", false))
	cmd.AddCommand(newTaskReorderCmd(flags))
	return cmd
}

func newTaskListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every task in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, logQuiet)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintln(cmd.OutOrStdout(), views.RenderTaskList(a.cfg.Locale, a.engine.Tasks()))
			return nil
		},
	}
}

func newTaskAddCmd(flags *rootFlags) *cobra.Command {
	var (
		title      string
		taskType   string
		minutes    int
		recurrence string
		day        string
		week       int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := routine.TaskInput{
				Title:           title,
				TaskType:        model.TaskType(strings.ToLower(strings.TrimSpace(taskType))),
				DurationMinutes: minutes,
				Recurrence:      model.Recurrence(strings.ToLower(strings.TrimSpace(recurrence))),
				WeekOfMonth:     week,
			}
			if strings.TrimSpace(day) != "" {
				d, err := period.ParseWeekday(day)
				if err != nil {
					return err
				}
				in.DayOfWeek = d
			}

			a, err := openApp(cmd.Context(), flags, logQuiet)
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := a.engine.CreateTask(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s  %s (%s)\n", task.ID, task.Title, views.Cadence(a.cfg.Locale, task))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&taskType, "type", string(model.TaskTypeOther), "post, engage, story, analyze, prepare or other")
	cmd.Flags().IntVar(&minutes, "minutes", 15, "expected duration in minutes")
	cmd.Flags().StringVar(&recurrence, "recurrence", string(model.RecurrenceDaily), "daily, weekly or monthly")
	cmd.Flags().StringVar(&day, "day", "", "weekday for weekly tasks (mon..sun)")
	cmd.Flags().IntVar(&week, "week", 0, "week of month (1-5) for monthly tasks")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a user-created task and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, logQuiet)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.engine.DeleteTask(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newTaskActiveCmd(flags *rootFlags, use string, active bool) *cobra.Command {
	short := "Resume a paused task"
	if !active {
		short = "Pause a task and clear its completions"
	}
	return &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, logQuiet)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.engine.SetTaskActive(cmd.Context(), args[0], active); err != nil {
				return fmt.Errorf("failed to %s task: %w", use, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%sd %s\n", use, args[0])
			return nil
		},
	}
}

func newTaskReorderCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <task-id>...",
		Short: "Move the given tasks to the top, in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, logQuiet)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.engine.ReorderTasks(cmd.Context(), args); err != nil {
				return fmt.Errorf("failed to reorder tasks: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), views.RenderTaskList(a.cfg.Locale, a.engine.Tasks()))
			return nil
		},
	}
}
