package commands

import (
	"fmt"

	"github.com/sandeepkv93/routined/internal/views"
	"github.com/spf13/cobra"
)

func newTodayCmd(flags *rootFlags) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the tasks due today, or on --date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, logQuiet)
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			summary := a.engine.Day(day)
			panel := views.DayPanel(a.cfg.Locale, summary.Schedule, summary.Streak, "")
			fmt.Fprintln(cmd.OutOrStdout(), views.RenderPanel(views.RenderDayPanel(panel)))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to show (YYYY-MM-DD)")
	return cmd
}

func newWeekCmd(flags *rootFlags) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the current week grouped by active day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, logQuiet)
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			week := a.engine.Week(day)
			panel := views.WeekPanel(a.cfg.Locale, day, week.Days, week.Progress)
			fmt.Fprintln(cmd.OutOrStdout(), views.RenderPanel(views.RenderWeekPanel(panel)))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "any day of the week to show (YYYY-MM-DD)")
	return cmd
}

func newMonthCmd(flags *rootFlags) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show monthly progress and monthly tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, logQuiet)
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			month := a.engine.Month(day)
			panel := views.MonthPanel(day, month.Monthly, month.Progress)
			fmt.Fprintln(cmd.OutOrStdout(), views.RenderPanel(views.RenderMonthPanel(panel)))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "any day of the month to show (YYYY-MM-DD)")
	return cmd
}

func newStreakCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Print the current streak of consecutive active days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, logQuiet)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintln(cmd.OutOrStdout(), a.engine.Streak())
			return nil
		},
	}
}
