package commands

import (
	"fmt"

	"github.com/sandeepkv93/routined/internal/planfile"
	"github.com/sandeepkv93/routined/internal/views"
	"github.com/spf13/cobra"
)

func newPlanCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show or import the communication plan",
	}
	cmd.AddCommand(newPlanShowCmd(flags))
	cmd.AddCommand(newPlanImportCmd(flags))
	return cmd
}

func newPlanShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Render the plan and its tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, logQuiet)
			if err != nil {
				return err
			}
			defer a.Close()
			md := views.PlanMarkdown(a.cfg.Locale, a.engine.Plan(), a.engine.Tasks())
			fmt.Fprint(cmd.OutOrStdout(), views.RenderMarkdown(md))
			return nil
		},
	}
}

func newPlanImportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <plan.yaml>",
		Short: "Replace generated tasks with the ones described in a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := planfile.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to read plan file: %w", err)
			}
			plan, err := file.Plan()
			if err != nil {
				return fmt.Errorf("invalid plan: %w", err)
			}
			inputs, err := file.TaskInputs()
			if err != nil {
				return fmt.Errorf("invalid plan: %w", err)
			}

			a, err := openApp(cmd.Context(), flags, logConsole)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.engine.ApplyGeneratedPlan(cmd.Context(), plan, inputs)
			if err != nil {
				return fmt.Errorf("failed to apply plan: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d generated tasks\n", len(created))
			return nil
		},
	}
}
