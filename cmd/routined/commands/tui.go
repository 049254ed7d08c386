package commands

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/routined/internal/routine"
	"github.com/sandeepkv93/routined/internal/scheduler"
	"github.com/sandeepkv93/routined/internal/update"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive routine screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			celebrations := make(chan routine.Celebration, 4)
			notify := routine.WithCelebration(func(c routine.Celebration) {
				select {
				case celebrations <- c:
				default:
				}
			})
			a, err := openApp(cmd.Context(), flags, logQuiet, notify)
			if err != nil {
				return err
			}
			defer a.Close()

			sched := scheduler.NewEngine(a.cfg.RolloverBuffer)
			if err := sched.ScheduleNext(a.engine.Now(), scheduler.KindDay, scheduler.KindWeek, scheduler.KindMonth); err != nil {
				return fmt.Errorf("failed to schedule rollovers: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			rollovers := make(chan scheduler.Event, a.cfg.RolloverBuffer)
			go forwardRollovers(sched, rollovers, a.log)

			model := update.NewModel(cmd.Context(), a.engine, update.Options{
				Locale:       a.cfg.Locale,
				Celebrations: celebrations,
				Rollovers:    rollovers,
			})
			if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("failed to run tui: %w", err)
			}
			return nil
		},
	}
}

// forwardRollovers re-arms each boundary as it fires and hands it on. It
// returns when the scheduler stops.
func forwardRollovers(sched *scheduler.Engine, out chan<- scheduler.Event, log *zap.Logger) {
	defer close(out)
	for ev := range sched.C() {
		if err := sched.ScheduleNext(ev.TriggerAt, ev.Kind); err != nil && !errors.Is(err, scheduler.ErrStopped) {
			log.Warn("rollover not re-armed", zap.String("kind", string(ev.Kind)), zap.Error(err))
		}
		select {
		case out <- ev:
		default:
			log.Warn("rollover dropped", zap.String("key", ev.Key))
		}
	}
}
