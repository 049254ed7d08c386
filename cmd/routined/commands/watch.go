package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sandeepkv93/routined/internal/period"
	"github.com/sandeepkv93/routined/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run in the foreground, reloading at period boundaries and logging a daily digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, flags, logJSON)
			if err != nil {
				return err
			}
			defer a.Close()
			log := a.log.Named("watch")

			sched := scheduler.NewEngine(a.cfg.RolloverBuffer)
			if err := sched.ScheduleNext(a.engine.Now(), scheduler.KindDay, scheduler.KindWeek, scheduler.KindMonth); err != nil {
				return fmt.Errorf("failed to schedule rollovers: %w", err)
			}
			sched.Start()

			digest := scheduler.NewDigest(a.loc)
			entry, err := digest.ScheduleDaily(a.cfg.DigestTime, func() {
				today := a.engine.Today()
				log.Info("daily digest",
					zap.String("day", period.DayID(today.Schedule.Date)),
					zap.Int("done", today.Done),
					zap.Int("total", today.Total),
					zap.Int("streak", today.Streak),
				)
			})
			if err != nil {
				sched.Stop()
				return fmt.Errorf("failed to schedule digest: %w", err)
			}
			digest.Start()

			log.Info("watching",
				zap.String("user_id", a.cfg.UserID),
				zap.Time("next_digest", digest.Next(entry)),
				zap.Int("pending_rollovers", sched.Pending()),
			)

			err = watchRollovers(ctx, sched, a.engine.Load, log)
			digest.Stop()
			sched.Stop()
			log.Info("stopped", zap.Uint64("dropped_rollovers", sched.Dropped()))
			return err
		},
	}
}

// watchRollovers reloads on every boundary and re-arms it until ctx ends.
func watchRollovers(ctx context.Context, sched *scheduler.Engine, reload func(context.Context) error, log *zap.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sched.C():
			if !ok {
				return nil
			}
			if err := reload(ctx); err != nil {
				log.Error("reload failed", zap.String("kind", string(ev.Kind)), zap.Error(err))
			} else {
				log.Info("period rolled over", zap.String("kind", string(ev.Kind)), zap.String("key", ev.Key))
			}
			if err := sched.ScheduleNext(ev.TriggerAt, ev.Kind); err != nil {
				if errors.Is(err, scheduler.ErrStopped) {
					return nil
				}
				return fmt.Errorf("failed to re-arm %s rollover: %w", ev.Kind, err)
			}
		}
	}
}
