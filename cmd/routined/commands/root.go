package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sandeepkv93/routined/internal/config"
	"github.com/sandeepkv93/routined/internal/logger"
	"github.com/sandeepkv93/routined/internal/routine"
	"github.com/sandeepkv93/routined/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootFlags struct {
	configPath string
}

// NewRootCmd wires every subcommand under the routined binary.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "routined",
		Short:         "Recurring social-media routine tracker",
		Long:          "Schedule daily, weekly and monthly routine tasks, check them off and keep a streak going.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "routined.yaml", "path to the YAML config file")

	root.AddCommand(newTodayCmd(flags))
	root.AddCommand(newWeekCmd(flags))
	root.AddCommand(newMonthCmd(flags))
	root.AddCommand(newStreakCmd(flags))
	root.AddCommand(newToggleCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newTaskCmd(flags))
	root.AddCommand(newPlanCmd(flags))
	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newWatchCmd(flags))
	return root
}

type logMode int

// logQuiet stays silent on the terminal unless debugging or logging to a
// file.
const (
	logConsole logMode = iota
	logJSON
	logQuiet
)

type app struct {
	cfg    config.RuntimeConfig
	loc    *time.Location
	log    *zap.Logger
	repo   storage.Repository
	engine *routine.Engine
}

// openApp loads configuration, opens the store and returns a loaded engine.
func openApp(ctx context.Context, flags *rootFlags, mode logMode, opts ...routine.Option) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		_ = logger.Sync(log)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	base := []routine.Option{
		routine.WithClock(routine.SystemClock(loc)),
		routine.WithLogger(log.Named("routine")),
	}
	engine := routine.New(repo, cfg.UserID, append(base, opts...)...)
	if err := engine.Load(ctx); err != nil {
		_ = repo.Close()
		_ = logger.Sync(log)
		return nil, fmt.Errorf("failed to load routine: %w", err)
	}
	return &app{cfg: cfg, loc: loc, log: log, repo: repo, engine: engine}, nil
}

func (a *app) Close() {
	if err := a.repo.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
	}
	_ = logger.Sync(a.log)
}

// parseDate reads YYYY-MM-DD in the configured zone. Empty means now.
func (a *app) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return a.engine.Now(), nil
	}
	d, err := time.ParseInLocation("2006-01-02", raw, a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return d, nil
}

func newLogger(cfg config.RuntimeConfig, mode logMode) (*zap.Logger, error) {
	opts := logger.Options{Debug: cfg.Debug, LogFile: cfg.LogFile}
	switch mode {
	case logJSON:
		return logger.NewProductionLogger(opts)
	case logQuiet:
		if cfg.LogFile == "" && !cfg.Debug {
			return zap.NewNop(), nil
		}
		return logger.NewDevelopmentLogger(opts)
	default:
		return logger.NewDevelopmentLogger(opts)
	}
}
