package routine

import (
	"time"

	"github.com/sandeepkv93/routined/internal/ledger"
)

type DaySummary struct {
	Schedule ledger.DaySchedule
	Done     int
	Total    int
	Streak   int
}

type WeekSummary struct {
	Days     []ledger.DaySchedule
	Progress ledger.Progress
}

type MonthSummary struct {
	Month    time.Time
	Progress ledger.Progress
	Monthly  []ledger.TaskStatus
}

func (e *Engine) Today() DaySummary {
	return e.Day(e.clock.Now())
}

// Day summarises date. The streak is always counted back from now.
func (e *Engine) Day(date time.Time) DaySummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	schedule := e.ledger.Day(date, e.tasks, e.plan)
	done, total := schedule.Counts()
	return DaySummary{
		Schedule: schedule,
		Done:     done,
		Total:    total,
		Streak:   e.ledger.Streak(e.clock.Now()),
	}
}

func (e *Engine) Week(date time.Time) WeekSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return WeekSummary{
		Days:     e.ledger.Week(date, e.tasks, e.plan),
		Progress: e.ledger.WeekProgress(date, e.tasks, e.plan),
	}
}

func (e *Engine) Month(date time.Time) MonthSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	y, m, _ := date.Date()
	return MonthSummary{
		Month:    time.Date(y, m, 1, 0, 0, 0, 0, date.Location()),
		Progress: e.ledger.MonthProgress(date, e.tasks, e.plan),
		Monthly:  e.ledger.MonthlyTasks(date, e.tasks, e.plan),
	}
}

func (e *Engine) Streak() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Streak(e.clock.Now())
}
