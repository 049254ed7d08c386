package ledger

import (
	"time"

	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/period"
)

type TaskStatus struct {
	Task model.RoutineTask
	Done bool
}

type DaySchedule struct {
	Date  time.Time
	Day   period.Weekday
	Tasks []TaskStatus
}

func (d DaySchedule) Counts() (done, total int) {
	for _, s := range d.Tasks {
		total++
		if s.Done {
			done++
		}
	}
	return done, total
}

type Progress struct {
	Done  int
	Total int
}

func (l *Ledger) Day(date time.Time, tasks []model.RoutineTask, plan *model.CommunicationPlan) DaySchedule {
	due := DueTasksFor(date, tasks, plan)
	out := DaySchedule{
		Date:  period.StartOfDay(date),
		Day:   period.DayKey(date),
		Tasks: make([]TaskStatus, 0, len(due)),
	}
	for _, task := range due {
		out.Tasks = append(out.Tasks, TaskStatus{Task: task, Done: l.IsCompleted(task, date)})
	}
	return out
}

// Week lays out every active day of date's Monday-based week. Each day's due
// set is computed independently, so a daily task shows under every active
// day and a weekly task only under its own day.
func (l *Ledger) Week(date time.Time, tasks []model.RoutineTask, plan *model.CommunicationPlan) []DaySchedule {
	out := make([]DaySchedule, 0, 7)
	start := period.StartOfWeek(date)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		if !plan.IsActiveDay(period.DayKey(day)) {
			continue
		}
		out = append(out, l.Day(day, tasks, plan))
	}
	return out
}

// WeekProgress counts distinct task occurrences due during date's week. A
// daily task counts once per active day; weekly and monthly tasks count once
// per natural period however many days they are listed under.
func (l *Ledger) WeekProgress(date time.Time, tasks []model.RoutineTask, plan *model.CommunicationPlan) Progress {
	start := period.StartOfWeek(date)
	days := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return l.progress(days, tasks, plan)
}

func (l *Ledger) MonthProgress(date time.Time, tasks []model.RoutineTask, plan *model.CommunicationPlan) Progress {
	return l.progress(period.DaysInMonth(date), tasks, plan)
}

func (l *Ledger) progress(days []time.Time, tasks []model.RoutineTask, plan *model.CommunicationPlan) Progress {
	var out Progress
	seen := make(map[string]bool)
	for _, day := range days {
		for _, task := range DueTasksFor(day, tasks, plan) {
			key := task.ID + "|" + NaturalPeriodKey(task, day)
			if seen[key] {
				continue
			}
			seen[key] = true
			out.Total++
			if l.IsCompleted(task, day) {
				out.Done++
			}
		}
	}
	return out
}

// MonthlyTasks lists the monthly tasks that fall due at least once in date's
// month, with their completion state for that month.
func (l *Ledger) MonthlyTasks(date time.Time, tasks []model.RoutineTask, plan *model.CommunicationPlan) []TaskStatus {
	days := period.DaysInMonth(date)
	out := make([]TaskStatus, 0)
	for _, task := range tasks {
		if task.Recurrence != model.RecurrenceMonthly {
			continue
		}
		for _, day := range days {
			if task.IsDue(day, plan) {
				out = append(out, TaskStatus{Task: task, Done: l.IsCompleted(task, date)})
				break
			}
		}
	}
	sortStatuses(out)
	return out
}

func sortStatuses(list []TaskStatus) {
	tasks := make([]model.RoutineTask, len(list))
	done := make(map[string]bool, len(list))
	for i, s := range list {
		tasks[i] = s.Task
		done[s.Task.ID] = s.Done
	}
	SortTasks(tasks)
	for i, task := range tasks {
		list[i] = TaskStatus{Task: task, Done: done[task.ID]}
	}
}
