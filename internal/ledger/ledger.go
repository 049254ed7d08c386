package ledger

import (
	"sort"
	"time"

	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/period"
)

// NaturalPeriodKey is the bucket a completion of task on date is
// deduplicated against: the day for daily tasks, the week for weekly ones and
// the month for monthly ones. Unknown recurrences map to "".
func NaturalPeriodKey(task model.RoutineTask, date time.Time) string {
	switch task.Recurrence {
	case model.RecurrenceDaily:
		return period.DayID(date)
	case model.RecurrenceWeekly:
		return period.WeekID(date)
	case model.RecurrenceMonthly:
		return period.MonthID(date)
	default:
		return ""
	}
}

// DueTasksFor filters tasks down to those due on date, in display order.
func DueTasksFor(date time.Time, tasks []model.RoutineTask, plan *model.CommunicationPlan) []model.RoutineTask {
	out := make([]model.RoutineTask, 0, len(tasks))
	for _, task := range tasks {
		if task.IsDue(date, plan) {
			out = append(out, task)
		}
	}
	SortTasks(out)
	return out
}

// Ledger is an in-memory index over a user's completion records. It is not
// safe for concurrent use.
type Ledger struct {
	byTask map[string][]model.Completion
}

func New(completions []model.Completion) *Ledger {
	l := &Ledger{byTask: make(map[string][]model.Completion)}
	for _, c := range completions {
		l.Add(c)
	}
	return l
}

func (l *Ledger) Add(c model.Completion) {
	l.byTask[c.TaskID] = append(l.byTask[c.TaskID], c)
}

// Remove drops the completion with the given id and reports whether it
// existed.
func (l *Ledger) Remove(id string) bool {
	for taskID, list := range l.byTask {
		for i, c := range list {
			if c.ID != id {
				continue
			}
			next := append(list[:i:i], list[i+1:]...)
			if len(next) == 0 {
				delete(l.byTask, taskID)
			} else {
				l.byTask[taskID] = next
			}
			return true
		}
	}
	return false
}

// Purge drops every completion of taskID and returns how many were removed.
func (l *Ledger) Purge(taskID string) int {
	n := len(l.byTask[taskID])
	delete(l.byTask, taskID)
	return n
}

// Completions returns a copy of every record, oldest first.
func (l *Ledger) Completions() []model.Completion {
	out := make([]model.Completion, 0)
	for _, list := range l.byTask {
		out = append(out, list...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	return out
}

// Find returns the completion covering task's natural period around date.
func (l *Ledger) Find(task model.RoutineTask, date time.Time) (model.Completion, bool) {
	key := NaturalPeriodKey(task, date)
	if key == "" {
		return model.Completion{}, false
	}
	for _, c := range l.byTask[task.ID] {
		if matches(task.Recurrence, c, key) {
			return c, true
		}
	}
	return model.Completion{}, false
}

func (l *Ledger) IsCompleted(task model.RoutineTask, date time.Time) bool {
	_, ok := l.Find(task, date)
	return ok
}

func matches(r model.Recurrence, c model.Completion, key string) bool {
	switch r {
	case model.RecurrenceDaily:
		return period.DayID(c.CompletedAt) == key
	case model.RecurrenceWeekly:
		return c.Week == key
	case model.RecurrenceMonthly:
		return c.Month == key
	default:
		return false
	}
}

// CompletionCount splits the tasks due on date into done and total.
func (l *Ledger) CompletionCount(date time.Time, tasks []model.RoutineTask, plan *model.CommunicationPlan) (done, total int) {
	for _, task := range DueTasksFor(date, tasks, plan) {
		total++
		if l.IsCompleted(task, date) {
			done++
		}
	}
	return done, total
}

// SortTasks orders tasks for display: by SortOrder, then by ID.
func SortTasks(tasks []model.RoutineTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].SortOrder != tasks[j].SortOrder {
			return tasks[i].SortOrder < tasks[j].SortOrder
		}
		return tasks[i].ID < tasks[j].ID
	})
}
