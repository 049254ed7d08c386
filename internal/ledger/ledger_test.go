package ledger

import (
	"testing"
	"time"

	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/period"
)

func allDays() *model.CommunicationPlan {
	return &model.CommunicationPlan{UserID: "u1", ActiveDays: period.Weekdays()}
}

func completionAt(id, taskID string, at time.Time) model.Completion {
	return model.Completion{
		ID:          id,
		TaskID:      taskID,
		CompletedAt: at,
		Week:        period.WeekID(at),
		Month:       period.MonthID(at),
		Period:      period.DayID(at),
	}
}

func TestNaturalPeriodKey(t *testing.T) {
	date := time.Date(2026, 2, 12, 17, 45, 0, 0, time.UTC)
	cases := []struct {
		rec  model.Recurrence
		want string
	}{
		{model.RecurrenceDaily, "2026-02-12"},
		{model.RecurrenceWeekly, "2026-W07"},
		{model.RecurrenceMonthly, "2026-02"},
		{model.Recurrence("yearly"), ""},
	}
	for _, tc := range cases {
		got := NaturalPeriodKey(model.RoutineTask{ID: "t", Recurrence: tc.rec}, date)
		if got != tc.want {
			t.Fatalf("NaturalPeriodKey(%s) = %q, want %q", tc.rec, got, tc.want)
		}
	}
}

func TestIsCompletedPerGranularity(t *testing.T) {
	daily := model.RoutineTask{ID: "d", Recurrence: model.RecurrenceDaily, IsActive: true}
	weekly := model.RoutineTask{ID: "w", Recurrence: model.RecurrenceWeekly, DayOfWeek: period.Friday, IsActive: true}
	monthly := model.RoutineTask{ID: "m", Recurrence: model.RecurrenceMonthly, WeekOfMonth: 2, IsActive: true}

	fri := time.Date(2026, 2, 13, 9, 0, 0, 0, time.UTC)
	l := New([]model.Completion{
		completionAt("c1", "d", fri),
		completionAt("c2", "w", fri),
		completionAt("c3", "m", fri),
	})

	if !l.IsCompleted(daily, fri.Add(10*time.Hour)) {
		t.Fatal("expected daily done later the same day")
	}
	if l.IsCompleted(daily, fri.AddDate(0, 0, 1)) {
		t.Fatal("expected daily not done the next day")
	}
	if !l.IsCompleted(weekly, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected weekly done for the rest of the week")
	}
	if l.IsCompleted(weekly, fri.AddDate(0, 0, 7)) {
		t.Fatal("expected weekly not done the following friday")
	}
	if !l.IsCompleted(monthly, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected monthly done for the whole month")
	}
	if l.IsCompleted(monthly, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected monthly not done next month")
	}
}

func TestDueTasksForScenario(t *testing.T) {
	plan := &model.CommunicationPlan{UserID: "u1", ActiveDays: []period.Weekday{period.Monday, period.Wednesday, period.Friday}}
	tasks := []model.RoutineTask{{ID: "post", Title: "Post something", Recurrence: model.RecurrenceDaily, IsActive: true}}

	if got := DueTasksFor(time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC), tasks, plan); len(got) != 0 {
		t.Fatalf("expected nothing due on tuesday, got %d", len(got))
	}
	got := DueTasksFor(time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC), tasks, plan)
	if len(got) != 1 || got[0].ID != "post" {
		t.Fatalf("expected post due on monday, got %#v", got)
	}
	if got := DueTasksFor(time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC), tasks, nil); len(got) != 0 {
		t.Fatalf("expected nothing due without plan, got %d", len(got))
	}
}

func TestDueTasksForOrdering(t *testing.T) {
	tasks := []model.RoutineTask{
		{ID: "b", Recurrence: model.RecurrenceDaily, SortOrder: 2, IsActive: true},
		{ID: "a", Recurrence: model.RecurrenceDaily, SortOrder: 2, IsActive: true},
		{ID: "c", Recurrence: model.RecurrenceDaily, SortOrder: 1, IsActive: true},
		{ID: "x", Recurrence: model.RecurrenceDaily, SortOrder: 0, IsActive: false},
	}
	got := DueTasksFor(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), tasks, allDays())
	if len(got) != 3 || got[0].ID != "c" || got[1].ID != "a" || got[2].ID != "b" {
		t.Fatalf("unexpected order: %#v", got)
	}
}

func TestCompletionCount(t *testing.T) {
	mon := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
	tasks := []model.RoutineTask{
		{ID: "d1", Recurrence: model.RecurrenceDaily, IsActive: true},
		{ID: "d2", Recurrence: model.RecurrenceDaily, IsActive: true},
		{ID: "w", Recurrence: model.RecurrenceWeekly, DayOfWeek: period.Monday, IsActive: true},
		{ID: "w2", Recurrence: model.RecurrenceWeekly, DayOfWeek: period.Tuesday, IsActive: true},
	}
	l := New([]model.Completion{completionAt("c1", "d1", mon), completionAt("c2", "w", mon)})
	done, total := l.CompletionCount(mon, tasks, allDays())
	if done != 2 || total != 3 {
		t.Fatalf("unexpected counts: done=%d total=%d", done, total)
	}
}

func TestWeekGrouping(t *testing.T) {
	plan := &model.CommunicationPlan{UserID: "u1", ActiveDays: []period.Weekday{period.Monday, period.Wednesday, period.Friday}}
	tasks := []model.RoutineTask{
		{ID: "daily", Recurrence: model.RecurrenceDaily, IsActive: true},
		{ID: "weekly", Recurrence: model.RecurrenceWeekly, DayOfWeek: period.Wednesday, IsActive: true},
		// 2026-02-09..15 sits in the second 7-day block of February.
		{ID: "monthly", Recurrence: model.RecurrenceMonthly, WeekOfMonth: 2, IsActive: true},
		{ID: "monthly-fri", Recurrence: model.RecurrenceMonthly, WeekOfMonth: 2, DayOfWeek: period.Friday, IsActive: true},
	}
	week := New(nil).Week(time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC), tasks, plan)
	if len(week) != 3 {
		t.Fatalf("expected 3 active days, got %d", len(week))
	}

	ids := func(d DaySchedule) []string {
		out := make([]string, 0, len(d.Tasks))
		for _, s := range d.Tasks {
			out = append(out, s.Task.ID)
		}
		return out
	}
	if got := ids(week[0]); week[0].Day != period.Monday || len(got) != 2 {
		t.Fatalf("unexpected monday: %s %v", week[0].Day, got)
	}
	if got := ids(week[1]); week[1].Day != period.Wednesday || len(got) != 3 {
		t.Fatalf("unexpected wednesday: %s %v", week[1].Day, got)
	}
	if got := ids(week[2]); week[2].Day != period.Friday || len(got) != 3 {
		t.Fatalf("unexpected friday: %s %v", week[2].Day, got)
	}
}

func TestWeekAndMonthProgress(t *testing.T) {
	plan := &model.CommunicationPlan{UserID: "u1", ActiveDays: []period.Weekday{period.Monday, period.Wednesday, period.Friday}}
	tasks := []model.RoutineTask{
		{ID: "daily", Recurrence: model.RecurrenceDaily, IsActive: true},
		{ID: "weekly", Recurrence: model.RecurrenceWeekly, DayOfWeek: period.Wednesday, IsActive: true},
		{ID: "monthly", Recurrence: model.RecurrenceMonthly, WeekOfMonth: 2, IsActive: true},
	}
	wed := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	l := New([]model.Completion{
		completionAt("c1", "daily", wed),
		completionAt("c2", "monthly", wed),
	})

	week := l.WeekProgress(wed, tasks, plan)
	// 3 daily occurrences + 1 weekly + 1 monthly.
	if week.Total != 5 || week.Done != 2 {
		t.Fatalf("unexpected week progress: %+v", week)
	}

	month := l.MonthProgress(wed, tasks, plan)
	// February 2026 has 12 mon/wed/fri days and 4 wednesdays.
	if month.Total != 12+4+1 || month.Done != 2 {
		t.Fatalf("unexpected month progress: %+v", month)
	}

	monthly := l.MonthlyTasks(wed, tasks, plan)
	if len(monthly) != 1 || monthly[0].Task.ID != "monthly" || !monthly[0].Done {
		t.Fatalf("unexpected monthly tasks: %#v", monthly)
	}
}

func TestLedgerRemoveAndPurge(t *testing.T) {
	day := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
	l := New([]model.Completion{
		completionAt("c1", "a", day),
		completionAt("c2", "a", day.AddDate(0, 0, 1)),
		completionAt("c3", "b", day),
	})
	if !l.Remove("c2") || l.Remove("c2") {
		t.Fatal("expected c2 removed exactly once")
	}
	if n := l.Purge("a"); n != 1 {
		t.Fatalf("expected 1 purged completion, got %d", n)
	}
	if got := l.Completions(); len(got) != 1 || got[0].ID != "c3" {
		t.Fatalf("unexpected remaining completions: %#v", got)
	}
}
