package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/period"
	"github.com/sandeepkv93/routined/internal/routine"
)

var _ routine.Store = (*SQLiteRepository)(nil)
var _ Repository = (*SQLiteRepository)(nil)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "routined-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func testTask(id string, sortOrder int) model.RoutineTask {
	return model.RoutineTask{
		ID:              id,
		UserID:          "u1",
		Title:           "Post a carousel",
		TaskType:        model.TaskTypePost,
		DurationMinutes: 20,
		Recurrence:      model.RecurrenceWeekly,
		DayOfWeek:       period.Friday,
		SortOrder:       sortOrder,
		IsActive:        true,
		CreatedAt:       time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
	}
}

func testCompletion(id, taskID string, at time.Time) model.Completion {
	return model.Completion{
		ID:          id,
		TaskID:      taskID,
		CompletedAt: at,
		Week:        period.WeekID(at),
		Month:       period.MonthID(at),
		Period:      period.WeekID(at),
	}
}

func TestTaskInsertLoadAndDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	task := testTask("task-1", 0)
	task.IsAutoGenerated = true
	if _, err := repo.InsertTask(ctx, task); err != nil {
		t.Fatalf("insert task: %v", err)
	}
	other := testTask("task-2", 1)
	other.UserID = "u2"
	if _, err := repo.InsertTask(ctx, other); err != nil {
		t.Fatalf("insert other task: %v", err)
	}

	tasks, err := repo.LoadTasks(ctx, "u1")
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected one task for u1, got %d", len(tasks))
	}
	got := tasks[0]
	if got.DayOfWeek != period.Friday || got.Recurrence != model.RecurrenceWeekly || !got.IsAutoGenerated || !got.IsActive {
		t.Fatalf("unexpected task round trip: %#v", got)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, task.CreatedAt)
	}

	if err := repo.DeleteTask(ctx, "task-1"); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if err := repo.DeleteTask(ctx, "task-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompletionConflictAndFind(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	if _, err := repo.InsertTask(ctx, testTask("task-1", 0)); err != nil {
		t.Fatalf("insert task: %v", err)
	}

	friday := parseRFC3339(t, "2026-02-13T09:30:00Z")
	if _, err := repo.InsertCompletion(ctx, testCompletion("c1", "task-1", friday)); err != nil {
		t.Fatalf("insert completion: %v", err)
	}
	_, err := repo.InsertCompletion(ctx, testCompletion("c2", "task-1", friday.Add(time.Hour)))
	if !errors.Is(err, ErrConflict) || !errors.Is(err, model.ErrDuplicateCompletion) {
		t.Fatalf("expected conflict, got %v", err)
	}

	found, err := repo.FindCompletion(ctx, "task-1", "2026-W07")
	if err != nil {
		t.Fatalf("find completion: %v", err)
	}
	if found.ID != "c1" || !found.CompletedAt.Equal(friday) {
		t.Fatalf("unexpected completion: %#v", found)
	}
	if _, err := repo.FindCompletion(ctx, "task-1", "2026-W08"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.DeleteCompletion(ctx, "c1"); err != nil {
		t.Fatalf("delete completion: %v", err)
	}
	if err := repo.DeleteCompletion(ctx, "c1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCompletionsFollowTaskLifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	for i, id := range []string{"task-1", "task-2"} {
		if _, err := repo.InsertTask(ctx, testTask(id, i)); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
	base := parseRFC3339(t, "2026-02-06T10:00:00Z")
	for i, id := range []string{"a", "b", "c"} {
		if _, err := repo.InsertCompletion(ctx, testCompletion(id, "task-1", base.AddDate(0, 0, 7*i))); err != nil {
			t.Fatalf("insert completion %s: %v", id, err)
		}
	}
	if _, err := repo.InsertCompletion(ctx, testCompletion("d", "task-2", base)); err != nil {
		t.Fatalf("insert completion d: %v", err)
	}

	page, err := repo.ListCompletions(ctx, CompletionListFilter{UserID: "u1", TaskID: "task-1", Limit: 2})
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(page) != 2 || page[0].ID != "c" || page[1].ID != "b" {
		t.Fatalf("unexpected first page: %#v", page)
	}
	rest, err := repo.ListCompletions(ctx, CompletionListFilter{UserID: "u1", TaskID: "task-1", Offset: 2})
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != "a" {
		t.Fatalf("unexpected offset page: %#v", rest)
	}

	if err := repo.SetTaskActive(ctx, "task-1", false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	all, err := repo.LoadCompletions(ctx, "u1")
	if err != nil {
		t.Fatalf("load completions: %v", err)
	}
	if len(all) != 1 || all[0].ID != "d" {
		t.Fatalf("expected only task-2 history after deactivation, got %#v", all)
	}
	tasks, err := repo.LoadTasks(ctx, "u1")
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if tasks[0].IsActive {
		t.Fatal("task-1 should be inactive")
	}

	if err := repo.DeleteTask(ctx, "task-2"); err != nil {
		t.Fatalf("delete task-2: %v", err)
	}
	all, err = repo.LoadCompletions(ctx, "u1")
	if err != nil {
		t.Fatalf("load completions: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected delete to cascade, got %#v", all)
	}
	if err := repo.SetTaskActive(ctx, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListCompletionsOrdersSubSecondTimes(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	for i, id := range []string{"task-1", "task-2", "task-3"} {
		if _, err := repo.InsertTask(ctx, testTask(id, i)); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	base := parseRFC3339(t, "2026-02-13T09:30:05Z")
	times := map[string]time.Time{
		"tenth":   base.Add(100 * time.Millisecond),
		"twelfth": base.Add(120 * time.Millisecond),
		"whole":   base,
	}
	for id, taskID := range map[string]string{"tenth": "task-1", "twelfth": "task-2", "whole": "task-3"} {
		if _, err := repo.InsertCompletion(ctx, testCompletion(id, taskID, times[id])); err != nil {
			t.Fatalf("insert completion %s: %v", id, err)
		}
	}

	got, err := repo.ListCompletions(ctx, CompletionListFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(got) != 3 || got[0].ID != "twelfth" || got[1].ID != "tenth" || got[2].ID != "whole" {
		t.Fatalf("unexpected order: %#v", got)
	}
	if !got[0].CompletedAt.Equal(times["twelfth"]) {
		t.Fatalf("completed_at round trip: got %s", got[0].CompletedAt)
	}
}

func TestUpdateTaskOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		if _, err := repo.InsertTask(ctx, testTask(id, i)); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
	if err := repo.UpdateTaskOrder(ctx, "u1", []string{"c", "a", "b"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	tasks, err := repo.LoadTasks(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tasks[0].ID != "c" || tasks[1].ID != "a" || tasks[2].ID != "b" {
		t.Fatalf("unexpected order: %s %s %s", tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}

	if err := repo.UpdateTaskOrder(ctx, "u1", []string{"b", "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	tasks, err = repo.LoadTasks(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tasks[0].ID != "c" {
		t.Fatalf("failed reorder must roll back, first task is %s", tasks[0].ID)
	}
}

func TestPlanUpsert(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	plan, err := repo.LoadPlan(ctx, "u1")
	if err != nil || plan != nil {
		t.Fatalf("expected no plan yet, got %#v err=%v", plan, err)
	}

	saved := model.CommunicationPlan{
		UserID:           "u1",
		DailyTimeMinutes: 30,
		ActiveDays:       []period.Weekday{period.Monday, period.Wednesday, period.Friday},
		MonthlyGoal:      "Reach 500 followers",
		UpdatedAt:        parseRFC3339(t, "2026-02-01T08:00:00Z"),
	}
	if err := repo.SavePlan(ctx, saved); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	saved.ActiveDays = []period.Weekday{period.Tuesday}
	saved.DailyTimeMinutes = 15
	if err := repo.SavePlan(ctx, saved); err != nil {
		t.Fatalf("update plan: %v", err)
	}

	plan, err = repo.LoadPlan(ctx, "u1")
	if err != nil {
		t.Fatalf("load plan: %v", err)
	}
	if plan.DailyTimeMinutes != 15 || len(plan.ActiveDays) != 1 || plan.ActiveDays[0] != period.Tuesday {
		t.Fatalf("unexpected plan: %#v", plan)
	}

	saved.ActiveDays = nil
	if err := repo.SavePlan(ctx, saved); err != nil {
		t.Fatalf("save empty plan: %v", err)
	}
	plan, err = repo.LoadPlan(ctx, "u1")
	if err != nil {
		t.Fatalf("load plan: %v", err)
	}
	if len(plan.ActiveDays) != 0 {
		t.Fatalf("expected empty active days, got %v", plan.ActiveDays)
	}
}
