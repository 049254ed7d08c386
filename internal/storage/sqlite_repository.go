package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/period"
)

// sqliteTimeLayout is fixed width so text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const taskColumns = `id, user_id, title, task_type, duration_minutes, recurrence, day_of_week,
	week_of_month, is_auto_generated, sort_order, is_active, created_at`

const completionColumns = `c.id, c.task_id, c.completed_at, c.week, c.month, c.period`

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository wraps db. The pool is pinned to one connection so the
// foreign key pragma holds for every statement.
func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens path, applies pending migrations and returns the
// repository.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) LoadTasks(ctx context.Context, userID string) ([]model.RoutineTask, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM routine_tasks WHERE user_id = ?
		ORDER BY sort_order ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RoutineTask, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) InsertTask(ctx context.Context, in model.RoutineTask) (model.RoutineTask, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO routine_tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Title, string(in.TaskType), in.DurationMinutes, string(in.Recurrence),
		string(in.DayOfWeek), in.WeekOfMonth, boolInt(in.IsAutoGenerated), in.SortOrder,
		boolInt(in.IsActive), mustTime(in.CreatedAt),
	)
	if err != nil {
		return model.RoutineTask{}, err
	}
	return in, nil
}

// DeleteTask removes the task and its completions. The schema cascades as
// well; the explicit delete keeps connections without the pragma correct.
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_completions WHERE task_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM routine_tasks WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return checkRowsAffected(res)
	})
}

func (r *SQLiteRepository) SetTaskActive(ctx context.Context, id string, active bool) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE routine_tasks SET is_active = ? WHERE id = ?`, boolInt(active), id)
		if err != nil {
			return err
		}
		if err := checkRowsAffected(res); err != nil {
			return err
		}
		if active {
			return nil
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM task_completions WHERE task_id = ?`, id)
		return err
	})
}

func (r *SQLiteRepository) UpdateTaskOrder(ctx context.Context, userID string, orderedIDs []string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for pos, id := range orderedIDs {
			res, err := tx.ExecContext(ctx,
				`UPDATE routine_tasks SET sort_order = ? WHERE id = ? AND user_id = ?`, pos, id, userID)
			if err != nil {
				return err
			}
			if err := checkRowsAffected(res); err != nil {
				return fmt.Errorf("reorder %s: %w", id, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) LoadCompletions(ctx context.Context, userID string) ([]model.Completion, error) {
	return r.ListCompletions(ctx, CompletionListFilter{UserID: userID})
}

// ListCompletions returns completions newest first.
func (r *SQLiteRepository) ListCompletions(ctx context.Context, filter CompletionListFilter) ([]model.Completion, error) {
	query := `SELECT ` + completionColumns + `
		FROM task_completions c JOIN routine_tasks t ON t.id = c.task_id`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.UserID != "" {
		clauses = append(clauses, "t.user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.TaskID != "" {
		clauses = append(clauses, "c.task_id = ?")
		args = append(args, filter.TaskID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY c.completed_at DESC, c.id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Completion, 0)
	for rows.Next() {
		item, scanErr := scanCompletion(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) FindCompletion(ctx context.Context, taskID, periodKey string) (model.Completion, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+completionColumns+`
		FROM task_completions c WHERE c.task_id = ? AND c.period = ?`, taskID, periodKey)
	item, err := scanCompletion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Completion{}, ErrNotFound
		}
		return model.Completion{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) InsertCompletion(ctx context.Context, in model.Completion) (model.Completion, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO task_completions (id, task_id, completed_at, week, month, period)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.TaskID, mustTime(in.CompletedAt), in.Week, in.Month, in.Period,
	)
	if err != nil {
		return model.Completion{}, mapConstraint(err)
	}
	return in, nil
}

func (r *SQLiteRepository) DeleteCompletion(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_completions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// LoadPlan returns nil, nil for a user who has never saved a plan.
func (r *SQLiteRepository) LoadPlan(ctx context.Context, userID string) (*model.CommunicationPlan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, daily_time_minutes, active_days, monthly_goal, updated_at
		FROM communication_plans WHERE user_id = ?`, userID)
	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *SQLiteRepository) SavePlan(ctx context.Context, plan model.CommunicationPlan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO communication_plans (user_id, daily_time_minutes, active_days, monthly_goal, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			daily_time_minutes = excluded.daily_time_minutes,
			active_days = excluded.active_days,
			monthly_goal = excluded.monthly_goal,
			updated_at = excluded.updated_at`,
		plan.UserID, plan.DailyTimeMinutes, joinWeekdays(plan.ActiveDays), plan.MonthlyGoal, mustTime(plan.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

// parseRequiredTime also accepts rows written with trimmed fractions.
func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func joinWeekdays(days []period.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

func splitWeekdays(v string) ([]period.Weekday, error) {
	out := make([]period.Weekday, 0, 7)
	if strings.TrimSpace(v) == "" {
		return out, nil
	}
	for _, raw := range strings.Split(v, ",") {
		d, err := period.ParseWeekday(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.RoutineTask, error) {
	var out model.RoutineTask
	var taskType, recurrence, day string
	var generated, active int
	var created string
	if err := s.Scan(&out.ID, &out.UserID, &out.Title, &taskType, &out.DurationMinutes, &recurrence, &day,
		&out.WeekOfMonth, &generated, &out.SortOrder, &active, &created); err != nil {
		return model.RoutineTask{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.RoutineTask{}, err
	}
	out.TaskType = model.TaskType(taskType)
	out.Recurrence = model.Recurrence(recurrence)
	out.DayOfWeek = period.Weekday(day)
	out.IsAutoGenerated = generated == 1
	out.IsActive = active == 1
	out.CreatedAt = createdAt
	return out, nil
}

func scanCompletion(s scanner) (model.Completion, error) {
	var out model.Completion
	var completed string
	if err := s.Scan(&out.ID, &out.TaskID, &completed, &out.Week, &out.Month, &out.Period); err != nil {
		return model.Completion{}, err
	}
	completedAt, err := parseRequiredTime(completed)
	if err != nil {
		return model.Completion{}, err
	}
	out.CompletedAt = completedAt
	return out, nil
}

func scanPlan(s scanner) (model.CommunicationPlan, error) {
	var out model.CommunicationPlan
	var days, updated string
	if err := s.Scan(&out.UserID, &out.DailyTimeMinutes, &days, &out.MonthlyGoal, &updated); err != nil {
		return model.CommunicationPlan{}, err
	}
	activeDays, err := splitWeekdays(days)
	if err != nil {
		return model.CommunicationPlan{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return model.CommunicationPlan{}, err
	}
	out.ActiveDays = activeDays
	out.UpdatedAt = updatedAt
	return out, nil
}

func mapConstraint(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
