package routine

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/routined/internal/ledger"
	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/period"
	"go.uber.org/zap"
)

// TaskInput describes a task created by the user or by plan generation.
type TaskInput struct {
	Title           string
	TaskType        model.TaskType
	DurationMinutes int
	Recurrence      model.Recurrence
	DayOfWeek       period.Weekday
	WeekOfMonth     int
}

func (e *Engine) CreateTask(ctx context.Context, in TaskInput) (model.RoutineTask, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return model.RoutineTask{}, ErrNotLoaded
	}
	return e.insertTask(ctx, in, false)
}

func (e *Engine) insertTask(ctx context.Context, in TaskInput, generated bool) (model.RoutineTask, error) {
	taskType := in.TaskType
	if taskType == "" {
		taskType = model.TaskTypeOther
	}
	task := model.RoutineTask{
		ID:              e.newID(),
		UserID:          e.userID,
		Title:           strings.TrimSpace(in.Title),
		TaskType:        taskType,
		DurationMinutes: in.DurationMinutes,
		Recurrence:      in.Recurrence,
		DayOfWeek:       in.DayOfWeek,
		WeekOfMonth:     in.WeekOfMonth,
		IsAutoGenerated: generated,
		SortOrder:       e.nextSortOrder(),
		IsActive:        true,
		CreatedAt:       e.clock.Now(),
	}
	if err := task.Validate(); err != nil {
		return model.RoutineTask{}, err
	}
	stored, err := e.store.InsertTask(ctx, task)
	if err != nil {
		return model.RoutineTask{}, fmt.Errorf("%w: insert task: %w", ErrPersistence, err)
	}
	e.tasks = append(e.tasks, stored)
	e.logger.Info("task created",
		zap.String("task_id", stored.ID),
		zap.String("recurrence", string(stored.Recurrence)),
		zap.Bool("auto_generated", generated),
	)
	return stored, nil
}

func (e *Engine) nextSortOrder() int {
	next := 0
	for _, t := range e.tasks {
		if t.SortOrder >= next {
			next = t.SortOrder + 1
		}
	}
	return next
}

// DeleteTask removes a user-created task and its completions. Generated
// tasks can only be deactivated.
func (e *Engine) DeleteTask(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNotLoaded
	}
	idx := e.taskIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if e.tasks[idx].IsAutoGenerated {
		return fmt.Errorf("%w: %s", ErrAutoGenerated, id)
	}
	if err := e.store.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("%w: delete task: %w", ErrPersistence, err)
	}
	e.tasks = append(e.tasks[:idx:idx], e.tasks[idx+1:]...)
	purged := e.ledger.Purge(id)
	e.logger.Info("task deleted", zap.String("task_id", id), zap.Int("purged_completions", purged))
	return nil
}

// SetTaskActive toggles the soft-delete flag. Deactivating drops the
// task's completions along with it.
func (e *Engine) SetTaskActive(ctx context.Context, id string, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNotLoaded
	}
	return e.setTaskActive(ctx, id, active)
}

func (e *Engine) setTaskActive(ctx context.Context, id string, active bool) error {
	idx := e.taskIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if e.tasks[idx].IsActive == active {
		return nil
	}
	if err := e.store.SetTaskActive(ctx, id, active); err != nil {
		return fmt.Errorf("%w: set task active: %w", ErrPersistence, err)
	}
	e.tasks[idx].IsActive = active
	purged := 0
	if !active {
		purged = e.ledger.Purge(id)
	}
	e.logger.Info("task activity changed",
		zap.String("task_id", id),
		zap.Bool("active", active),
		zap.Int("purged_completions", purged),
	)
	return nil
}

// ReorderTasks assigns SortOrder by position in orderedIDs. Tasks not listed
// keep their relative order after the listed ones.
func (e *Engine) ReorderTasks(ctx context.Context, orderedIDs []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNotLoaded
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if e.taskIndex(id) < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		if seen[id] {
			return fmt.Errorf("routine: duplicate task id in order: %s", id)
		}
		seen[id] = true
	}

	full := append([]string(nil), orderedIDs...)
	rest := make([]model.RoutineTask, 0, len(e.tasks))
	for _, t := range e.tasks {
		if !seen[t.ID] {
			rest = append(rest, t)
		}
	}
	ledger.SortTasks(rest)
	for _, t := range rest {
		full = append(full, t.ID)
	}

	if err := e.store.UpdateTaskOrder(ctx, e.userID, full); err != nil {
		return fmt.Errorf("%w: update task order: %w", ErrPersistence, err)
	}
	for pos, id := range full {
		e.tasks[e.taskIndex(id)].SortOrder = pos
	}
	e.logger.Debug("tasks reordered", zap.Int("count", len(full)))
	return nil
}

// SavePlan stores plan as the user's communication plan.
func (e *Engine) SavePlan(ctx context.Context, plan model.CommunicationPlan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNotLoaded
	}
	return e.savePlan(ctx, plan)
}

func (e *Engine) savePlan(ctx context.Context, plan model.CommunicationPlan) error {
	plan.UserID = e.userID
	plan.UpdatedAt = e.clock.Now()
	if err := plan.Validate(); err != nil {
		return err
	}
	if err := e.store.SavePlan(ctx, plan); err != nil {
		return fmt.Errorf("%w: save plan: %w", ErrPersistence, err)
	}
	e.plan = &plan
	e.logger.Info("plan saved", zap.Int("active_days", len(plan.ActiveDays)))
	return nil
}

// ApplyGeneratedPlan swaps in a freshly generated plan: previous generated
// tasks are deactivated, the new ones inserted as generated, and the plan
// saved. User-created tasks are left alone.
func (e *Engine) ApplyGeneratedPlan(ctx context.Context, plan model.CommunicationPlan, tasks []TaskInput) ([]model.RoutineTask, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return nil, ErrNotLoaded
	}

	for _, in := range tasks {
		probe := model.RoutineTask{
			ID: "probe", UserID: e.userID, Title: strings.TrimSpace(in.Title), TaskType: in.TaskType,
			DurationMinutes: in.DurationMinutes, Recurrence: in.Recurrence, DayOfWeek: in.DayOfWeek,
			WeekOfMonth: in.WeekOfMonth, CreatedAt: e.clock.Now(),
		}
		if probe.TaskType == "" {
			probe.TaskType = model.TaskTypeOther
		}
		if err := probe.Validate(); err != nil {
			return nil, fmt.Errorf("generated task %q: %w", in.Title, err)
		}
	}

	plan.UserID = e.userID
	plan.UpdatedAt = e.clock.Now()
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("generated plan: %w", err)
	}

	previous := make([]string, 0)
	for _, t := range e.tasks {
		if t.IsAutoGenerated && t.IsActive {
			previous = append(previous, t.ID)
		}
	}
	for _, id := range previous {
		if err := e.setTaskActive(ctx, id, false); err != nil {
			return nil, err
		}
	}

	created := make([]model.RoutineTask, 0, len(tasks))
	for _, in := range tasks {
		task, err := e.insertTask(ctx, in, true)
		if err != nil {
			return created, err
		}
		created = append(created, task)
	}
	if err := e.savePlan(ctx, plan); err != nil {
		return created, err
	}
	return created, nil
}
