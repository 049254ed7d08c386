package routine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/routined/internal/ledger"
	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/period"
	"go.uber.org/zap"
)

var (
	ErrNotLoaded     = errors.New("routine: engine not loaded")
	ErrTaskNotFound  = errors.New("routine: task not found")
	ErrTaskInactive  = errors.New("routine: task is inactive")
	ErrAutoGenerated = errors.New("routine: auto-generated task cannot be removed directly")
	ErrPersistence   = errors.New("routine: persistence failed")
)

// Celebration is handed to the celebration callback when a toggle finishes
// the last open task of a day that had more than one.
type Celebration struct {
	Streak         int
	CompletedCount int
	TotalCount     int
}

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithCelebration(fn func(Celebration)) Option {
	return func(e *Engine) { e.celebrate = fn }
}

func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// Engine owns one user's in-memory view of tasks, plan and completions and
// is the only place that mutates them. Calls are serialised.
type Engine struct {
	store     Store
	userID    string
	clock     Clock
	logger    *zap.Logger
	celebrate func(Celebration)
	newID     func() string

	mu     sync.Mutex
	loaded bool
	tasks  []model.RoutineTask
	plan   *model.CommunicationPlan
	ledger *ledger.Ledger
}

func New(store Store, userID string, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		userID: userID,
		clock:  SystemClock(nil),
		logger: zap.NewNop(),
		newID:  uuid.NewString,
		ledger: ledger.New(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) UserID() string { return e.userID }

func (e *Engine) Now() time.Time { return e.clock.Now() }

// Load replaces the in-memory view with the store's current state.
func (e *Engine) Load(ctx context.Context) error {
	tasks, err := e.store.LoadTasks(ctx, e.userID)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	completions, err := e.store.LoadCompletions(ctx, e.userID)
	if err != nil {
		return fmt.Errorf("load completions: %w", err)
	}
	plan, err := e.store.LoadPlan(ctx, e.userID)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}

	loc := e.clock.Now().Location()
	for i := range completions {
		completions[i].CompletedAt = completions[i].CompletedAt.In(loc)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = tasks
	e.plan = plan
	e.ledger = ledger.New(completions)
	e.loaded = true
	e.logger.Debug("routine state loaded",
		zap.String("user_id", e.userID),
		zap.Int("tasks", len(tasks)),
		zap.Int("completions", len(completions)),
		zap.Bool("has_plan", plan != nil),
	)
	return nil
}

// Toggle flips taskID's completion for the natural period containing date.
// It returns the new record, or nil when an existing one was removed.
func (e *Engine) Toggle(ctx context.Context, taskID string, date time.Time) (*model.Completion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return nil, ErrNotLoaded
	}
	task, ok := e.findTask(taskID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if !task.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrTaskInactive, taskID)
	}
	key := ledger.NaturalPeriodKey(task, date)
	if key == "" {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidRecurrence, task.Recurrence)
	}

	if existing, found := e.ledger.Find(task, date); found {
		return nil, e.uncomplete(ctx, existing, key)
	}
	return e.complete(ctx, task, date, key)
}

func (e *Engine) uncomplete(ctx context.Context, existing model.Completion, key string) error {
	e.ledger.Remove(existing.ID)
	if err := e.store.DeleteCompletion(ctx, existing.ID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			e.logger.Debug("completion already gone", zap.String("completion_id", existing.ID))
			return nil
		}
		e.ledger.Add(existing)
		e.logger.Warn("uncomplete rolled back",
			zap.String("task_id", existing.TaskID),
			zap.String("period", key),
			zap.Error(err),
		)
		return fmt.Errorf("%w: delete completion %s: %w", ErrPersistence, existing.ID, err)
	}
	e.logger.Info("task uncompleted", zap.String("task_id", existing.TaskID), zap.String("period", key))
	return nil
}

func (e *Engine) complete(ctx context.Context, task model.RoutineTask, date time.Time, key string) (*model.Completion, error) {
	now := e.clock.Now()
	c := model.Completion{
		ID:          e.newID(),
		TaskID:      task.ID,
		CompletedAt: completionTime(date, now),
		Week:        period.WeekID(date),
		Month:       period.MonthID(date),
		Period:      key,
	}

	// The ledger is updated before the write so the celebration sees the
	// post-toggle streak.
	e.ledger.Add(c)
	cel, fire := e.celebration(task, date, now)

	stored, err := e.store.InsertCompletion(ctx, c)
	if err != nil {
		e.ledger.Remove(c.ID)
		if errors.Is(err, model.ErrDuplicateCompletion) {
			return e.adoptExisting(ctx, task, key)
		}
		e.logger.Warn("complete rolled back",
			zap.String("task_id", task.ID),
			zap.String("period", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: insert completion: %w", ErrPersistence, err)
	}
	if stored.ID != c.ID {
		e.ledger.Remove(c.ID)
		stored.CompletedAt = stored.CompletedAt.In(now.Location())
		e.ledger.Add(stored)
	}
	e.logger.Info("task completed", zap.String("task_id", task.ID), zap.String("period", key))

	if fire && e.celebrate != nil {
		e.logger.Info("day finished",
			zap.Int("streak", cel.Streak),
			zap.Int("completed", cel.CompletedCount),
			zap.Int("total", cel.TotalCount),
		)
		e.celebrate(cel)
	}
	return &stored, nil
}

// adoptExisting handles a lost race against another writer: the period is
// already completed, so the stored record becomes the local one.
func (e *Engine) adoptExisting(ctx context.Context, task model.RoutineTask, key string) (*model.Completion, error) {
	existing, err := e.store.FindCompletion(ctx, task.ID, key)
	if err != nil {
		return nil, fmt.Errorf("%w: reload completion: %w", ErrPersistence, err)
	}
	existing.CompletedAt = existing.CompletedAt.In(e.clock.Now().Location())
	e.ledger.Add(existing)
	e.logger.Info("completion conflict treated as completed",
		zap.String("task_id", task.ID),
		zap.String("period", key),
		zap.String("completion_id", existing.ID),
	)
	return &existing, nil
}

// celebration decides whether completing task for date finishes today. The
// task must be due today, and every other task due today must already be
// done, out of more than one.
func (e *Engine) celebration(task model.RoutineTask, date, now time.Time) (Celebration, bool) {
	if ledger.NaturalPeriodKey(task, date) != ledger.NaturalPeriodKey(task, now) {
		return Celebration{}, false
	}
	due := ledger.DueTasksFor(now, e.tasks, e.plan)
	if len(due) <= 1 {
		return Celebration{}, false
	}
	included := false
	for _, d := range due {
		if d.ID == task.ID {
			included = true
			continue
		}
		if !e.ledger.IsCompleted(d, now) {
			return Celebration{}, false
		}
	}
	if !included {
		return Celebration{}, false
	}
	return Celebration{
		Streak:         e.ledger.Streak(now),
		CompletedCount: len(due),
		TotalCount:     len(due),
	}, true
}

// completionTime keeps the live timestamp when toggling today and otherwise
// moves now's clock time onto date's calendar day.
func completionTime(date, now time.Time) time.Time {
	if period.DayID(date) == period.DayID(now) {
		return now
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), date.Location())
}

func (e *Engine) findTask(id string) (model.RoutineTask, bool) {
	for _, t := range e.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.RoutineTask{}, false
}

func (e *Engine) taskIndex(id string) int {
	for i, t := range e.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Tasks returns every task, active or not, in display order.
func (e *Engine) Tasks() []model.RoutineTask {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.RoutineTask, len(e.tasks))
	copy(out, e.tasks)
	ledger.SortTasks(out)
	return out
}

func (e *Engine) Plan() *model.CommunicationPlan {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.plan == nil {
		return nil
	}
	cp := *e.plan
	cp.ActiveDays = append([]period.Weekday(nil), e.plan.ActiveDays...)
	return &cp
}

func (e *Engine) Completions() []model.Completion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Completions()
}
