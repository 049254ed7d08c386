package routine

import (
	"context"
	"time"

	"github.com/sandeepkv93/routined/internal/model"
)

// Store is the persistence collaborator. Missing rows are reported with
// model.ErrNotFound and a second completion for the same task and period
// with model.ErrDuplicateCompletion.
type Store interface {
	LoadTasks(ctx context.Context, userID string) ([]model.RoutineTask, error)
	LoadCompletions(ctx context.Context, userID string) ([]model.Completion, error)
	// LoadPlan returns nil, nil when the user has no plan yet.
	LoadPlan(ctx context.Context, userID string) (*model.CommunicationPlan, error)
	FindCompletion(ctx context.Context, taskID, periodKey string) (model.Completion, error)

	InsertCompletion(ctx context.Context, c model.Completion) (model.Completion, error)
	DeleteCompletion(ctx context.Context, id string) error
	InsertTask(ctx context.Context, t model.RoutineTask) (model.RoutineTask, error)
	// DeleteTask removes the task together with its completions.
	DeleteTask(ctx context.Context, id string) error
	// SetTaskActive flips the soft-delete flag; deactivating also removes
	// the task's completions in the same transaction.
	SetTaskActive(ctx context.Context, id string, active bool) error
	UpdateTaskOrder(ctx context.Context, userID string, orderedIDs []string) error
	SavePlan(ctx context.Context, plan model.CommunicationPlan) error
}

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct {
	loc *time.Location
}

func (c systemClock) Now() time.Time {
	if c.loc == nil {
		return time.Now()
	}
	return time.Now().In(c.loc)
}

// SystemClock reads the wall clock in loc, or in the local zone when loc is
// nil.
func SystemClock(loc *time.Location) Clock {
	return systemClock{loc: loc}
}
