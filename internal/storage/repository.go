package storage

import (
	"context"

	"github.com/sandeepkv93/routined/internal/model"
)

// Missing rows and per-period duplicates are reported with the model's
// sentinels so callers need not import this package to check them.
var (
	ErrNotFound = model.ErrNotFound
	ErrConflict = model.ErrDuplicateCompletion
)

type Repository interface {
	LoadTasks(ctx context.Context, userID string) ([]model.RoutineTask, error)
	InsertTask(ctx context.Context, in model.RoutineTask) (model.RoutineTask, error)
	DeleteTask(ctx context.Context, id string) error
	SetTaskActive(ctx context.Context, id string, active bool) error
	UpdateTaskOrder(ctx context.Context, userID string, orderedIDs []string) error

	LoadCompletions(ctx context.Context, userID string) ([]model.Completion, error)
	ListCompletions(ctx context.Context, filter CompletionListFilter) ([]model.Completion, error)
	FindCompletion(ctx context.Context, taskID, periodKey string) (model.Completion, error)
	InsertCompletion(ctx context.Context, in model.Completion) (model.Completion, error)
	DeleteCompletion(ctx context.Context, id string) error

	LoadPlan(ctx context.Context, userID string) (*model.CommunicationPlan, error)
	SavePlan(ctx context.Context, plan model.CommunicationPlan) error

	Close() error
}
