package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/routined/internal/period"
)

var (
	ErrInvalidRecurrence  = errors.New("model: invalid recurrence")
	ErrInvalidWeekday     = errors.New("model: invalid weekday")
	ErrInvalidWeekOfMonth = errors.New("model: invalid week of month")
	ErrInvalidTaskType    = errors.New("model: invalid task type")
)

type TaskType string

const (
	TaskTypePost    TaskType = "post"
	TaskTypeEngage  TaskType = "engage"
	TaskTypeStory   TaskType = "story"
	TaskTypeAnalyze TaskType = "analyze"
	TaskTypePrepare TaskType = "prepare"
	TaskTypeOther   TaskType = "other"
)

func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypePost, TaskTypeEngage, TaskTypeStory, TaskTypeAnalyze, TaskTypePrepare, TaskTypeOther:
		return true
	default:
		return false
	}
}

// RoutineTask is one recurring obligation of a user's communication plan.
// DayOfWeek is mandatory for weekly tasks and narrows monthly ones; an empty
// DayOfWeek on a monthly task means any day of its week-of-month block.
type RoutineTask struct {
	ID              string         `validate:"required"`
	UserID          string         `validate:"required"`
	Title           string         `validate:"required,max=200"`
	TaskType        TaskType       `validate:"tasktype"`
	DurationMinutes int            `validate:"gte=0"`
	Recurrence      Recurrence     `validate:"recurrence"`
	DayOfWeek       period.Weekday `validate:"omitempty,weekday"`
	WeekOfMonth     int            `validate:"omitempty,min=1,max=5"`
	IsAutoGenerated bool
	SortOrder       int
	IsActive        bool
	CreatedAt       time.Time
}

func (t RoutineTask) Validate() error {
	if err := checkStruct(t); err != nil {
		return err
	}
	switch t.Recurrence {
	case RecurrenceWeekly:
		if t.DayOfWeek == "" {
			return fmt.Errorf("%w: weekly task requires a day of week", ErrInvalidWeekday)
		}
	case RecurrenceMonthly:
		if t.WeekOfMonth == 0 {
			return fmt.Errorf("%w: monthly task requires a week of month", ErrInvalidWeekOfMonth)
		}
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}
