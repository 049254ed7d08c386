package model

import (
	"errors"
	"strings"
	"time"
)

// Stores report missing rows and per-period duplicates with these.
var (
	ErrNotFound            = errors.New("model: record not found")
	ErrDuplicateCompletion = errors.New("model: completion already recorded for period")
)

// Completion records one task marked done for one natural period. Week and
// Month are filled for every recurrence so history survives a later change
// of the task's cadence. Period holds the natural-period key the record was
// written for and backs the per-period uniqueness constraint.
type Completion struct {
	ID          string
	TaskID      string
	CompletedAt time.Time
	Week        string
	Month       string
	Period      string
}

func (c Completion) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("model: completion id is required")
	}
	if strings.TrimSpace(c.TaskID) == "" {
		return errors.New("model: completion task_id is required")
	}
	if c.CompletedAt.IsZero() {
		return errors.New("model: completion completed_at is required")
	}
	if c.Week == "" || c.Month == "" || c.Period == "" {
		return errors.New("model: completion week, month and period are required")
	}
	return nil
}
