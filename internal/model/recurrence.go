package model

import (
	"time"

	"github.com/sandeepkv93/routined/internal/period"
)

type Recurrence string

const (
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// IsDue reports whether t should be performed on date under plan. A missing
// plan, an inactive task, an off day or a malformed rule all yield false.
func (t RoutineTask) IsDue(date time.Time, plan *CommunicationPlan) bool {
	if plan == nil || !t.IsActive {
		return false
	}
	day := period.DayKey(date)
	if !plan.IsActiveDay(day) {
		return false
	}

	switch t.Recurrence {
	case RecurrenceDaily:
		return true
	case RecurrenceWeekly:
		return t.DayOfWeek == day
	case RecurrenceMonthly:
		if t.WeekOfMonth < 1 || t.WeekOfMonth > 5 {
			return false
		}
		if t.WeekOfMonth != period.WeekOfMonth(date) {
			return false
		}
		return t.DayOfWeek == "" || t.DayOfWeek == day
	default:
		return false
	}
}

// NextDue returns the first day strictly after from on which t is due,
// searching at most horizonDays ahead.
func (t RoutineTask) NextDue(from time.Time, plan *CommunicationPlan, horizonDays int) (time.Time, bool) {
	probe := period.StartOfDay(from)
	for i := 0; i < horizonDays; i++ {
		probe = probe.AddDate(0, 0, 1)
		if t.IsDue(probe, plan) {
			return probe, true
		}
	}
	return time.Time{}, false
}

// Preview lists up to count upcoming due days after from. Each step searches
// at most horizonDays ahead of the previous hit.
func (t RoutineTask) Preview(from time.Time, plan *CommunicationPlan, count, horizonDays int) []time.Time {
	if count <= 0 {
		return []time.Time{}
	}
	out := make([]time.Time, 0, count)
	cursor := from
	for i := 0; i < count; i++ {
		next, ok := t.NextDue(cursor, plan, horizonDays)
		if !ok {
			break
		}
		out = append(out, next)
		cursor = next
	}
	return out
}
