package model

import (
	"errors"
	"time"

	"github.com/sandeepkv93/routined/internal/period"
)

// CommunicationPlan is the per-user weekly rhythm. An empty ActiveDays set
// is valid and schedules nothing.
type CommunicationPlan struct {
	UserID           string           `validate:"required"`
	DailyTimeMinutes int              `validate:"gte=0"`
	ActiveDays       []period.Weekday `validate:"dive,weekday"`
	MonthlyGoal      string           `validate:"max=200"`
	UpdatedAt        time.Time
}

func (p CommunicationPlan) Validate() error {
	if err := checkStruct(p); err != nil {
		return err
	}
	seen := make(map[period.Weekday]bool, len(p.ActiveDays))
	for _, d := range p.ActiveDays {
		if seen[d] {
			return errors.New("model: duplicate weekday in active days")
		}
		seen[d] = true
	}
	return nil
}

func (p *CommunicationPlan) IsActiveDay(d period.Weekday) bool {
	if p == nil {
		return false
	}
	for _, active := range p.ActiveDays {
		if active == d {
			return true
		}
	}
	return false
}

// OrderedActiveDays returns the plan's active days Monday first.
func (p *CommunicationPlan) OrderedActiveDays() []period.Weekday {
	out := make([]period.Weekday, 0, 7)
	for _, d := range period.Weekdays() {
		if p.IsActiveDay(d) {
			out = append(out, d)
		}
	}
	return out
}
