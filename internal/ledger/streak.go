package ledger

import (
	"time"

	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/period"
)

// Streak counts consecutive calendar days with at least one completion,
// ending today. A day without completions yet is skipped rather than
// breaking the run, so the count then ends yesterday.
func Streak(completions []model.Completion, today time.Time) int {
	days := make(map[string]bool, len(completions))
	for _, c := range completions {
		days[period.DayID(c.CompletedAt)] = true
	}

	cursor := period.StartOfDay(today)
	if !days[period.DayID(cursor)] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	count := 0
	for days[period.DayID(cursor)] {
		count++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return count
}

func (l *Ledger) Streak(today time.Time) int {
	return Streak(l.Completions(), today)
}
