package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidWeekday = errors.New("period: invalid weekday")

// Weekday is the locale-independent day tag stored with tasks and plans.
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

var ordered = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Weekdays returns the seven tags, Monday first.
func Weekdays() []Weekday {
	out := make([]Weekday, len(ordered))
	copy(out, ordered)
	return out
}

func (d Weekday) Valid() bool {
	return d.Index() >= 0
}

// Index is the Monday-based position of d, or -1 for an unknown tag.
func (d Weekday) Index() int {
	for i, w := range ordered {
		if w == d {
			return i
		}
	}
	return -1
}

func ParseWeekday(raw string) (Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mon", "monday":
		return Monday, nil
	case "tue", "tuesday":
		return Tuesday, nil
	case "wed", "wednesday":
		return Wednesday, nil
	case "thu", "thursday":
		return Thursday, nil
	case "fri", "friday":
		return Friday, nil
	case "sat", "saturday":
		return Saturday, nil
	case "sun", "sunday":
		return Sunday, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, raw)
	}
}

// DayKey maps t's weekday to its tag.
func DayKey(t time.Time) Weekday {
	return ordered[mondayIndex(t.Weekday())]
}

// DayID is t truncated to its calendar day, as YYYY-MM-DD.
func DayID(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekID buckets t into a Monday-based week numbered from the week holding
// Jan 1. The number is derived from the day of year and Jan 1's weekday, so
// the last days of December and the first days of January never share an ID
// even when they fall in the same Monday-to-Sunday run.
func WeekID(t time.Time) string {
	y := t.Year()
	jan1 := time.Date(y, time.January, 1, 0, 0, 0, 0, t.Location())
	offset := mondayIndex(jan1.Weekday())
	week := (t.YearDay()-1+offset)/7 + 1
	return fmt.Sprintf("%04d-W%02d", y, week)
}

func MonthID(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// WeekOfMonth is the ordinal 7-day block of the month holding t: days 1-7
// are block 1, 8-14 block 2, and 29-31 block 5.
func WeekOfMonth(t time.Time) int {
	return (t.Day() + 6) / 7
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday that opens t's week.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -mondayIndex(day.Weekday()))
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func NextDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

func NextWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 7)
}

func NextMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0)
}

// DaysInMonth lists every calendar day of t's month at midnight.
func DaysInMonth(t time.Time) []time.Time {
	start := StartOfMonth(t)
	end := NextMonth(t)
	out := make([]time.Time, 0, 31)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}
