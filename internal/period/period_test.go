package period

import (
	"errors"
	"testing"
	"time"
)

func TestDayKey(t *testing.T) {
	cases := []struct {
		date time.Time
		want Weekday
	}{
		{time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), Monday},
		{time.Date(2026, 2, 10, 23, 59, 0, 0, time.UTC), Tuesday},
		{time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC), Friday},
		{time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC), Sunday},
	}
	for _, tc := range cases {
		if got := DayKey(tc.date); got != tc.want {
			t.Fatalf("DayKey(%s) = %s, want %s", tc.date.Format(time.RFC3339), got, tc.want)
		}
	}
}

func TestWeekIDMondayBoundaries(t *testing.T) {
	// 2026-01-01 is a Thursday, so week 1 runs Thu 1 .. Sun 4.
	sun := time.Date(2026, 1, 4, 22, 0, 0, 0, time.UTC)
	mon := time.Date(2026, 1, 5, 1, 0, 0, 0, time.UTC)
	if got := WeekID(sun); got != "2026-W01" {
		t.Fatalf("unexpected week for sunday: %s", got)
	}
	if got := WeekID(mon); got != "2026-W02" {
		t.Fatalf("unexpected week for monday: %s", got)
	}
	if WeekID(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)) != WeekID(time.Date(2026, 2, 15, 23, 0, 0, 0, time.UTC)) {
		t.Fatal("expected mon..sun to share a week id")
	}
}

func TestWeekIDAcrossYearBoundary(t *testing.T) {
	// Wed 2025-12-31 and Thu 2026-01-01 share a Monday-week but not an id.
	last := WeekID(time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC))
	first := WeekID(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	if last != "2025-W53" || first != "2026-W01" {
		t.Fatalf("unexpected ids: last=%s first=%s", last, first)
	}
	if !(last < first) {
		t.Fatalf("expected lexical order across years: %s >= %s", last, first)
	}
}

func TestMonthID(t *testing.T) {
	if got := MonthID(time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)); got != "2026-03" {
		t.Fatalf("unexpected month id: %s", got)
	}
}

func TestWeekOfMonth(t *testing.T) {
	cases := map[int]int{1: 1, 7: 1, 8: 2, 14: 2, 15: 3, 21: 3, 22: 4, 28: 4, 29: 5, 31: 5}
	for day, want := range cases {
		got := WeekOfMonth(time.Date(2026, 3, day, 10, 0, 0, 0, time.UTC))
		if got != want {
			t.Fatalf("WeekOfMonth(day %d) = %d, want %d", day, got, want)
		}
	}
}

func TestPeriodsInvariantUnderTimeOfDay(t *testing.T) {
	for day := 1; day <= 365; day++ {
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)
		early := base
		late := base.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		if WeekID(early) != WeekID(late) || MonthID(early) != MonthID(late) || WeekOfMonth(early) != WeekOfMonth(late) {
			t.Fatalf("period ids drift within %s", DayID(base))
		}
	}
}

func TestStartOfWeekAndBoundaries(t *testing.T) {
	now := time.Date(2026, 2, 12, 15, 30, 0, 0, time.UTC) // Thursday
	if got := StartOfWeek(now); got.Format("2006-01-02 15:04") != "2026-02-09 00:00" {
		t.Fatalf("unexpected start of week: %s", got)
	}
	if got := NextWeek(now); got.Format("2006-01-02") != "2026-02-16" {
		t.Fatalf("unexpected next week: %s", got)
	}
	if got := NextMonth(now); got.Format("2006-01-02") != "2026-03-01" {
		t.Fatalf("unexpected next month: %s", got)
	}
	if got := NextDay(now); got.Format("2006-01-02 15:04") != "2026-02-13 00:00" {
		t.Fatalf("unexpected next day: %s", got)
	}
	if n := len(DaysInMonth(now)); n != 28 {
		t.Fatalf("expected 28 days in february 2026, got %d", n)
	}
}

func TestParseWeekday(t *testing.T) {
	got, err := ParseWeekday(" Friday ")
	if err != nil || got != Friday {
		t.Fatalf("parse friday: %v %v", got, err)
	}
	if _, err := ParseWeekday("ven"); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
}

func TestLabelFallback(t *testing.T) {
	if Label("fr", Monday) != "Lun" {
		t.Fatal("expected french label")
	}
	if Label("de", Monday) != "Mon" {
		t.Fatal("expected english fallback")
	}
}
