package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Digest runs wall-clock jobs such as the evening progress summary.
type Digest struct {
	cron *cron.Cron
}

func NewDigest(loc *time.Location) *Digest {
	if loc == nil {
		loc = time.Local
	}
	return &Digest{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// ScheduleDaily registers job to run every day at timeStr (HH:MM).
func (d *Digest) ScheduleDaily(timeStr string, job func()) (cron.EntryID, error) {
	spec, err := BuildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return d.cron.AddFunc(spec, job)
}

// Next reports when entry runs next. The zero time means not started or
// unknown.
func (d *Digest) Next(id cron.EntryID) time.Time {
	return d.cron.Entry(id).Next
}

func (d *Digest) Start() {
	d.cron.Start()
}

// Stop halts scheduling and waits for running jobs to return.
func (d *Digest) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
}

// BuildDailySpec turns HH:MM into a six-field cron spec.
func BuildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
