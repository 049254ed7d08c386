package planfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/period"
	"github.com/sandeepkv93/routined/internal/routine"
	"gopkg.in/yaml.v3"
)

var ErrEmptyPlan = errors.New("planfile: no tasks in plan")

// File is the on-disk shape of a generated communication plan.
type File struct {
	DailyTimeMinutes int      `yaml:"daily_time_minutes"`
	ActiveDays       []string `yaml:"active_days"`
	MonthlyGoal      string   `yaml:"monthly_goal"`
	Tasks            []Task   `yaml:"tasks"`
}

type Task struct {
	Title      string `yaml:"title"`
	Type       string `yaml:"type"`
	Minutes    int    `yaml:"minutes"`
	Recurrence string `yaml:"recurrence"`
	Day        string `yaml:"day"`
	Week       int    `yaml:"week"`
}

func Load(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open plan: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (File, error) {
	var out File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return File{}, fmt.Errorf("parse plan: %w", err)
	}
	if len(out.Tasks) == 0 {
		return File{}, ErrEmptyPlan
	}
	return out, nil
}

// Plan converts the file header. UserID and UpdatedAt are left for the
// engine to fill.
func (f File) Plan() (model.CommunicationPlan, error) {
	days := make([]period.Weekday, 0, len(f.ActiveDays))
	for _, raw := range f.ActiveDays {
		d, err := period.ParseWeekday(raw)
		if err != nil {
			return model.CommunicationPlan{}, fmt.Errorf("active_days: %w", err)
		}
		days = append(days, d)
	}
	return model.CommunicationPlan{
		DailyTimeMinutes: f.DailyTimeMinutes,
		ActiveDays:       days,
		MonthlyGoal:      strings.TrimSpace(f.MonthlyGoal),
	}, nil
}

func (f File) TaskInputs() ([]routine.TaskInput, error) {
	out := make([]routine.TaskInput, 0, len(f.Tasks))
	for i, t := range f.Tasks {
		in := routine.TaskInput{
			Title:           t.Title,
			TaskType:        model.TaskType(strings.ToLower(strings.TrimSpace(t.Type))),
			DurationMinutes: t.Minutes,
			Recurrence:      model.Recurrence(strings.ToLower(strings.TrimSpace(t.Recurrence))),
			WeekOfMonth:     t.Week,
		}
		if strings.TrimSpace(t.Day) != "" {
			d, err := period.ParseWeekday(t.Day)
			if err != nil {
				return nil, fmt.Errorf("task %d (%q): %w", i+1, t.Title, err)
			}
			in.DayOfWeek = d
		}
		out = append(out, in)
	}
	return out, nil
}
