package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/routined/internal/ledger"
	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/period"
)

type TaskLine struct {
	ID       string
	Title    string
	Type     string
	Minutes  int
	Done     bool
	Selected bool
}

type DayPanelData struct {
	Heading string
	Lines   []TaskLine
	Done    int
	Total   int
	Streak  int
}

type WeekPanelData struct {
	Heading string
	Days    []DayPanelData
	Done    int
	Total   int
}

type MonthPanelData struct {
	Heading string
	Monthly []TaskLine
	Done    int
	Total   int
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

// DayPanel projects a day schedule. selectedID marks the cursor row.
func DayPanel(locale string, schedule ledger.DaySchedule, streak int, selectedID string) DayPanelData {
	done, total := schedule.Counts()
	out := DayPanelData{
		Heading: DayHeading(locale, schedule.Date),
		Lines:   make([]TaskLine, 0, len(schedule.Tasks)),
		Done:    done,
		Total:   total,
		Streak:  streak,
	}
	for _, s := range schedule.Tasks {
		line := lineFor(s)
		line.Selected = s.Task.ID == selectedID
		out.Lines = append(out.Lines, line)
	}
	return out
}

func WeekPanel(locale string, date time.Time, days []ledger.DaySchedule, progress ledger.Progress) WeekPanelData {
	out := WeekPanelData{
		Heading: fmt.Sprintf("week %s", period.WeekID(date)),
		Days:    make([]DayPanelData, 0, len(days)),
		Done:    progress.Done,
		Total:   progress.Total,
	}
	for _, d := range days {
		out.Days = append(out.Days, DayPanel(locale, d, 0, ""))
	}
	return out
}

func MonthPanel(date time.Time, monthly []ledger.TaskStatus, progress ledger.Progress) MonthPanelData {
	out := MonthPanelData{
		Heading: fmt.Sprintf("month %s", period.MonthID(date)),
		Monthly: make([]TaskLine, 0, len(monthly)),
		Done:    progress.Done,
		Total:   progress.Total,
	}
	for _, s := range monthly {
		out.Monthly = append(out.Monthly, lineFor(s))
	}
	return out
}

func DayHeading(locale string, date time.Time) string {
	return fmt.Sprintf("%s %s", period.Label(locale, period.DayKey(date)), date.Format("2006-01-02"))
}

func RenderDayPanel(data DayPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s %d/%d", data.Heading, progressBar(data.Done, data.Total, 10), data.Done, data.Total))
	if data.Streak > 0 {
		b.WriteString(fmt.Sprintf("  streak %d", data.Streak))
	}
	b.WriteString("\n")
	if len(data.Lines) == 0 {
		b.WriteString("  (nothing due)")
		return b.String()
	}
	for _, group := range groupByType(data.Lines) {
		b.WriteString(fmt.Sprintf("\n%s (%s):\n", group.name, FormatMinutes(group.minutes)))
		for _, line := range group.lines {
			cursor := " "
			if line.Selected {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s %s %s", cursor, checkbox(line.Done), line.Title))
			if line.Minutes > 0 {
				b.WriteString(" · " + FormatMinutes(line.Minutes))
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderWeekPanel(data WeekPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s %d/%d\n", data.Heading, progressBar(data.Done, data.Total, 10), data.Done, data.Total))
	if len(data.Days) == 0 {
		b.WriteString("  (no active days)")
		return b.String()
	}
	for _, day := range data.Days {
		b.WriteString(fmt.Sprintf("\n%s %d/%d\n", day.Heading, day.Done, day.Total))
		for _, line := range day.Lines {
			b.WriteString(fmt.Sprintf("  %s %s\n", checkbox(line.Done), line.Title))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderMonthPanel(data MonthPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s %d/%d\n", data.Heading, progressBar(data.Done, data.Total, 10), data.Done, data.Total))
	b.WriteString("\nmonthly tasks:\n")
	if len(data.Monthly) == 0 {
		b.WriteString("  (none)")
		return b.String()
	}
	for _, line := range data.Monthly {
		b.WriteString(fmt.Sprintf("  %s %s\n", checkbox(line.Done), line.Title))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// RenderCelebration is the banner shown when the last task of the day is
// checked off.
func RenderCelebration(streak, done, total int) string {
	days := "days"
	if streak == 1 {
		days = "day"
	}
	return fmt.Sprintf("All %d/%d tasks done today! Streak: %d %s", done, total, streak, days)
}

func RenderTaskList(locale string, tasks []model.RoutineTask) string {
	if len(tasks) == 0 {
		return "(no tasks)"
	}
	var b strings.Builder
	for _, t := range tasks {
		state := "active"
		if !t.IsActive {
			state = "inactive"
		}
		origin := "user"
		if t.IsAutoGenerated {
			origin = "plan"
		}
		b.WriteString(fmt.Sprintf("%-36s %-8s %-26s %-7s %-8s %s\n",
			t.ID, string(t.TaskType), Cadence(locale, t), FormatMinutes(t.DurationMinutes), state+"/"+origin, t.Title))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Cadence describes a task's recurrence in words.
func Cadence(locale string, t model.RoutineTask) string {
	switch t.Recurrence {
	case model.RecurrenceDaily:
		return "daily"
	case model.RecurrenceWeekly:
		return "weekly on " + period.Label(locale, t.DayOfWeek)
	case model.RecurrenceMonthly:
		out := fmt.Sprintf("monthly, week %d", t.WeekOfMonth)
		if t.DayOfWeek != "" {
			out += " on " + period.Label(locale, t.DayOfWeek)
		}
		return out
	default:
		return string(t.Recurrence)
	}
}

// PlanMarkdown summarises a plan and its tasks for RenderMarkdown.
func PlanMarkdown(locale string, plan *model.CommunicationPlan, tasks []model.RoutineTask) string {
	var b strings.Builder
	b.WriteString("# Communication plan\n\n")
	if plan == nil {
		b.WriteString("_No plan saved yet._\n")
		return b.String()
	}
	days := make([]string, 0, 7)
	for _, d := range plan.OrderedActiveDays() {
		days = append(days, period.Label(locale, d))
	}
	if len(days) == 0 {
		days = append(days, "none")
	}
	b.WriteString(fmt.Sprintf("- **Active days:** %s\n", strings.Join(days, ", ")))
	b.WriteString(fmt.Sprintf("- **Daily time:** %s\n", FormatMinutes(plan.DailyTimeMinutes)))
	if plan.MonthlyGoal != "" {
		b.WriteString(fmt.Sprintf("- **Monthly goal:** %s\n", plan.MonthlyGoal))
	}
	b.WriteString("\n## Tasks\n\n")
	b.WriteString("| Task | Type | Cadence | Time |\n|---|---|---|---|\n")
	for _, t := range tasks {
		if !t.IsActive {
			continue
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", t.Title, t.TaskType, Cadence(locale, t), FormatMinutes(t.DurationMinutes)))
	}
	return b.String()
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

// FormatMinutes renders a duration as "45m", "1h" or "1h30".
func FormatMinutes(total int) string {
	if total <= 0 {
		return "0m"
	}
	h, m := total/60, total%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02d", h, m)
	}
}

type typeGroup struct {
	name    string
	minutes int
	lines   []TaskLine
}

// groupByType keeps first-seen order of task types.
func groupByType(lines []TaskLine) []typeGroup {
	out := make([]typeGroup, 0)
	index := make(map[string]int)
	for _, line := range lines {
		i, ok := index[line.Type]
		if !ok {
			i = len(out)
			index[line.Type] = i
			out = append(out, typeGroup{name: line.Type})
		}
		out[i].minutes += line.Minutes
		out[i].lines = append(out[i].lines, line)
	}
	return out
}

func lineFor(s ledger.TaskStatus) TaskLine {
	return TaskLine{
		ID:      s.Task.ID,
		Title:   s.Task.Title,
		Type:    string(s.Task.TaskType),
		Minutes: s.Task.DurationMinutes,
		Done:    s.Done,
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func progressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
