package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/routined/internal/period"
	"github.com/sandeepkv93/routined/internal/routine"
	"github.com/sandeepkv93/routined/internal/scheduler"
	"github.com/sandeepkv93/routined/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForCelebrationCmd(m.celebrations),
		waitForRolloverCmd(m.rollovers),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ToggledMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m, nil
		}
		m.LastError = nil
		if typed.Completed {
			m.Status = StatusBar{Text: "done: " + m.taskTitle(typed.TaskID)}
		} else {
			m.Celebration = nil
			m.Status = StatusBar{Text: "reopened: " + m.taskTitle(typed.TaskID)}
		}
		return m, nil
	case CelebrationMsg:
		c := typed.Celebration
		m.Celebration = &c
		return m, waitForCelebrationCmd(m.celebrations)
	case RolloverMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("new %s: %s", typed.Event.Kind, typed.Event.Key)}
		if typed.Event.Kind == scheduler.KindDay {
			m.Date = m.engine.Now()
			m.Cursor = 0
			m.Celebration = nil
		}
		return m, tea.Batch(m.reloadCmd(), waitForRolloverCmd(m.rollovers))
	case ReloadedMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		m.clampCursor()
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, m.Keys.DayView):
		m.CurrentView = ViewToday
		return m, nil
	case key.Matches(msg, m.Keys.WeekView):
		m.CurrentView = ViewWeek
		return m, nil
	case key.Matches(msg, m.Keys.MonthView):
		m.CurrentView = ViewMonth
		return m, nil
	case key.Matches(msg, m.Keys.TaskView):
		m.CurrentView = ViewTasks
		return m, nil
	case key.Matches(msg, m.Keys.PrevDay):
		m.shiftDate(-1)
		return m, nil
	case key.Matches(msg, m.Keys.NextDay):
		m.shiftDate(1)
		return m, nil
	case key.Matches(msg, m.Keys.Today):
		m.Date = m.engine.Now()
		m.Cursor = 0
		return m, nil
	}

	if m.CurrentView != ViewToday {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.dueIDs())-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.Keys.Toggle):
		ids := m.dueIDs()
		if len(ids) == 0 {
			return m, nil
		}
		return m, m.toggleCmd(ids[m.Cursor])
	}
	return m, nil
}

// shiftDate moves by days in day view, by weeks in week view and by months
// in month view.
func (m *Model) shiftDate(step int) {
	switch m.CurrentView {
	case ViewWeek:
		m.Date = m.Date.AddDate(0, 0, 7*step)
	case ViewMonth:
		m.Date = period.StartOfMonth(m.Date).AddDate(0, step, 0)
	default:
		m.Date = m.Date.AddDate(0, 0, step)
	}
	m.Cursor = 0
}

func (m Model) dueIDs() []string {
	day := m.engine.Day(m.Date)
	out := make([]string, 0, len(day.Schedule.Tasks))
	for _, s := range day.Schedule.Tasks {
		out = append(out, s.Task.ID)
	}
	return out
}

func (m *Model) clampCursor() {
	n := len(m.dueIDs())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) taskTitle(id string) string {
	for _, t := range m.engine.Tasks() {
		if t.ID == id {
			return t.Title
		}
	}
	return id
}

func (m Model) toggleCmd(taskID string) tea.Cmd {
	engine, ctx, date := m.engine, m.ctx, m.Date
	return func() tea.Msg {
		c, err := engine.Toggle(ctx, taskID, date)
		return ToggledMsg{TaskID: taskID, Completed: c != nil, Err: err}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		return ReloadedMsg{Err: engine.Load(ctx)}
	}
}

func waitForCelebrationCmd(ch <-chan routine.Celebration) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return CelebrationMsg{Celebration: c}
	}
}

func waitForRolloverCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return RolloverMsg{Event: ev}
	}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	var body string
	switch m.CurrentView {
	case ViewWeek:
		week := m.engine.Week(m.Date)
		body = views.RenderWeekPanel(views.WeekPanel(m.Locale, m.Date, week.Days, week.Progress))
	case ViewMonth:
		month := m.engine.Month(m.Date)
		body = views.RenderMonthPanel(views.MonthPanel(m.Date, month.Monthly, month.Progress))
	case ViewTasks:
		body = views.RenderTaskList(m.Locale, m.engine.Tasks())
	default:
		day := m.engine.Day(m.Date)
		selected := ""
		ids := m.dueIDs()
		if m.Cursor < len(ids) {
			selected = ids[m.Cursor]
		}
		body = views.RenderDayPanel(views.DayPanel(m.Locale, day.Schedule, day.Streak, selected))
	}

	celebration := ""
	if m.Celebration != nil {
		celebration = views.RenderCelebration(m.Celebration.Streak, m.Celebration.CompletedCount, m.Celebration.TotalCount)
	}
	return views.RenderApp(views.AppData{
		Header:      m.header(),
		Body:        body,
		StatusLine:  m.Status.Text,
		StatusError: m.Status.IsError,
		Celebration: celebration,
		Help:        m.renderHelpIfVisible(),
		Footer:      m.helpModel.View(m.Keys),
	})
}

func (m Model) header() string {
	tabs := make([]string, 0, 4)
	for _, v := range []View{ViewToday, ViewWeek, ViewMonth, ViewTasks} {
		label := string(v)
		if v == m.CurrentView {
			label = "[" + label + "]"
		}
		tabs = append(tabs, label)
	}
	day := views.DayHeading(m.Locale, m.Date)
	if period.DayID(m.Date) == period.DayID(m.engine.Now()) {
		day += " (today)"
	}
	return fmt.Sprintf("routined  %s  %s", strings.Join(tabs, " "), day)
}
