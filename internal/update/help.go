package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/routined/internal/views"
)

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Today    key.Binding
	DayView  key.Binding
	WeekView key.Binding
	MonthView   key.Binding
	TaskView key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "move up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "move down")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle done")),
		PrevDay:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "previous day")),
		NextDay:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next day")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "back to today")),
		DayView:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "day")),
		WeekView: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "week")),
		MonthView:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "month")),
		TaskView: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "tasks")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.PrevDay, k.NextDay, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.PrevDay, k.NextDay, k.Today},
		{k.DayView, k.WeekView, k.MonthView, k.TaskView},
		{k.Help, k.Quit},
	}
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	var plain []string
	for _, group := range m.Keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			plain = append(plain, fmt.Sprintf("- %s: %s", h.Key, h.Desc))
		}
	}
	hm := m.helpModel
	hm.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView:    hm.View(m.Keys),
	})
}
