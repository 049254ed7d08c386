package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/sandeepkv93/routined/internal/routine"
	"github.com/sandeepkv93/routined/internal/scheduler"
)

type View string

const (
	ViewToday View = "Today"
	ViewWeek  View = "Week"
	ViewMonth View = "Month"
	ViewTasks View = "Tasks"
)

type StatusBar struct {
	Text    string
	IsError bool
}

// Model is the interactive routine screen. Date is the day being looked at;
// toggles apply to it.
type Model struct {
	CurrentView  View
	Date         time.Time
	Cursor       int
	Locale       string
	Status       StatusBar
	Celebration  *routine.Celebration
	HelpVisible  bool
	Quitting     bool
	Keys         KeyMap
	LastError    error
	engine       *routine.Engine
	ctx          context.Context
	celebrations <-chan routine.Celebration
	rollovers    <-chan scheduler.Event
	helpModel    help.Model
}

type Options struct {
	Locale string
	// Celebrations receives what the engine's celebration callback emits.
	Celebrations <-chan routine.Celebration
	// Rollovers delivers period boundaries; the model reloads and jumps to
	// the new day.
	Rollovers <-chan scheduler.Event
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ToggledMsg struct {
	TaskID    string
	Completed bool
	Err       error
}

type CelebrationMsg struct {
	Celebration routine.Celebration
}

type RolloverMsg struct {
	Event scheduler.Event
}

type ReloadedMsg struct {
	Err error
}

func NewModel(ctx context.Context, engine *routine.Engine, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	locale := opts.Locale
	if locale == "" {
		locale = "en"
	}
	return Model{
		CurrentView:  ViewToday,
		Date:         engine.Now(),
		Locale:       locale,
		Keys:         DefaultKeyMap(),
		engine:       engine,
		ctx:          ctx,
		celebrations: opts.Celebrations,
		rollovers:    opts.Rollovers,
		helpModel:    help.New(),
	}
}

func isKnownView(v View) bool {
	switch v {
	case ViewToday, ViewWeek, ViewMonth, ViewTasks:
		return true
	default:
		return false
	}
}
