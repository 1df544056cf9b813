package update

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/log"

	"github.com/EmmeEffe/TimePlanner/internal/alarm"
	"github.com/EmmeEffe/TimePlanner/internal/config"
	"github.com/EmmeEffe/TimePlanner/internal/model"
	"github.com/EmmeEffe/TimePlanner/internal/planner"
	"github.com/EmmeEffe/TimePlanner/internal/storage"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// Notification is one line of the alarm feed shown below the panels.
type Notification struct {
	Payload alarm.Payload
	At      time.Time
}

// Deps carries everything the TUI needs. All fields are required except
// AlarmEvents, which may be nil when no engine is running (tests).
type Deps struct {
	Schedules    storage.ScheduleRepository
	Templates    storage.TemplateRepository
	Categories   storage.CategoryRepository
	Shifter      *planner.TimeShift
	Materializer *planner.Materializer
	Alarms       *alarm.Manager
	AlarmEvents  <-chan alarm.Event
	Keys         config.Keymap
	ShiftStep    int
	Clock        planner.Clock
	Log          *log.Logger
}

type Model struct {
	deps Deps

	Day      time.Time
	Schedule model.DailySchedule
	Cursor   int

	Palette          CommandPaletteState
	DetailVisible    bool
	Templates        []model.Template
	TemplatesVisible bool
	Status           StatusBar
	AlarmLog         []Notification
	Quitting         bool
	LastError        error

	commandInput textinput.Model
}

type DayLoadedMsg struct {
	Day      time.Time
	Schedule model.DailySchedule
}

// ScheduleChangedMsg reports a successful mutation; the day is reloaded in
// response so the list always reflects the database.
type ScheduleChangedMsg struct {
	Info string
}

type GotoDayMsg struct {
	Day time.Time
}

type TemplatesLoadedMsg struct {
	Templates []model.Template
}

type AppErrorMsg struct {
	Err error
}

type AlarmFiredMsg struct {
	Event alarm.Event
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

func NewModel(deps Deps) Model {
	if deps.ShiftStep <= 0 {
		deps.ShiftStep = 5
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 120

	return Model{
		deps:         deps,
		Day:          model.DateOf(deps.Clock()),
		commandInput: input,
	}
}

func (m Model) selectedTask() (model.TimeTask, bool) {
	if len(m.Schedule.Tasks) == 0 {
		return model.TimeTask{}, false
	}
	if m.Cursor < 0 || m.Cursor >= len(m.Schedule.Tasks) {
		return model.TimeTask{}, false
	}
	return m.Schedule.Tasks[m.Cursor], true
}

func (m *Model) clampCursor() {
	if m.Cursor >= len(m.Schedule.Tasks) {
		m.Cursor = len(m.Schedule.Tasks) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}
