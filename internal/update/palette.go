package update

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/EmmeEffe/TimePlanner/internal/commands"
	"github.com/EmmeEffe/TimePlanner/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case m.deps.Keys.Cancel, "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command cancelled"}
		return m, nil
	case m.deps.Keys.Confirm, "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var followup tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			followup = addTaskCmd(m.deps, m.Day, a.From, a.To, a.Category, a.Note)
			return commands.Result{Message: "adding task"}, nil
		},
		Shift: func(a commands.ShiftArgs) (commands.Result, error) {
			task, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
			}
			followup = shiftCmd(m.deps, task, a.Direction, a.Minutes)
			return commands.Result{Message: fmt.Sprintf("shifting %s %d min", a.Direction, a.Minutes)}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			task, ok := m.selectedTask()
			if a.Target != "" && a.Target != "selected" {
				key, parseErr := strconv.ParseInt(a.Target, 10, 64)
				if parseErr != nil {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("bad task key %q", a.Target)}
				}
				task, ok = m.taskByKey(key)
			}
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no matching task"}
			}
			followup = toggleDoneCmd(m.deps, task)
			return commands.Result{Message: "toggling done"}, nil
		},
		Goto: func(a commands.GotoArgs) (commands.Result, error) {
			day, parseErr := m.resolveDay(a.When)
			if parseErr != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: parseErr.Error()}
			}
			followup = func() tea.Msg { return GotoDayMsg{Day: day} }
			return commands.Result{Message: "jumping to " + day.Format("2006-01-02")}, nil
		},
		Template: func(a commands.TemplateArgs) (commands.Result, error) {
			switch a.Action {
			case "save":
				task, ok := m.selectedTask()
				if !ok {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
				}
				followup = saveTemplateCmd(m.deps, task)
				return commands.Result{Message: "saving template"}, nil
			case "apply":
				id, parseErr := strconv.Atoi(a.ID)
				if parseErr != nil {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("bad template id %q", a.ID)}
				}
				followup = applyTemplateCmd(m.deps, id, m.Day)
				return commands.Result{Message: fmt.Sprintf("applying template %d", id)}, nil
			case "list":
				followup = listTemplatesCmd(m.deps)
				return commands.Result{Message: "loading templates"}, nil
			default:
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "unsupported template action"}
			}
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, followup
}

func (m Model) taskByKey(key int64) (model.TimeTask, bool) {
	for _, task := range m.Schedule.Tasks {
		if task.Key == key {
			return task, true
		}
	}
	return model.TimeTask{}, false
}

func (m Model) resolveDay(when string) (time.Time, error) {
	today := model.DateOf(m.deps.Clock())
	switch when {
	case "today":
		return today, nil
	case "tomorrow":
		return model.ShiftDay(today, 1), nil
	case "yesterday":
		return model.ShiftDay(today, -1), nil
	}
	day, err := time.ParseInLocation("2006-01-02", when, m.deps.Clock().Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("bad day %q, want today, tomorrow, yesterday or YYYY-MM-DD", when)
	}
	return day, nil
}
