package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/EmmeEffe/TimePlanner/internal/alarm"
	"github.com/EmmeEffe/TimePlanner/internal/model"
	"github.com/EmmeEffe/TimePlanner/internal/views"
)

const alarmLogLimit = 20

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadDayCmd(m.deps, m.Day),
		waitForAlarmCmd(m.deps.AlarmEvents),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		switch typed.String() {
		case "ctrl+c", m.deps.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		case m.deps.Keys.Palette:
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.deps.Keys.Cancel:
			m.DetailVisible = false
			m.TemplatesVisible = false
			return m, nil
		}
		return m.handleDayKey(typed.String())
	case DayLoadedMsg:
		m.Day = typed.Day
		m.Schedule = typed.Schedule
		m.clampCursor()
		if err := m.Schedule.CheckOverlaps(); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		}
		return m, nil
	case ScheduleChangedMsg:
		m.Status = StatusBar{Text: typed.Info}
		return m, loadDayCmd(m.deps, m.Day)
	case GotoDayMsg:
		m.Day = typed.Day
		m.Cursor = 0
		m.DetailVisible = false
		return m, loadDayCmd(m.deps, m.Day)
	case TemplatesLoadedMsg:
		m.Templates = typed.Templates
		m.TemplatesVisible = true
		m.Status = StatusBar{Text: fmt.Sprintf("%d templates", len(typed.Templates))}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			if m.deps.Log != nil {
				m.deps.Log.Error("operation failed", "error", typed.Err)
			}
		}
		return m, nil
	case AlarmFiredMsg:
		m.AlarmLog = append(m.AlarmLog, Notification{Payload: typed.Event.Payload, At: typed.Event.FiresAt})
		if len(m.AlarmLog) > alarmLogLimit {
			m.AlarmLog = m.AlarmLog[len(m.AlarmLog)-alarmLogLimit:]
		}
		m.Status = StatusBar{Text: alarmText(typed.Event.Payload)}
		return m, waitForAlarmCmd(m.deps.AlarmEvents)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	now := m.deps.Clock()

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	rightPane := m.renderSummaryPane(now)
	if m.Palette.Active {
		rightPane = views.RenderPalettePanel(views.PalettePanelData{InputView: m.commandInput.View()})
	} else if m.TemplatesVisible {
		rightPane = views.RenderTemplateList(m.templateRows())
	} else if m.DetailVisible {
		if task, ok := m.selectedTask(); ok {
			rightPane = m.renderDetailPane(task, now)
		}
	}

	keys := m.deps.Keys
	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("timeplanner | %s | %d tasks", m.Day.Format("Mon 2006-01-02"), len(m.Schedule.Tasks)),
		LeftPane:   m.renderDayPane(now),
		RightPane:  rightPane,
		StatusLine: status,
		AlarmFeed:  m.renderAlarmFeed(),
		Footer: fmt.Sprintf("keys: %s/%s day | %s/%s move | %s/%s shift | [%s]done | %s detail | %s cmd | %s quit",
			keys.PrevDay, keys.NextDay, keys.Up, keys.Down, keys.ShiftUp, keys.ShiftDown, keys.ToggleDone, keys.Detail, keys.Palette, keys.Quit),
	})
}

func (m Model) renderDayPane(now time.Time) string {
	data := views.DayPanelData{Date: m.Day.Format("Monday, 2 January 2006")}
	if err := m.Schedule.CheckOverlaps(); err != nil {
		data.OverlapWarning = err.Error()
	}
	for i, task := range m.Schedule.Tasks {
		row := views.DayTaskData{
			Key:       task.Key,
			Start:     task.Range.From.Format("15:04"),
			End:       task.Range.To.Format("15:04"),
			Category:  task.Category.Name,
			Priority:  string(task.Priority),
			Status:    statusLabel(task, now),
			Completed: task.IsCompleted,
			Important: task.IsImportant(),
			Running:   !task.IsCompleted && task.Range.Contains(now),
			HasNote:   strings.TrimSpace(task.Note) != "",
			Selected:  i == m.Cursor,
		}
		if task.SubCategory != nil {
			row.SubCategory = task.SubCategory.Name
		}
		data.Tasks = append(data.Tasks, row)
	}
	return views.RenderDayPanel(data)
}

func (m Model) renderDetailPane(task model.TimeTask, now time.Time) string {
	data := views.DetailPanelData{
		Start:    task.Range.From.Format("15:04"),
		End:      task.Range.To.Format("15:04"),
		Duration: task.Range.Duration().String(),
		Category: task.Category.Name,
		Priority: string(task.Priority),
		Status:   statusLabel(task, now),
		NoteView: views.RenderMarkdown(task.Note),
	}
	if task.SubCategory != nil {
		data.SubCategory = task.SubCategory.Name
	}
	if task.EnableNotification {
		for _, offset := range task.Notifications.Offsets() {
			data.Alarms = append(data.Alarms, string(offset))
		}
	}
	return views.RenderDetailPanel(data)
}

func (m Model) renderSummaryPane(now time.Time) string {
	done := 0
	for _, task := range m.Schedule.Tasks {
		if task.IsCompleted {
			done++
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "day summary\n")
	fmt.Fprintf(&b, "planned: %d | done: %d\n", len(m.Schedule.Tasks), done)
	for _, task := range m.Schedule.Tasks {
		if !task.IsCompleted && task.Range.From.After(now) {
			fmt.Fprintf(&b, "next: %s %s", task.Range.From.Format("15:04"), task.Category.Name)
			break
		}
	}
	return strings.TrimSpace(b.String())
}

func (m Model) templateRows() []views.TemplateRowData {
	rows := make([]views.TemplateRowData, 0, len(m.Templates))
	for _, tpl := range m.Templates {
		rows = append(rows, views.TemplateRowData{
			ID:       tpl.ID,
			Start:    tpl.Start.Format("15:04"),
			End:      tpl.End.Format("15:04"),
			Category: tpl.Category.Name,
			Repeat:   repeatSummary(tpl),
		})
	}
	return rows
}

func repeatSummary(tpl model.Template) string {
	if !tpl.RepeatEnabled || len(tpl.RepeatRules) == 0 {
		return "one-off"
	}
	kinds := make([]string, 0, len(tpl.RepeatRules))
	for _, rule := range tpl.RepeatRules {
		kinds = append(kinds, string(rule.Type))
	}
	return strings.Join(kinds, ",")
}

func (m Model) renderAlarmFeed() string {
	if len(m.AlarmLog) == 0 {
		return ""
	}
	start := len(m.AlarmLog) - 3
	if start < 0 {
		start = 0
	}
	lines := make([]string, 0, 3)
	for _, n := range m.AlarmLog[start:] {
		lines = append(lines, fmt.Sprintf("%s %s", n.At.Format("15:04"), alarmText(n.Payload)))
	}
	return strings.Join(lines, "\n")
}

func waitForAlarmCmd(ch <-chan alarm.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return AlarmFiredMsg{Event: ev}
	}
}

func statusLabel(task model.TimeTask, now time.Time) string {
	switch model.StatusFor(task.Date, model.DateOf(now)) {
	case model.StatusPlanned:
		return "planned"
	case model.StatusRealized:
		return "realized"
	default:
		return "today"
	}
}

func alarmText(p alarm.Payload) string {
	label := p.Category
	if p.SubCategory != "" {
		label += " / " + p.SubCategory
	}
	if p.Kind == model.KindBeforeEnd {
		return fmt.Sprintf("alarm: %s ends soon", label)
	}
	return fmt.Sprintf("alarm: %s starts soon", label)
}
