package views

import (
	"fmt"
	"strings"
)

type DayTaskData struct {
	Key         int64
	Start       string
	End         string
	Category    string
	SubCategory string
	Priority    string
	Status      string
	Completed   bool
	Important   bool
	Running     bool
	HasNote     bool
	Selected    bool
}

type DayPanelData struct {
	Date           string
	Tasks          []DayTaskData
	OverlapWarning string
}

type DetailPanelData struct {
	Start       string
	End         string
	Duration    string
	Category    string
	SubCategory string
	Priority    string
	Status      string
	Alarms      []string
	NoteView    string
}

type PalettePanelData struct {
	InputView string
}

type TemplateRowData struct {
	ID       int
	Start    string
	End      string
	Category string
	Repeat   string
}

func RenderDayPanel(data DayPanelData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "schedule %s\n", data.Date)
	b.WriteString("actions: [j/k]move [h/l]day [+/-]shift [space]done [enter]detail [:]cmd\n")
	if data.OverlapWarning != "" {
		b.WriteString(errorStyle.Render("overlap: "+data.OverlapWarning) + "\n")
	}
	if len(data.Tasks) == 0 {
		b.WriteString("  (no tasks planned)")
		return strings.TrimSpace(b.String())
	}
	for _, task := range data.Tasks {
		b.WriteString(renderDayRow(task) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func renderDayRow(task DayTaskData) string {
	cursor := "  "
	if task.Selected {
		cursor = "> "
	}
	label := task.Category
	if task.SubCategory != "" {
		label += " / " + task.SubCategory
	}
	marks := ""
	if task.Important {
		marks += " !"
	}
	if task.HasNote {
		marks += " *"
	}
	line := fmt.Sprintf("%s%s-%s  %-24s %-8s %s%s", cursor, task.Start, task.End, label, task.Priority, task.Status, marks)
	switch {
	case task.Completed:
		return doneStyle.Render(line)
	case task.Running:
		return runningStyle.Render(line)
	default:
		return line
	}
}

func RenderDetailPanel(data DetailPanelData) string {
	var b strings.Builder
	b.WriteString("task detail\n")
	fmt.Fprintf(&b, "time: %s - %s (%s)\n", data.Start, data.End, data.Duration)
	fmt.Fprintf(&b, "category: %s", data.Category)
	if data.SubCategory != "" {
		fmt.Fprintf(&b, " / %s", data.SubCategory)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "priority: %s | status: %s\n", data.Priority, data.Status)
	if len(data.Alarms) > 0 {
		fmt.Fprintf(&b, "alarms: %s\n", strings.Join(data.Alarms, ", "))
	}
	if data.NoteView != "" {
		b.WriteString("note:\n")
		b.WriteString(data.NoteView)
	}
	return strings.TrimSpace(b.String())
}

func RenderPalettePanel(data PalettePanelData) string {
	var b strings.Builder
	b.WriteString("command:\n")
	b.WriteString(data.InputView + "\n")
	b.WriteString("add HH:MM HH:MM category [note] | shift up|down N | done\n")
	b.WriteString("goto today|tomorrow|yesterday|YYYY-MM-DD | template save|apply ID")
	return strings.TrimSpace(b.String())
}

func RenderTemplateList(rows []TemplateRowData) string {
	if len(rows) == 0 {
		return "templates: (none)"
	}
	var b strings.Builder
	b.WriteString("templates:\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "  #%d %s-%s %s [%s]\n", row.ID, row.Start, row.End, row.Category, row.Repeat)
	}
	return strings.TrimSpace(b.String())
}
