package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/EmmeEffe/TimePlanner/internal/model"
)

func loadDayCmd(deps Deps, day time.Time) tea.Cmd {
	return func() tea.Msg {
		schedule, err := deps.Schedules.FetchScheduleByDate(context.Background(), day)
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("load schedule: %w", err)}
		}
		return DayLoadedMsg{Day: day, Schedule: schedule}
	}
}

func shiftCmd(deps Deps, task model.TimeTask, direction string, minutes int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var changed []model.TimeTask
		if direction == "down" {
			shrunk, err := deps.Shifter.ShiftDown(ctx, task, minutes)
			if err != nil {
				return AppErrorMsg{Err: err}
			}
			changed = []model.TimeTask{shrunk}
		} else {
			shifted, err := deps.Shifter.ShiftUp(ctx, task, minutes)
			if err != nil {
				return AppErrorMsg{Err: err}
			}
			changed = shifted
		}
		if deps.Alarms != nil {
			for _, t := range changed {
				if err := deps.Alarms.AddOrUpdate(t); err != nil {
					return AppErrorMsg{Err: fmt.Errorf("rearm alarms: %w", err)}
				}
			}
		}
		return ScheduleChangedMsg{Info: fmt.Sprintf("shifted %s %d min", direction, minutes)}
	}
}

func toggleDoneCmd(deps Deps, task model.TimeTask) tea.Cmd {
	return func() tea.Msg {
		task.IsCompleted = !task.IsCompleted
		if err := deps.Schedules.UpdateTimeTasks(context.Background(), []model.TimeTask{task}); err != nil {
			return AppErrorMsg{Err: fmt.Errorf("toggle done: %w", err)}
		}
		if deps.Alarms != nil {
			if task.IsCompleted {
				deps.Alarms.Delete(task)
			} else if err := deps.Alarms.AddOrUpdate(task); err != nil {
				return AppErrorMsg{Err: fmt.Errorf("rearm alarms: %w", err)}
			}
		}
		if task.IsCompleted {
			return ScheduleChangedMsg{Info: "task completed"}
		}
		return ScheduleChangedMsg{Info: "task reopened"}
	}
}

func addTaskCmd(deps Deps, day time.Time, fromRaw, toRaw, categoryName, note string) tea.Cmd {
	return func() tea.Msg {
		fromClock, err := time.Parse("15:04", fromRaw)
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("bad start time %q", fromRaw)}
		}
		toClock, err := time.Parse("15:04", toRaw)
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("bad end time %q", toRaw)}
		}

		ctx := context.Background()
		category, err := resolveCategory(ctx, deps, categoryName)
		if err != nil {
			return AppErrorMsg{Err: err}
		}

		from := model.AtClockTime(day, fromClock)
		to := model.AtClockTime(day, toClock)
		if !to.After(from) {
			to = model.ShiftDay(to, 1)
		}

		now := deps.Clock()
		task := model.TimeTask{
			Date:                 day,
			Range:                model.TimeRange{From: from, To: to},
			CreatedAt:            &now,
			Category:             category,
			Priority:             model.PriorityStandard,
			EnableNotification:   true,
			Notifications:        model.TaskNotifications{FifteenMinutesBefore: true},
			ConsiderInStatistics: true,
			Note:                 note,
		}
		if err := task.Validate(); err != nil {
			return AppErrorMsg{Err: err}
		}

		key, err := deps.Schedules.AddTimeTask(ctx, task)
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("add task: %w", err)}
		}
		task.Key = key
		if deps.Alarms != nil {
			if err := deps.Alarms.AddOrUpdate(task); err != nil {
				return AppErrorMsg{Err: fmt.Errorf("arm alarms: %w", err)}
			}
		}
		return ScheduleChangedMsg{Info: fmt.Sprintf("added %s %s-%s", category.Name, fromRaw, toRaw)}
	}
}

func applyTemplateCmd(deps Deps, templateID int, day time.Time) tea.Cmd {
	return func() tea.Msg {
		task, err := deps.Materializer.CreateFromTemplate(context.Background(), templateID, day)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		if deps.Alarms != nil {
			if err := deps.Alarms.AddOrUpdate(task); err != nil {
				return AppErrorMsg{Err: fmt.Errorf("arm alarms: %w", err)}
			}
		}
		return ScheduleChangedMsg{Info: fmt.Sprintf("planned from template %d", templateID)}
	}
}

func listTemplatesCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		templates, err := deps.Templates.FetchAllTemplates(context.Background())
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("load templates: %w", err)}
		}
		return TemplatesLoadedMsg{Templates: templates}
	}
}

func saveTemplateCmd(deps Deps, task model.TimeTask) tea.Cmd {
	return func() tea.Msg {
		tpl, err := deps.Materializer.PromoteToTemplate(context.Background(), task)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return SetStatusMsg{Text: fmt.Sprintf("saved template %d", tpl.ID)}
	}
}

// resolveCategory matches by name first and creates the category when it
// does not exist yet.
func resolveCategory(ctx context.Context, deps Deps, name string) (model.MainCategory, error) {
	existing, err := deps.Categories.FetchMainCategories(ctx)
	if err != nil {
		return model.MainCategory{}, fmt.Errorf("load categories: %w", err)
	}
	for _, category := range existing {
		if strings.EqualFold(category.Name, name) {
			return category, nil
		}
	}
	category := model.MainCategory{Name: name}
	id, err := deps.Categories.AddMainCategory(ctx, category)
	if err != nil {
		return model.MainCategory{}, fmt.Errorf("create category %q: %w", name, err)
	}
	category.ID = id
	return category, nil
}

func (m Model) handleDayKey(key string) (Model, tea.Cmd) {
	switch key {
	case "up", m.deps.Keys.Up:
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case "down", m.deps.Keys.Down:
		if m.Cursor < len(m.Schedule.Tasks)-1 {
			m.Cursor++
		}
		return m, nil
	case "left", m.deps.Keys.PrevDay:
		m.Day = model.ShiftDay(m.Day, -1)
		m.DetailVisible = false
		return m, loadDayCmd(m.deps, m.Day)
	case "right", m.deps.Keys.NextDay:
		m.Day = model.ShiftDay(m.Day, 1)
		m.DetailVisible = false
		return m, loadDayCmd(m.deps, m.Day)
	case m.deps.Keys.ShiftUp:
		if task, ok := m.selectedTask(); ok {
			return m, shiftCmd(m.deps, task, "up", m.deps.ShiftStep)
		}
	case m.deps.Keys.ShiftDown:
		if task, ok := m.selectedTask(); ok {
			return m, shiftCmd(m.deps, task, "down", m.deps.ShiftStep)
		}
	case m.deps.Keys.ToggleDone:
		if task, ok := m.selectedTask(); ok {
			return m, toggleDoneCmd(m.deps, task)
		}
	case m.deps.Keys.Detail:
		if _, ok := m.selectedTask(); ok {
			m.DetailVisible = !m.DetailVisible
		}
		return m, nil
	}
	return m, nil
}
