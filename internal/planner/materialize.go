package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/EmmeEffe/TimePlanner/internal/model"
	"github.com/EmmeEffe/TimePlanner/internal/storage"
)

// TaskFromTemplate places a template onto a concrete calendar day. The
// template's clock times land on the target date; a cross-midnight template
// ends on the following day so the duration is preserved.
func TaskFromTemplate(tpl model.Template, date time.Time, now time.Time) model.TimeTask {
	day := model.DateOf(date)
	from := model.AtClockTime(day, tpl.Start)
	endDay := day
	if tpl.TimeRange().CrossesMidnight() {
		endDay = model.ShiftDay(day, 1)
	}
	to := model.AtClockTime(endDay, tpl.End)

	task := model.TimeTask{
		Date:                 day,
		Range:                model.TimeRange{From: from, To: to},
		CreatedAt:            &now,
		Category:             tpl.Category,
		SubCategory:          tpl.SubCategory,
		Priority:             tpl.Priority,
		EnableNotification:   tpl.EnableNotification,
		ConsiderInStatistics: tpl.ConsiderInStatistics,
	}
	if tpl.EnableNotification {
		task.Notifications = model.TaskNotifications{FifteenMinutesBefore: true}
	}
	return task
}

// TemplateFromTask strips the date from a concrete task, keeping only its
// time of day and flags. Used when a user promotes an ad-hoc task into a
// reusable template.
func TemplateFromTask(task model.TimeTask) model.Template {
	return model.Template{
		Start:                task.Range.From,
		End:                  task.Range.To,
		Category:             task.Category,
		SubCategory:          task.SubCategory,
		Priority:             task.Priority,
		EnableNotification:   task.EnableNotification,
		ConsiderInStatistics: task.ConsiderInStatistics,
	}
}

// Materializer turns templates and undefined tasks into persisted schedule
// entries.
type Materializer struct {
	schedules storage.ScheduleRepository
	templates storage.TemplateRepository
	undefined storage.UndefinedTaskRepository
	clock     Clock
	log       *log.Logger
}

func NewMaterializer(
	schedules storage.ScheduleRepository,
	templates storage.TemplateRepository,
	undefined storage.UndefinedTaskRepository,
	clock Clock,
	logger *log.Logger,
) *Materializer {
	return &Materializer{
		schedules: schedules,
		templates: templates,
		undefined: undefined,
		clock:     clock,
		log:       logger,
	}
}

// CreateFromTemplate materializes one template onto the given date and
// persists the result.
func (m *Materializer) CreateFromTemplate(ctx context.Context, templateID int, date time.Time) (model.TimeTask, error) {
	templates, err := m.templates.FetchAllTemplates(ctx)
	if err != nil {
		return model.TimeTask{}, fmt.Errorf("load templates: %w", err)
	}
	var found *model.Template
	for i := range templates {
		if templates[i].ID == templateID {
			found = &templates[i]
			break
		}
	}
	if found == nil {
		return model.TimeTask{}, fmt.Errorf("%w: template %d", ErrNotFound, templateID)
	}

	task := TaskFromTemplate(*found, date, m.clock())
	key, err := m.schedules.AddTimeTask(ctx, task)
	if err != nil {
		return model.TimeTask{}, fmt.Errorf("persist materialized task: %w", err)
	}
	task.Key = key
	m.log.Debug("materialized template", "template", templateID, "task", key, "date", task.Date.Format("2006-01-02"))
	return task, nil
}

// PromoteToTemplate saves a task's shape as a reusable template.
func (m *Materializer) PromoteToTemplate(ctx context.Context, task model.TimeTask) (model.Template, error) {
	tpl := TemplateFromTask(task)
	id, err := m.templates.AddTemplate(ctx, tpl)
	if err != nil {
		return model.Template{}, fmt.Errorf("persist template: %w", err)
	}
	tpl.ID = id
	return tpl, nil
}

// PlaceUndefinedTask commits an undefined task to a concrete slot and
// removes it from the undefined pool.
func (m *Materializer) PlaceUndefinedTask(ctx context.Context, undefined model.UndefinedTask, date time.Time, timeRange model.TimeRange) (model.TimeTask, error) {
	if err := timeRange.Validate(); err != nil {
		return model.TimeTask{}, err
	}
	now := m.clock()
	task := model.TimeTask{
		Date:                 model.DateOf(date),
		Range:                timeRange,
		CreatedAt:            &now,
		Category:             undefined.Category,
		SubCategory:          undefined.SubCategory,
		Priority:             undefined.Priority,
		EnableNotification:   undefined.EnableNotification,
		ConsiderInStatistics: undefined.ConsiderInStatistics,
		Note:                 undefined.Note,
	}
	key, err := m.schedules.AddTimeTask(ctx, task)
	if err != nil {
		return model.TimeTask{}, fmt.Errorf("persist placed task: %w", err)
	}
	task.Key = key
	if err := m.undefined.RemoveUndefinedTask(ctx, undefined.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return task, nil
		}
		return model.TimeTask{}, fmt.Errorf("remove undefined task %d: %w", undefined.ID, err)
	}
	return task, nil
}

// EnsureDay expands every currently-repeating template onto the given date,
// skipping templates that already have a matching task on that schedule.
// Returns the tasks it created.
func (m *Materializer) EnsureDay(ctx context.Context, date time.Time) ([]model.TimeTask, error) {
	templates, err := m.templates.FetchAllTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	schedule, err := m.schedules.FetchScheduleByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}

	created := make([]model.TimeTask, 0)
	for _, tpl := range templates {
		if !tpl.FiresOn(date) {
			continue
		}
		if hasOccurrence(schedule, tpl) {
			continue
		}
		task := TaskFromTemplate(tpl, date, m.clock())
		key, err := m.schedules.AddTimeTask(ctx, task)
		if err != nil {
			return created, fmt.Errorf("persist occurrence of template %d: %w", tpl.ID, err)
		}
		task.Key = key
		created = append(created, task)
	}
	if len(created) > 0 {
		m.log.Info("expanded recurring templates", "date", model.DateOf(date).Format("2006-01-02"), "created", len(created))
	}
	return created, nil
}

func hasOccurrence(schedule model.DailySchedule, tpl model.Template) bool {
	for _, task := range schedule.Tasks {
		if tpl.EqualsTask(task) {
			return true
		}
	}
	return false
}
