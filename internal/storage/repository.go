package storage

import (
	"context"
	"errors"
	"time"

	"github.com/EmmeEffe/TimePlanner/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// ScheduleRepository serializes all writes to a day's task list; the
// two-task shift update must land in one transaction.
type ScheduleRepository interface {
	FetchScheduleByDate(ctx context.Context, date time.Time) (model.DailySchedule, error)
	FetchSchedulesByRange(ctx context.Context, from, to time.Time) ([]model.DailySchedule, error)
	AddTimeTask(ctx context.Context, task model.TimeTask) (int64, error)
	UpdateTimeTasks(ctx context.Context, tasks []model.TimeTask) error
	RemoveTimeTask(ctx context.Context, key int64) error
}

type TemplateRepository interface {
	FetchAllTemplates(ctx context.Context) ([]model.Template, error)
	AddTemplate(ctx context.Context, tpl model.Template) (int, error)
	UpdateTemplate(ctx context.Context, tpl model.Template) error
	RemoveTemplate(ctx context.Context, id int) error
	RemoveAllTemplates(ctx context.Context) error
}

type UndefinedTaskRepository interface {
	FetchUndefinedTasks(ctx context.Context) ([]model.UndefinedTask, error)
	AddUndefinedTask(ctx context.Context, task model.UndefinedTask) (int64, error)
	RemoveUndefinedTask(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	FetchMainCategories(ctx context.Context) ([]model.MainCategory, error)
	AddMainCategory(ctx context.Context, category model.MainCategory) (int, error)
	FetchSubCategories(ctx context.Context, mainCategoryID int) ([]model.SubCategory, error)
	AddSubCategory(ctx context.Context, category model.SubCategory) (int, error)
}
