package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/EmmeEffe/TimePlanner/internal/model"
)

// SQLiteRepository backs every repository interface with one database. A
// single connection serializes writers, which is the locking model the
// planner relies on.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const taskColumns = `
	t.key, t.daily_schedule_date, t.next_schedule_date, t.start_time, t.end_time, t.created_at,
	t.main_category_id, t.sub_category_id, t.is_completed, t.priority, t.is_enable_notification,
	t.fifteen_minutes_before_notify, t.one_hour_before_notify, t.three_hours_before_notify,
	t.one_day_before_notify, t.one_week_before_notify, t.before_end_notify,
	t.is_consider_in_statistics, t.note,
	c.name, c.icon, s.main_category_id, s.name`

const taskJoins = `
	FROM time_tasks t
	JOIN main_categories c ON c.id = t.main_category_id
	LEFT JOIN sub_categories s ON s.id = t.sub_category_id`

func (r *SQLiteRepository) FetchScheduleByDate(ctx context.Context, date time.Time) (model.DailySchedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+taskColumns+taskJoins+`
		WHERE t.daily_schedule_date = ?
		ORDER BY t.start_time ASC`, mustDate(date))
	if err != nil {
		return model.DailySchedule{}, err
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return model.DailySchedule{}, err
	}
	return model.DailySchedule{Date: model.DateOf(date), Tasks: tasks}, nil
}

func (r *SQLiteRepository) FetchSchedulesByRange(ctx context.Context, from, to time.Time) ([]model.DailySchedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+taskColumns+taskJoins+`
		WHERE t.daily_schedule_date >= ? AND t.daily_schedule_date <= ?
		ORDER BY t.daily_schedule_date ASC, t.start_time ASC`, mustDate(from), mustDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, err
	}

	out := make([]model.DailySchedule, 0)
	for _, task := range tasks {
		if n := len(out); n > 0 && model.SameDay(out[n-1].Date, task.Date) {
			out[n-1].Tasks = append(out[n-1].Tasks, task)
			continue
		}
		out = append(out, model.DailySchedule{Date: task.Date, Tasks: []model.TimeTask{task}})
	}
	return out, nil
}

func (r *SQLiteRepository) AddTimeTask(ctx context.Context, task model.TimeTask) (int64, error) {
	e := taskToEntity(task)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO time_tasks (
			daily_schedule_date, next_schedule_date, start_time, end_time, created_at,
			main_category_id, sub_category_id, is_completed, priority, is_enable_notification,
			fifteen_minutes_before_notify, one_hour_before_notify, three_hours_before_notify,
			one_day_before_notify, one_week_before_notify, before_end_notify,
			is_consider_in_statistics, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.DailyScheduleDate, e.NextScheduleDate, e.StartTime, e.EndTime, e.CreatedAt,
		e.MainCategoryID, e.SubCategoryID, e.IsCompleted, e.Priority, e.IsEnableNotification,
		e.FifteenMinutesBefore, e.OneHourBefore, e.ThreeHoursBefore,
		e.OneDayBefore, e.OneWeekBefore, e.BeforeEnd,
		e.ConsiderInStatistics, e.Note,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateTimeTasks applies every update in one transaction so a shift that
// touches two neighboring tasks can never half-land.
func (r *SQLiteRepository) UpdateTimeTasks(ctx context.Context, tasks []model.TimeTask) error {
	if len(tasks) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, task := range tasks {
		e := taskToEntity(task)
		res, execErr := tx.ExecContext(ctx, `
			UPDATE time_tasks
			SET daily_schedule_date = ?, next_schedule_date = ?, start_time = ?, end_time = ?,
				created_at = ?, main_category_id = ?, sub_category_id = ?, is_completed = ?,
				priority = ?, is_enable_notification = ?, fifteen_minutes_before_notify = ?,
				one_hour_before_notify = ?, three_hours_before_notify = ?, one_day_before_notify = ?,
				one_week_before_notify = ?, before_end_notify = ?, is_consider_in_statistics = ?, note = ?
			WHERE key = ?`,
			e.DailyScheduleDate, e.NextScheduleDate, e.StartTime, e.EndTime,
			e.CreatedAt, e.MainCategoryID, e.SubCategoryID, e.IsCompleted,
			e.Priority, e.IsEnableNotification, e.FifteenMinutesBefore,
			e.OneHourBefore, e.ThreeHoursBefore, e.OneDayBefore,
			e.OneWeekBefore, e.BeforeEnd, e.ConsiderInStatistics, e.Note,
			e.Key,
		)
		if execErr != nil {
			return execErr
		}
		if affErr := checkRowsAffected(res); affErr != nil {
			return affErr
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) RemoveTimeTask(ctx context.Context, key int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_tasks WHERE key = ?`, key)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) FetchAllTemplates(ctx context.Context) ([]model.Template, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.start_time, t.end_time, t.main_category_id, t.sub_category_id,
			t.priority, t.is_enable_notification, t.is_consider_in_statistics, t.repeat_enabled,
			c.name, c.icon, s.main_category_id, s.name
		FROM templates t
		JOIN main_categories c ON c.id = t.main_category_id
		LEFT JOIN sub_categories s ON s.id = t.sub_category_id
		ORDER BY t.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type joined struct {
		entity TemplateEntity
		main   MainCategoryEntity
		sub    *SubCategoryEntity
	}
	templates := make([]joined, 0)
	for rows.Next() {
		var e TemplateEntity
		var c MainCategoryEntity
		var subMainID sql.NullInt64
		var subName sql.NullString
		if err := rows.Scan(&e.ID, &e.StartTime, &e.EndTime, &e.MainCategoryID, &e.SubCategoryID,
			&e.Priority, &e.IsEnableNotification, &e.ConsiderInStatistics, &e.RepeatEnabled,
			&c.Name, &c.Icon, &subMainID, &subName); err != nil {
			return nil, err
		}
		c.ID = e.MainCategoryID
		item := joined{entity: e, main: c}
		if e.SubCategoryID.Valid {
			item.sub = &SubCategoryEntity{
				ID:             int(e.SubCategoryID.Int64),
				MainCategoryID: int(subMainID.Int64),
				Name:           subName.String,
			}
		}
		templates = append(templates, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rulesByTemplate, err := r.fetchRepeatTimes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Template, 0, len(templates))
	for _, item := range templates {
		tpl, mapErr := templateFromEntity(item.entity, item.main, item.sub, rulesByTemplate[item.entity.ID])
		if mapErr != nil {
			return nil, mapErr
		}
		out = append(out, tpl)
	}
	return out, nil
}

func (r *SQLiteRepository) fetchRepeatTimes(ctx context.Context) (map[int][]RepeatTimeEntity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, template_id, repeat_type, day, day_number, week_number, month
		FROM repeat_times ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int][]RepeatTimeEntity)
	for rows.Next() {
		var e RepeatTimeEntity
		if err := rows.Scan(&e.ID, &e.TemplateID, &e.RepeatType, &e.Day, &e.DayNumber, &e.WeekNumber, &e.Month); err != nil {
			return nil, err
		}
		out[e.TemplateID] = append(out[e.TemplateID], e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddTemplate(ctx context.Context, tpl model.Template) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	e := templateToEntity(tpl)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO templates (start_time, end_time, main_category_id, sub_category_id,
			priority, is_enable_notification, is_consider_in_statistics, repeat_enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.StartTime, e.EndTime, e.MainCategoryID, e.SubCategoryID,
		e.Priority, e.IsEnableNotification, e.ConsiderInStatistics, e.RepeatEnabled,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := insertRepeatTimes(ctx, tx, int(id), tpl.RepeatRules); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(id), nil
}

func (r *SQLiteRepository) UpdateTemplate(ctx context.Context, tpl model.Template) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	e := templateToEntity(tpl)
	res, err := tx.ExecContext(ctx, `
		UPDATE templates
		SET start_time = ?, end_time = ?, main_category_id = ?, sub_category_id = ?,
			priority = ?, is_enable_notification = ?, is_consider_in_statistics = ?, repeat_enabled = ?
		WHERE id = ?`,
		e.StartTime, e.EndTime, e.MainCategoryID, e.SubCategoryID,
		e.Priority, e.IsEnableNotification, e.ConsiderInStatistics, e.RepeatEnabled,
		e.ID,
	)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM repeat_times WHERE template_id = ?`, tpl.ID); err != nil {
		return err
	}
	if err := insertRepeatTimes(ctx, tx, tpl.ID, tpl.RepeatRules); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRepeatTimes(ctx context.Context, tx *sql.Tx, templateID int, rules []model.RepeatRule) error {
	for _, rule := range rules {
		e := repeatRuleToEntity(templateID, rule)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO repeat_times (template_id, repeat_type, day, day_number, week_number, month)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.TemplateID, e.RepeatType, e.Day, e.DayNumber, e.WeekNumber, e.Month,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) RemoveTemplate(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) RemoveAllTemplates(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM templates`)
	return err
}

func (r *SQLiteRepository) FetchUndefinedTasks(ctx context.Context) ([]model.UndefinedTask, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.created_at, u.main_category_id, u.sub_category_id, u.priority,
			u.is_enable_notification, u.is_consider_in_statistics, u.note,
			c.name, c.icon, s.main_category_id, s.name
		FROM undefined_tasks u
		JOIN main_categories c ON c.id = u.main_category_id
		LEFT JOIN sub_categories s ON s.id = u.sub_category_id
		ORDER BY u.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.UndefinedTask, 0)
	for rows.Next() {
		var e UndefinedTaskEntity
		var c MainCategoryEntity
		var subMainID sql.NullInt64
		var subName sql.NullString
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.MainCategoryID, &e.SubCategoryID, &e.Priority,
			&e.IsEnableNotification, &e.ConsiderInStatistics, &e.Note,
			&c.Name, &c.Icon, &subMainID, &subName); err != nil {
			return nil, err
		}
		c.ID = e.MainCategoryID
		var sub *SubCategoryEntity
		if e.SubCategoryID.Valid {
			sub = &SubCategoryEntity{
				ID:             int(e.SubCategoryID.Int64),
				MainCategoryID: int(subMainID.Int64),
				Name:           subName.String,
			}
		}
		task, mapErr := undefinedFromEntity(e, c, sub)
		if mapErr != nil {
			return nil, mapErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddUndefinedTask(ctx context.Context, task model.UndefinedTask) (int64, error) {
	e := undefinedToEntity(task)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO undefined_tasks (created_at, main_category_id, sub_category_id, priority,
			is_enable_notification, is_consider_in_statistics, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.CreatedAt, e.MainCategoryID, e.SubCategoryID, e.Priority,
		e.IsEnableNotification, e.ConsiderInStatistics, e.Note,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) RemoveUndefinedTask(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM undefined_tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) FetchMainCategories(ctx context.Context) ([]model.MainCategory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, icon FROM main_categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.MainCategory, 0)
	for rows.Next() {
		var e MainCategoryEntity
		if err := rows.Scan(&e.ID, &e.Name, &e.Icon); err != nil {
			return nil, err
		}
		out = append(out, categoryFromEntity(e))
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddMainCategory(ctx context.Context, category model.MainCategory) (int, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO main_categories (name, icon) VALUES (?, ?)`,
		category.Name, category.Icon)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (r *SQLiteRepository) FetchSubCategories(ctx context.Context, mainCategoryID int) ([]model.SubCategory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, main_category_id, name FROM sub_categories
		WHERE main_category_id = ? ORDER BY name ASC`, mainCategoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SubCategory, 0)
	for rows.Next() {
		var e SubCategoryEntity
		if err := rows.Scan(&e.ID, &e.MainCategoryID, &e.Name); err != nil {
			return nil, err
		}
		out = append(out, subCategoryFromEntity(e))
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddSubCategory(ctx context.Context, category model.SubCategory) (int, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO sub_categories (main_category_id, name) VALUES (?, ?)`,
		category.MainCategoryID, category.Name)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.TimeTask, error) {
	var e TimeTaskEntity
	var c MainCategoryEntity
	var subMainID sql.NullInt64
	var subName sql.NullString
	if err := s.Scan(&e.Key, &e.DailyScheduleDate, &e.NextScheduleDate, &e.StartTime, &e.EndTime, &e.CreatedAt,
		&e.MainCategoryID, &e.SubCategoryID, &e.IsCompleted, &e.Priority, &e.IsEnableNotification,
		&e.FifteenMinutesBefore, &e.OneHourBefore, &e.ThreeHoursBefore,
		&e.OneDayBefore, &e.OneWeekBefore, &e.BeforeEnd,
		&e.ConsiderInStatistics, &e.Note,
		&c.Name, &c.Icon, &subMainID, &subName); err != nil {
		return model.TimeTask{}, err
	}
	c.ID = e.MainCategoryID
	var sub *SubCategoryEntity
	if e.SubCategoryID.Valid {
		sub = &SubCategoryEntity{
			ID:             int(e.SubCategoryID.Int64),
			MainCategoryID: int(subMainID.Int64),
			Name:           subName.String,
		}
	}
	return taskFromEntity(e, c, sub)
}

func collectTasks(rows *sql.Rows) ([]model.TimeTask, error) {
	out := make([]model.TimeTask, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
