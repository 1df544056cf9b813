package storage

import (
	"database/sql"
	"time"

	"github.com/EmmeEffe/TimePlanner/internal/model"
)

const (
	sqliteTimeLayout = time.RFC3339Nano
	sqliteDateLayout = "2006-01-02"
)

func taskToEntity(t model.TimeTask) TimeTaskEntity {
	e := TimeTaskEntity{
		Key:                  t.Key,
		DailyScheduleDate:    mustDate(t.Date),
		StartTime:            mustTime(t.Range.From),
		EndTime:              mustTime(t.Range.To),
		CreatedAt:            nullTime(t.CreatedAt),
		MainCategoryID:       t.Category.ID,
		IsCompleted:          boolInt(t.IsCompleted),
		Priority:             string(t.Priority),
		IsEnableNotification: boolInt(t.EnableNotification),
		FifteenMinutesBefore: boolInt(t.Notifications.FifteenMinutesBefore),
		OneHourBefore:        boolInt(t.Notifications.OneHourBefore),
		ThreeHoursBefore:     boolInt(t.Notifications.ThreeHoursBefore),
		OneDayBefore:         boolInt(t.Notifications.OneDayBefore),
		OneWeekBefore:        boolInt(t.Notifications.OneWeekBefore),
		BeforeEnd:            boolInt(t.Notifications.BeforeEnd),
		ConsiderInStatistics: boolInt(t.ConsiderInStatistics),
		Note:                 nullString(t.Note),
	}
	if t.SubCategory != nil {
		e.SubCategoryID = sql.NullInt64{Int64: int64(t.SubCategory.ID), Valid: true}
	}
	// A range that rolls past midnight also belongs to the next calendar
	// day on disk, so day-window queries can still find it.
	if t.Range.CrossesMidnight() {
		e.NextScheduleDate = sql.NullString{String: mustDate(model.ShiftDay(t.Date, 1)), Valid: true}
	}
	return e
}

func taskFromEntity(e TimeTaskEntity, c MainCategoryEntity, s *SubCategoryEntity) (model.TimeTask, error) {
	date, err := parseDate(e.DailyScheduleDate)
	if err != nil {
		return model.TimeTask{}, err
	}
	from, err := parseRequiredTime(e.StartTime)
	if err != nil {
		return model.TimeTask{}, err
	}
	to, err := parseRequiredTime(e.EndTime)
	if err != nil {
		return model.TimeTask{}, err
	}
	createdAt, err := parseNullableTime(e.CreatedAt)
	if err != nil {
		return model.TimeTask{}, err
	}
	task := model.TimeTask{
		Key:                  e.Key,
		Date:                 date,
		Range:                model.TimeRange{From: from, To: to},
		CreatedAt:            createdAt,
		Category:             categoryFromEntity(c),
		IsCompleted:          e.IsCompleted == 1,
		Priority:             model.Priority(e.Priority),
		EnableNotification:   e.IsEnableNotification == 1,
		ConsiderInStatistics: e.ConsiderInStatistics == 1,
		Note:                 e.Note.String,
		Notifications: model.TaskNotifications{
			FifteenMinutesBefore: e.FifteenMinutesBefore == 1,
			OneHourBefore:        e.OneHourBefore == 1,
			ThreeHoursBefore:     e.ThreeHoursBefore == 1,
			OneDayBefore:         e.OneDayBefore == 1,
			OneWeekBefore:        e.OneWeekBefore == 1,
			BeforeEnd:            e.BeforeEnd == 1,
		},
	}
	if s != nil {
		sub := subCategoryFromEntity(*s)
		task.SubCategory = &sub
	}
	return task, nil
}

func templateToEntity(t model.Template) TemplateEntity {
	e := TemplateEntity{
		ID:                   t.ID,
		StartTime:            mustTime(t.Start),
		EndTime:              mustTime(t.End),
		MainCategoryID:       t.Category.ID,
		Priority:             string(t.Priority),
		IsEnableNotification: boolInt(t.EnableNotification),
		ConsiderInStatistics: boolInt(t.ConsiderInStatistics),
		RepeatEnabled:        boolInt(t.RepeatEnabled),
	}
	if t.SubCategory != nil {
		e.SubCategoryID = sql.NullInt64{Int64: int64(t.SubCategory.ID), Valid: true}
	}
	return e
}

func templateFromEntity(e TemplateEntity, c MainCategoryEntity, s *SubCategoryEntity, rules []RepeatTimeEntity) (model.Template, error) {
	start, err := parseRequiredTime(e.StartTime)
	if err != nil {
		return model.Template{}, err
	}
	end, err := parseRequiredTime(e.EndTime)
	if err != nil {
		return model.Template{}, err
	}
	tpl := model.Template{
		ID:                   e.ID,
		Start:                start,
		End:                  end,
		Category:             categoryFromEntity(c),
		Priority:             model.Priority(e.Priority),
		EnableNotification:   e.IsEnableNotification == 1,
		ConsiderInStatistics: e.ConsiderInStatistics == 1,
		RepeatEnabled:        e.RepeatEnabled == 1,
	}
	if s != nil {
		sub := subCategoryFromEntity(*s)
		tpl.SubCategory = &sub
	}
	for _, rule := range rules {
		tpl.RepeatRules = append(tpl.RepeatRules, repeatRuleFromEntity(rule))
	}
	return tpl, nil
}

func repeatRuleToEntity(templateID int, r model.RepeatRule) RepeatTimeEntity {
	return RepeatTimeEntity{
		TemplateID: templateID,
		RepeatType: string(r.Type),
		Day:        int(r.Day),
		DayNumber:  r.DayNumber,
		WeekNumber: r.WeekNumber,
		Month:      int(r.Month),
	}
}

func repeatRuleFromEntity(e RepeatTimeEntity) model.RepeatRule {
	return model.RepeatRule{
		Type:       model.RepeatType(e.RepeatType),
		Day:        time.Weekday(e.Day),
		DayNumber:  e.DayNumber,
		WeekNumber: e.WeekNumber,
		Month:      time.Month(e.Month),
	}
}

func undefinedToEntity(t model.UndefinedTask) UndefinedTaskEntity {
	e := UndefinedTaskEntity{
		ID:                   t.ID,
		CreatedAt:            nullTime(t.CreatedAt),
		MainCategoryID:       t.Category.ID,
		Priority:             string(t.Priority),
		IsEnableNotification: boolInt(t.EnableNotification),
		ConsiderInStatistics: boolInt(t.ConsiderInStatistics),
		Note:                 nullString(t.Note),
	}
	if t.SubCategory != nil {
		e.SubCategoryID = sql.NullInt64{Int64: int64(t.SubCategory.ID), Valid: true}
	}
	return e
}

func undefinedFromEntity(e UndefinedTaskEntity, c MainCategoryEntity, s *SubCategoryEntity) (model.UndefinedTask, error) {
	createdAt, err := parseNullableTime(e.CreatedAt)
	if err != nil {
		return model.UndefinedTask{}, err
	}
	task := model.UndefinedTask{
		ID:                   e.ID,
		CreatedAt:            createdAt,
		Category:             categoryFromEntity(c),
		Priority:             model.Priority(e.Priority),
		EnableNotification:   e.IsEnableNotification == 1,
		ConsiderInStatistics: e.ConsiderInStatistics == 1,
		Note:                 e.Note.String,
	}
	if s != nil {
		sub := subCategoryFromEntity(*s)
		task.SubCategory = &sub
	}
	return task, nil
}

func categoryFromEntity(e MainCategoryEntity) model.MainCategory {
	return model.MainCategory{ID: e.ID, Name: e.Name, Icon: e.Icon}
}

func subCategoryFromEntity(e SubCategoryEntity) model.SubCategory {
	return model.SubCategory{ID: e.ID, MainCategoryID: e.MainCategoryID, Name: e.Name}
}

// mustTime keeps the instant's own offset; RFC3339 round-trips it, so wall
// clocks and calendar-day decisions survive persistence in any timezone.
func mustTime(v time.Time) string {
	return v.Format(sqliteTimeLayout)
}

func mustDate(v time.Time) string {
	return v.Format(sqliteDateLayout)
}

func nullTime(v *time.Time) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v.Format(sqliteTimeLayout), Valid: true}
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func parseDate(v string) (time.Time, error) {
	return time.Parse(sqliteDateLayout, v)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
