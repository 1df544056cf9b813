package storage

import "database/sql"

// Row-level records mirroring the SQLite schema. Mapping to and from the
// domain types lives in mappers.go.

type TimeTaskEntity struct {
	Key                  int64
	DailyScheduleDate    string
	NextScheduleDate     sql.NullString
	StartTime            string
	EndTime              string
	CreatedAt            sql.NullString
	MainCategoryID       int
	SubCategoryID        sql.NullInt64
	IsCompleted          int
	Priority             string
	IsEnableNotification int
	FifteenMinutesBefore int
	OneHourBefore        int
	ThreeHoursBefore     int
	OneDayBefore         int
	OneWeekBefore        int
	BeforeEnd            int
	ConsiderInStatistics int
	Note                 sql.NullString
}

type TemplateEntity struct {
	ID                   int
	StartTime            string
	EndTime              string
	MainCategoryID       int
	SubCategoryID        sql.NullInt64
	Priority             string
	IsEnableNotification int
	ConsiderInStatistics int
	RepeatEnabled        int
}

type RepeatTimeEntity struct {
	ID         int64
	TemplateID int
	RepeatType string
	Day        int
	DayNumber  int
	WeekNumber int
	Month      int
}

type UndefinedTaskEntity struct {
	ID                   int64
	CreatedAt            sql.NullString
	MainCategoryID       int
	SubCategoryID        sql.NullInt64
	Priority             string
	IsEnableNotification int
	ConsiderInStatistics int
	Note                 sql.NullString
}

type MainCategoryEntity struct {
	ID   int
	Name string
	Icon string
}

type SubCategoryEntity struct {
	ID             int
	MainCategoryID int
	Name           string
}
