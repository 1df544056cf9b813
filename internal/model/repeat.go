package model

import (
	"errors"
	"fmt"
	"time"
)

type RepeatType string

const (
	RepeatWeekDays       RepeatType = "week_days"
	RepeatMonthDay       RepeatType = "month_day"
	RepeatWeekDayInMonth RepeatType = "week_day_in_month"
	RepeatYearDay        RepeatType = "year_day"
)

var (
	ErrInvalidRepeatType = errors.New("model: invalid repeat type")
	ErrInvalidDayNumber  = errors.New("model: repeat day number out of range")
	ErrInvalidWeekNumber = errors.New("model: repeat week number out of range")
	ErrInvalidMonth      = errors.New("model: repeat month out of range")
)

// RepeatRule is a predicate over calendar dates. Only the fields of the
// active variant are meaningful; Validate enforces their ranges.
type RepeatRule struct {
	Type       RepeatType
	Day        time.Weekday // week_days, week_day_in_month
	DayNumber  int          // month_day, year_day: 1..31
	WeekNumber int          // week_day_in_month: 1..5
	Month      time.Month   // year_day
}

func (r RepeatRule) Validate() error {
	switch r.Type {
	case RepeatWeekDays:
		return nil
	case RepeatMonthDay:
		if r.DayNumber < 1 || r.DayNumber > 31 {
			return fmt.Errorf("%w: %d", ErrInvalidDayNumber, r.DayNumber)
		}
		return nil
	case RepeatWeekDayInMonth:
		if r.WeekNumber < 1 || r.WeekNumber > 5 {
			return fmt.Errorf("%w: %d", ErrInvalidWeekNumber, r.WeekNumber)
		}
		return nil
	case RepeatYearDay:
		if r.DayNumber < 1 || r.DayNumber > 31 {
			return fmt.Errorf("%w: %d", ErrInvalidDayNumber, r.DayNumber)
		}
		if r.Month < time.January || r.Month > time.December {
			return fmt.Errorf("%w: %d", ErrInvalidMonth, r.Month)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRepeatType, r.Type)
	}
}

// Matches reports whether the rule fires on the candidate date. A month_day
// rule for day 31 never fires in a shorter month; short months are skipped,
// not clamped to their last day.
func (r RepeatRule) Matches(date time.Time) bool {
	switch r.Type {
	case RepeatWeekDays:
		return date.Weekday() == r.Day
	case RepeatMonthDay:
		return date.Day() == r.DayNumber
	case RepeatWeekDayInMonth:
		return date.Weekday() == r.Day && weekdayOrdinal(date) == r.WeekNumber
	case RepeatYearDay:
		return date.Month() == r.Month && date.Day() == r.DayNumber
	default:
		return false
	}
}

// weekdayOrdinal is the 1-based occurrence count of the date's weekday
// within its month: the 2nd Monday of March has ordinal 2.
func weekdayOrdinal(date time.Time) int {
	return (date.Day()-1)/7 + 1
}

// Template is a reusable time-of-day definition. Start and End carry only
// their clock time; the calendar day is supplied at materialization.
type Template struct {
	ID                   int
	Start                time.Time
	End                  time.Time
	Category             MainCategory
	SubCategory          *SubCategory
	Priority             Priority
	EnableNotification   bool
	ConsiderInStatistics bool
	RepeatEnabled        bool
	RepeatRules          []RepeatRule
}

func (t Template) Validate() error {
	if t.Start.IsZero() || t.End.IsZero() {
		return errors.New("model: template time range is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	for _, rule := range t.RepeatRules {
		if err := rule.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (t Template) TimeRange() TimeRange {
	return TimeRange{From: t.Start, To: t.End}
}

// FiresOn reports whether the template recurs on the given date: repeat must
// be enabled and any one rule has to match.
func (t Template) FiresOn(date time.Time) bool {
	if !t.RepeatEnabled {
		return false
	}
	for _, rule := range t.RepeatRules {
		if rule.Matches(date) {
			return true
		}
	}
	return false
}

// Occurrences lists every date in [start, end] the template fires on. The
// walk is day-by-day and stateless, so repeated calls always agree.
func (t Template) Occurrences(start, end time.Time) []time.Time {
	out := make([]time.Time, 0)
	for day := DateOf(start); !day.After(DateOf(end)); day = ShiftDay(day, 1) {
		if t.FiresOn(day) {
			out = append(out, day)
		}
	}
	return out
}

// EqualsTask reports whether a concrete task looks like an occurrence of
// this template: same clock times, category, sub-category, priority and
// notification flag.
func (t Template) EqualsTask(task TimeTask) bool {
	if clockMinutes(t.Start) != clockMinutes(task.Range.From) {
		return false
	}
	if clockMinutes(t.End) != clockMinutes(task.Range.To) {
		return false
	}
	if t.Category.ID != task.Category.ID {
		return false
	}
	if (t.SubCategory == nil) != (task.SubCategory == nil) {
		return false
	}
	if t.SubCategory != nil && t.SubCategory.ID != task.SubCategory.ID {
		return false
	}
	return t.Priority == task.Priority && t.EnableNotification == task.EnableNotification
}
