package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrOverlappingTask = errors.New("model: overlapping time tasks")
)

type Priority string

const (
	PriorityStandard Priority = "Standard"
	PriorityMedium   Priority = "Medium"
	PriorityMax      Priority = "Max"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityStandard, PriorityMedium, PriorityMax:
		return true
	default:
		return false
	}
}

// IsImportant reports whether a task with this priority is locked against
// displacement by a neighboring shift.
func (p Priority) IsImportant() bool {
	return p == PriorityMedium || p == PriorityMax
}

type MainCategory struct {
	ID   int
	Name string
	Icon string
}

type SubCategory struct {
	ID             int
	MainCategoryID int
	Name           string
}

// TaskNotifications selects which notification offsets are armed for a task.
type TaskNotifications struct {
	FifteenMinutesBefore bool
	OneHourBefore        bool
	ThreeHoursBefore     bool
	OneDayBefore         bool
	OneWeekBefore        bool
	BeforeEnd            bool
}

func (n TaskNotifications) Offsets() []NotificationOffset {
	out := make([]NotificationOffset, 0, 6)
	if n.FifteenMinutesBefore {
		out = append(out, OffsetFifteenMinutesBefore)
	}
	if n.OneHourBefore {
		out = append(out, OffsetOneHourBefore)
	}
	if n.ThreeHoursBefore {
		out = append(out, OffsetThreeHoursBefore)
	}
	if n.OneDayBefore {
		out = append(out, OffsetOneDayBefore)
	}
	if n.OneWeekBefore {
		out = append(out, OffsetOneWeekBefore)
	}
	if n.BeforeEnd {
		out = append(out, OffsetBeforeEnd)
	}
	return out
}

// TimeTask is a concrete, dated, time-bounded unit of work. A key of zero
// marks a task that was never saved.
type TimeTask struct {
	Key                  int64
	Date                 time.Time
	Range                TimeRange
	CreatedAt            *time.Time
	Category             MainCategory
	SubCategory          *SubCategory
	IsCompleted          bool
	Priority             Priority
	EnableNotification   bool
	Notifications        TaskNotifications
	ConsiderInStatistics bool
	Note                 string
}

func (t TimeTask) Validate() error {
	if t.Date.IsZero() {
		return errors.New("model: time task date is required")
	}
	if err := t.Range.Validate(); err != nil {
		return err
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if strings.TrimSpace(t.Category.Name) == "" {
		return errors.New("model: time task category is required")
	}
	return nil
}

// IsImportant mirrors the priority lock used by the shift algorithm.
func (t TimeTask) IsImportant() bool {
	return t.Priority.IsImportant()
}

// DailySchedule owns every task of one calendar day, ordered by start time.
type DailySchedule struct {
	Date  time.Time
	Tasks []TimeTask
}

// CheckOverlaps returns ErrOverlappingTask if any two tasks in the schedule
// intersect. Storage does not enforce this; the shift interactor does.
func (s DailySchedule) CheckOverlaps() error {
	for i := 0; i < len(s.Tasks); i++ {
		for j := i + 1; j < len(s.Tasks); j++ {
			if s.Tasks[i].Range.Overlaps(s.Tasks[j].Range) {
				return fmt.Errorf("%w: keys %d and %d", ErrOverlappingTask, s.Tasks[i].Key, s.Tasks[j].Key)
			}
		}
	}
	return nil
}

// UndefinedTask is a task materialized from a template that has not yet been
// placed on a concrete schedule slot.
type UndefinedTask struct {
	ID                   int64
	CreatedAt            *time.Time
	Category             MainCategory
	SubCategory          *SubCategory
	Priority             Priority
	EnableNotification   bool
	ConsiderInStatistics bool
	Note                 string
}

type ScheduleStatus string

const (
	StatusPlanned        ScheduleStatus = "Planned"
	StatusAccomplishment ScheduleStatus = "Accomplishment"
	StatusRealized       ScheduleStatus = "Realized"
)

// StatusFor maps a schedule's date against the current date. Comparison is
// by calendar day, never by instant.
func StatusFor(requiredDate, currentDate time.Time) ScheduleStatus {
	required := DateOf(requiredDate)
	current := DateOf(currentDate)
	switch {
	case required.After(current):
		return StatusPlanned
	case required.Before(current):
		return StatusRealized
	default:
		return StatusAccomplishment
	}
}
