package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidNotificationOffset = errors.New("model: invalid notification offset")

// NotificationOffset names a fixed lead time before a task boundary at which
// an alarm fires. All offsets anchor on the start of the range except
// BeforeEnd, which anchors on the end.
type NotificationOffset string

const (
	OffsetFifteenMinutesBefore NotificationOffset = "FifteenMinutesBefore"
	OffsetOneHourBefore        NotificationOffset = "OneHourBefore"
	OffsetThreeHoursBefore     NotificationOffset = "ThreeHoursBefore"
	OffsetOneDayBefore         NotificationOffset = "OneDayBefore"
	OffsetOneWeekBefore        NotificationOffset = "OneWeekBefore"
	OffsetBeforeEnd            NotificationOffset = "BeforeEnd"
)

// AllNotificationOffsets is ordered; the position of an offset feeds the
// alarm id encoding and must never change between releases.
var AllNotificationOffsets = []NotificationOffset{
	OffsetFifteenMinutesBefore,
	OffsetOneHourBefore,
	OffsetThreeHoursBefore,
	OffsetOneDayBefore,
	OffsetOneWeekBefore,
	OffsetBeforeEnd,
}

func (o NotificationOffset) IsValid() bool {
	switch o {
	case OffsetFifteenMinutesBefore, OffsetOneHourBefore, OffsetThreeHoursBefore,
		OffsetOneDayBefore, OffsetOneWeekBefore, OffsetBeforeEnd:
		return true
	default:
		return false
	}
}

type NotificationKind string

const (
	KindBeforeStart NotificationKind = "BeforeStart"
	KindBeforeEnd   NotificationKind = "BeforeEnd"
)

func (o NotificationOffset) Kind() NotificationKind {
	if o == OffsetBeforeEnd {
		return KindBeforeEnd
	}
	return KindBeforeStart
}

// TriggerTime derives the absolute alarm instant for an offset against a
// task's time range. beforeEndLead is the configured short lead used only by
// BeforeEnd.
func TriggerTime(o NotificationOffset, r TimeRange, beforeEndLead time.Duration) (time.Time, error) {
	switch o {
	case OffsetFifteenMinutesBefore:
		return r.From.Add(-15 * time.Minute), nil
	case OffsetOneHourBefore:
		return r.From.Add(-time.Hour), nil
	case OffsetThreeHoursBefore:
		return r.From.Add(-3 * time.Hour), nil
	case OffsetOneDayBefore:
		return r.From.Add(-24 * time.Hour), nil
	case OffsetOneWeekBefore:
		return r.From.Add(-7 * 24 * time.Hour), nil
	case OffsetBeforeEnd:
		return r.normalizedTo().Add(-beforeEndLead), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidNotificationOffset, o)
	}
}

const alarmOffsetBits = 3

// AlarmID derives the scheduler-visible id for a (task, offset) pair. The
// offset ordinal lives in the low bits so ids stay collision-free for any
// pair of distinct task keys, unlike an additive scheme where key+increment
// can land on a neighboring key's slot.
func AlarmID(taskKey int64, o NotificationOffset) int64 {
	ordinal := int64(0)
	for i, candidate := range AllNotificationOffsets {
		if candidate == o {
			ordinal = int64(i)
			break
		}
	}
	return taskKey<<alarmOffsetBits | ordinal
}
