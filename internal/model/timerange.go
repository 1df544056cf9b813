package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeRange = errors.New("model: invalid time range")

// TimeRange is an ordered pair of instants. From is the authoritative anchor;
// To may carry an earlier clock time than From, which means the range crosses
// midnight into the next calendar day. Intervals are half-open: [From, To).
type TimeRange struct {
	From time.Time
	To   time.Time
}

func NewTimeRange(from, to time.Time) (TimeRange, error) {
	r := TimeRange{From: from, To: to}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

func (r TimeRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("%w: zero boundary", ErrInvalidTimeRange)
	}
	if r.Duration() <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidTimeRange)
	}
	return nil
}

// Duration is always positive. A To earlier than From is normalized by
// adding a day, so a 22:00-01:00 range is three hours long.
func (r TimeRange) Duration() time.Duration {
	d := r.To.Sub(r.From)
	if d <= 0 {
		d += 24 * time.Hour
	}
	return d
}

func (r TimeRange) Minutes() int {
	return int(r.Duration() / time.Minute)
}

// normalizedTo is the instant the range actually ends at, with the
// cross-midnight day rollover applied.
func (r TimeRange) normalizedTo() time.Time {
	return r.From.Add(r.Duration())
}

func (r TimeRange) CrossesMidnight() bool {
	return clockMinutes(r.To) < clockMinutes(r.From)
}

func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.From.Before(other.normalizedTo()) && other.From.Before(r.normalizedTo())
}

func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.normalizedTo())
}

// ShiftTo moves only the end boundary by a signed number of minutes. The
// caller re-validates the result; a large negative shift can invert the pair.
func (r TimeRange) ShiftTo(minutes int) TimeRange {
	return TimeRange{From: r.From, To: r.To.Add(time.Duration(minutes) * time.Minute)}
}

func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// DateOf truncates an instant to midnight in its own location, i.e. the
// calendar day it belongs to.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func ShiftDay(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// AtClockTime places the clock time of src onto the calendar day of date.
func AtClockTime(date, src time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, src.Hour(), src.Minute(), src.Second(), src.Nanosecond(), date.Location())
}
