package model

import (
	"errors"
	"testing"
	"time"
)

func TestWeekDaysRuleMatches(t *testing.T) {
	rule := RepeatRule{Type: RepeatWeekDays, Day: time.Wednesday}
	if !rule.Matches(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected rule to match a Wednesday")
	}
	if rule.Matches(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("rule must not match a Thursday")
	}
}

func TestMonthDayRuleSkipsShortMonths(t *testing.T) {
	rule := RepeatRule{Type: RepeatMonthDay, DayNumber: 31}
	if !rule.Matches(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected rule to match January 31")
	}
	// No clamping: a 31-rule fires on nothing at all in February.
	for day := 1; day <= 29; day++ {
		if rule.Matches(time.Date(2024, 2, day, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("rule must not match February %d", day)
		}
	}
}

func TestWeekDayInMonthRuleMatchesOnlyNthWeekday(t *testing.T) {
	rule := RepeatRule{Type: RepeatWeekDayInMonth, Day: time.Monday, WeekNumber: 2}
	// Mondays of January 2024: 1, 8, 15, 22, 29.
	if !rule.Matches(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected rule to match the second Monday")
	}
	for _, day := range []int{1, 15, 22, 29} {
		if rule.Matches(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("rule must not match January %d", day)
		}
	}
}

func TestYearDayRuleMatches(t *testing.T) {
	rule := RepeatRule{Type: RepeatYearDay, Month: time.July, DayNumber: 4}
	if !rule.Matches(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected rule to match July 4")
	}
	if rule.Matches(time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("rule must not match June 4")
	}
}

func TestRepeatRuleMatchesIsDeterministic(t *testing.T) {
	rule := RepeatRule{Type: RepeatWeekDayInMonth, Day: time.Friday, WeekNumber: 3}
	date := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	first := rule.Matches(date)
	second := rule.Matches(date)
	if first != second {
		t.Fatalf("matches must be a pure function of (rule, date)")
	}
}

func TestRepeatRuleValidateRanges(t *testing.T) {
	bad := RepeatRule{Type: RepeatMonthDay, DayNumber: 32}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidDayNumber) {
		t.Fatalf("expected ErrInvalidDayNumber, got %v", err)
	}
	bad = RepeatRule{Type: RepeatWeekDayInMonth, WeekNumber: 6}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidWeekNumber) {
		t.Fatalf("expected ErrInvalidWeekNumber, got %v", err)
	}
	bad = RepeatRule{Type: RepeatYearDay, DayNumber: 10, Month: 13}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
	bad = RepeatRule{Type: "hourly"}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidRepeatType) {
		t.Fatalf("expected ErrInvalidRepeatType, got %v", err)
	}
}

func TestTemplateFiresOnAnyRule(t *testing.T) {
	tpl := Template{
		ID:            1,
		Start:         time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC),
		End:           time.Date(2000, 1, 1, 10, 0, 0, 0, time.UTC),
		Priority:      PriorityStandard,
		RepeatEnabled: true,
		RepeatRules: []RepeatRule{
			{Type: RepeatWeekDays, Day: time.Monday},
			{Type: RepeatMonthDay, DayNumber: 15},
		},
	}
	if !tpl.FiresOn(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) { // Monday and the 15th
		t.Fatalf("expected template to fire when both rules match")
	}
	if !tpl.FiresOn(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)) { // Monday only
		t.Fatalf("expected template to fire when one rule matches")
	}
	if tpl.FiresOn(time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("template must not fire when no rule matches")
	}
}

func TestTemplateDoesNotFireWhenRepeatDisabled(t *testing.T) {
	tpl := Template{
		ID:          2,
		Start:       time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2000, 1, 1, 10, 0, 0, 0, time.UTC),
		Priority:    PriorityStandard,
		RepeatRules: []RepeatRule{{Type: RepeatWeekDays, Day: time.Monday}},
	}
	if tpl.FiresOn(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("template with repeat disabled must never fire")
	}
}

func TestTemplateOccurrencesWindow(t *testing.T) {
	tpl := Template{
		ID:            3,
		Start:         time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC),
		End:           time.Date(2000, 1, 1, 10, 0, 0, 0, time.UTC),
		Priority:      PriorityStandard,
		RepeatEnabled: true,
		RepeatRules:   []RepeatRule{{Type: RepeatWeekDays, Day: time.Monday}},
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	got := tpl.Occurrences(start, end)
	want := []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"}
	if len(got) != len(want) {
		t.Fatalf("expected %d occurrences, got %d", len(want), len(got))
	}
	for i := range got {
		if got[i].Format("2006-01-02") != want[i] {
			t.Fatalf("occurrence[%d] got %s want %s", i, got[i].Format("2006-01-02"), want[i])
		}
	}
	again := tpl.Occurrences(start, end)
	if len(again) != len(got) {
		t.Fatalf("enumeration must be restartable and stable")
	}
}

func TestTemplateEqualsTask(t *testing.T) {
	tpl := Template{
		ID:                 4,
		Start:              time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC),
		End:                time.Date(2000, 1, 1, 10, 0, 0, 0, time.UTC),
		Category:           MainCategory{ID: 7, Name: "Work"},
		Priority:           PriorityStandard,
		EnableNotification: true,
	}
	task := TimeTask{
		Key:  12,
		Date: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		Range: TimeRange{
			From: time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC),
		},
		Category:           MainCategory{ID: 7, Name: "Work"},
		Priority:           PriorityStandard,
		EnableNotification: true,
	}
	if !tpl.EqualsTask(task) {
		t.Fatalf("expected task to match its template")
	}
	task.Priority = PriorityMax
	if tpl.EqualsTask(task) {
		t.Fatalf("priority mismatch must break template equality")
	}
}
