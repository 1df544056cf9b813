package model

import (
	"errors"
	"testing"
	"time"
)

func validTask() TimeTask {
	return TimeTask{
		Key:  1,
		Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Range: TimeRange{
			From: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
		},
		Category: MainCategory{ID: 1, Name: "Work"},
		Priority: PriorityStandard,
	}
}

func TestTimeTaskValidate(t *testing.T) {
	task := validTask()
	if err := task.Validate(); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	task = validTask()
	task.Priority = "Urgent"
	if err := task.Validate(); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}

	task = validTask()
	task.Category = MainCategory{}
	if err := task.Validate(); err == nil {
		t.Fatalf("expected missing category to be rejected")
	}
}

func TestPriorityImportance(t *testing.T) {
	if PriorityStandard.IsImportant() {
		t.Fatalf("standard priority must not be important")
	}
	if !PriorityMedium.IsImportant() || !PriorityMax.IsImportant() {
		t.Fatalf("medium and max priorities must be important")
	}
}

func TestDailyScheduleCheckOverlaps(t *testing.T) {
	a := validTask()
	b := validTask()
	b.Key = 2
	b.Range = TimeRange{
		From: time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 10, 11, 0, 0, 0, time.UTC),
	}
	schedule := DailySchedule{Date: a.Date, Tasks: []TimeTask{a, b}}
	if err := schedule.CheckOverlaps(); err != nil {
		t.Fatalf("back-to-back tasks reported as overlap: %v", err)
	}

	b.Range.From = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	schedule.Tasks[1] = b
	if err := schedule.CheckOverlaps(); !errors.Is(err, ErrOverlappingTask) {
		t.Fatalf("expected ErrOverlappingTask, got %v", err)
	}
}

func TestStatusFor(t *testing.T) {
	current := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)
	if got := StatusFor(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), current); got != StatusPlanned {
		t.Fatalf("future date: got %s want %s", got, StatusPlanned)
	}
	if got := StatusFor(time.Date(2024, 1, 9, 23, 59, 0, 0, time.UTC), current); got != StatusRealized {
		t.Fatalf("past date: got %s want %s", got, StatusRealized)
	}
	// Same calendar day counts as the accomplishment day even when the
	// instants differ.
	if got := StatusFor(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), current); got != StatusAccomplishment {
		t.Fatalf("same day: got %s want %s", got, StatusAccomplishment)
	}
}
