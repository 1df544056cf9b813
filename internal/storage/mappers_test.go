package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/EmmeEffe/TimePlanner/internal/model"
)

// A persisted task must come back with the same wall clocks and the same
// calendar-day relationships it was stored with, whatever zone it lives in.
func TestTaskRoundTripKeepsZoneAndWallClock(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*60*60)
	date := time.Date(2024, time.January, 10, 0, 0, 0, 0, zone)
	task := model.TimeTask{
		Key:  7,
		Date: date,
		Range: model.TimeRange{
			From: time.Date(2024, time.January, 10, 23, 0, 0, 0, zone),
			To:   time.Date(2024, time.January, 10, 23, 45, 0, 0, zone),
		},
		Category: model.MainCategory{ID: 1, Name: "Work"},
		Priority: model.PriorityStandard,
	}

	entity := taskToEntity(task)
	if strings.HasSuffix(entity.EndTime, "Z") {
		t.Fatalf("end time lost its offset: %q", entity.EndTime)
	}
	if entity.NextScheduleDate.Valid {
		t.Fatalf("23:00-23:45 does not cross midnight, got next date %q", entity.NextScheduleDate.String)
	}

	got, err := taskFromEntity(entity, MainCategoryEntity{ID: 1, Name: "Work"}, nil)
	if err != nil {
		t.Fatalf("from entity: %v", err)
	}
	if !got.Range.From.Equal(task.Range.From) || !got.Range.To.Equal(task.Range.To) {
		t.Fatalf("instants changed: %v-%v", got.Range.From, got.Range.To)
	}
	if got.Range.From.Format("15:04") != "23:00" || got.Range.To.Format("15:04") != "23:45" {
		t.Fatalf("wall clocks changed: %s-%s",
			got.Range.From.Format("15:04"), got.Range.To.Format("15:04"))
	}

	// The cross-day decision must not flip after persistence: extending the
	// round-tripped task past local midnight still lands on the next day.
	candidate := got.Range.ShiftTo(30).To
	if model.SameDay(candidate, got.Range.To) {
		t.Fatalf("23:45+30m should cross into the next day, got same day for %v", candidate)
	}
}

func TestCrossMidnightSurvivesRoundTripInLocalZone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*60*60)
	date := time.Date(2024, time.January, 10, 0, 0, 0, 0, zone)
	task := model.TimeTask{
		Key:  8,
		Date: date,
		Range: model.TimeRange{
			From: time.Date(2024, time.January, 10, 22, 0, 0, 0, zone),
			To:   time.Date(2024, time.January, 11, 1, 0, 0, 0, zone),
		},
		Category: model.MainCategory{ID: 1, Name: "Sleep"},
		Priority: model.PriorityStandard,
	}

	entity := taskToEntity(task)
	if !entity.NextScheduleDate.Valid || entity.NextScheduleDate.String != "2024-01-11" {
		t.Fatalf("expected next schedule date 2024-01-11, got %#v", entity.NextScheduleDate)
	}

	got, err := taskFromEntity(entity, MainCategoryEntity{ID: 1, Name: "Sleep"}, nil)
	if err != nil {
		t.Fatalf("from entity: %v", err)
	}
	if !got.Range.CrossesMidnight() {
		t.Fatal("round-tripped task no longer crosses midnight")
	}
	if got.Range.Duration() != 3*time.Hour {
		t.Fatalf("unexpected duration: %v", got.Range.Duration())
	}
}
