package alarm

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/EmmeEffe/TimePlanner/internal/model"
)

type scheduledCall struct {
	id      int64
	firesAt time.Time
	payload Payload
}

type fakeScheduler struct {
	scheduled []scheduledCall
	cancelled []int64
}

func (f *fakeScheduler) Schedule(id int64, firesAt time.Time, payload Payload) error {
	f.scheduled = append(f.scheduled, scheduledCall{id: id, firesAt: firesAt, payload: payload})
	return nil
}

func (f *fakeScheduler) Cancel(id int64) {
	f.cancelled = append(f.cancelled, id)
}

func managerAt(sched Scheduler, now time.Time) *Manager {
	clock := func() time.Time { return now }
	return NewManager(sched, clock, DefaultBeforeEndLead, log.New(io.Discard))
}

func notifiedTask(key int64, from, to time.Time) model.TimeTask {
	return model.TimeTask{
		Key:                key,
		Date:               model.DateOf(from),
		Range:              model.TimeRange{From: from, To: to},
		Category:           model.MainCategory{ID: 1, Name: "Work", Icon: "briefcase"},
		Priority:           model.PriorityStandard,
		EnableNotification: true,
		Notifications: model.TaskNotifications{
			FifteenMinutesBefore: true,
			OneHourBefore:        true,
			BeforeEnd:            true,
		},
	}
}

func TestAddOrUpdateSchedulesArmedOffsets(t *testing.T) {
	now := time.Date(2024, time.March, 4, 6, 0, 0, 0, time.UTC)
	from := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 4, 11, 0, 0, 0, time.UTC)

	sched := &fakeScheduler{}
	mgr := managerAt(sched, now)
	if err := mgr.AddOrUpdate(notifiedTask(42, from, to)); err != nil {
		t.Fatalf("AddOrUpdate: %v", err)
	}
	if len(sched.scheduled) != 3 {
		t.Fatalf("expected 3 alarms, got %d", len(sched.scheduled))
	}

	want := map[int64]time.Time{
		model.AlarmID(42, model.OffsetFifteenMinutesBefore): from.Add(-15 * time.Minute),
		model.AlarmID(42, model.OffsetOneHourBefore):        from.Add(-time.Hour),
		model.AlarmID(42, model.OffsetBeforeEnd):            to.Add(-DefaultBeforeEndLead),
	}
	for _, call := range sched.scheduled {
		at, ok := want[call.id]
		if !ok {
			t.Fatalf("unexpected alarm id %d", call.id)
		}
		if !call.firesAt.Equal(at) {
			t.Fatalf("alarm %d fires at %v, want %v", call.id, call.firesAt, at)
		}
		if call.payload.Category != "Work" || call.payload.Icon != "briefcase" {
			t.Fatalf("unexpected payload %#v", call.payload)
		}
	}
}

func TestAddOrUpdateSkipsStaleTriggers(t *testing.T) {
	now := time.Date(2024, time.March, 4, 8, 50, 0, 0, time.UTC)
	from := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 4, 11, 0, 0, 0, time.UTC)

	sched := &fakeScheduler{}
	mgr := managerAt(sched, now)
	if err := mgr.AddOrUpdate(notifiedTask(7, from, to)); err != nil {
		t.Fatalf("AddOrUpdate: %v", err)
	}

	// 15 minutes before and one hour before are already in the past.
	if len(sched.scheduled) != 1 {
		t.Fatalf("expected only the before-end alarm, got %d", len(sched.scheduled))
	}
	if sched.scheduled[0].id != model.AlarmID(7, model.OffsetBeforeEnd) {
		t.Fatalf("unexpected alarm id %d", sched.scheduled[0].id)
	}
	if sched.scheduled[0].payload.Kind != model.KindBeforeEnd {
		t.Fatalf("expected before-end kind, got %v", sched.scheduled[0].payload.Kind)
	}
}

func TestAddOrUpdateDisabledNotificationCancelsAll(t *testing.T) {
	now := time.Date(2024, time.March, 4, 6, 0, 0, 0, time.UTC)
	task := notifiedTask(5, now.Add(3*time.Hour), now.Add(4*time.Hour))
	task.EnableNotification = false

	sched := &fakeScheduler{}
	mgr := managerAt(sched, now)
	if err := mgr.AddOrUpdate(task); err != nil {
		t.Fatalf("AddOrUpdate: %v", err)
	}
	if len(sched.scheduled) != 0 {
		t.Fatalf("expected no alarms, got %d", len(sched.scheduled))
	}
	if len(sched.cancelled) != len(model.AllNotificationOffsets) {
		t.Fatalf("expected %d cancels, got %d", len(model.AllNotificationOffsets), len(sched.cancelled))
	}
}

func TestDeleteCancelsEveryOffset(t *testing.T) {
	now := time.Date(2024, time.March, 4, 6, 0, 0, 0, time.UTC)
	task := notifiedTask(9, now.Add(time.Hour), now.Add(2*time.Hour))

	sched := &fakeScheduler{}
	mgr := managerAt(sched, now)
	mgr.Delete(task)

	seen := map[int64]bool{}
	for _, id := range sched.cancelled {
		seen[id] = true
	}
	for _, offset := range model.AllNotificationOffsets {
		if !seen[model.AlarmID(9, offset)] {
			t.Fatalf("offset %v was not cancelled", offset)
		}
	}
}
