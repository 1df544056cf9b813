package alarm

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/EmmeEffe/TimePlanner/internal/model"
)

const DefaultBeforeEndLead = 10 * time.Minute

// Manager maps a task's armed notification offsets to scheduler alarms.
// Each (task, offset) pair owns a deterministic id, so re-registering after
// an edit overwrites instead of duplicating.
type Manager struct {
	scheduler     Scheduler
	clock         func() time.Time
	beforeEndLead time.Duration
	log           *log.Logger
}

func NewManager(scheduler Scheduler, clock func() time.Time, beforeEndLead time.Duration, logger *log.Logger) *Manager {
	if beforeEndLead <= 0 {
		beforeEndLead = DefaultBeforeEndLead
	}
	return &Manager{scheduler: scheduler, clock: clock, beforeEndLead: beforeEndLead, log: logger}
}

// AddOrUpdate registers an alarm for every armed offset of the task.
// Triggers already in the past are skipped silently; re-registering after a
// reboot must not replay stale alarms.
func (m *Manager) AddOrUpdate(task model.TimeTask) error {
	if !task.EnableNotification {
		m.Delete(task)
		return nil
	}
	now := m.clock()
	for _, offset := range task.Notifications.Offsets() {
		triggerAt, err := model.TriggerTime(offset, task.Range, m.beforeEndLead)
		if err != nil {
			return fmt.Errorf("trigger for task %d: %w", task.Key, err)
		}
		if !triggerAt.After(now) {
			m.log.Debug("skipping stale trigger", "task", task.Key, "offset", offset)
			continue
		}
		id := model.AlarmID(task.Key, offset)
		if err := m.scheduler.Schedule(id, triggerAt, m.payloadFor(task, offset)); err != nil {
			return fmt.Errorf("schedule alarm %d: %w", id, err)
		}
	}
	return nil
}

// Delete cancels every offset's alarm for the task, armed or not; cancelling
// an unknown id is a no-op for any conforming scheduler.
func (m *Manager) Delete(task model.TimeTask) {
	for _, offset := range model.AllNotificationOffsets {
		m.scheduler.Cancel(model.AlarmID(task.Key, offset))
	}
}

func (m *Manager) payloadFor(task model.TimeTask, offset model.NotificationOffset) Payload {
	payload := Payload{
		Category: task.Category.Name,
		Icon:     task.Category.Icon,
		Kind:     offset.Kind(),
	}
	if task.SubCategory != nil {
		payload.SubCategory = task.SubCategory.Name
	}
	return payload
}
