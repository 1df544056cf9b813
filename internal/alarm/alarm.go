// Package alarm registers notification triggers for time tasks and carries
// the in-process engine that fires them. The manager computes trigger
// instants; the Scheduler abstraction keeps the platform dispatch mechanism
// swappable.
package alarm

import (
	"time"

	"github.com/EmmeEffe/TimePlanner/internal/model"
)

// Payload is what a fired alarm shows the user.
type Payload struct {
	Category    string
	SubCategory string
	Icon        string
	Kind        model.NotificationKind
}

// Scheduler accepts absolute-time alarms addressed by id. Schedule must be
// idempotent: a second call with the same id replaces the pending alarm.
type Scheduler interface {
	Schedule(id int64, firesAt time.Time, payload Payload) error
	Cancel(id int64)
}
