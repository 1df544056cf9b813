// Package planner holds the scheduling core: the conflict-aware boundary
// shift, template materialization and recurrence expansion. Every operation
// reads and writes through the storage repositories and reports expected,
// user-recoverable outcomes as typed errors.
package planner

import (
	"errors"
	"time"
)

var (
	// ErrShiftRejected covers the generic no-room cases: the successor
	// would be fully consumed, or a shrink would leave no duration.
	ErrShiftRejected = errors.New("planner: not enough room to shift")
	// ErrImportanceConflict means the shift would displace an important or
	// actively-recurring neighboring task.
	ErrImportanceConflict = errors.New("planner: shift blocked by an important task")
	// ErrCrossDayShift means the shift would push the task's end into a
	// different calendar day.
	ErrCrossDayShift = errors.New("planner: shift would cross into another day")
	// ErrNotFound wraps a missing task or template reference.
	ErrNotFound = errors.New("planner: not found")
)

// Clock supplies "now"; injected so tests can pin it.
type Clock func() time.Time
