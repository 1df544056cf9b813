package alarm

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrInvalidFireTime = errors.New("alarm: invalid fire time")

// Event is an alarm that came due.
type Event struct {
	ID      int64
	FiresAt time.Time
	Payload Payload
}

type queueItem struct {
	event Event
	gen   uint64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].event.FiresAt.Before(pq[j].event.FiresAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine is a timer loop over a min-heap of pending alarms. Re-scheduling an
// id bumps its generation and the stale heap entry is skipped when it
// surfaces, so Schedule stays idempotent without heap surgery; Cancel works
// the same way.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	pending map[int64]uint64
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:   make(priorityQueue, 0),
		pending: make(map[int64]uint64),
		out:     make(chan Event, bufferSize),
		wakeup:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(id int64, firesAt time.Time, payload Payload) error {
	if firesAt.IsZero() {
		return ErrInvalidFireTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return errors.New("alarm: engine stopped")
	}

	gen := e.pending[id] + 1
	e.pending[id] = gen
	heap.Push(&e.queue, queueItem{
		event: Event{ID: id, FiresAt: firesAt, Payload: payload},
		gen:   gen,
	})
	e.signalWakeup()
	return nil
}

func (e *Engine) Cancel(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.pending, id)
	e.signalWakeup()
}

// Pending reports how many distinct alarm ids are still armed.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FiresAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now().UTC())
			for _, ev := range due {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// peek returns the earliest live alarm, discarding entries that were
// cancelled or superseded by a newer generation.
func (e *Engine) peek() (Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		head := e.queue[0]
		if e.pending[head.event.ID] == head.gen {
			return head.event, true
		}
		heap.Pop(&e.queue)
	}
	return Event{}, false
}

func (e *Engine) popDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Event, 0)
	for len(e.queue) > 0 {
		head := e.queue[0]
		if e.pending[head.event.ID] != head.gen {
			heap.Pop(&e.queue)
			continue
		}
		if head.event.FiresAt.After(now) {
			break
		}
		heap.Pop(&e.queue)
		delete(e.pending, head.event.ID)
		out = append(out, head.event)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
