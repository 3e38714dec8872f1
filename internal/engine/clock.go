// Virtual clock and event scheduler
package engine

import (
	"container/heap"
	"time"
)

// event is a callback scheduled at a virtual-time instant. seq keeps
// same-instant events in scheduling order.
type event struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}

// Scheduler is a discrete-event virtual clock. Time only advances when
// events execute; all callbacks run serially on the goroutine that calls Run.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue eventQueue
}

// NewScheduler returns a scheduler positioned at virtual time zero.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.queue)
	return s
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Schedule runs fn after delay in virtual time. A non-positive delay runs fn
// at the current instant, after already-pending events for that instant.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	heap.Push(&s.queue, &event{at: s.now + delay, seq: s.seq, fn: fn})
}

// Run executes events in (time, order-scheduled) order until the queue is
// empty or the next event lies past stopAt. Events scheduled exactly at
// stopAt still run; anything later is discarded.
func (s *Scheduler) Run(stopAt time.Duration) {
	for s.queue.Len() > 0 {
		if s.queue[0].at > stopAt {
			s.queue = s.queue[:0]
			return
		}
		ev := heap.Pop(&s.queue).(*event)
		s.now = ev.at
		ev.fn()
	}
}

// Pending returns the number of queued events. Intended for tests.
func (s *Scheduler) Pending() int { return s.queue.Len() }
