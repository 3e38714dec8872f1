package sim

import (
	"testing"
	"time"

	"manetsim/internal/engine"
)

func TestPeriodicTaskFiresOnTheGrid(t *testing.T) {
	sched := engine.NewScheduler()
	var fired []time.Duration
	task := &periodicTask{
		clock:  sched,
		period: time.Second,
		stopAt: 13 * time.Second,
		fire:   func(now time.Duration) { fired = append(fired, now) },
	}
	task.start(4 * time.Second)
	sched.Run(13 * time.Second)

	if len(fired) != 10 {
		t.Fatalf("fired %d times, want 10", len(fired))
	}
	for i, now := range fired {
		want := time.Duration(4+i) * time.Second
		if now != want {
			t.Fatalf("fire[%d] at %s, want %s", i, now, want)
		}
	}
}

func TestPeriodicTaskIncludesStopBoundary(t *testing.T) {
	sched := engine.NewScheduler()
	var last time.Duration
	task := &periodicTask{
		clock:  sched,
		period: 3 * time.Second,
		stopAt: 9 * time.Second,
		fire:   func(now time.Duration) { last = now },
	}
	task.start(3 * time.Second)
	sched.Run(9 * time.Second)

	if last != 9*time.Second {
		t.Fatalf("last fire at %s, want the 9s boundary itself", last)
	}
	if sched.Pending() != 0 {
		t.Fatalf("task rescheduled past its stop boundary")
	}
}

func TestPeriodicTaskNeverStartsPastStop(t *testing.T) {
	sched := engine.NewScheduler()
	fired := false
	task := &periodicTask{
		clock:  sched,
		period: time.Second,
		stopAt: 5 * time.Second,
		fire:   func(time.Duration) { fired = true },
	}
	task.start(6 * time.Second)
	sched.Run(10 * time.Second)

	if fired {
		t.Fatalf("task armed past its stop boundary")
	}
}

func TestPeriodicTaskUnevenGrid(t *testing.T) {
	// stop not on the grid: 4s start, 3s period, 12s stop -> 4,7,10 only.
	sched := engine.NewScheduler()
	var fired []time.Duration
	task := &periodicTask{
		clock:  sched,
		period: 3 * time.Second,
		stopAt: 12 * time.Second,
		fire:   func(now time.Duration) { fired = append(fired, now) },
	}
	task.start(4 * time.Second)
	sched.Run(12 * time.Second)

	if len(fired) != 3 {
		t.Fatalf("fired %d times, want 3 (4s, 7s, 10s)", len(fired))
	}
}
