package engine

import (
	"testing"
	"time"
)

func TestSchedulerOrdersByTime(t *testing.T) {
	s := NewScheduler()
	var got []string
	s.Schedule(3*time.Second, func() { got = append(got, "c") })
	s.Schedule(1*time.Second, func() { got = append(got, "a") })
	s.Schedule(2*time.Second, func() { got = append(got, "b") })
	s.Run(10 * time.Second)

	want := []string{"a", "b", "c"}
	for i, w := range want {
		if i >= len(got) || got[i] != w {
			t.Fatalf("execution order = %v, want %v", got, want)
		}
	}
	if s.Now() != 3*time.Second {
		t.Errorf("Now = %s, want 3s", s.Now())
	}
}

func TestSchedulerSameInstantFIFO(t *testing.T) {
	s := NewScheduler()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		s.Schedule(time.Second, func() { got = append(got, i) })
	}
	s.Run(time.Second)
	for i, v := range got {
		if v != i {
			t.Fatalf("same-instant order = %v, want ascending", got)
		}
	}
}

func TestSchedulerStopBoundaryInclusive(t *testing.T) {
	s := NewScheduler()
	ran := map[time.Duration]bool{}
	for _, d := range []time.Duration{time.Second, 2 * time.Second, 3 * time.Second} {
		d := d
		s.Schedule(d, func() { ran[d] = true })
	}
	s.Run(2 * time.Second)

	if !ran[time.Second] || !ran[2*time.Second] {
		t.Errorf("events at or before the boundary must run: %v", ran)
	}
	if ran[3*time.Second] {
		t.Error("event past the boundary ran")
	}
	if s.Pending() != 0 {
		t.Errorf("queue not drained, %d pending", s.Pending())
	}
}

func TestSchedulerNestedScheduling(t *testing.T) {
	s := NewScheduler()
	var ticks []time.Duration
	var tick func()
	tick = func() {
		ticks = append(ticks, s.Now())
		s.Schedule(time.Second, tick)
	}
	s.Schedule(time.Second, tick)
	s.Run(5 * time.Second)

	if len(ticks) != 5 {
		t.Fatalf("got %d ticks, want 5", len(ticks))
	}
	for i, at := range ticks {
		if at != time.Duration(i+1)*time.Second {
			t.Errorf("tick %d at %s", i, at)
		}
	}
}

func TestScheduleNegativeDelayRunsNow(t *testing.T) {
	s := NewScheduler()
	var at time.Duration = -1
	s.Schedule(time.Second, func() {
		s.Schedule(-5*time.Second, func() { at = s.Now() })
	})
	s.Run(time.Second)
	if at != time.Second {
		t.Errorf("negative delay ran at %s, want 1s", at)
	}
}
