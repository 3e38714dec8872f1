package sim

import "time"

// periodicTask is a self-rescheduling callback on the virtual clock. Unlike
// a bare recursive schedule, it carries its own stop boundary: after each
// invocation it reschedules only while the next instant is at or before
// stopAt, so no task ever relies on the engine's cutoff to terminate.
type periodicTask struct {
	clock  Clock
	period time.Duration
	stopAt time.Duration
	fire   func(now time.Duration)
}

// start arms the task for its first invocation at the given instant.
// Instants past the stop boundary are never armed.
func (t *periodicTask) start(first time.Duration) {
	if first > t.stopAt {
		return
	}
	t.clock.Schedule(first-t.clock.Now(), t.run)
}

func (t *periodicTask) run() {
	now := t.clock.Now()
	t.fire(now)
	if next := now + t.period; next <= t.stopAt {
		t.clock.Schedule(t.period, t.run)
	}
}
