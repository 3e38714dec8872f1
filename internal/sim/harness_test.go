package sim

import (
	"io"
	"log/slog"
	"time"

	"manetsim/internal/telemetry"
)

// fakeKin is a static Kinematics implementation for tests.
type fakeKin struct {
	positions  []telemetry.Vec3
	velocities []telemetry.Vec3
}

func (f *fakeKin) Position(id int) telemetry.Vec3 { return f.positions[id] }

func (f *fakeKin) Velocity(id int) telemetry.Vec3 {
	if f.velocities == nil {
		return telemetry.Vec3{}
	}
	return f.velocities[id]
}

// fakeClock is a settable Clock that never fires anything on its own.
type fakeClock struct {
	now       time.Duration
	scheduled int
}

func (f *fakeClock) Now() time.Duration { return f.now }

func (f *fakeClock) Schedule(delay time.Duration, fn func()) { f.scheduled++ }

// fakeIfc records interface deactivations.
type fakeIfc struct {
	downed []int
}

func (f *fakeIfc) SetInterfaceUp(id int, up bool) {
	if !up {
		f.downed = append(f.downed, id)
	}
}

// captureWriter buffers every streamed row.
type captureWriter struct {
	movement     []telemetry.MovementRow
	connectivity []telemetry.ConnectivityRow
	packets      []telemetry.PacketRow
}

func (c *captureWriter) WriteMovement(row telemetry.MovementRow) error {
	c.movement = append(c.movement, row)
	return nil
}

func (c *captureWriter) WriteConnectivity(row telemetry.ConnectivityRow) error {
	c.connectivity = append(c.connectivity, row)
	return nil
}

func (c *captureWriter) WritePacket(row telemetry.PacketRow) error {
	c.packets = append(c.packets, row)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
