// MetricsRecorder: three append-only tables with private row counters,
// buffered in memory for the whole run and serialized once at the end.
package sim

import (
	"log/slog"
	"time"

	"manetsim/internal/telemetry"
)

// MovementWriter receives movement rows as they are recorded.
type MovementWriter interface {
	WriteMovement(telemetry.MovementRow) error
}

// ConnectivityWriter receives connectivity rows as they are recorded.
type ConnectivityWriter interface {
	WriteConnectivity(telemetry.ConnectivityRow) error
}

// PacketWriter receives packet rows as they are recorded.
type PacketWriter interface {
	WritePacket(telemetry.PacketRow) error
}

// RowWriter is a streaming sink for all three tables. Streaming sinks are
// supplementary: the canonical output stays the CSV files written at run end.
type RowWriter interface {
	MovementWriter
	ConnectivityWriter
	PacketWriter
}

// Recorder owns the three tables. Movement rows come from its own periodic
// sampler; connectivity rows from the ConnectivityTracker; packet rows from
// transport-layer events, out-of-band from the ticks.
type Recorder struct {
	table  *NodeTable
	kin    Kinematics
	clock  Clock
	stream RowWriter // may be nil
	log    *slog.Logger

	movement     []telemetry.MovementRow
	connectivity []telemetry.ConnectivityRow
	packets      []telemetry.PacketRow

	movementID     uint64
	connectivityID uint64
	packetID       uint64
}

// NewRecorder wires a recorder to the shared node table and the engine.
func NewRecorder(table *NodeTable, kin Kinematics, clock Clock, stream RowWriter, log *slog.Logger) *Recorder {
	return &Recorder{table: table, kin: kin, clock: clock, stream: stream, log: log}
}

// SampleMovement appends one row per node: position and scalar speed at the
// current instant. Down nodes keep moving; only their radio is dead.
func (r *Recorder) SampleMovement(now time.Duration) {
	t := now.Seconds()
	for _, n := range r.table.All() {
		p := r.kin.Position(n.ID)
		row := telemetry.MovementRow{
			ID:    r.movementID,
			Time:  t,
			Node:  n.Label(),
			X:     p.X,
			Y:     p.Y,
			Z:     p.Z,
			Speed: r.kin.Velocity(n.ID).Norm(),
		}
		r.movementID++
		r.movement = append(r.movement, row)
		if r.stream != nil {
			if err := r.stream.WriteMovement(row); err != nil {
				r.log.Error("movement stream write failed", "err", err)
			}
		}
	}
}

// AppendConnectivity records one link-state sample for one node.
func (r *Recorder) AppendConnectivity(now time.Duration, n *Node, linkUp bool) {
	row := telemetry.ConnectivityRow{
		ID:     r.connectivityID,
		Time:   now.Seconds(),
		Node:   n.Label(),
		L2Link: linkUp,
		Online: n.Up(),
	}
	r.connectivityID++
	r.connectivity = append(r.connectivity, row)
	if r.stream != nil {
		if err := r.stream.WriteConnectivity(row); err != nil {
			r.log.Error("connectivity stream write failed", "err", err)
		}
	}
}

// ObservePacket implements the engine's packet observer hook: one row per
// send or receive event, appended immediately.
func (r *Recorder) ObservePacket(node int, uid uint64, size int, received bool) {
	row := telemetry.PacketRow{
		ID:       r.packetID,
		Time:     r.clock.Now().Seconds(),
		Node:     r.table.Get(node).Label(),
		UID:      uid,
		Size:     size,
		Received: received,
	}
	r.packetID++
	r.packets = append(r.packets, row)
	if r.stream != nil {
		if err := r.stream.WritePacket(row); err != nil {
			r.log.Error("packet stream write failed", "err", err)
		}
	}
}

// Movement returns the movement table.
func (r *Recorder) Movement() []telemetry.MovementRow { return r.movement }

// Connectivity returns the connectivity table.
func (r *Recorder) Connectivity() []telemetry.ConnectivityRow { return r.connectivity }

// Packets returns the packet table.
func (r *Recorder) Packets() []telemetry.PacketRow { return r.packets }
