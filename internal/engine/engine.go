// Discrete-event MANET engine: virtual time, node kinematics, a disc radio
// model with hello beacons, and constant-rate traffic toward sink nodes.
// The orchestration core consumes it through the narrow interfaces defined
// in internal/sim and never reaches into engine internals.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"manetsim/internal/config"
	"manetsim/internal/telemetry"
)

// FrameObserver receives one callback per passively overheard frame.
type FrameObserver interface {
	ObserveFrame(receiver int, sender string)
}

// PacketObserver receives one callback per application-level send or
// receive event.
type PacketObserver interface {
	ObservePacket(node int, uid uint64, size int, received bool)
}

// node is the engine-side state of one simulated node.
type node struct {
	id   int
	mac  string
	up   bool
	sink bool

	pos      telemetry.Vec3
	vel      telemetry.Vec3
	lastMove time.Duration
}

// Engine drives the whole physical side of a run.
type Engine struct {
	cfg    *config.Config
	log    *slog.Logger
	rng    *rand.Rand
	sched  *Scheduler
	nodes  []*node
	rangeM float64

	frameObservers  []FrameObserver
	packetObservers []PacketObserver
	nextUID         uint64
}

// Intervals of the engine's own periodic activity.
const (
	courseChangeInterval = time.Second
	beaconInterval       = time.Second
)

// New builds an engine for the given configuration: nodes placed uniformly
// in the area with an initial random course, radio range derived from the
// channel and environment. All randomness draws from a single generator
// seeded by (seed, run) so runs are reproducible.
func New(cfg *config.Config, log *slog.Logger) (*Engine, error) {
	rangeM, err := transmissionRangeM(cfg)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		log:    log,
		rng:    rand.New(rand.NewSource(runSeed(cfg.Seed, cfg.Run))),
		sched:  NewScheduler(),
		rangeM: rangeM,
	}
	for i := 0; i < cfg.Nodes; i++ {
		n := &node{
			id:  i,
			mac: fmt.Sprintf("02:4d:41:4e:%02x:%02x", i>>8&0xff, i&0xff),
			up:  true,
			pos: telemetry.Vec3{
				X: e.rng.Float64() * cfg.AreaWidth,
				Y: e.rng.Float64() * cfg.AreaHeight,
			},
		}
		n.vel = e.randomCourse()
		e.nodes = append(e.nodes, n)
	}
	return e, nil
}

// runSeed folds the user seed and run number into one source seed, so the
// same seed with different run numbers gives independent streams.
func runSeed(seed, run uint64) int64 {
	return int64(seed*0x9e3779b97f4a7c15 + run)
}

// Rand exposes the engine's seeded generator so scenario components share
// one deterministic randomness stream.
func (e *Engine) Rand() *rand.Rand { return e.rng }

// Now returns the current virtual time.
func (e *Engine) Now() time.Duration { return e.sched.Now() }

// Schedule runs fn after delay in virtual time.
func (e *Engine) Schedule(delay time.Duration, fn func()) { e.sched.Schedule(delay, fn) }

// TransmissionRange returns the effective radio range in metres.
func (e *Engine) TransmissionRange() float64 { return e.rangeM }

// RegisterFrameObserver subscribes to passive frame receptions.
func (e *Engine) RegisterFrameObserver(o FrameObserver) {
	e.frameObservers = append(e.frameObservers, o)
}

// RegisterPacketObserver subscribes to send/receive events.
func (e *Engine) RegisterPacketObserver(o PacketObserver) {
	e.packetObservers = append(e.packetObservers, o)
}

// SetTrafficSinks marks the nodes acting as traffic destinations. Every
// other node addresses its packets to the nearest up sink.
func (e *Engine) SetTrafficSinks(ids []int) {
	for _, n := range e.nodes {
		n.sink = false
	}
	for _, id := range ids {
		e.nodes[id].sink = true
	}
}

// SetInterfaceUp activates or deactivates a node's network interface. Down
// nodes neither send, receive, nor overhear anything.
func (e *Engine) SetInterfaceUp(id int, up bool) {
	e.nodes[id].up = up
}

// Position returns a node's current position, extrapolated along its course
// since the last course change and clamped to the area.
func (e *Engine) Position(id int) telemetry.Vec3 {
	n := e.nodes[id]
	dt := (e.sched.Now() - n.lastMove).Seconds()
	p := n.pos.Add(n.vel.Scale(dt))
	return e.clamp(p)
}

// Velocity returns a node's current velocity vector.
func (e *Engine) Velocity(id int) telemetry.Vec3 {
	return e.nodes[id].vel
}

// Start schedules the engine's recurring activity. Call once, before Run.
func (e *Engine) Start() {
	for _, n := range e.nodes {
		n := n
		e.sched.Schedule(courseChangeInterval, func() { e.courseChange(n) })
		e.sched.Schedule(beaconInterval, func() { e.beacon(n) })
	}
	if e.cfg.PacketsPerSecond > 0 {
		interval := time.Duration(float64(time.Second) / e.cfg.PacketsPerSecond)
		for _, n := range e.nodes {
			n := n
			e.sched.Schedule(e.cfg.WarmupTime.Std()+interval, func() { e.sendPacket(n, interval) })
		}
	}
}

// Run executes events until stopAt, then returns.
func (e *Engine) Run(stopAt time.Duration) {
	e.sched.Run(stopAt)
}

// courseChange commits the node's position and draws a fresh direction and
// speed, the random-walk way: straight segments of one second each.
func (e *Engine) courseChange(n *node) {
	n.pos = e.Position(n.id)
	n.lastMove = e.sched.Now()
	n.vel = e.randomCourse()
	e.sched.Schedule(courseChangeInterval, func() { e.courseChange(n) })
}

func (e *Engine) randomCourse() telemetry.Vec3 {
	speed := e.cfg.MinSpeed + e.rng.Float64()*(e.cfg.MaxSpeed-e.cfg.MinSpeed)
	sin, cos := math.Sincos(e.rng.Float64() * 2 * math.Pi)
	return telemetry.Vec3{X: cos * speed, Y: sin * speed}
}

// beacon broadcasts a hello frame; every up node in range overhears it.
func (e *Engine) beacon(n *node) {
	defer e.sched.Schedule(beaconInterval, func() { e.beacon(n) })
	if !n.up {
		return
	}
	from := e.Position(n.id)
	for _, m := range e.nodes {
		if m == n || !m.up {
			continue
		}
		if from.DistanceTo(e.Position(m.id)) <= e.rangeM {
			for _, o := range e.frameObservers {
				o.ObserveFrame(m.id, n.mac)
			}
		}
	}
}

// sendPacket emits one constant-rate packet toward the nearest up sink.
// Delivery is single-hop: the packet arrives iff the sink is in radio range
// when sent and still up after the transmission delay.
func (e *Engine) sendPacket(n *node, interval time.Duration) {
	defer e.sched.Schedule(interval, func() { e.sendPacket(n, interval) })
	if !n.up || n.sink {
		return
	}
	dest := e.nearestSink(n)
	if dest == nil {
		return
	}
	e.nextUID++
	uid := e.nextUID
	size := e.cfg.PacketSize
	for _, o := range e.packetObservers {
		o.ObservePacket(n.id, uid, size, false)
	}
	if e.Position(n.id).DistanceTo(e.Position(dest.id)) > e.rangeM {
		return
	}
	txDelay := time.Duration(float64(size*8) / bitrateBps(e.cfg.ChannelWidthMHz) * float64(time.Second))
	e.sched.Schedule(txDelay, func() {
		if !dest.up {
			return
		}
		for _, o := range e.packetObservers {
			o.ObservePacket(dest.id, uid, size, true)
		}
	})
}

func (e *Engine) nearestSink(n *node) *node {
	var best *node
	bestDist := 0.0
	from := e.Position(n.id)
	for _, m := range e.nodes {
		if !m.sink || !m.up || m == n {
			continue
		}
		d := from.DistanceTo(e.Position(m.id))
		if best == nil || d < bestDist {
			best, bestDist = m, d
		}
	}
	return best
}

func (e *Engine) clamp(p telemetry.Vec3) telemetry.Vec3 {
	if p.X < 0 {
		p.X = 0
	} else if p.X > e.cfg.AreaWidth {
		p.X = e.cfg.AreaWidth
	}
	if p.Y < 0 {
		p.Y = 0
	} else if p.Y > e.cfg.AreaHeight {
		p.Y = e.cfg.AreaHeight
	}
	return p
}
