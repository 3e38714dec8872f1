// Sweep-line failure engine: a line crossing the area at constant speed,
// irreversibly taking down every node it passes.
package failure

import (
	"math/rand"
	"time"

	"manetsim/internal/telemetry"
)

// Engine holds the sweep-line state for one run. It knows nothing about
// nodes or the network: callers advance the line and ask whether positions
// have been crossed.
type Engine struct {
	dir    Direction
	random bool
	speed  float64 // m/s
	areaW  float64
	areaH  float64
	rng    *rand.Rand

	state State
	pos   float64 // scalar position along the sweep axis
}

// NewEngine builds an inactive sweep. The rng is the run's seeded generator;
// a random-direction sweep draws from it exactly once, at activation.
func NewEngine(directionTag string, speed, areaW, areaH float64, rng *rand.Rand) (*Engine, error) {
	dir, random, err := ParseDirection(directionTag)
	if err != nil {
		return nil, err
	}
	return &Engine{
		dir:    dir,
		random: random,
		speed:  speed,
		areaW:  areaW,
		areaH:  areaH,
		rng:    rng,
	}, nil
}

// Activate resolves the direction and places the line at the area edge it
// sweeps away from. Calling it twice is an error by construction; the
// lifecycle controller invokes it exactly once, at warmup end.
func (e *Engine) Activate() {
	if e.random {
		e.dir = Direction(e.rng.Intn(4))
		e.random = false
	}
	switch e.dir {
	case North, East:
		e.pos = 0
	case South:
		e.pos = e.areaH
	case West:
		e.pos = e.areaW
	}
	e.state = Active
}

// Advance moves the line by speed*dt along its axis and returns the new
// position. No-op unless the sweep is active.
func (e *Engine) Advance(dt time.Duration) float64 {
	if e.state != Active {
		return e.pos
	}
	step := e.speed * dt.Seconds()
	switch e.dir {
	case North, East:
		e.pos += step
	case South, West:
		e.pos -= step
	}
	return e.pos
}

// Crossed reports whether a position lies at or behind the line, on the side
// the sweep has already passed.
func (e *Engine) Crossed(p telemetry.Vec3) bool {
	if e.state != Active {
		return false
	}
	switch e.dir {
	case East:
		return p.X <= e.pos
	case West:
		return p.X >= e.pos
	case North:
		return p.Y <= e.pos
	case South:
		return p.Y >= e.pos
	}
	return false
}

// Finish marks the sweep complete once the run reaches its stop time.
func (e *Engine) Finish() {
	e.state = Complete
}

// State returns the sweep lifecycle state.
func (e *Engine) State() State { return e.state }

// Direction returns the resolved sweep direction. Before activation of a
// random sweep the value is meaningless.
func (e *Engine) Direction() Direction { return e.dir }

// Position returns the line's scalar position along its axis.
func (e *Engine) Position() float64 { return e.pos }
