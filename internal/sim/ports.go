// Contracts toward the external discrete-event engine. The orchestration
// core only ever talks to the engine through these interfaces.
package sim

import (
	"time"

	"manetsim/internal/telemetry"
)

// Clock is the engine's virtual clock and scheduler.
type Clock interface {
	// Now returns the current virtual time.
	Now() time.Duration
	// Schedule runs fn after delay in virtual time.
	Schedule(delay time.Duration, fn func())
}

// Kinematics answers per-node position and velocity queries.
type Kinematics interface {
	Position(id int) telemetry.Vec3
	Velocity(id int) telemetry.Vec3
}

// InterfaceControl deactivates (or reactivates) a node's network interface.
type InterfaceControl interface {
	SetInterfaceUp(id int, up bool)
}

// Driver is the full engine surface the orchestrator needs: clock,
// kinematics, interface control, and the run primitive.
type Driver interface {
	Clock
	Kinematics
	InterfaceControl
	// Run executes scheduled events up to and including stopAt.
	Run(stopAt time.Duration)
}
