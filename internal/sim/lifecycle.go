// Node lifecycle control for the wipe scenario.
package sim

import (
	"log/slog"
	"time"

	"manetsim/internal/failure"
)

// LifecycleController advances the sweep line once per sampling tick and
// takes down every node the line has crossed, deactivating its interface on
// the engine. Downed nodes never come back within a run.
type LifecycleController struct {
	sweep  *failure.Engine
	table  *NodeTable
	kin    Kinematics
	ifc    InterfaceControl
	period time.Duration
	stopAt time.Duration
	log    *slog.Logger
}

// NewLifecycleController wires the sweep engine to the node table.
func NewLifecycleController(sweep *failure.Engine, table *NodeTable, kin Kinematics, ifc InterfaceControl, period, stopAt time.Duration, log *slog.Logger) *LifecycleController {
	return &LifecycleController{
		sweep:  sweep,
		table:  table,
		kin:    kin,
		ifc:    ifc,
		period: period,
		stopAt: stopAt,
		log:    log,
	}
}

// fire is the periodic callback. The first invocation only activates the
// sweep; each following one advances the line and fells crossed nodes. The
// final invocation, at the stop boundary, also completes the sweep.
func (c *LifecycleController) fire(now time.Duration) {
	if c.sweep.State() == failure.Inactive {
		c.sweep.Activate()
		c.log.Info("wipe sweep activated",
			"direction", c.sweep.Direction().String(),
			"position", c.sweep.Position())
	} else {
		pos := c.sweep.Advance(c.period)
		for _, n := range c.table.All() {
			if !n.Up() {
				continue
			}
			if c.sweep.Crossed(c.kin.Position(n.ID)) {
				n.MarkDown()
				c.ifc.SetInterfaceUp(n.ID, false)
				c.log.Info("node wiped", "node", n.ID, "line", pos, "time", now.Seconds())
			}
		}
	}
	if now+c.period > c.stopAt {
		c.sweep.Finish()
	}
}

// Sweep exposes the sweep engine for status reporting.
func (c *LifecycleController) Sweep() *failure.Engine { return c.sweep }
