// Passive connectivity tracking: neighbor sets filled by overheard frames,
// reduced to a binary link-up signal every sampling tick.
package sim

import "time"

// ConnectivityTracker implements the engine's frame observer hook and the
// periodic connectivity sampler. The emitted signal is coarse on purpose:
// "heard at least one neighbor this interval", not a topology graph — a
// modeling approximation, not a defect.
type ConnectivityTracker struct {
	table *NodeTable
	rec   *Recorder
}

// NewConnectivityTracker wires the tracker to the shared node table.
func NewConnectivityTracker(table *NodeTable, rec *Recorder) *ConnectivityTracker {
	return &ConnectivityTracker{table: table, rec: rec}
}

// ObserveFrame records an overheard sender for the receiving node.
func (c *ConnectivityTracker) ObserveFrame(receiver int, sender string) {
	c.table.Get(receiver).observe(sender)
}

// sample emits one connectivity row per node, then clears that node's
// neighbor set. linkUp requires the node to be up: a down node reports
// false regardless of what its set accumulated before it went down.
func (c *ConnectivityTracker) sample(now time.Duration) {
	for _, n := range c.table.All() {
		heard := n.takeNeighbors()
		c.rec.AppendConnectivity(now, n, heard && n.Up())
	}
}
