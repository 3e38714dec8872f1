package sim

import "manetsim/internal/telemetry"

// Node is the orchestrator-side state of one simulated node. Spine
// membership is fixed at setup; the up flag can only ever transition from
// true to false; the neighbor set accumulates passive observations between
// sampling ticks.
type Node struct {
	ID    int
	Spine bool

	up        bool
	neighbors map[string]struct{}
}

func newNode(id int) *Node {
	return &Node{ID: id, up: true, neighbors: make(map[string]struct{})}
}

// Up reports whether the node is still up.
func (n *Node) Up() bool { return n.up }

// MarkDown takes the node down. There is no way back up within a run.
func (n *Node) MarkDown() { n.up = false }

// Label renders the node id for output rows.
func (n *Node) Label() string { return telemetry.NodeLabel(n.ID, n.Spine) }

// observe records an overheard sender for the current sampling interval.
// Frames reaching a node that already went down are discarded.
func (n *Node) observe(sender string) {
	if !n.up {
		return
	}
	n.neighbors[sender] = struct{}{}
}

// takeNeighbors reports whether any neighbor was heard this interval and
// clears the set. Called exactly once per sampling tick, by the sampler.
func (n *Node) takeNeighbors() bool {
	heard := len(n.neighbors) > 0
	clear(n.neighbors)
	return heard
}

// NodeTable is the shared in-process node-state table. Nodes are created at
// setup and indexed by their stable id.
type NodeTable struct {
	nodes []*Node
}

// NewNodeTable creates count nodes, all up, none spine.
func NewNodeTable(count int) *NodeTable {
	t := &NodeTable{nodes: make([]*Node, count)}
	for i := range t.nodes {
		t.nodes[i] = newNode(i)
	}
	return t
}

// Get returns the node with the given id.
func (t *NodeTable) Get(id int) *Node { return t.nodes[id] }

// Len returns the node count.
func (t *NodeTable) Len() int { return len(t.nodes) }

// All returns the nodes in id order.
func (t *NodeTable) All() []*Node { return t.nodes }

// UpCount returns how many nodes are still up.
func (t *NodeTable) UpCount() int {
	n := 0
	for _, node := range t.nodes {
		if node.up {
			n++
		}
	}
	return n
}

// markSpine flags the selected nodes. Called once, at setup.
func (t *NodeTable) markSpine(ids []int) {
	for _, id := range ids {
		t.nodes[id].Spine = true
	}
}

// SpineIDs returns the ids of all spine nodes, ascending.
func (t *NodeTable) SpineIDs() []int {
	var ids []int
	for _, n := range t.nodes {
		if n.Spine {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
