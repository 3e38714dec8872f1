// Row types shared by the recorder and all output writers.
package telemetry

import (
	"fmt"
	"os"
)

// MovementRow is one kinematics sample for one node.
type MovementRow struct {
	ID    uint64  `json:"id"`   // per-table row counter
	Time  float64 `json:"time"` // virtual time, seconds
	Node  string  `json:"node"` // node label, "S"-suffixed for spine nodes
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Speed float64 `json:"speed"`
}

// ConnectivityRow is one binary link-state sample for one node.
type ConnectivityRow struct {
	ID     uint64  `json:"id"`
	Time   float64 `json:"time"`
	Node   string  `json:"node"`
	L2Link bool    `json:"l2_link"` // heard at least one neighbor this interval
	Online bool    `json:"online"`  // node interface is up
}

// PacketRow is one application-level send or receive event.
type PacketRow struct {
	ID       uint64  `json:"id"`
	Time     float64 `json:"time"`
	Node     string  `json:"node"`
	UID      uint64  `json:"uid"` // engine-wide packet identifier
	Size     int     `json:"size"`
	Received bool    `json:"received"` // false = sent, true = received
}

// NodeLabel renders a node id the way the output files expect it: the
// decimal id, suffixed with "S" when the node is a spine node.
func NodeLabel(id int, spine bool) string {
	if spine {
		return fmt.Sprintf("%dS", id)
	}
	return fmt.Sprintf("%d", id)
}

// Table names used when streaming rows to GreptimeDB. Overridable via
// environment for deployments sharing one database.
var (
	MovementTableName     = tableName("MANETSIM_MOVEMENT_TABLE", "manet_movement")
	ConnectivityTableName = tableName("MANETSIM_CONNECTIVITY_TABLE", "manet_connectivity")
	PacketTableName       = tableName("MANETSIM_PACKET_TABLE", "manet_packets")
)

func tableName(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

func (MovementRow) TableName() string     { return MovementTableName }
func (ConnectivityRow) TableName() string { return ConnectivityTableName }
func (PacketRow) TableName() string       { return PacketTableName }
