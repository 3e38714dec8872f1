// GreptimeDB export of the three result tables via the ingester client.
package sim

import (
	"context"
	"fmt"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"manetsim/internal/telemetry"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter exports a finished run to GreptimeDB. Rows are tagged
// with the run id so repeated trials land in the same tables and stay
// separable. Virtual times map onto wall-clock timestamps relative to the
// run start, preserving the grid spacing.
type GreptimeDBWriter struct {
	client   greptimeClient
	runID    string
	runStart time.Time
}

// NewGreptimeDBWriter connects to a GreptimeDB endpoint and auto-creates
// the three tables if needed.
func NewGreptimeDBWriter(endpoint, runID string) (*GreptimeDBWriter, error) {
	ctx := ingesterContext.New(context.Background())
	client, err := greptime.NewClient(&greptime.Config{Endpoint: endpoint})
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}

	ddls := []string{
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  run_id STRING TAG,
  node STRING TAG,
  row_id BIGINT,
  x DOUBLE,
  y DOUBLE,
  z DOUBLE,
  speed DOUBLE,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`, telemetry.MovementTableName),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  run_id STRING TAG,
  node STRING TAG,
  row_id BIGINT,
  l2_link BOOLEAN,
  online BOOLEAN,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`, telemetry.ConnectivityTableName),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  run_id STRING TAG,
  node STRING TAG,
  row_id BIGINT,
  uid BIGINT,
  size BIGINT,
  received BOOLEAN,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`, telemetry.PacketTableName),
	}
	for _, ddl := range ddls {
		if _, err := client.SQL(ctx, ddl); err != nil {
			return nil, fmt.Errorf("greptime ddl: %w", err)
		}
	}

	return &GreptimeDBWriter{
		client:   client,
		runID:    runID,
		runStart: time.Now().UTC(),
	}, nil
}

// Export pushes all three tables, one batch each.
func (w *GreptimeDBWriter) Export(rec *Recorder) error {
	ctx := ingesterContext.New(context.Background())
	batches := []*table.Table{
		w.movementTable(rec.Movement()),
		w.connectivityTable(rec.Connectivity()),
		w.packetTable(rec.Packets()),
	}
	if _, err := w.client.Write(ctx, batches...); err != nil {
		return fmt.Errorf("greptime write: %w", err)
	}
	return nil
}

func (w *GreptimeDBWriter) movementTable(rows []telemetry.MovementRow) *table.Table {
	tbl, _ := table.New(telemetry.MovementTableName)
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddTagColumn("node", types.STRING)
	tbl.AddFieldColumn("row_id", types.INT64)
	tbl.AddFieldColumn("x", types.FLOAT64)
	tbl.AddFieldColumn("y", types.FLOAT64)
	tbl.AddFieldColumn("z", types.FLOAT64)
	tbl.AddFieldColumn("speed", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
	for _, r := range rows {
		tbl.AppendTagValue("run_id", w.runID)
		tbl.AppendTagValue("node", r.Node)
		tbl.AppendFieldValue("row_id", int64(r.ID))
		tbl.AppendFieldValue("x", r.X)
		tbl.AppendFieldValue("y", r.Y)
		tbl.AppendFieldValue("z", r.Z)
		tbl.AppendFieldValue("speed", r.Speed)
		tbl.AppendTimeIndex(w.timestamp(r.Time))
	}
	return tbl
}

func (w *GreptimeDBWriter) connectivityTable(rows []telemetry.ConnectivityRow) *table.Table {
	tbl, _ := table.New(telemetry.ConnectivityTableName)
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddTagColumn("node", types.STRING)
	tbl.AddFieldColumn("row_id", types.INT64)
	tbl.AddFieldColumn("l2_link", types.BOOLEAN)
	tbl.AddFieldColumn("online", types.BOOLEAN)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
	for _, r := range rows {
		tbl.AppendTagValue("run_id", w.runID)
		tbl.AppendTagValue("node", r.Node)
		tbl.AppendFieldValue("row_id", int64(r.ID))
		tbl.AppendFieldValue("l2_link", r.L2Link)
		tbl.AppendFieldValue("online", r.Online)
		tbl.AppendTimeIndex(w.timestamp(r.Time))
	}
	return tbl
}

func (w *GreptimeDBWriter) packetTable(rows []telemetry.PacketRow) *table.Table {
	tbl, _ := table.New(telemetry.PacketTableName)
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddTagColumn("node", types.STRING)
	tbl.AddFieldColumn("row_id", types.INT64)
	tbl.AddFieldColumn("uid", types.INT64)
	tbl.AddFieldColumn("size", types.INT64)
	tbl.AddFieldColumn("received", types.BOOLEAN)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
	for _, r := range rows {
		tbl.AppendTagValue("run_id", w.runID)
		tbl.AppendTagValue("node", r.Node)
		tbl.AppendFieldValue("row_id", int64(r.ID))
		tbl.AppendFieldValue("uid", int64(r.UID))
		tbl.AppendFieldValue("size", int64(r.Size))
		tbl.AppendFieldValue("received", r.Received)
		tbl.AppendTimeIndex(w.timestamp(r.Time))
	}
	return tbl
}

func (w *GreptimeDBWriter) timestamp(seconds float64) time.Time {
	return w.runStart.Add(time.Duration(seconds * float64(time.Second)))
}
