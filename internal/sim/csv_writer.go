// CSV serialization of the three tables into the results directory.
package sim

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"manetsim/internal/telemetry"
)

// Output file names inside the results directory.
const (
	MovementFile     = "movement.csv"
	ConnectivityFile = "connectivity.csv"
	PacketsFile      = "packets.csv"
)

// ResultsWriter serializes a finished run. Created eagerly so a bad results
// path fails before the run instead of after it.
type ResultsWriter struct {
	dir string
}

// NewResultsWriter creates the results directory if needed.
func NewResultsWriter(dir string) (*ResultsWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare results dir: %w", err)
	}
	return &ResultsWriter{dir: dir}, nil
}

// Dir returns the results directory path.
func (w *ResultsWriter) Dir() string { return w.dir }

// WriteAll serializes the recorder's three tables, each with its fixed
// header row.
func (w *ResultsWriter) WriteAll(rec *Recorder) error {
	if err := w.writeCSV(MovementFile, []string{"id", "time", "node", "x", "y", "z", "speed"}, movementRecords(rec.Movement())); err != nil {
		return err
	}
	if err := w.writeCSV(ConnectivityFile, []string{"id", "time", "node", "l2_link", "online"}, connectivityRecords(rec.Connectivity())); err != nil {
		return err
	}
	return w.writeCSV(PacketsFile, []string{"id", "time", "node", "uid", "size", "received"}, packetRecords(rec.Packets()))
}

func (w *ResultsWriter) writeCSV(name string, header []string, records [][]string) error {
	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func movementRecords(rows []telemetry.MovementRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			strconv.FormatUint(r.ID, 10),
			formatFloat(r.Time),
			r.Node,
			formatFloat(r.X),
			formatFloat(r.Y),
			formatFloat(r.Z),
			formatFloat(r.Speed),
		}
	}
	return out
}

func connectivityRecords(rows []telemetry.ConnectivityRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			strconv.FormatUint(r.ID, 10),
			formatFloat(r.Time),
			r.Node,
			bool01(r.L2Link),
			bool01(r.Online),
		}
	}
	return out
}

func packetRecords(rows []telemetry.PacketRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			strconv.FormatUint(r.ID, 10),
			formatFloat(r.Time),
			r.Node,
			strconv.FormatUint(r.UID, 10),
			strconv.Itoa(r.Size),
			bool01(r.Received),
		}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// bool01 renders booleans the way the downstream analysis tooling expects.
func bool01(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
