package sim

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"manetsim/internal/telemetry"
)

func writeFixtureRun(t *testing.T) (*Recorder, string) {
	t.Helper()
	table := NewNodeTable(2)
	table.markSpine([]int{0})
	kin := &fakeKin{
		positions:  []telemetry.Vec3{{X: 1.5, Y: 2.25}, {X: 10, Y: 20}},
		velocities: []telemetry.Vec3{{X: 3, Y: 4}, {}},
	}
	clock := &fakeClock{now: 4 * time.Second}
	rec := NewRecorder(table, kin, clock, nil, testLogger())
	rec.SampleMovement(4 * time.Second)
	rec.AppendConnectivity(4*time.Second, table.Get(0), true)
	rec.AppendConnectivity(4*time.Second, table.Get(1), false)
	rec.ObservePacket(1, 1, 512, false)

	dir := t.TempDir()
	w, err := NewResultsWriter(dir)
	if err != nil {
		t.Fatalf("NewResultsWriter: %v", err)
	}
	if err := w.WriteAll(rec); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	return rec, dir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func TestResultsWriterHeaders(t *testing.T) {
	_, dir := writeFixtureRun(t)

	cases := []struct {
		file   string
		header string
	}{
		{MovementFile, "id,time,node,x,y,z,speed"},
		{ConnectivityFile, "id,time,node,l2_link,online"},
		{PacketsFile, "id,time,node,uid,size,received"},
	}
	for _, c := range cases {
		records := readCSV(t, filepath.Join(dir, c.file))
		if got := strings.Join(records[0], ","); got != c.header {
			t.Errorf("%s header = %q, want %q", c.file, got, c.header)
		}
	}
}

func TestResultsWriterEncodesBooleansAsDigits(t *testing.T) {
	_, dir := writeFixtureRun(t)

	conn := readCSV(t, filepath.Join(dir, ConnectivityFile))
	if conn[1][3] != "1" || conn[1][4] != "1" {
		t.Errorf("linked node row = %v, want l2_link=1 online=1", conn[1])
	}
	if conn[2][3] != "0" {
		t.Errorf("silent node row = %v, want l2_link=0", conn[2])
	}

	pkts := readCSV(t, filepath.Join(dir, PacketsFile))
	if pkts[1][5] != "0" {
		t.Errorf("sent packet row = %v, want received=0", pkts[1])
	}
}

func TestResultsWriterSpineLabels(t *testing.T) {
	_, dir := writeFixtureRun(t)

	mov := readCSV(t, filepath.Join(dir, MovementFile))
	if mov[1][2] != "0S" {
		t.Errorf("spine node label = %q, want 0S", mov[1][2])
	}
	if mov[2][2] != "1" {
		t.Errorf("plain node label = %q, want 1", mov[2][2])
	}
}

func TestMovementRoundTrip(t *testing.T) {
	rec, dir := writeFixtureRun(t)

	f, err := os.Open(filepath.Join(dir, MovementFile))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := ReadMovementCSV(f)
	if err != nil {
		t.Fatalf("ReadMovementCSV: %v", err)
	}
	want := rec.Movement()
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i := range rows {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}
