package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"manetsim/internal/telemetry"
)

// ReadMovementCSV parses a movement table previously produced by
// ResultsWriter. The header row is validated against the writer's layout.
func ReadMovementCSV(r io.Reader) ([]telemetry.MovementRow, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	want := []string{"id", "time", "node", "x", "y", "z", "speed"}
	if len(header) != len(want) {
		return nil, fmt.Errorf("movement header has %d columns, want %d", len(header), len(want))
	}
	for i, col := range want {
		if header[i] != col {
			return nil, fmt.Errorf("movement header column %d is %q, want %q", i, header[i], col)
		}
	}

	var rows []telemetry.MovementRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row, err := parseMovementRecord(rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func parseMovementRecord(rec []string) (telemetry.MovementRow, error) {
	var row telemetry.MovementRow
	id, err := strconv.ParseUint(rec[0], 10, 64)
	if err != nil {
		return row, fmt.Errorf("parse id %q: %w", rec[0], err)
	}
	fields := [5]float64{}
	for i, raw := range []string{rec[1], rec[3], rec[4], rec[5], rec[6]} {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return row, fmt.Errorf("parse %q: %w", raw, err)
		}
		fields[i] = v
	}
	row = telemetry.MovementRow{
		ID:    id,
		Time:  fields[0],
		Node:  rec[2],
		X:     fields[1],
		Y:     fields[2],
		Z:     fields[3],
		Speed: fields[4],
	}
	return row, nil
}

// Replay feeds recorded movement rows to writer, pacing them by the gaps
// between their virtual times. A speed > 1 accelerates playback; speed <= 0
// disables pacing entirely.
func Replay(rows []telemetry.MovementRow, writer MovementWriter, speed float64) error {
	var prev float64
	for i, row := range rows {
		if i > 0 && speed > 0 {
			diff := time.Duration((row.Time - prev) * float64(time.Second))
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.WriteMovement(row); err != nil {
			return err
		}
		prev = row.Time
	}
	return nil
}

// ReplayFile opens a movement CSV and replays it.
func ReplayFile(path string, writer MovementWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows, err := ReadMovementCSV(f)
	if err != nil {
		return err
	}
	return Replay(rows, writer, speed)
}
