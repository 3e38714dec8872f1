// Writer implementation printing rows to STDOUT
package sim

import (
	"encoding/json"
	"fmt"

	"manetsim/internal/telemetry"
)

// StdoutWriter prints rows to STDOUT as JSON lines.
type StdoutWriter struct{}

// WriteMovement outputs a single movement row.
func (w *StdoutWriter) WriteMovement(row telemetry.MovementRow) error {
	return printJSON("movement", row)
}

// WriteConnectivity outputs a single connectivity row.
func (w *StdoutWriter) WriteConnectivity(row telemetry.ConnectivityRow) error {
	return printJSON("connectivity", row)
}

// WritePacket outputs a single packet row.
func (w *StdoutWriter) WritePacket(row telemetry.PacketRow) error {
	return printJSON("packet", row)
}

func printJSON(table string, row any) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", table, data)
	return nil
}
