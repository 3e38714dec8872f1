package sim

import "manetsim/internal/telemetry"

// MultiWriter fans rows out to multiple streaming writers.
type MultiWriter struct {
	writers []RowWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(writers ...RowWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteMovement sends a movement row to all writers.
func (mw *MultiWriter) WriteMovement(row telemetry.MovementRow) error {
	for _, w := range mw.writers {
		if err := w.WriteMovement(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteConnectivity sends a connectivity row to all writers.
func (mw *MultiWriter) WriteConnectivity(row telemetry.ConnectivityRow) error {
	for _, w := range mw.writers {
		if err := w.WriteConnectivity(row); err != nil {
			return err
		}
	}
	return nil
}

// WritePacket sends a packet row to all writers.
func (mw *MultiWriter) WritePacket(row telemetry.PacketRow) error {
	for _, w := range mw.writers {
		if err := w.WritePacket(row); err != nil {
			return err
		}
	}
	return nil
}
