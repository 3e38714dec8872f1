package sim

import (
	"encoding/json"
	"os"

	"manetsim/internal/telemetry"
)

// FileWriter streams result rows to JSONL files, one file per table. It is
// a live log of the run, not a replacement for the CSV results.
type FileWriter struct {
	movFile  *os.File
	connFile *os.File
	pktFile  *os.File
	movEnc   *json.Encoder
	connEnc  *json.Encoder
	pktEnc   *json.Encoder
}

// NewFileWriter creates the three JSONL logs next to basePath: the base
// file takes movement rows; connectivity and packet rows get suffixed files.
func NewFileWriter(basePath string) (*FileWriter, error) {
	mf, err := os.Create(basePath)
	if err != nil {
		return nil, err
	}
	cf, err := os.Create(basePath + ".connectivity")
	if err != nil {
		mf.Close()
		return nil, err
	}
	pf, err := os.Create(basePath + ".packets")
	if err != nil {
		mf.Close()
		cf.Close()
		return nil, err
	}
	return &FileWriter{
		movFile:  mf,
		connFile: cf,
		pktFile:  pf,
		movEnc:   json.NewEncoder(mf),
		connEnc:  json.NewEncoder(cf),
		pktEnc:   json.NewEncoder(pf),
	}, nil
}

// WriteMovement logs a single movement row.
func (f *FileWriter) WriteMovement(row telemetry.MovementRow) error {
	return f.movEnc.Encode(row)
}

// WriteConnectivity logs a single connectivity row.
func (f *FileWriter) WriteConnectivity(row telemetry.ConnectivityRow) error {
	return f.connEnc.Encode(row)
}

// WritePacket logs a single packet row.
func (f *FileWriter) WritePacket(row telemetry.PacketRow) error {
	return f.pktEnc.Encode(row)
}

// Close closes all underlying files.
func (f *FileWriter) Close() error {
	err := f.movFile.Close()
	if cerr := f.connFile.Close(); err == nil {
		err = cerr
	}
	if perr := f.pktFile.Close(); err == nil {
		err = perr
	}
	return err
}
