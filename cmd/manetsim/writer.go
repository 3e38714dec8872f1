package main

import (
	"manetsim/internal/config"
	"manetsim/internal/sim"
)

// newStreamWriter builds the live row writer for a run. The TUI takes
// precedence over plain streaming; a log file is always fanned out in
// addition to whatever terminal writer is active. The returned cleanup
// must be called once the run has finished.
func newStreamWriter(cfg *config.Config, tui, stream, jsonStream bool, logFile string) (sim.RowWriter, func(), error) {
	var writers []sim.RowWriter
	cleanup := func() {}

	switch {
	case tui:
		tw := sim.NewTUIWriter(cfg)
		cleanup = func() { tw.Close() }
		writers = append(writers, tw)
	case jsonStream:
		writers = append(writers, &sim.StdoutWriter{})
	case stream:
		writers = append(writers, sim.NewColorStdoutWriter(cfg))
	}

	if logFile != "" {
		fw, err := sim.NewFileWriter(logFile)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		prev := cleanup
		cleanup = func() {
			prev()
			fw.Close()
		}
		writers = append(writers, fw)
	}

	switch len(writers) {
	case 0:
		return nil, cleanup, nil
	case 1:
		return writers[0], cleanup, nil
	default:
		return sim.NewMultiWriter(writers...), cleanup, nil
	}
}
