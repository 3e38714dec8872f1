package main

import (
	"github.com/spf13/cobra"

	"manetsim/internal/config"
	"manetsim/internal/sim"
)

var (
	replayInput string
	replaySpeed float64
	replayJSON  bool
	replayTUI   bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded movement table",
	Long:  "replay feeds movement rows from a results CSV back to the terminal, paced by their recorded times.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		var writer sim.MovementWriter
		switch {
		case replayTUI:
			tw := sim.NewTUIWriter(&cfg)
			defer tw.Close()
			writer = tw
		case replayJSON:
			writer = &sim.StdoutWriter{}
		default:
			writer = sim.NewColorStdoutWriter(&cfg)
		}
		return sim.ReplayFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to a movement CSV produced by run")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier (<=0 disables pacing)")
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "Print rows as JSON lines instead of colorized output")
	replayCmd.Flags().BoolVar(&replayTUI, "tui", false, "Replay into the interactive terminal UI")
	replayCmd.MarkFlagRequired("input")
}
