package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"manetsim/internal/admin"
	"manetsim/internal/config"
	"manetsim/internal/engine"
	"manetsim/internal/logging"
	"manetsim/internal/sim"
)

var (
	runConfigPath string

	runNodes      int
	runAreaWidth  float64
	runAreaHeight float64
	runMinSpeed   float64
	runMaxSpeed   float64

	runSpinePercent  float64
	runSpineStrategy string

	runPacketsPerSecond float64
	runPacketSize       int
	runChannelWidth     int

	runSamplingFreq   = config.Duration(time.Second)
	runSimulationTime = config.Duration(10 * time.Second)
	runWarmupTime     = config.Duration(3 * time.Second)

	runEnvironment   string
	runScenario      string
	runWipeDirection string
	runWipeSpeed     float64

	runResultsPath string
	runSeed        uint64
	runNumber      uint64

	runTUI       bool
	runStream    bool
	runJSON      bool
	runPrintOnly bool
	runLogFile   string
	runAdminAddr string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and write its result tables",
	Long:  "run executes a full simulation on the virtual clock and writes movement, connectivity and packet tables to the results directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New()

		cfg := config.Default()
		if runConfigPath != "" {
			loaded, err := config.Load(runConfigPath)
			if err != nil {
				return err
			}
			cfg = *loaded
		}
		applyFlagOverrides(cmd, &cfg)
		if err := cfg.Validate(log); err != nil {
			return err
		}

		stream, cleanup, err := newStreamWriter(&cfg, runTUI, runStream, runJSON, runLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		eng, err := engine.New(&cfg, log)
		if err != nil {
			return err
		}
		orch, err := sim.NewOrchestrator(&cfg, eng, eng.Rand(), stream, log)
		if err != nil {
			return err
		}
		eng.RegisterFrameObserver(orch.Connectivity())
		eng.RegisterPacketObserver(orch.Recorder())
		eng.SetTrafficSinks(orch.SpineIDs())

		var exporter sim.Exporter
		endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
		if endpoint != "" && !runPrintOnly {
			gw, err := sim.NewGreptimeDBWriter(endpoint, orch.RunID())
			if err != nil {
				return err
			}
			exporter = gw
		}

		if runAdminAddr != "" {
			srv := admin.NewServer(orch, &cfg)
			go func() {
				log.Info("admin API listening", "addr", runAdminAddr)
				if err := srv.Start(runAdminAddr); err != nil {
					log.Error("admin server failed", "err", err)
				}
			}()
			if tw, ok := stream.(*sim.TUIWriter); ok {
				tw.SetAdminStatus(true)
			}
		}

		orch.Start()
		eng.Start()
		orch.Run()

		results, err := sim.NewResultsWriter(cfg.ResultsPath)
		if err != nil {
			return err
		}
		return orch.Finish(results, exporter)
	},
}

// applyFlagOverrides copies every flag the user set explicitly over the
// loaded configuration. Flags win over the file.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("nodes") {
		cfg.Nodes = runNodes
	}
	if f.Changed("area-width") {
		cfg.AreaWidth = runAreaWidth
	}
	if f.Changed("area-height") {
		cfg.AreaHeight = runAreaHeight
	}
	if f.Changed("min-speed") {
		cfg.MinSpeed = runMinSpeed
	}
	if f.Changed("max-speed") {
		cfg.MaxSpeed = runMaxSpeed
	}
	if f.Changed("spine-percent") {
		cfg.SpinePercent = runSpinePercent
	}
	if f.Changed("spine-strategy") {
		cfg.SpineStrategy = runSpineStrategy
	}
	if f.Changed("packets-per-second") {
		cfg.PacketsPerSecond = runPacketsPerSecond
	}
	if f.Changed("packet-size") {
		cfg.PacketSize = runPacketSize
	}
	if f.Changed("channel-width") {
		cfg.ChannelWidthMHz = runChannelWidth
	}
	if f.Changed("sampling-freq") {
		cfg.SamplingFreq = runSamplingFreq
	}
	if f.Changed("simulation-time") {
		cfg.SimulationTime = runSimulationTime
	}
	if f.Changed("warmup-time") {
		cfg.WarmupTime = runWarmupTime
	}
	if f.Changed("environment") {
		cfg.Environment = runEnvironment
	}
	if f.Changed("scenario") {
		cfg.Scenario = runScenario
	}
	if f.Changed("wipe-direction") {
		cfg.Wipe.Direction = runWipeDirection
	}
	if f.Changed("wipe-speed") {
		cfg.Wipe.Speed = runWipeSpeed
	}
	if f.Changed("results") {
		cfg.ResultsPath = runResultsPath
	}
	if f.Changed("seed") {
		cfg.Seed = runSeed
	}
	if f.Changed("run") {
		cfg.Run = runNumber
	}
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runConfigPath, "config", "", "Path to simulation configuration YAML")

	f.IntVar(&runNodes, "nodes", 10, "Number of nodes")
	f.Float64Var(&runAreaWidth, "area-width", 50, "Area width in meters")
	f.Float64Var(&runAreaHeight, "area-height", 50, "Area height in meters")
	f.Float64Var(&runMinSpeed, "min-speed", 1, "Minimum node speed (m/s)")
	f.Float64Var(&runMaxSpeed, "max-speed", 5, "Maximum node speed (m/s)")

	f.Float64Var(&runSpinePercent, "spine-percent", 20, "Share of nodes promoted to spine (0-100)")
	f.StringVar(&runSpineStrategy, "spine-strategy", config.StrategyHorizontal, "Spine selection strategy (horizontal|centroid)")

	f.Float64Var(&runPacketsPerSecond, "packets-per-second", 1, "CBR traffic rate per node")
	f.IntVar(&runPacketSize, "packet-size", 512, "Packet size in bytes")
	f.IntVar(&runChannelWidth, "channel-width", 20, "Channel width in MHz (20|40|80|160)")

	f.Var(&runSamplingFreq, "sampling-freq", "Metrics sampling interval (e.g. 1s, 500ms)")
	f.Var(&runSimulationTime, "simulation-time", "Measured simulation duration")
	f.Var(&runWarmupTime, "warmup-time", "Warmup before sampling starts")

	f.StringVar(&runEnvironment, "environment", config.EnvironmentNone, "Radio environment (none|forest)")
	f.StringVar(&runScenario, "scenario", config.ScenarioNone, "Failure scenario (none|wipe)")
	f.StringVar(&runWipeDirection, "wipe-direction", "E", "Wipe sweep direction (N|E|S|W|R)")
	f.Float64Var(&runWipeSpeed, "wipe-speed", 1, "Wipe sweep speed (m/s)")

	f.StringVar(&runResultsPath, "results", "./output", "Results directory for the CSV tables")
	f.Uint64Var(&runSeed, "seed", 1, "Base RNG seed")
	f.Uint64Var(&runNumber, "run", 1, "Run number (varies the seed per trial)")

	f.BoolVar(&runTUI, "tui", false, "Render rows in an interactive terminal UI")
	f.BoolVar(&runStream, "stream", false, "Stream colorized rows to STDOUT while the run progresses")
	f.BoolVar(&runJSON, "json", false, "Stream rows to STDOUT as JSON lines")
	f.BoolVar(&runPrintOnly, "print-only", false, "Never export to GreptimeDB even if configured")
	f.StringVar(&runLogFile, "log-file", "", "Path to export row logs (JSONL)")
	f.StringVar(&runAdminAddr, "admin", "", "Address for the admin API (e.g. :8080), disabled when empty")
}
