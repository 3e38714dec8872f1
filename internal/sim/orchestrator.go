// Orchestrator wiring spine selection, sampling and failure injection onto
// the virtual clock.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"manetsim/internal/config"
	"manetsim/internal/failure"
)

// Exporter pushes a finished run to an external store.
type Exporter interface {
	Export(rec *Recorder) error
}

// Optional: writers may display run progress.
type progressWriter interface {
	SetProgress(now, stop float64)
}

// Optional: writers may display the failure front.
type sweepWriter interface {
	SetSweep(active bool, direction string, position float64)
}

// NodeStatus is one node in a status snapshot.
type NodeStatus struct {
	Node   string  `json:"node"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Online bool    `json:"online"`
	Spine  bool    `json:"spine"`
}

// Status aggregates run state for the admin API.
type Status struct {
	RunID      string       `json:"run_id"`
	Run        uint64       `json:"run"`
	Time       float64      `json:"time"`
	StopTime   float64      `json:"stop_time"`
	NodesUp    int          `json:"nodes_up"`
	NodesTotal int          `json:"nodes_total"`
	Sweep      string       `json:"sweep,omitempty"`
	Nodes      []NodeStatus `json:"nodes"`
}

// Orchestrator owns one simulation run: it selects the spine at the start,
// arms the periodic sampling and failure tasks, drives the clock to the stop
// boundary and hands the recorded tables to the result writers.
type Orchestrator struct {
	cfg     *config.Config
	drv     Driver
	log     *slog.Logger
	runID   string
	table   *NodeTable
	rec     *Recorder
	tracker *ConnectivityTracker
	cycle   *LifecycleController
	stream  RowWriter

	mu     sync.Mutex
	status Status
}

// NewOrchestrator assembles a run from config. The rng must be the driver's
// seeded source so scenario draws stay reproducible per (seed, run) pair.
func NewOrchestrator(cfg *config.Config, drv Driver, rng *rand.Rand, stream RowWriter, log *slog.Logger) (*Orchestrator, error) {
	o := &Orchestrator{
		cfg:    cfg,
		drv:    drv,
		log:    log,
		runID:  uuid.New().String(),
		table:  NewNodeTable(cfg.Nodes),
		stream: stream,
	}

	o.rec = NewRecorder(o.table, drv, drv, stream, log)
	o.tracker = NewConnectivityTracker(o.table, o.rec)

	if cfg.Scenario == config.ScenarioWipe {
		sweep, err := failure.NewEngine(cfg.Wipe.Direction, cfg.Wipe.Speed, cfg.AreaWidth, cfg.AreaHeight, rng)
		if err != nil {
			return nil, fmt.Errorf("wipe scenario: %w", err)
		}
		o.cycle = NewLifecycleController(sweep, o.table, drv, drv, cfg.SamplingFreq.Std(), cfg.StopTime(), log)
	}

	selector := &SpineSelector{
		AreaWidth:  cfg.AreaWidth,
		AreaHeight: cfg.AreaHeight,
		Percent:    cfg.SpinePercent,
		Strategy:   cfg.SpineStrategy,
	}
	spine := selector.Select(drv, cfg.Nodes, log)
	o.table.markSpine(spine)
	log.Info("spine selected", "strategy", cfg.SpineStrategy, "count", len(spine), "nodes", spine)

	return o, nil
}

// RunID returns the unique identifier of this run.
func (o *Orchestrator) RunID() string { return o.runID }

// Recorder returns the run's metrics recorder.
func (o *Orchestrator) Recorder() *Recorder { return o.rec }

// Connectivity returns the run's connectivity tracker.
func (o *Orchestrator) Connectivity() *ConnectivityTracker { return o.tracker }

// SpineIDs returns the selected spine node ids.
func (o *Orchestrator) SpineIDs() []int { return o.table.SpineIDs() }

// Start arms the periodic tasks. Sampling begins one interval after warmup;
// the failure sweep begins at warmup itself, where its first invocation only
// places the front on the start edge.
func (o *Orchestrator) Start() {
	warmup := o.cfg.WarmupTime.Std()
	freq := o.cfg.SamplingFreq.Std()
	stop := o.cfg.StopTime()

	sampler := &periodicTask{
		clock:  o.drv,
		period: freq,
		stopAt: stop,
		fire:   o.sample,
	}
	sampler.start(warmup + freq)

	if o.cycle != nil {
		cycleTask := &periodicTask{
			clock:  o.drv,
			period: freq,
			stopAt: stop,
			fire:   o.cycle.fire,
		}
		cycleTask.start(warmup)
	}
}

// sample records one metrics tick: movement first, then connectivity, so the
// two tables stay row-aligned per instant.
func (o *Orchestrator) sample(now time.Duration) {
	o.rec.SampleMovement(now)
	o.tracker.sample(now)
	o.publishStatus(now)
}

func (o *Orchestrator) publishStatus(now time.Duration) {
	st := Status{
		RunID:      o.runID,
		Run:        o.cfg.Run,
		Time:       now.Seconds(),
		StopTime:   o.cfg.StopTime().Seconds(),
		NodesUp:    o.table.UpCount(),
		NodesTotal: o.table.Len(),
	}
	for _, n := range o.table.All() {
		p := o.drv.Position(n.ID)
		st.Nodes = append(st.Nodes, NodeStatus{
			Node:   n.Label(),
			X:      p.X,
			Y:      p.Y,
			Z:      p.Z,
			Online: n.Up(),
			Spine:  n.Spine,
		})
	}
	if o.cycle != nil && o.cycle.Sweep().State() == failure.Active {
		st.Sweep = o.cycle.Sweep().Direction().String()
	}

	o.mu.Lock()
	o.status = st
	o.mu.Unlock()

	if pw, ok := o.stream.(progressWriter); ok {
		pw.SetProgress(st.Time, st.StopTime)
	}
	if sw, ok := o.stream.(sweepWriter); ok && o.cycle != nil {
		sweep := o.cycle.Sweep()
		sw.SetSweep(sweep.State() == failure.Active, sweep.Direction().String(), sweep.Position())
	}
}

// Status returns the latest published run state. Safe to call from the
// admin goroutine while the run is in progress.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Run drives the clock to the stop boundary and returns the wall-clock
// duration the run took.
func (o *Orchestrator) Run() time.Duration {
	o.log.Info("run starting",
		"run_id", o.runID,
		"run", o.cfg.Run,
		"seed", o.cfg.Seed,
		"nodes", o.cfg.Nodes,
		"area_w", o.cfg.AreaWidth,
		"area_h", o.cfg.AreaHeight,
		"scenario", o.cfg.Scenario,
		"environment", o.cfg.Environment,
		"warmup", o.cfg.WarmupTime.Std(),
		"duration", o.cfg.SimulationTime.Std(),
		"sampling", o.cfg.SamplingFreq.Std(),
	)
	started := time.Now()
	o.drv.Run(o.cfg.StopTime())
	elapsed := time.Since(started)
	o.log.Info("run finished",
		"run_id", o.runID,
		"virtual", o.cfg.StopTime(),
		"wall", elapsed,
		"movement_rows", len(o.rec.Movement()),
		"connectivity_rows", len(o.rec.Connectivity()),
		"packet_rows", len(o.rec.Packets()),
	)
	return elapsed
}

// Finish writes the recorded tables to disk and, when an exporter is
// configured, pushes them to the external store.
func (o *Orchestrator) Finish(results *ResultsWriter, exp Exporter) error {
	if results != nil {
		if err := results.WriteAll(o.rec); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		o.log.Info("results written", "dir", results.Dir())
	}
	if exp != nil {
		if err := exp.Export(o.rec); err != nil {
			return fmt.Errorf("export results: %w", err)
		}
		o.log.Info("results exported", "run_id", o.runID)
	}
	return nil
}
