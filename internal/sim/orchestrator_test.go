package sim

import (
	"reflect"
	"strings"
	"testing"

	"manetsim/internal/config"
	"manetsim/internal/engine"
)

func runScenario(t *testing.T, mutate func(*config.Config)) (*config.Config, *Orchestrator) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	eng, err := engine.New(&cfg, testLogger())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	o, err := NewOrchestrator(&cfg, eng, eng.Rand(), nil, testLogger())
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	eng.RegisterFrameObserver(o.Connectivity())
	eng.RegisterPacketObserver(o.Recorder())
	eng.SetTrafficSinks(o.SpineIDs())
	o.Start()
	eng.Start()
	o.Run()
	return &cfg, o
}

func TestRunRowCounts(t *testing.T) {
	cfg, o := runScenario(t, nil)

	wantRows := cfg.Nodes * 10 // one row per node per sampling tick
	if got := len(o.Recorder().Movement()); got != wantRows {
		t.Errorf("movement rows = %d, want %d", got, wantRows)
	}
	if got := len(o.Recorder().Connectivity()); got != wantRows {
		t.Errorf("connectivity rows = %d, want %d", got, wantRows)
	}

	mov := o.Recorder().Movement()
	if mov[0].Time != 4 {
		t.Errorf("first sample at t=%v, want 4 (one interval past warmup)", mov[0].Time)
	}
	if last := mov[len(mov)-1].Time; last != 13 {
		t.Errorf("last sample at t=%v, want the 13s stop boundary", last)
	}
}

func TestRunSpineSelection(t *testing.T) {
	_, o := runScenario(t, nil)

	spine := o.SpineIDs()
	if len(spine) != 2 {
		t.Fatalf("spine = %v, want 2 of 10 nodes at 20%%", spine)
	}
	labels := make(map[string]bool)
	for _, r := range o.Recorder().Movement() {
		labels[r.Node] = true
	}
	spineLabels := 0
	for l := range labels {
		if strings.HasSuffix(l, "S") {
			spineLabels++
		}
	}
	if spineLabels != 2 {
		t.Errorf("spine labels in movement table = %d, want 2", spineLabels)
	}
}

func TestRunDeterministicPerSeedAndRun(t *testing.T) {
	_, a := runScenario(t, nil)
	_, b := runScenario(t, nil)
	if !reflect.DeepEqual(a.Recorder().Movement(), b.Recorder().Movement()) {
		t.Fatalf("same (seed, run) produced different movement tables")
	}

	_, c := runScenario(t, func(cfg *config.Config) { cfg.Run = 2 })
	if reflect.DeepEqual(a.Recorder().Movement(), c.Recorder().Movement()) {
		t.Fatalf("different run number produced an identical movement table")
	}
}

func TestRunWipeScenario(t *testing.T) {
	_, o := runScenario(t, func(cfg *config.Config) {
		cfg.Scenario = config.ScenarioWipe
		cfg.Wipe = config.Wipe{Direction: "E", Speed: 5}
	})

	// line crosses the whole 50m area well before the stop boundary
	if up := o.table.UpCount(); up != 0 {
		t.Errorf("nodes still up after full sweep: %d", up)
	}

	// once offline, a node never reports online again
	seen := make(map[string]bool)
	for _, r := range o.Recorder().Connectivity() {
		if seen[r.Node] && r.Online {
			t.Fatalf("node %s came back online at t=%v", r.Node, r.Time)
		}
		if !r.Online {
			seen[r.Node] = true
		}
	}

	// down nodes keep being sampled for movement
	want := 10 * 10
	if got := len(o.Recorder().Movement()); got != want {
		t.Errorf("movement rows = %d, want %d despite shutdowns", got, want)
	}
}

func TestRunPacketsFlowToSpine(t *testing.T) {
	_, o := runScenario(t, nil)

	pkts := o.Recorder().Packets()
	if len(pkts) == 0 {
		t.Fatalf("no packet rows recorded")
	}
	sent := 0
	for _, p := range pkts {
		if !p.Received {
			sent++
		}
		if p.Size != 512 {
			t.Fatalf("packet size = %d, want 512", p.Size)
		}
	}
	if sent == 0 {
		t.Fatalf("no send events recorded")
	}
	// receive events only appear on spine nodes
	for _, p := range pkts {
		if p.Received && !strings.HasSuffix(p.Node, "S") {
			t.Fatalf("non-spine node %s received traffic", p.Node)
		}
	}
}

func TestRunStatusSnapshot(t *testing.T) {
	_, o := runScenario(t, nil)

	st := o.Status()
	if st.NodesTotal != 10 || st.NodesUp != 10 {
		t.Errorf("status nodes = %d/%d, want 10/10", st.NodesUp, st.NodesTotal)
	}
	if st.Time != 13 || st.StopTime != 13 {
		t.Errorf("status time = %v/%v, want 13/13", st.Time, st.StopTime)
	}
	if len(st.Nodes) != 10 {
		t.Errorf("status node list = %d entries, want 10", len(st.Nodes))
	}
	if st.RunID == "" {
		t.Errorf("run id missing from status")
	}
}
