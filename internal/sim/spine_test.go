package sim

import (
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"manetsim/internal/config"
	"manetsim/internal/telemetry"
)

func TestSpineCount(t *testing.T) {
	cases := []struct {
		n       int
		percent float64
		want    int
	}{
		{10, 20, 2},
		{10, 25, 3},
		{3, 10, 1},
		{1, 100, 1},
		{100, 0, 1},
		{7, 50, 4},
	}
	for _, c := range cases {
		if got := SpineCount(c.n, c.percent); got != c.want {
			t.Errorf("SpineCount(%d, %v) = %d, want %d", c.n, c.percent, got, c.want)
		}
	}
}

func TestSelectHorizontal(t *testing.T) {
	// Ten nodes on a 50m tall area; the two nearest the y=25 midline win.
	kin := &fakeKin{positions: []telemetry.Vec3{
		{X: 1, Y: 0},
		{X: 1, Y: 5},
		{X: 1, Y: 10},
		{X: 1, Y: 24}, // distance 1 from midline
		{X: 1, Y: 40},
		{X: 1, Y: 45},
		{X: 1, Y: 50},
		{X: 1, Y: 26}, // distance 1 from midline
		{X: 1, Y: 35},
		{X: 1, Y: 15},
	}}
	s := &SpineSelector{AreaWidth: 50, AreaHeight: 50, Percent: 20, Strategy: config.StrategyHorizontal}
	got := s.Select(kin, 10, testLogger())
	want := []int{3, 7}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Select = %v, want %v", got, want)
	}
}

func TestSelectCentroid(t *testing.T) {
	kin := &fakeKin{positions: []telemetry.Vec3{
		{X: 0, Y: 0},
		{X: 26, Y: 24}, // squared distance 2 from center (25,25)
		{X: 50, Y: 50},
		{X: 25, Y: 25}, // at the center
		{X: 10, Y: 40},
	}}
	s := &SpineSelector{AreaWidth: 50, AreaHeight: 50, Percent: 40, Strategy: config.StrategyCentroid}
	got := s.Select(kin, 5, testLogger())
	want := []int{1, 3}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Select = %v, want %v", got, want)
	}
}

func TestSelectTieBreaksByID(t *testing.T) {
	// All nodes equidistant from the midline; lowest ids must win.
	kin := &fakeKin{positions: []telemetry.Vec3{
		{Y: 20}, {Y: 30}, {Y: 20}, {Y: 30}, {Y: 20},
	}}
	s := &SpineSelector{AreaWidth: 50, AreaHeight: 50, Percent: 40, Strategy: config.StrategyHorizontal}
	got := s.Select(kin, 5, testLogger())
	want := []int{0, 1}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Select = %v, want %v", got, want)
	}
}

func TestSelectUnknownStrategyFallsBack(t *testing.T) {
	kin := &fakeKin{positions: []telemetry.Vec3{{Y: 25}, {Y: 0}, {Y: 50}}}
	s := &SpineSelector{AreaWidth: 50, AreaHeight: 50, Percent: 10, Strategy: "voronoi"}
	got := s.Select(kin, 3, testLogger())
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("Select = %v, want [0]", got)
	}
}

func TestSpineSelectionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("selection size follows the percent law", prop.ForAll(
		func(n int, percent float64, ys []float64) bool {
			positions := make([]telemetry.Vec3, n)
			for i := range positions {
				positions[i] = telemetry.Vec3{Y: ys[i%len(ys)]}
			}
			s := &SpineSelector{AreaWidth: 50, AreaHeight: 50, Percent: percent, Strategy: config.StrategyHorizontal}
			got := s.Select(&fakeKin{positions: positions}, n, testLogger())
			return len(got) == SpineCount(n, percent)
		},
		gen.IntRange(1, 100),
		gen.Float64Range(0, 100),
		gen.SliceOfN(10, gen.Float64Range(0, 50)),
	))

	properties.Property("selected ids are unique and ascending", prop.ForAll(
		func(n int, ys []float64) bool {
			positions := make([]telemetry.Vec3, n)
			for i := range positions {
				positions[i] = telemetry.Vec3{Y: ys[i%len(ys)]}
			}
			s := &SpineSelector{AreaWidth: 50, AreaHeight: 50, Percent: 30, Strategy: config.StrategyHorizontal}
			got := s.Select(&fakeKin{positions: positions}, n, testLogger())
			if !sort.IntsAreSorted(got) {
				return false
			}
			seen := make(map[int]struct{}, len(got))
			for _, id := range got {
				if _, dup := seen[id]; dup || id < 0 || id >= n {
					return false
				}
				seen[id] = struct{}{}
			}
			return true
		},
		gen.IntRange(1, 100),
		gen.SliceOfN(10, gen.Float64Range(0, 50)),
	))

	properties.TestingRun(t)
}
