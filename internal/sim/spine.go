// Spine selection: rank nodes by a centrality metric and promote the top K.
package sim

import (
	"log/slog"
	"math"
	"sort"

	"manetsim/internal/config"
)

// SpineSelector designates the subset of nodes acting as fixed aggregation
// points. Selection runs once, before the simulation starts.
type SpineSelector struct {
	AreaWidth  float64
	AreaHeight float64
	Percent    float64
	Strategy   string
}

// SpineCount returns the target spine size: max(1, round(p/100*n)).
func SpineCount(n int, percent float64) int {
	k := int(math.Round(percent / 100 * float64(n)))
	if k < 1 {
		k = 1
	}
	return k
}

// Select returns the ids of the nodes to promote, ascending. An unknown
// strategy logs a warning and falls back to horizontal. Ties rank by
// ascending node id, so selection is deterministic for any input.
func (s *SpineSelector) Select(kin Kinematics, nodeCount int, log *slog.Logger) []int {
	metric := s.metric(log)
	type ranked struct {
		id  int
		key float64
	}
	rows := make([]ranked, nodeCount)
	for i := 0; i < nodeCount; i++ {
		rows[i] = ranked{id: i, key: metric(kin, i)}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].key != rows[j].key {
			return rows[i].key < rows[j].key
		}
		return rows[i].id < rows[j].id
	})

	k := SpineCount(nodeCount, s.Percent)
	ids := make([]int, 0, k)
	for _, r := range rows[:k] {
		ids = append(ids, r.id)
	}
	sort.Ints(ids)
	return ids
}

func (s *SpineSelector) metric(log *slog.Logger) func(Kinematics, int) float64 {
	switch s.Strategy {
	case config.StrategyCentroid:
		cx, cy := s.AreaWidth/2, s.AreaHeight/2
		return func(kin Kinematics, id int) float64 {
			p := kin.Position(id)
			dx, dy := p.X-cx, p.Y-cy
			return dx*dx + dy*dy
		}
	case config.StrategyHorizontal:
	default:
		log.Warn("unknown spine strategy, falling back to horizontal", "strategy", s.Strategy)
	}
	mid := s.AreaHeight / 2
	return func(kin Kinematics, id int) float64 {
		return math.Abs(kin.Position(id).Y - mid)
	}
}
