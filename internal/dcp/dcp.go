// Package dcp implements the Dynamic Critical Path ranking phase:
// level partition, downward/upward rank, and critical-path set
// extraction over a weighted DAG.
//
// The longest-path relaxation here mirrors the teacher's dijkstra
// package's single-pass, topologically-ordered relaxation, adapted
// from shortest-path to longest-path (see rank.go). The cycle/
// entry/exit preconditions are delegated to model.DAG, which already
// enforces them with a Kahn-style topological sort.
package dcp

import (
	"fmt"

	"github.com/go-dagsched/dagsched/internal/metrics"
	"github.com/go-dagsched/dagsched/internal/model"
)

// Result is the output of a DCP run.
type Result struct {
	Levels       map[int][]int
	Ranks        map[int]model.Rank
	CriticalPath map[int]struct{}
	Length       float64
}

// Compute runs DCP over dag given the fleet vms (for avgET) and the
// communication-cost table. dag is assumed already validated by
// model.NewDAG (at least one entry/exit, acyclic).
func Compute(dag *model.DAG, vms []*model.VM, costTable map[model.CostKey]float64) (*Result, error) {
	if len(dag.EntryTasks()) == 0 {
		return nil, fmt.Errorf("%w: no entry task", model.ErrMalformedGraph)
	}
	if len(dag.ExitTasks()) == 0 {
		return nil, fmt.Errorf("%w: no exit task", model.ErrMalformedGraph)
	}

	avg := make(map[int]float64, len(dag.Tasks()))
	for id, t := range dag.Tasks() {
		avg[id] = metrics.AvgET(t, vms)
	}

	down := downwardRanks(dag, avg, costTable)
	up := upwardRanks(dag, avg, costTable)

	ranks := make(map[int]model.Rank, len(dag.Tasks()))
	length := 0.0
	first := true
	score := make(map[int]float64, len(dag.Tasks()))
	for id := range dag.Tasks() {
		ranks[id] = model.Rank{Downward: down[id], Upward: up[id]}
		s := down[id] + up[id] - avg[id]
		score[id] = s
		if first || s > length {
			length = s
			first = false
		}
	}

	critical := make(map[int]struct{})
	for id, s := range score {
		if absDiff(s, length) <= metrics.Epsilon {
			critical[id] = struct{}{}
		}
	}

	return &Result{
		Levels:       dag.Levels(),
		Ranks:        ranks,
		CriticalPath: critical,
		Length:       length,
	}, nil
}

func absDiff(a, b float64) float64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
