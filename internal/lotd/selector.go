// Package lotd implements the List Of Task Duplication pass: after
// SMGT produces a pre-schedule, selectively place redundant copies of
// predecessor tasks into idle VM slots to shorten data-transfer waits,
// per spec §4.5.
//
// The bounded re-iteration in propagate.go mirrors the teacher's
// flow/dinic.go level-graph rebuild loop (retry until no further
// change, capped at a hard iteration bound rather than looping
// unconditionally).
package lotd

import (
	"sort"

	"github.com/go-dagsched/dagsched/internal/model"
)

// CandidateSelector decides which tasks LOTD considers for
// duplication. Exposed as a configurable hook per spec §4.5/§9, since
// the reference implementation's two candidate-selection code paths
// disagree.
type CandidateSelector func(dag *model.DAG) []int

// DefaultSelector returns every task with at least one successor,
// ascending by id. This is the spec's documented default: "all tasks
// with successors".
func DefaultSelector(dag *model.DAG) []int {
	var out []int
	for id := range dag.Tasks() {
		if len(dag.Successors(id)) > 0 {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

// Level1OnlySelector restricts candidates to entry tasks (level 0)
// and their immediate successors (level 1) that themselves have
// successors — the alternative reading spec §4.5 calls out as
// "restricts this further to level-1 / entry tasks".
func Level1OnlySelector(dag *model.DAG) []int {
	var out []int
	for id := range dag.Tasks() {
		if dag.Level(id) <= 1 && len(dag.Successors(id)) > 0 {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
