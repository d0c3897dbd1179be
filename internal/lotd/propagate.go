package lotd

import (
	"sort"

	"github.com/go-dagsched/dagsched/internal/metrics"
	"github.com/go-dagsched/dagsched/internal/model"
)

// propagateTiming recomputes taskAST/taskAFT for every task, using the
// duplicate-aware ST formula (I3): a predecessor's AFT is replaced by
// a co-located duplicate's AFT, with its transmission cost treated as
// 0, whenever one exists on the successor's VM.
//
// Tasks are visited level by level — predecessors, always a strictly
// lower level, are finalized first — and within a level grouped per
// VM and replayed in model.RankOrder, the same priority SMGT used to
// build sched.VMSchedule, with a per-VM free-at time carried across
// levels. A bare per-task pass over predecessor arrivals alone would
// let two independent tasks sharing a VM collapse onto the same
// window the moment either one's predecessor timing shifts (DESIGN.md
// item 6); this mirrors the same vmFreeAt serialization smgt.Run uses.
//
// A single such pass is already a fixed point here, but we loop until
// no task's timing changes, bounded by |V|^2 iterations per spec §9's
// convergence guard, in case a future duplicate-selection policy
// breaks that ordering guarantee.
func propagateTiming(dag *model.DAG, vmOf map[int]*model.VM, sched *model.Schedule, costTable map[model.CostKey]float64, meanBW float64) {
	levels := dag.Levels()
	levelIDs := make([]int, 0, len(levels))
	for lv := range levels {
		levelIDs = append(levelIDs, lv)
	}
	sort.Ints(levelIDs)

	bound := len(dag.Tasks()) * len(dag.Tasks())
	if bound < 1 {
		bound = 1
	}

	dupAFT := func(predID, vmID int) (float64, bool) {
		d, ok := sched.Duplicates[model.DuplicateKey{TaskID: predID, VMID: vmID}]
		return d.AFT, ok
	}

	hostOf := make(map[int]*model.VM, len(sched.TaskToVM))
	for id, vmID := range sched.TaskToVM {
		hostOf[id] = vmOf[vmID]
	}

	for iter := 0; iter < bound; iter++ {
		changed := false
		vmFreeAt := make(map[int]float64, len(vmOf))

		for _, lv := range levelIDs {
			byVM := make(map[int][]int)
			for _, id := range levels[lv] {
				vmID := sched.TaskToVM[id]
				byVM[vmID] = append(byVM[vmID], id)
			}
			vmIDs := make([]int, 0, len(byVM))
			for vmID := range byVM {
				vmIDs = append(vmIDs, vmID)
			}
			sort.Ints(vmIDs)

			for _, vmID := range vmIDs {
				k := vmOf[vmID]
				for _, id := range model.RankOrder(byVM[vmID], sched.Ranks) {
					t := dag.Task(id)
					st := metrics.ST(t, k, dag.Predecessors(id), hostOf, sched.TaskAFT, dupAFT, costTable, meanBW)
					if free := vmFreeAt[vmID]; free > st {
						st = free
					}
					ft := metrics.FT(st, t, k)
					if floatChanged(st, sched.TaskAST[id]) || floatChanged(ft, sched.TaskAFT[id]) {
						changed = true
					}
					sched.TaskAST[id] = st
					sched.TaskAFT[id] = ft
					vmFreeAt[vmID] = ft
				}
			}
		}

		if !changed {
			return
		}
	}
	// Bound exceeded: per spec §9 this is a declared bug on pathological
	// graphs, not a fatal error (LOTD never raises, per §4.5/§7). The
	// schedule keeps whatever timing the last iteration produced.
}

func floatChanged(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d > metrics.Epsilon
}
