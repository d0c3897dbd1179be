package smgt

import (
	"sort"

	"github.com/go-dagsched/dagsched/internal/metrics"
	"github.com/go-dagsched/dagsched/internal/model"
)

// Run performs SMGT over every level of dag in increasing order and
// emits the pre-schedule: per-VM task order, taskToVM, taskAST/AFT.
// ranks must already be populated (from dcp.Compute) for every task.
func Run(dag *model.DAG, vms []*model.VM, ranks map[int]model.Rank, costTable map[model.CostKey]float64, meanBW float64) (*model.Schedule, error) {
	sched := model.NewSchedule()
	for id, r := range ranks {
		sched.Ranks[id] = r
	}
	sched.Levels = dag.Levels()

	vmOf := make(map[int]*model.VM, len(vms))
	for _, v := range vms {
		vmOf[v.ID] = v
	}

	taskPrefs := TaskPreferences(dag.Tasks(), vms)

	levelIDs := make([]int, 0, len(dag.Levels()))
	for lv := range dag.Levels() {
		levelIDs = append(levelIDs, lv)
	}
	sort.Ints(levelIDs)

	for _, lv := range levelIDs {
		levelTasks := dag.Levels()[lv]
		quotas := Quota(vms, len(levelTasks))
		assignment, err := MatchLevel(levelTasks, taskPrefs, ranks, quotas)
		if err != nil {
			return nil, err
		}

		byVM := make(map[int][]int)
		for _, t := range levelTasks {
			k := assignment[t]
			sched.TaskToVM[t] = k
			byVM[k] = append(byVM[k], t)
		}
		for k, ts := range byVM {
			sort.Slice(ts, func(i, j int) bool { return vmPrefers(ts[i], ts[j], ranks) })
			sched.VMSchedule[k] = append(sched.VMSchedule[k], ts...)
		}
	}

	// Stamp AST/AFT level by level (predecessors, always a strictly
	// lower level, are finalized first) and, within a level, in each
	// VM's recorded VMSchedule order (model.RankOrder) rather than the
	// raw topological id tie-break — otherwise the declared execution
	// order in sched.VMSchedule would diverge from the chronological
	// order implied by the AST stamps whenever a lower-id, lower-rank
	// task shares a level and VM with a higher-id, higher-rank one.
	hostOf := make(map[int]*model.VM, len(sched.TaskToVM))
	for id, vmID := range sched.TaskToVM {
		hostOf[id] = vmOf[vmID]
	}
	vmFreeAt := make(map[int]float64, len(vms))
	for _, lv := range levelIDs {
		byVM := make(map[int][]int)
		for _, id := range dag.Levels()[lv] {
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
			for _, id := range model.RankOrder(byVM[vmID], ranks) {
				t := dag.Task(id)
				st := metrics.ST(t, k, dag.Predecessors(id), hostOf, sched.TaskAFT, nil, costTable, meanBW)
				if free := vmFreeAt[vmID]; free > st {
					st = free
				}
				ft := metrics.FT(st, t, k)
				sched.TaskAST[id] = st
				sched.TaskAFT[id] = ft
				vmFreeAt[vmID] = ft
			}
		}
	}

	return sched, nil
}
