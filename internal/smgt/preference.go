package smgt

import (
	"sort"

	"github.com/go-dagsched/dagsched/internal/metrics"
	"github.com/go-dagsched/dagsched/internal/model"
)

// TaskPreferences returns, for every task, its VM preference list
// sorted ascending by ET(t,k) with ties broken by lower VM id.
func TaskPreferences(tasks map[int]*model.Task, vms []*model.VM) map[int][]int {
	out := make(map[int][]int, len(tasks))
	for id, t := range tasks {
		ids := make([]int, len(vms))
		et := make(map[int]float64, len(vms))
		for i, v := range vms {
			ids[i] = v.ID
			et[v.ID] = metrics.ET(t, v)
		}
		sort.Slice(ids, func(i, j int) bool {
			a, b := ids[i], ids[j]
			if et[a] != et[b] {
				return et[a] < et[b]
			}
			return a < b
		})
		out[id] = ids
	}
	return out
}

// vmPrefers reports whether task a is preferred over task b by a VM:
// greater downward rank wins, ties broken by lower task id.
func vmPrefers(a, b int, ranks map[int]model.Rank) bool {
	return model.RankPrefers(ranks, a, b)
}
