package dcp

import "github.com/go-dagsched/dagsched/internal/model"

// downwardRanks computes d(t) for every task: the longest weighted
// path from any entry task to t. Processed in ascending topological
// order so every predecessor's d is already final when t is visited.
func downwardRanks(dag *model.DAG, avg map[int]float64, costTable map[model.CostKey]float64) map[int]float64 {
	d := make(map[int]float64, len(dag.Tasks()))
	for _, id := range dag.TopologicalOrder() {
		preds := dag.Predecessors(id)
		if len(preds) == 0 {
			d[id] = avg[id]
			continue
		}
		var best float64
		first := true
		for _, p := range preds {
			cand := d[p] + costTable[model.CostKey{Src: p, Dst: id}]
			if first || cand > best {
				best = cand
				first = false
			}
		}
		d[id] = avg[id] + best
	}
	return d
}

// upwardRanks computes u(t) for every task: the longest weighted path
// from t to any exit task. Processed in descending topological order
// so every successor's u is already final when t is visited.
func upwardRanks(dag *model.DAG, avg map[int]float64, costTable map[model.CostKey]float64) map[int]float64 {
	u := make(map[int]float64, len(dag.Tasks()))
	order := dag.TopologicalOrder()
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		succs := dag.Successors(id)
		if len(succs) == 0 {
			u[id] = avg[id]
			continue
		}
		var best float64
		first := true
		for _, s := range succs {
			cand := costTable[model.CostKey{Src: id, Dst: s}] + u[s]
			if first || cand > best {
				best = cand
				first = false
			}
		}
		u[id] = avg[id] + best
	}
	return u
}
