package model

import (
	"fmt"
	"sort"
)

// DAG is the induced structure over a set of Tasks: canonical
// predecessor/successor adjacency (reconciled from whichever side the
// caller populated), a topological order, entry/exit task sets, and a
// per-task level (longest path, in edges, from an entry task).
//
// A DAG is immutable after NewDAG returns; nothing under internal/
// ever mutates it in place.
type DAG struct {
	tasks map[int]*Task

	pred map[int][]int
	succ map[int][]int

	order []int
	entry []int
	exit  []int

	level map[int]int
	byLvl map[int][]int
}

// NewDAG validates and constructs a DAG from a set of tasks.
//
// Validation, in order:
//  1. no duplicate ids (ErrDuplicateID)
//  2. every id named in a Pred/Succ list exists (ErrUnknownTask)
//  3. at least one entry task and one exit task (ErrMalformedGraph)
//  4. no cycle (ErrMalformedGraph)
//
// Pred and Succ are reconciled: if task a lists b as a successor, b is
// treated as having a as a predecessor even if b.Pred omitted it, and
// vice versa. This mirrors the teacher's defensive adjacency cleanup
// in core.RemoveVertex rather than rejecting redundant-but-consistent
// input.
func NewDAG(tasks []*Task) (*DAG, error) {
	byID := make(map[int]*Task, len(tasks))
	for _, t := range tasks {
		if _, dup := byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: task %d", ErrDuplicateID, t.ID)
		}
		byID[t.ID] = t
	}

	predSet := make(map[int]map[int]struct{}, len(tasks))
	succSet := make(map[int]map[int]struct{}, len(tasks))
	for id := range byID {
		predSet[id] = make(map[int]struct{})
		succSet[id] = make(map[int]struct{})
	}
	link := func(p, s int) error {
		if _, ok := byID[p]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownTask, p)
		}
		if _, ok := byID[s]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownTask, s)
		}
		succSet[p][s] = struct{}{}
		predSet[s][p] = struct{}{}
		return nil
	}
	for _, t := range tasks {
		for _, s := range t.Succ {
			if err := link(t.ID, s); err != nil {
				return nil, err
			}
		}
		for _, p := range t.Pred {
			if err := link(p, t.ID); err != nil {
				return nil, err
			}
		}
	}

	d := &DAG{
		tasks: byID,
		pred:  toSortedAdj(predSet),
		succ:  toSortedAdj(succSet),
	}

	for id := range byID {
		if len(d.pred[id]) == 0 {
			d.entry = append(d.entry, id)
		}
		if len(d.succ[id]) == 0 {
			d.exit = append(d.exit, id)
		}
	}
	sort.Ints(d.entry)
	sort.Ints(d.exit)
	if len(d.entry) == 0 {
		return nil, fmt.Errorf("%w: no entry task", ErrMalformedGraph)
	}
	if len(d.exit) == 0 {
		return nil, fmt.Errorf("%w: no exit task", ErrMalformedGraph)
	}

	if err := d.topoAndLevels(); err != nil {
		return nil, err
	}

	return d, nil
}

func toSortedAdj(m map[int]map[int]struct{}) map[int][]int {
	out := make(map[int][]int, len(m))
	for id, set := range m {
		ids := make([]int, 0, len(set))
		for n := range set {
			ids = append(ids, n)
		}
		sort.Ints(ids)
		out[id] = ids
	}
	return out
}

// topoAndLevels runs Kahn's algorithm (ties broken by ascending id, so
// the order is deterministic) and assigns levels in the same pass:
// level(entry) = 0, level(t) = 1 + max(level(p) for p in pred(t)).
func (d *DAG) topoAndLevels() error {
	indeg := make(map[int]int, len(d.tasks))
	for id := range d.tasks {
		indeg[id] = len(d.pred[id])
	}

	ready := make([]int, 0, len(d.entry))
	ready = append(ready, d.entry...)
	sort.Ints(ready)

	d.level = make(map[int]int, len(d.tasks))
	for _, id := range d.entry {
		d.level[id] = 0
	}

	order := make([]int, 0, len(d.tasks))
	for len(ready) > 0 {
		sort.Ints(ready)
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, s := range d.succ[id] {
			if lv := d.level[id] + 1; lv > d.level[s] {
				d.level[s] = lv
			}
			indeg[s]--
			if indeg[s] == 0 {
				ready = append(ready, s)
			}
		}
	}

	if len(order) != len(d.tasks) {
		return fmt.Errorf("%w: cycle detected", ErrMalformedGraph)
	}
	d.order = order

	d.byLvl = make(map[int][]int)
	for id, lv := range d.level {
		d.byLvl[lv] = append(d.byLvl[lv], id)
	}
	for lv := range d.byLvl {
		sort.Ints(d.byLvl[lv])
	}

	return nil
}

// Task returns the task with the given id, or nil if absent.
func (d *DAG) Task(id int) *Task { return d.tasks[id] }

// Tasks returns all tasks, unordered.
func (d *DAG) Tasks() map[int]*Task { return d.tasks }

// Predecessors returns the sorted predecessor ids of id.
func (d *DAG) Predecessors(id int) []int { return d.pred[id] }

// Successors returns the sorted successor ids of id.
func (d *DAG) Successors(id int) []int { return d.succ[id] }

// EntryTasks returns the sorted ids with no predecessors.
func (d *DAG) EntryTasks() []int { return d.entry }

// ExitTasks returns the sorted ids with no successors.
func (d *DAG) ExitTasks() []int { return d.exit }

// TopologicalOrder returns a valid topological order of all task ids.
func (d *DAG) TopologicalOrder() []int { return d.order }

// Level returns the level assigned to id.
func (d *DAG) Level(id int) int { return d.level[id] }

// Levels returns, for each level present, the ascending-sorted task
// ids at that level (spec §4.3 LevelTasks).
func (d *DAG) Levels() map[int][]int { return d.byLvl }

// MaxLevel returns the highest level present in the DAG.
func (d *DAG) MaxLevel() int {
	max := 0
	for lv := range d.byLvl {
		if lv > max {
			max = lv
		}
	}
	return max
}
