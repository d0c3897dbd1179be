package pipeline_test

import (
	"reflect"
	"testing"

	"github.com/go-dagsched/dagsched/internal/model"
	"github.com/go-dagsched/dagsched/internal/pipeline"
)

// TestSchedule_LinearChainSingleVM: three tasks in a straight chain on
// one VM serialize back to back with zero transmission cost.
func TestSchedule_LinearChainSingleVM(t *testing.T) {
	t0, _ := model.NewTask(0, 10, model.WithSuccessors(1))
	t1, _ := model.NewTask(1, 10, model.WithPredecessors(0), model.WithSuccessors(2))
	t2, _ := model.NewTask(2, 10, model.WithPredecessors(1))
	dag, err := model.NewDAG([]*model.Task{t0, t1, t2})
	if err != nil {
		t.Fatalf("NewDAG: %v", err)
	}
	v0, _ := model.NewVM(0, model.WithProcessingCapacity(1))

	sched, err := pipeline.Schedule(dag, []*model.VM{v0}, 1.0, pipeline.Options{})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	want := map[int][2]float64{0: {0, 10}, 1: {10, 20}, 2: {20, 30}}
	for id, w := range want {
		if sched.TaskAST[id] != w[0] || sched.TaskAFT[id] != w[1] {
			t.Errorf("task %d = [%v,%v), want [%v,%v)", id, sched.TaskAST[id], sched.TaskAFT[id], w[0], w[1])
		}
	}
	if sched.Makespan() != 30 {
		t.Errorf("makespan = %v, want 30", sched.Makespan())
	}
	if len(sched.Duplicates) != 0 {
		t.Errorf("expected no duplicates on a single-VM fleet, got %d", len(sched.Duplicates))
	}
}

// TestSchedule_ForkJoinInvariants checks the structural guarantees
// that must hold for any fork-join graph regardless of which VM wins
// each task: every task is scheduled, no two tasks (or a task and a
// duplicate) overlap on the same VM, and the critical path is a
// non-empty subset of the task set.
func TestSchedule_ForkJoinInvariants(t *testing.T) {
	t0, _ := model.NewTask(0, 8, model.WithSuccessors(1, 2))
	t1, _ := model.NewTask(1, 6, model.WithPredecessors(0), model.WithSuccessors(3))
	t2, _ := model.NewTask(2, 6, model.WithPredecessors(0), model.WithSuccessors(3))
	t3, _ := model.NewTask(3, 4, model.WithPredecessors(1, 2))
	dag, err := model.NewDAG([]*model.Task{t0, t1, t2, t3})
	if err != nil {
		t.Fatalf("NewDAG: %v", err)
	}
	v0, _ := model.NewVM(0, model.WithProcessingCapacity(1), model.WithBandwidth(1, 2))
	v1, _ := model.NewVM(1, model.WithProcessingCapacity(1), model.WithBandwidth(0, 2))
	vms := []*model.VM{v0, v1}

	sched, err := pipeline.Schedule(dag, vms, 0.5, pipeline.Options{})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	for id := range dag.Tasks() {
		if _, ok := sched.TaskAFT[id]; !ok {
			t.Errorf("task %d has no finish time", id)
		}
		if _, ok := sched.TaskToVM[id]; !ok {
			t.Errorf("task %d was never assigned a VM", id)
		}
	}

	assertNoOverlap(t, sched)

	for id := range sched.CriticalPath {
		if _, ok := dag.Tasks()[id]; !ok {
			t.Errorf("critical path contains unknown task %d", id)
		}
	}
	if len(sched.CriticalPath) == 0 {
		t.Error("expected a non-empty critical path")
	}
}

// TestSchedule_Deterministic exercises the spec's determinism
// property: two runs over the same inputs must produce byte-identical
// schedules, since every tie-break in DCP/SMGT/LOTD is a total order.
func TestSchedule_Deterministic(t *testing.T) {
	t0, _ := model.NewTask(0, 8, model.WithSuccessors(1, 2))
	t1, _ := model.NewTask(1, 6, model.WithPredecessors(0), model.WithSuccessors(3))
	t2, _ := model.NewTask(2, 6, model.WithPredecessors(0), model.WithSuccessors(3))
	t3, _ := model.NewTask(3, 4, model.WithPredecessors(1, 2))
	dag, err := model.NewDAG([]*model.Task{t0, t1, t2, t3})
	if err != nil {
		t.Fatalf("NewDAG: %v", err)
	}
	v0, _ := model.NewVM(0, model.WithProcessingCapacity(1), model.WithBandwidth(1, 2))
	v1, _ := model.NewVM(1, model.WithProcessingCapacity(1), model.WithBandwidth(0, 2))
	vms := []*model.VM{v0, v1}

	a, err := pipeline.Schedule(dag, vms, 0.5, pipeline.Options{})
	if err != nil {
		t.Fatalf("Schedule (first run): %v", err)
	}
	b, err := pipeline.Schedule(dag, vms, 0.5, pipeline.Options{})
	if err != nil {
		t.Fatalf("Schedule (second run): %v", err)
	}

	if !reflect.DeepEqual(a.TaskAST, b.TaskAST) || !reflect.DeepEqual(a.TaskAFT, b.TaskAFT) {
		t.Error("two runs produced different timings")
	}
	if !reflect.DeepEqual(a.TaskToVM, b.TaskToVM) {
		t.Error("two runs produced different VM assignments")
	}
	if !reflect.DeepEqual(a.Duplicates, b.Duplicates) {
		t.Error("two runs produced different duplicate placements")
	}
}

func assertNoOverlap(t *testing.T, sched *model.Schedule) {
	t.Helper()
	type interval struct {
		start, end float64
		label      string
	}
	byVM := make(map[int][]interval)
	for vmID, ids := range sched.VMSchedule {
		for _, id := range ids {
			byVM[vmID] = append(byVM[vmID], interval{sched.TaskAST[id], sched.TaskAFT[id], "task"})
		}
	}
	for key, d := range sched.Duplicates {
		byVM[key.VMID] = append(byVM[key.VMID], interval{d.AST, d.AFT, "duplicate"})
	}
	const eps = 1e-6
	for vmID, ivs := range byVM {
		for i := 0; i < len(ivs); i++ {
			for j := i + 1; j < len(ivs); j++ {
				a, b := ivs[i], ivs[j]
				if a.start < b.end-eps && b.start < a.end-eps {
					t.Errorf("vm %d: overlapping intervals [%v,%v) and [%v,%v)", vmID, a.start, a.end, b.start, b.end)
				}
			}
		}
	}
}
