package fixtures_test

import (
	"math/rand"
	"testing"

	"github.com/go-dagsched/dagsched/internal/fixtures"
	"github.com/go-dagsched/dagsched/internal/model"
)

func TestGenerateWorkflow_BuildsValidLayeredDAG(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tasks, err := fixtures.GenerateWorkflow(rng, fixtures.WorkflowSpec{
		Layers: 3, Width: 4, MinSize: 1, MaxSize: 10,
	})
	if err != nil {
		t.Fatalf("GenerateWorkflow: %v", err)
	}

	dag, err := model.NewDAG(tasks)
	if err != nil {
		t.Fatalf("generated workflow is not a valid DAG: %v", err)
	}
	if len(dag.EntryTasks()) != 1 || len(dag.ExitTasks()) != 1 {
		t.Errorf("expected exactly one entry and one exit task, got %d entries, %d exits",
			len(dag.EntryTasks()), len(dag.ExitTasks()))
	}
	// 1 entry + 3 layers of width 4 + 1 exit = 14 tasks.
	if len(tasks) != 14 {
		t.Errorf("task count = %d, want 14", len(tasks))
	}
	for _, task := range tasks {
		if task.Size < 1 || task.Size > 10 {
			t.Errorf("task %d size %v out of [1,10]", task.ID, task.Size)
		}
	}
}

func TestGenerateWorkflow_Deterministic(t *testing.T) {
	spec := fixtures.WorkflowSpec{Layers: 2, Width: 3, MinSize: 1, MaxSize: 5}
	a, err := fixtures.GenerateWorkflow(rand.New(rand.NewSource(42)), spec)
	if err != nil {
		t.Fatalf("GenerateWorkflow: %v", err)
	}
	b, err := fixtures.GenerateWorkflow(rand.New(rand.NewSource(42)), spec)
	if err != nil {
		t.Fatalf("GenerateWorkflow: %v", err)
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Size != b[i].Size {
			t.Fatalf("same-seed runs diverged at index %d: %+v != %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateWorkflow_RejectsInvalidSpec(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := fixtures.GenerateWorkflow(rng, fixtures.WorkflowSpec{Layers: 0, Width: 4}); err == nil {
		t.Error("expected an error for Layers < 1")
	}
	if _, err := fixtures.GenerateWorkflow(rng, fixtures.WorkflowSpec{Layers: 1, Width: 0}); err == nil {
		t.Error("expected an error for Width < 1")
	}
}

func TestGenerateFleet_BuildsFullBandwidthMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vms, err := fixtures.GenerateFleet(rng, fixtures.FleetSpec{
		Count: 5, MinCapacity: 1, MaxCapacity: 4, MinBandwidth: 1, MaxBandwidth: 10,
	})
	if err != nil {
		t.Fatalf("GenerateFleet: %v", err)
	}
	if len(vms) != 5 {
		t.Fatalf("got %d VMs, want 5", len(vms))
	}
	for _, v := range vms {
		if v.ProcessingCapacity() < 1 || v.ProcessingCapacity() > 4 {
			t.Errorf("vm %d capacity %v out of [1,4]", v.ID, v.ProcessingCapacity())
		}
		for _, peer := range vms {
			if peer.ID == v.ID {
				if v.BandwidthTo(peer.ID) != 0 {
					t.Errorf("vm %d self-bandwidth = %v, want 0", v.ID, v.BandwidthTo(peer.ID))
				}
				continue
			}
			if bw := v.BandwidthTo(peer.ID); bw < 1 || bw > 10 {
				t.Errorf("vm %d -> %d bandwidth %v out of [1,10]", v.ID, peer.ID, bw)
			}
		}
	}
}

func TestGenerateFleet_RejectsInvalidCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := fixtures.GenerateFleet(rng, fixtures.FleetSpec{Count: 0}); err == nil {
		t.Error("expected an error for Count < 1")
	}
}
