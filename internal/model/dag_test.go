package model_test

import (
	"errors"
	"testing"

	"github.com/go-dagsched/dagsched/internal/model"
)

func mustTask(t *testing.T, id int, size float64, opts ...model.TaskOption) *model.Task {
	t.Helper()
	task, err := model.NewTask(id, size, opts...)
	if err != nil {
		t.Fatalf("NewTask(%d): %v", id, err)
	}
	return task
}

func TestNewDAG_LinearChain(t *testing.T) {
	t0 := mustTask(t, 0, 10, model.WithSuccessors(1))
	t1 := mustTask(t, 1, 10, model.WithPredecessors(0), model.WithSuccessors(2))
	t2 := mustTask(t, 2, 10, model.WithPredecessors(1))

	dag, err := model.NewDAG([]*model.Task{t0, t1, t2})
	if err != nil {
		t.Fatalf("NewDAG: %v", err)
	}

	if got := dag.EntryTasks(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("EntryTasks = %v, want [0]", got)
	}
	if got := dag.ExitTasks(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("ExitTasks = %v, want [2]", got)
	}
	for id, want := range map[int]int{0: 0, 1: 1, 2: 2} {
		if got := dag.Level(id); got != want {
			t.Errorf("Level(%d) = %d, want %d", id, got, want)
		}
	}
}

func TestNewDAG_Cycle(t *testing.T) {
	t0 := mustTask(t, 0, 1, model.WithSuccessors(1), model.WithPredecessors(1))
	t1 := mustTask(t, 1, 1, model.WithSuccessors(0), model.WithPredecessors(0))

	_, err := model.NewDAG([]*model.Task{t0, t1})
	if !errors.Is(err, model.ErrMalformedGraph) {
		t.Fatalf("NewDAG cycle: got %v, want ErrMalformedGraph", err)
	}
}

func TestNewDAG_NoEntry(t *testing.T) {
	// A single self-referencing task has a predecessor (itself), so no entry.
	t0 := mustTask(t, 0, 1, model.WithPredecessors(0), model.WithSuccessors(0))

	_, err := model.NewDAG([]*model.Task{t0})
	if !errors.Is(err, model.ErrMalformedGraph) {
		t.Fatalf("NewDAG no-entry: got %v, want ErrMalformedGraph", err)
	}
}

func TestNewDAG_UnknownTask(t *testing.T) {
	t0 := mustTask(t, 0, 1, model.WithSuccessors(99))

	_, err := model.NewDAG([]*model.Task{t0})
	if !errors.Is(err, model.ErrUnknownTask) {
		t.Fatalf("NewDAG unknown ref: got %v, want ErrUnknownTask", err)
	}
}

func TestNewDAG_ForkJoinLevels(t *testing.T) {
	t0 := mustTask(t, 0, 10, model.WithSuccessors(1, 2))
	t1 := mustTask(t, 1, 5, model.WithPredecessors(0), model.WithSuccessors(3))
	t2 := mustTask(t, 2, 5, model.WithPredecessors(0), model.WithSuccessors(3))
	t3 := mustTask(t, 3, 10, model.WithPredecessors(1, 2))

	dag, err := model.NewDAG([]*model.Task{t0, t1, t2, t3})
	if err != nil {
		t.Fatalf("NewDAG: %v", err)
	}

	levels := dag.Levels()
	if got := levels[0]; len(got) != 1 || got[0] != 0 {
		t.Errorf("level 0 = %v, want [0]", got)
	}
	if got := levels[1]; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("level 1 = %v, want [1 2]", got)
	}
	if got := levels[2]; len(got) != 1 || got[0] != 3 {
		t.Errorf("level 2 = %v, want [3]", got)
	}
}
