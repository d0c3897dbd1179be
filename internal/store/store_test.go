package store_test

import (
	"testing"

	"github.com/go-dagsched/dagsched/internal/model"
	"github.com/go-dagsched/dagsched/internal/store"
)

func buildSchedule() *model.Schedule {
	sched := model.NewSchedule()
	sched.VMSchedule[0] = []int{0, 1}
	sched.TaskToVM[0] = 0
	sched.TaskToVM[1] = 0
	sched.TaskAST[0], sched.TaskAFT[0] = 0, 10
	sched.TaskAST[1], sched.TaskAFT[1] = 10, 18
	sched.Duplicates[model.DuplicateKey{TaskID: 0, VMID: 1}] = model.DuplicateEntry{AST: 0, AFT: 10}
	return sched
}

func TestStore_SaveAndGetRoundTrips(t *testing.T) {
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	sched := buildSchedule()
	id, err := s.Save(0.5, sched)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("Save returned an empty run id")
	}

	run, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.CCR != 0.5 {
		t.Errorf("CCR = %v, want 0.5", run.CCR)
	}
	if run.Makespan != sched.Makespan() {
		t.Errorf("Makespan = %v, want %v", run.Makespan, sched.Makespan())
	}
	if run.ScheduleJS == "" {
		t.Error("expected a non-empty serialized schedule payload")
	}
}

func TestStore_GetUnknownRunFails(t *testing.T) {
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.Get("does-not-exist"); err == nil {
		t.Error("expected an error for an unknown run id")
	}
}

func TestStore_ListOrdersNewestFirst(t *testing.T) {
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	sched := buildSchedule()
	firstID, err := s.Save(0.1, sched)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	secondID, err := s.Save(0.2, sched)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	runs, err := s.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != secondID || runs[1].ID != firstID {
		t.Errorf("list order = [%s %s], want newest first [%s %s]", runs[0].ID, runs[1].ID, secondID, firstID)
	}
}
