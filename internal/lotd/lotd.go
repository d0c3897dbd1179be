package lotd

import (
	"math"
	"sort"

	"github.com/go-dagsched/dagsched/internal/metrics"
	"github.com/go-dagsched/dagsched/internal/model"
)

// Run executes the LOTD duplication pass over the SMGT pre-schedule
// pre and returns a new, independent Schedule — pre is never mutated
// (model.Schedule.Clone). sel chooses the candidate task set; pass
// nil to use DefaultSelector.
//
// Every failed placement is a silent skip: LOTD raises no errors
// (spec §4.5/§7).
func Run(dag *model.DAG, vms []*model.VM, pre *model.Schedule, costTable map[model.CostKey]float64, meanBW float64, sel CandidateSelector) *model.Schedule {
	if sel == nil {
		sel = DefaultSelector
	}
	sched := pre.Clone()

	vmOf := make(map[int]*model.VM, len(vms))
	for _, v := range vms {
		vmOf[v.ID] = v
	}

	for _, tID := range sel(dag) {
		t := dag.Task(tID)
		hostVM := sched.TaskToVM[tID]

		for _, k := range successorHosts(dag, sched, tID, hostVM) {
			tryDuplicate(dag, vmOf, sched, t, hostVM, k, costTable, meanBW)
		}
	}

	return sched
}

// successorHosts returns, ascending by VM id, the set H of VMs
// hosting at least one successor of tID, excluding the VM currently
// executing tID and any VM already holding a duplicate of tID — the
// set spec §4.5 step 2 and invariant I6 describe.
func successorHosts(dag *model.DAG, sched *model.Schedule, tID, hostVM int) []int {
	set := make(map[int]struct{})
	for _, s := range dag.Successors(tID) {
		vm := sched.TaskToVM[s]
		if vm == hostVM || sched.HasDuplicateOn(tID, vm) {
			continue
		}
		set[vm] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for vm := range set {
		out = append(out, vm)
	}
	sort.Ints(out)
	return out
}

// representativeSuccessor returns the lowest-id successor of tID that
// is scheduled on k, used to look up the edge-specific cost-table
// entry for the arrival-time comparison (the spec's
// "Ttrans(t, ·, VM(t), k)" leaves the edge unspecified when several of
// t's successors share k; we pick the lowest id deterministically).
func representativeSuccessor(dag *model.DAG, sched *model.Schedule, tID, k int) int {
	best := -1
	for _, s := range dag.Successors(tID) {
		if sched.TaskToVM[s] == k && (best == -1 || s < best) {
			best = s
		}
	}
	return best
}

// tryDuplicate attempts to place a duplicate of t on VM k, filling the
// first idle slot that both fits t's execution time and arrives
// strictly before the data the original t would otherwise deliver to
// k (spec §4.5 step 2).
func tryDuplicate(dag *model.DAG, vmOf map[int]*model.VM, sched *model.Schedule, t *model.Task, srcVM, k int, costTable map[model.CostKey]float64, meanBW float64) {
	kVM := vmOf[k]
	srcVMObj := vmOf[srcVM]

	exec := metrics.ET(t, kVM)
	if math.IsInf(exec, 1) {
		return // k cannot execute t at all
	}

	repSucc := representativeSuccessor(dag, sched, t.ID, k)
	if repSucc == -1 {
		return // defensive: successorHosts guarantees this shouldn't happen
	}
	arrival := sched.TaskAFT[t.ID] + metrics.Ttrans(t.ID, repSucc, srcVMObj, kVM, costTable, meanBW)

	busy := vmIntervals(sched, k)
	var accepted *interval
	for _, slot := range idleSlots(busy) {
		if slot.End-slot.Start+metrics.Epsilon < exec {
			continue // too small
		}
		if slot.Start+exec >= arrival-metrics.Epsilon {
			continue // not strictly better than the original arrival: reject, keep scanning
		}
		accepted = &interval{Start: slot.Start, End: slot.Start + exec}
		break
	}
	if accepted == nil {
		return
	}

	// Safety re-check against the concrete interval before committing.
	for _, iv := range busy {
		if overlaps(*accepted, iv) {
			return
		}
	}

	sched.Duplicates[model.DuplicateKey{TaskID: t.ID, VMID: k}] = model.DuplicateEntry{
		AST: accepted.Start,
		AFT: accepted.End,
	}

	propagateTiming(dag, vmOf, sched, costTable, meanBW)
}
