// Package metrics implements the pure scalar formulas shared by every
// scheduling phase: execution/transmission time, start/finish time,
// makespan, and the three schedule-quality ratios (SLR, AVU, VF).
//
// Every function here is side-effect free and never reads or writes a
// model.Schedule directly; callers supply whatever maps they already
// hold. This mirrors the teacher's dijkstra package, which keeps its
// relaxation math free of any graph-mutation concern.
package metrics

import (
	"math"

	"github.com/go-dagsched/dagsched/internal/model"
)

// Epsilon is the default tolerance for interval/float comparisons
// outside invariant tests (spec §9): 1e-6.
const Epsilon = 1e-6

// ET returns the execution time of t on k: size/capacity, or +Inf if
// k's processing capacity is not positive.
func ET(t *model.Task, k *model.VM) float64 {
	cap := k.ProcessingCapacity()
	if cap <= 0 {
		return math.Inf(1)
	}
	return t.Size / cap
}

// MinET returns min_k ET(t,k) over every VM in vms.
func MinET(t *model.Task, vms []*model.VM) float64 {
	min := math.Inf(1)
	for _, k := range vms {
		if e := ET(t, k); e < min {
			min = e
		}
	}
	return min
}

// AvgET returns the arithmetic mean of ET(t,k) over every VM in vms.
func AvgET(t *model.Task, vms []*model.VM) float64 {
	if len(vms) == 0 {
		return 0
	}
	var sum float64
	for _, k := range vms {
		sum += ET(t, k)
	}
	return sum / float64(len(vms))
}

// Ttrans returns the transmission time of the edge (i,j) when i runs
// on k and j runs on l, given the reference-bandwidth cost table and
// B̄: 0 when k == l, cost(i,j) * B̄ / B(k,l) otherwise, or, when
// B(k,l) <= 0 and k != l, +Inf for a positive cost and 0 for a zero cost.
func Ttrans(i, j int, k, l *model.VM, costTable map[model.CostKey]float64, meanBW float64) float64 {
	if k.ID == l.ID {
		return 0
	}
	cost := costTable[model.CostKey{Src: i, Dst: j}]
	bw := k.BandwidthTo(l.ID)
	if bw <= 0 {
		if cost == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return cost * meanBW / bw
}

// ST returns the start time of t on k given its predecessors' AFTs
// and hosting VMs: 0 if t has no predecessors, else the maximum over
// every predecessor p of AFT(p) + Ttrans(p,t,VM(p),k). dupAFT, when
// non-nil, supplies the duplicate-of-p AFT to use instead of AFT(p)
// (with its transmission cost treated as 0) whenever a duplicate of p
// lives on k (invariant I3).
func ST(t *model.Task, k *model.VM, preds []int, vmOf map[int]*model.VM, aft map[int]float64,
	dupAFT func(predID, vmID int) (float64, bool), costTable map[model.CostKey]float64, meanBW float64) float64 {
	if len(preds) == 0 {
		return 0
	}
	var max float64
	first := true
	for _, p := range preds {
		var arrival float64
		if dupAFT != nil {
			if a, ok := dupAFT(p, k.ID); ok {
				arrival = a // duplicate hosted on k: zero transmission cost
			} else {
				arrival = aft[p] + Ttrans(p, t.ID, vmOf[p], k, costTable, meanBW)
			}
		} else {
			arrival = aft[p] + Ttrans(p, t.ID, vmOf[p], k, costTable, meanBW)
		}
		if first || arrival > max {
			max = arrival
			first = false
		}
	}
	return max
}

// FT returns the finish time of t on k given its start time.
func FT(st float64, t *model.Task, k *model.VM) float64 {
	return st + ET(t, k)
}

// VMMakespan returns the maximum AFT among the given task ids (a
// single VM's busy-until time).
func VMMakespan(taskIDs []int, aft map[int]float64) float64 {
	var max float64
	for _, id := range taskIDs {
		if v := aft[id]; v > max {
			max = v
		}
	}
	return max
}

// Makespan returns the maximum AFT across every VM's task list.
func Makespan(vmSchedule map[int][]int, aft map[int]float64) float64 {
	var max float64
	for _, ids := range vmSchedule {
		if m := VMMakespan(ids, aft); m > max {
			max = m
		}
	}
	return max
}

// SLR returns the Schedule Length Ratio: makespan divided by the sum,
// over every task on the critical path, of its min-over-VMs ET. +Inf
// if the critical path is empty or that sum is 0.
func SLR(makespan float64, criticalPath map[int]struct{}, tasks map[int]*model.Task, vms []*model.VM) float64 {
	var denom float64
	for id := range criticalPath {
		denom += MinET(tasks[id], vms)
	}
	if denom == 0 {
		return math.Inf(1)
	}
	return makespan / denom
}

// VU returns the utilization of VM k: the sum of ET(t,k) for every
// task t assigned to k, divided by makespan.
func VU(taskIDs []int, tasks map[int]*model.Task, k *model.VM, makespan float64) float64 {
	if makespan == 0 {
		return 0
	}
	var sum float64
	for _, id := range taskIDs {
		sum += ET(tasks[id], k)
	}
	return sum / makespan
}

// AVU returns the mean VU across every VM in vmSchedule.
func AVU(vmSchedule map[int][]int, tasks map[int]*model.Task, vmOf map[int]*model.VM, makespan float64) float64 {
	if len(vmSchedule) == 0 {
		return 0
	}
	var sum float64
	for vmID, ids := range vmSchedule {
		sum += VU(ids, tasks, vmOf[vmID], makespan)
	}
	return sum / float64(len(vmSchedule))
}

// Satisfaction returns S(t) = ET(t, assigned) / min_k ET(t,k).
func Satisfaction(t *model.Task, assigned *model.VM, vms []*model.VM) float64 {
	min := MinET(t, vms)
	if min == 0 {
		return 0
	}
	return ET(t, assigned) / min
}

// VF returns the Variance of Fairness: the mean squared deviation of
// each task's Satisfaction from the mean satisfaction.
func VF(tasks map[int]*model.Task, vmOf map[int]*model.VM, vms []*model.VM) float64 {
	if len(tasks) == 0 {
		return 0
	}
	s := make([]float64, 0, len(tasks))
	var sum float64
	for id, t := range tasks {
		v := Satisfaction(t, vmOf[id], vms)
		s = append(s, v)
		sum += v
	}
	mean := sum / float64(len(s))
	var variance float64
	for _, v := range s {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(s))
}
