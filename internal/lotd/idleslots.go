package lotd

import (
	"math"
	"sort"

	"github.com/go-dagsched/dagsched/internal/metrics"
	"github.com/go-dagsched/dagsched/internal/model"
)

// interval is a half-open busy or idle window [Start, End).
type interval struct {
	Start float64
	End   float64
}

// vmIntervals collects the busy intervals on vmID from sched: its
// standard scheduled tasks plus any duplicates already hosted there.
func vmIntervals(sched *model.Schedule, vmID int) []interval {
	ids := sched.VMSchedule[vmID]
	out := make([]interval, 0, len(ids))
	for _, id := range ids {
		out = append(out, interval{Start: sched.TaskAST[id], End: sched.TaskAFT[id]})
	}
	for key, d := range sched.Duplicates {
		if key.VMID == vmID {
			out = append(out, interval{Start: d.AST, End: d.AFT})
		}
	}
	return out
}

// idleSlots returns the gaps in busy, sorted ascending by start, after
// merging overlapping/touching busy intervals, plus a trailing open
// gap [lastBusyEnd, +Inf).
func idleSlots(busy []interval) []interval {
	if len(busy) == 0 {
		return []interval{{Start: 0, End: math.Inf(1)}}
	}

	sorted := append([]interval(nil), busy...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := []interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End+metrics.Epsilon {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}

	var gaps []interval
	if merged[0].Start > metrics.Epsilon {
		gaps = append(gaps, interval{Start: 0, End: merged[0].Start})
	}
	for i := 1; i < len(merged); i++ {
		gaps = append(gaps, interval{Start: merged[i-1].End, End: merged[i].Start})
	}
	gaps = append(gaps, interval{Start: merged[len(merged)-1].End, End: math.Inf(1)})

	return gaps
}

// overlaps reports whether a and b share more than an epsilon sliver.
func overlaps(a, b interval) bool {
	return a.Start < b.End-metrics.Epsilon && b.Start < a.End-metrics.Epsilon
}
