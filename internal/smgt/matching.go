package smgt

import (
	"fmt"
	"sort"

	"github.com/go-dagsched/dagsched/internal/model"
)

// MatchLevel runs task-proposing deferred acceptance for one level:
// each unmatched task proposes to its current top choice, each VM
// retains its top quota(k) proposals (by VM preference) among its
// tentative holds plus this round's proposals, and rejects the rest.
// Returns the final task->VM assignment for levelTasks.
func MatchLevel(levelTasks []int, taskPrefs map[int][]int, ranks map[int]model.Rank, quotas map[int]int) (map[int]int, error) {
	ptr := make(map[int]int, len(levelTasks))
	unmatched := append([]int(nil), levelTasks...)
	held := make(map[int][]int)

	// Bound the number of rounds: each round either matches at least
	// one task or advances at least one proposal pointer, and pointers
	// only ever advance, so 1 + the total length of all preference
	// lists is a safe ceiling.
	maxRounds := 1
	for _, t := range levelTasks {
		maxRounds += len(taskPrefs[t])
	}

	for round := 0; len(unmatched) > 0; round++ {
		if round >= maxRounds {
			return nil, fmt.Errorf("%w: level did not converge", ErrInsufficientQuota)
		}

		proposals := make(map[int][]int)
		for _, t := range unmatched {
			prefs := taskPrefs[t]
			if ptr[t] >= len(prefs) {
				return nil, fmt.Errorf("%w: task %d exhausted its preference list", ErrInsufficientQuota, t)
			}
			k := prefs[ptr[t]]
			proposals[k] = append(proposals[k], t)
		}

		var next []int
		touched := make(map[int]struct{}, len(proposals))
		for k := range proposals {
			touched[k] = struct{}{}
		}
		for k := range held {
			touched[k] = struct{}{}
		}
		for k := range touched {
			candidates := append(append([]int(nil), held[k]...), proposals[k]...)
			sort.Slice(candidates, func(i, j int) bool {
				return vmPrefers(candidates[i], candidates[j], ranks)
			})
			limit := quotas[k]
			if limit > len(candidates) {
				limit = len(candidates)
			}
			held[k] = append([]int(nil), candidates[:limit]...)
			for _, rejected := range candidates[limit:] {
				ptr[rejected]++
				next = append(next, rejected)
			}
		}
		unmatched = next
	}

	assignment := make(map[int]int, len(levelTasks))
	for k, ts := range held {
		for _, t := range ts {
			assignment[t] = k
		}
	}
	return assignment, nil
}
