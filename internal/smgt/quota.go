package smgt

import "github.com/go-dagsched/dagsched/internal/model"

// Quota computes, for the given fleet and a level's population size,
// the per-VM quota threshold(k,l) = round(capacityShare(k) *
// levelSize), with at least 1 always granted. capacityShare(k) is
// processingCapacity(k) / total fleet capacity; when no VM carries
// capacity data (totalCap == 0), the base equal share ceil(levelSize/m)
// is used instead, so every VM is still guaranteed coverage. If the
// sum of quotas would still fall short of levelSize (possible only
// through rounding), the highest-capacity VM's quota is inflated to
// close the gap — the clamp-not-fail choice documented in DESIGN.md
// item 1.
func Quota(vms []*model.VM, levelSize int) map[int]int {
	quotas := make(map[int]int, len(vms))
	if levelSize == 0 || len(vms) == 0 {
		return quotas
	}

	base := ceilDiv(levelSize, len(vms))
	var totalCap float64
	for _, v := range vms {
		totalCap += v.ProcessingCapacity()
	}

	sum := 0
	for _, v := range vms {
		q := base
		if totalCap > 0 {
			q = roundInt(v.ProcessingCapacity() / totalCap * float64(levelSize))
		}
		if q < 1 {
			q = 1
		}
		quotas[v.ID] = q
		sum += q
	}

	if sum < levelSize {
		top := highestCapacityVM(vms)
		quotas[top] += levelSize - sum
	}

	return quotas
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

func roundInt(x float64) int {
	if x < 0 {
		return -roundInt(-x)
	}
	return int(x + 0.5)
}

// highestCapacityVM returns the id of the VM with the greatest
// processing capacity, ties broken by lowest id.
func highestCapacityVM(vms []*model.VM) int {
	best := vms[0]
	for _, v := range vms[1:] {
		if v.ProcessingCapacity() > best.ProcessingCapacity() ||
			(v.ProcessingCapacity() == best.ProcessingCapacity() && v.ID < best.ID) {
			best = v
		}
	}
	return best.ID
}
