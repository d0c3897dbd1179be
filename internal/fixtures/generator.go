// Package fixtures produces synthetic DAG+VM inputs from a seeded PRNG.
//
// It stands in for the spec's excluded "random generation" collaborator
// (spec.md §1: "only their interfaces to the core" are in scope) so
// cmd/schedctl and the test suite have something deterministic to run
// the pipeline against. The literal-dataset-building style (explicit
// layer-by-layer construction, no hidden global state) follows the
// teacher's own examples/ukrainian_map_data.go and
// builder/letters_spec.go fixtures.
package fixtures

import (
	"fmt"
	"math/rand"

	"github.com/go-dagsched/dagsched/internal/model"
)

// WorkflowSpec parameterizes a synthetic fan-out/fan-in DAG: width
// tasks per layer, depth layers, task sizes drawn uniformly from
// [MinSize, MaxSize].
type WorkflowSpec struct {
	Layers  int
	Width   int
	MinSize float64
	MaxSize float64
}

// FleetSpec parameterizes a synthetic VM fleet: count VMs, processing
// capacity drawn uniformly from [MinCapacity, MaxCapacity], bandwidth
// between every ordered pair drawn uniformly from [MinBandwidth,
// MaxBandwidth].
type FleetSpec struct {
	Count         int
	MinCapacity   float64
	MaxCapacity   float64
	MinBandwidth  float64
	MaxBandwidth  float64
}

// GenerateWorkflow builds a deterministic layered DAG from rng: layer
// 0 is a single entry task fanning out to Width tasks per subsequent
// layer, each task in layer L+1 depending on every task in layer L,
// converging to a single exit task. Task ids are assigned in layer
// order starting at 0.
func GenerateWorkflow(rng *rand.Rand, spec WorkflowSpec) ([]*model.Task, error) {
	if spec.Layers < 1 || spec.Width < 1 {
		return nil, fmt.Errorf("fixtures: layers and width must be >= 1")
	}

	type built struct {
		id   int
		size float64
	}

	nextID := 0
	newSize := func() float64 {
		return spec.MinSize + rng.Float64()*(spec.MaxSize-spec.MinSize)
	}

	layers := make([][]built, 0, spec.Layers+2)
	layers = append(layers, []built{{id: nextID, size: newSize()}})
	nextID++

	for l := 0; l < spec.Layers; l++ {
		width := spec.Width
		layer := make([]built, 0, width)
		for i := 0; i < width; i++ {
			layer = append(layer, built{id: nextID, size: newSize()})
			nextID++
		}
		layers = append(layers, layer)
	}
	layers = append(layers, []built{{id: nextID, size: newSize()}})
	nextID++

	tasks := make([]*model.Task, 0, nextID)
	for li, layer := range layers {
		for _, b := range layer {
			var opts []model.TaskOption
			if li > 0 {
				preds := make([]int, 0, len(layers[li-1]))
				for _, p := range layers[li-1] {
					preds = append(preds, p.id)
				}
				opts = append(opts, model.WithPredecessors(preds...))
			}
			if li < len(layers)-1 {
				succs := make([]int, 0, len(layers[li+1]))
				for _, s := range layers[li+1] {
					succs = append(succs, s.id)
				}
				opts = append(opts, model.WithSuccessors(succs...))
			}
			t, err := model.NewTask(b.id, b.size, opts...)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, t)
		}
	}

	return tasks, nil
}

// GenerateFleet builds a deterministic VM fleet from rng: Count VMs
// with independently drawn processing capacity, and a full pairwise
// bandwidth matrix (self-bandwidth always 0, enforced by model.NewVM).
func GenerateFleet(rng *rand.Rand, spec FleetSpec) ([]*model.VM, error) {
	if spec.Count < 1 {
		return nil, fmt.Errorf("fixtures: fleet count must be >= 1")
	}

	capacities := make([]float64, spec.Count)
	for i := range capacities {
		capacities[i] = spec.MinCapacity + rng.Float64()*(spec.MaxCapacity-spec.MinCapacity)
	}

	bandwidth := make([][]float64, spec.Count)
	for i := range bandwidth {
		bandwidth[i] = make([]float64, spec.Count)
		for j := range bandwidth[i] {
			if i == j {
				continue
			}
			bandwidth[i][j] = spec.MinBandwidth + rng.Float64()*(spec.MaxBandwidth-spec.MinBandwidth)
		}
	}

	vms := make([]*model.VM, 0, spec.Count)
	for i := 0; i < spec.Count; i++ {
		opts := []model.VMOption{model.WithProcessingCapacity(capacities[i])}
		for j := 0; j < spec.Count; j++ {
			if i == j {
				continue
			}
			opts = append(opts, model.WithBandwidth(j, bandwidth[i][j]))
		}
		v, err := model.NewVM(i, opts...)
		if err != nil {
			return nil, err
		}
		vms = append(vms, v)
	}

	return vms, nil
}
