// Package ingest loads the scheduling core's inputs from a small JSON
// document: a task list, a VM fleet, and a CCR scalar.
//
// It stands in for the spec's excluded XML/CSV ingestion collaborator
// (spec.md §1). Plain encoding/json is used deliberately: no example
// repo in the retrieval pack parses a workflow-description format this
// system could borrow a library from, so this is the documented
// stdlib exception (DESIGN.md).
package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-dagsched/dagsched/internal/model"
)

// Document is the on-disk shape of a scheduling input file.
type Document struct {
	Tasks []TaskDoc `json:"tasks"`
	VMs   []VMDoc   `json:"vms"`
	CCR   float64   `json:"ccr"`
}

// TaskDoc is the JSON shape of one task.
type TaskDoc struct {
	ID      int             `json:"id"`
	Size    float64         `json:"size"`
	Pred    []int           `json:"pred"`
	Succ    []int           `json:"succ"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// VMDoc is the JSON shape of one VM.
type VMDoc struct {
	ID           int                `json:"id"`
	Capabilities map[string]float64 `json:"capabilities"`
	Bandwidth    map[string]float64 `json:"bandwidth"`
}

// Load parses a Document from r and builds the validated DAG, VM
// fleet, and CCR the pipeline expects.
func Load(r io.Reader) (*model.DAG, []*model.VM, float64, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, 0, fmt.Errorf("ingest: decode: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument builds the validated DAG, VM fleet, and CCR from an
// already-decoded Document.
func FromDocument(doc Document) (*model.DAG, []*model.VM, float64, error) {
	tasks := make([]*model.Task, 0, len(doc.Tasks))
	for _, td := range doc.Tasks {
		opts := []model.TaskOption{
			model.WithPredecessors(td.Pred...),
			model.WithSuccessors(td.Succ...),
		}
		for succID, w := range td.Weights {
			id, err := parseID(succID)
			if err != nil {
				return nil, nil, 0, fmt.Errorf("ingest: task %d weight key %q: %w", td.ID, succID, err)
			}
			opts = append(opts, model.WithEdgeWeight(id, w))
		}
		t, err := model.NewTask(td.ID, td.Size, opts...)
		if err != nil {
			return nil, nil, 0, err
		}
		tasks = append(tasks, t)
	}

	dag, err := model.NewDAG(tasks)
	if err != nil {
		return nil, nil, 0, err
	}

	vms := make([]*model.VM, 0, len(doc.VMs))
	for _, vd := range doc.VMs {
		opts := make([]model.VMOption, 0, len(vd.Capabilities)+len(vd.Bandwidth))
		for name, val := range vd.Capabilities {
			opts = append(opts, model.WithCapability(name, val))
		}
		for peer, bw := range vd.Bandwidth {
			id, err := parseID(peer)
			if err != nil {
				return nil, nil, 0, fmt.Errorf("ingest: vm %d bandwidth key %q: %w", vd.ID, peer, err)
			}
			opts = append(opts, model.WithBandwidth(id, bw))
		}
		v, err := model.NewVM(vd.ID, opts...)
		if err != nil {
			return nil, nil, 0, err
		}
		vms = append(vms, v)
	}

	validVM := make(map[int]struct{}, len(vms))
	for _, v := range vms {
		validVM[v.ID] = struct{}{}
	}
	for _, v := range vms {
		for peer := range v.Bandwidth {
			if _, ok := validVM[peer]; !ok {
				return nil, nil, 0, fmt.Errorf("ingest: vm %d bandwidth peer %d: %w", v.ID, peer, model.ErrUnknownVM)
			}
		}
	}

	return dag, vms, doc.CCR, nil
}

func parseID(s string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0, fmt.Errorf("not an integer id: %q", s)
	}
	return id, nil
}
