// Package pipeline sequences DCP → SMGT → LOTD into the single
// operation spec §4.6 exposes to callers: Schedule(dag, vms, ccr).
package pipeline

import (
	"github.com/go-dagsched/dagsched/internal/dcp"
	"github.com/go-dagsched/dagsched/internal/lotd"
	"github.com/go-dagsched/dagsched/internal/model"
	"github.com/go-dagsched/dagsched/internal/smgt"
)

// Options configures a single Schedule call. The zero value uses
// lotd.DefaultSelector.
type Options struct {
	// CandidateSelector overrides LOTD's duplication candidate set.
	// Nil selects lotd.DefaultSelector.
	CandidateSelector lotd.CandidateSelector
}

// Schedule runs the full three-phase pipeline over dag and vms at the
// given CCR and returns the final Schedule. Determinism: given the
// same dag, vms, and ccr, two calls produce byte-identical results,
// since every phase's tie-breaks are total orders over ids.
func Schedule(dag *model.DAG, vms []*model.VM, ccr float64, opts Options) (*model.Schedule, error) {
	meanBW := model.MeanBandwidth(vms)
	costTable := model.BuildCostTable(dag, ccr, meanBW)

	dcpResult, err := dcp.Compute(dag, vms, costTable)
	if err != nil {
		return nil, err
	}

	pre, err := smgt.Run(dag, vms, dcpResult.Ranks, costTable, meanBW)
	if err != nil {
		return nil, err
	}
	pre.CriticalPath = dcpResult.CriticalPath
	pre.Levels = dcpResult.Levels

	final := lotd.Run(dag, vms, pre, costTable, meanBW, opts.CandidateSelector)

	return final, nil
}
