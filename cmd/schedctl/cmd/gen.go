package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/go-dagsched/dagsched/internal/fixtures"
	"github.com/go-dagsched/dagsched/internal/ingest"
)

var (
	genSeed    int64
	genLayers  int
	genWidth   int
	genVMCount int
	genCCR     float64
	genOutPath string
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a synthetic workflow/fleet JSON document",
	RunE:  runGen,
}

func init() {
	genCmd.Flags().Int64Var(&genSeed, "seed", 1, "PRNG seed")
	genCmd.Flags().IntVar(&genLayers, "layers", 3, "number of fan-out/fan-in layers")
	genCmd.Flags().IntVar(&genWidth, "width", 4, "tasks per layer")
	genCmd.Flags().IntVar(&genVMCount, "vms", 4, "VM fleet size")
	genCmd.Flags().Float64Var(&genCCR, "ccr", 1.0, "communication-to-computation ratio")
	genCmd.Flags().StringVarP(&genOutPath, "output", "o", "", "output path (default: stdout)")
	rootCmd.AddCommand(genCmd)
}

func runGen(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewSource(genSeed))

	tasks, err := fixtures.GenerateWorkflow(rng, fixtures.WorkflowSpec{
		Layers: genLayers, Width: genWidth, MinSize: 1, MaxSize: 100,
	})
	if err != nil {
		return errors.Wrap(err, "schedctl gen: workflow")
	}
	vms, err := fixtures.GenerateFleet(rng, fixtures.FleetSpec{
		Count: genVMCount, MinCapacity: 1, MaxCapacity: 10, MinBandwidth: 1, MaxBandwidth: 100,
	})
	if err != nil {
		return errors.Wrap(err, "schedctl gen: fleet")
	}

	doc := ingest.Document{CCR: genCCR}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, ingest.TaskDoc{ID: t.ID, Size: t.Size, Pred: t.Pred, Succ: t.Succ})
	}
	for _, v := range vms {
		td := ingest.VMDoc{ID: v.ID, Capabilities: v.Capabilities, Bandwidth: make(map[string]float64, len(v.Bandwidth))}
		for peer, bw := range v.Bandwidth {
			td.Bandwidth[fmt.Sprintf("%d", peer)] = bw
		}
		doc.VMs = append(doc.VMs, td)
	}

	out := os.Stdout
	if genOutPath != "" {
		f, err := os.Create(genOutPath)
		if err != nil {
			return errors.Wrap(err, "schedctl gen: create output")
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
