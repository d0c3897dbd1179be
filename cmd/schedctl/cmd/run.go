package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-dagsched/dagsched/internal/ingest"
	"github.com/go-dagsched/dagsched/internal/store"
	"github.com/go-dagsched/dagsched/internal/telemetry"
)

var (
	runInputPath string
	runStorePath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Schedule a workflow described by a JSON input file",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runInputPath, "input", "i", "", "path to a workflow/fleet JSON document (required)")
	runCmd.Flags().StringVar(&runStorePath, "store", "", "path to a SQLite file to persist the run into (optional)")
	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	f, err := os.Open(runInputPath)
	if err != nil {
		return errors.Wrap(err, "schedctl run: open input")
	}
	defer f.Close()

	dag, vms, ccr, err := ingest.Load(f)
	if err != nil {
		return errors.Wrap(err, "schedctl run: ingest")
	}
	if override := viper.GetFloat64("ccr"); cmd.Flags().Changed("ccr") {
		ccr = override
	}

	sched, err := telemetry.Schedule(context.Background(), dag, vms, ccr, nil)
	if err != nil {
		return errors.Wrap(err, "schedctl run: schedule")
	}

	fmt.Printf("makespan: %.4f\n", sched.Makespan())
	fmt.Printf("vms used: %d\n", len(sched.VMSchedule))
	fmt.Printf("duplicates placed: %d\n", len(sched.Duplicates))

	if runStorePath != "" {
		st, err := store.Open(runStorePath)
		if err != nil {
			return errors.Wrap(err, "schedctl run: open store")
		}
		defer st.Close()

		id, err := st.Save(ccr, sched)
		if err != nil {
			return errors.Wrap(err, "schedctl run: save")
		}
		fmt.Printf("run id: %s\n", id)
	}

	return nil
}
