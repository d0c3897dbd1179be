// Command schedctl wires the excluded-collaborator stand-ins
// (internal/ingest, internal/fixtures) to the scheduling core
// (internal/pipeline) and an optional persistence/telemetry layer
// (internal/store, internal/telemetry). It is not part of the
// scheduling core itself — see SPEC_FULL.md §6.
package main

import (
	"fmt"
	"os"

	"github.com/go-dagsched/dagsched/cmd/schedctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
