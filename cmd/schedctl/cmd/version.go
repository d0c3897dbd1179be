package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set via -ldflags "-X .../cmd.version=..." at build time.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the schedctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("schedctl " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
