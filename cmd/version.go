package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the driftwatch version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("driftwatch %s\n", version)
	},
}
