package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the ccem release version, overridden at build time via
// -ldflags "-X github.com/ariel-frischer/ccem/internal/cli.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print the ccem version",
	GroupID: GroupConfiguration,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ccem %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
