// ccem - Claude Code Environment Manager
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/ccem

// Package cli provides Cobra-based CLI commands for the ccem configuration
// manager. It defines all user-facing commands: merging project
// configurations (merge), conflict analysis (conflicts), security auditing
// (audit), rollback safety (snapshot, backup), project discovery
// (projects), operation history (history), the dashboard server (serve),
// and configuration management (config).
package cli

import (
	"github.com/spf13/cobra"
)

// Command group IDs for organizing help output
const (
	GroupMerging       = "merging"
	GroupSafety        = "safety"
	GroupConfiguration = "configuration"
)

var rootCmd = &cobra.Command{
	Use:   "ccem",
	Short: "ccem environment manager",
	Long: `ccem - Claude Code Environment Manager

Merge many project configurations into one, surface every place the inputs
disagree, and flag merged configurations that grant dangerous capabilities.

Source: https://github.com/ariel-frischer/ccem`,
	Example: `  # List discovered project configurations
  ccem projects

  # Merge every discovered project with the recommended strategy
  ccem merge

  # Merge specific configs conservatively and write the result
  ccem merge a/.claude/settings.json b/.claude/settings.json \
    --strategy conservative --output merged.json

  # Full conflict report
  ccem conflicts

  # Audit a merge result
  ccem audit merged.json

  # Snapshot a directory before applying a merge
  ccem snapshot ./my-project`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Define command groups in display order
	rootCmd.AddGroup(&cobra.Group{ID: GroupMerging, Title: "Merging & Analysis:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupSafety, Title: "Safety & Rollback:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})

	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a local ccem config file")
	rootCmd.PersistentFlags().String("projects-dir", "", "Directory scanned for project configurations (overrides config)")
}
