package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ariel-frischer/ccem/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage ccem configuration",
	GroupID: GroupConfiguration,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("projects_dir:        %s\n", cfg.ProjectsDir)
		fmt.Printf("state_dir:           %s\n", cfg.StateDir)
		fmt.Printf("default_strategy:    %s\n", cfg.DefaultStrategy)
		fmt.Printf("max_history_entries: %d\n", cfg.MaxHistoryEntries)
		fmt.Printf("server_port:         %d\n", cfg.ServerPort)
		fmt.Printf("skip_confirmations:  %t\n", cfg.SkipConfirmations)
		fmt.Printf("show_progress:       %t\n", cfg.ShowProgress)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List known configuration keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := make([]string, 0, len(config.KnownKeys))
		for key := range config.KnownKeys {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			schema := config.KnownKeys[key]
			fmt.Printf("%-20s %-6s %s (default: %v)\n",
				schema.Path, schema.Type, schema.Description, schema.Default)
			if len(schema.AllowedValues) > 0 {
				fmt.Printf("%-20s        values: %s\n", "", strings.Join(schema.AllowedValues, ", "))
			}
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}
