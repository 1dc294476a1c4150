package cli

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/ccem/internal/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show recent merge operations",
	GroupID: GroupConfiguration,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		file, err := history.Load(cfg.StateDir)
		if err != nil {
			return err
		}
		if len(file.Entries) == 0 {
			fmt.Println("No merge history recorded.")
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		entries := file.Entries
		if limit > 0 && len(entries) > limit {
			entries = entries[len(entries)-limit:]
		}

		// Newest first
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			fmt.Printf("%s  %-12s %-9s conflicts=%d risk=%s\n",
				e.Timestamp.Format("2006-01-02 15:04:05"),
				e.Strategy, e.Status, e.ConflictsDetected, orDash(e.RiskLevel))
			if len(e.Projects) > 0 {
				fmt.Printf("    %s\n", strings.Join(e.Projects, ", "))
			}
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear merge history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := history.Clear(cfg.StateDir); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of entries to show")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
