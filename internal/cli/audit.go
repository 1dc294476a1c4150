package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ariel-frischer/ccem/internal/audit"
	"github.com/ariel-frischer/ccem/internal/project"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:     "audit <merge-result.json>",
	Short:   "Audit a merged configuration for dangerous capabilities",
	GroupID: GroupMerging,
	Long: `Scan a merge result (or any configuration file with permissions,
integrations, and settings) against the dangerous-permission,
dangerous-command, and insecure-integration pattern tables.

Exits non-zero when the audit fails (any high or critical finding).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		var target struct {
			Permissions  []string                       `json:"permissions"`
			Integrations map[string]project.Integration `json:"integrations"`
			Settings     map[string]any                 `json:"settings"`
		}
		if err := json.Unmarshal(data, &target); err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}

		result := audit.Audit(audit.Target{
			Permissions:  target.Permissions,
			Integrations: target.Integrations,
			Settings:     target.Settings,
		})
		printAudit(result)

		if !result.Passed {
			return fmt.Errorf("audit failed with risk level %s", result.RiskLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func printAudit(result *audit.Result) {
	verdict := "PASSED"
	if !result.Passed {
		verdict = "FAILED"
	}
	fmt.Printf("Audit %s - risk level %s, %d issue(s)\n\n",
		verdict, colorSeverity(result.RiskLevel), len(result.Issues))

	for _, issue := range result.Issues {
		fmt.Printf("[%s] %s (%s)\n", colorSeverity(issue.Severity), issue.Description, issue.AffectedField)
	}

	if len(result.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for i, rec := range result.Recommendations {
			fmt.Printf("  %d. %s\n", i+1, rec)
		}
	}
}
