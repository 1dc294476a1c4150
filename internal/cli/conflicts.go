package cli

import (
	"fmt"

	"github.com/ariel-frischer/ccem/internal/conflict"
	"github.com/ariel-frischer/ccem/internal/project"
	"github.com/spf13/cobra"
)

var conflictsCmd = &cobra.Command{
	Use:     "conflicts [config-file...]",
	Short:   "Produce a full conflict report across project configurations",
	GroupID: GroupMerging,
	Long: `Analyze project configurations without merging them.

Beyond the disagreements the merge's inline scan reports, this adds
capability-grant hierarchy and overlap detection across all inputs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		sources, err := resolveSources(cfg, args)
		if err != nil {
			return err
		}

		report := conflict.Detect(project.Configs(sources))
		printReport(sources, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}

func printReport(sources []project.Source, report *conflict.Report) {
	fmt.Printf("Analyzed %d project(s), %d conflict(s) found\n\n",
		len(sources), report.Summary.TotalConflicts)

	for _, c := range report.Conflicts {
		fmt.Printf("[%s] %s at %s\n", colorSeverity(c.Severity), c.Type, c.Path)
		for _, v := range c.Values {
			fmt.Printf("    - %v\n", v)
		}
		fmt.Printf("    recommended: %s (%s)\n", c.RecommendedResolution, c.ResolutionRationale)
		fmt.Printf("    projects: %s\n\n", projectNames(sources, c.Context.AffectedProjects))
	}

	fmt.Println("By severity:")
	for _, s := range conflict.Severities {
		fmt.Printf("  %-8s %d\n", s, report.Summary.ConflictsBySeverity[s])
	}
	fmt.Println("By type:")
	for _, t := range conflict.Types {
		fmt.Printf("  %-21s %d\n", t, report.Summary.ConflictsByType[t])
	}
}

// projectNames renders source indices as project names.
func projectNames(sources []project.Source, indices []int) string {
	out := ""
	for i, idx := range indices {
		if i > 0 {
			out += ", "
		}
		if idx >= 0 && idx < len(sources) {
			out += sources[idx].Name
		} else {
			out += fmt.Sprintf("#%d", idx)
		}
	}
	return out
}
