package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ariel-frischer/ccem/internal/audit"
	"github.com/ariel-frischer/ccem/internal/config"
	"github.com/ariel-frischer/ccem/internal/history"
	"github.com/ariel-frischer/ccem/internal/merge"
	"github.com/ariel-frischer/ccem/internal/project"
	"github.com/ariel-frischer/ccem/internal/snapshot"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:     "merge [config-file...]",
	Short:   "Merge project configurations into one",
	GroupID: GroupMerging,
	Long: `Merge N project configurations under a named strategy.

Without arguments, configurations are discovered under the projects
directory. Earlier configs win ties. The merged result is audited for
dangerous capabilities before anything is written.

With --apply, a checksummed snapshot and a compressed backup of the output
directory are taken first so the operation can be rolled back.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringP("strategy", "s", "", "Merge strategy: recommended, default, conservative, hybrid, custom")
	mergeCmd.Flags().String("rules", "", "Path to a rules JSON file (required for the custom strategy)")
	mergeCmd.Flags().StringP("output", "o", "", "Write the merged configuration to this file")
	mergeCmd.Flags().Bool("apply", false, "Snapshot, back up, then write the merged configuration")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	strategyName, _ := cmd.Flags().GetString("strategy")
	if strategyName == "" {
		strategyName = cfg.DefaultStrategy
	}

	sources, err := resolveSources(cfg, args)
	if err != nil {
		return err
	}

	var opts *merge.Options
	if rulesPath, _ := cmd.Flags().GetString("rules"); rulesPath != "" {
		rules, err := loadRules(rulesPath)
		if err != nil {
			return err
		}
		opts = &merge.Options{Rules: rules}
	}

	outputPath, _ := cmd.Flags().GetString("output")
	apply, _ := cmd.Flags().GetBool("apply")
	if apply && outputPath == "" {
		return fmt.Errorf("--apply requires --output")
	}

	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name
	}

	writer := history.NewWriter(cfg.StateDir, cfg.MaxHistoryEntries)
	entryID, err := writer.WriteStart(strategyName, names)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record history: %v\n", err)
	}
	start := time.Now()

	result, err := merge.Merge(merge.Strategy(strategyName), project.Configs(sources), opts)
	if err != nil {
		if entryID != "" {
			writer.UpdateComplete(entryID, history.StatusFailed, "", 0, time.Since(start))
		}
		return err
	}

	auditResult := audit.Merge(result)
	printMergeSummary(strategyName, sources, result, auditResult)

	// A started history entry must always reach a terminal status.
	recordFailure := func() {
		if entryID == "" {
			return
		}
		writer.UpdateComplete(entryID, history.StatusFailed, string(auditResult.RiskLevel),
			result.Stats.ConflictsDetected, time.Since(start))
	}

	status := history.StatusCompleted
	if outputPath != "" {
		if apply {
			if err := preApplySafety(cfg, outputPath); err != nil {
				recordFailure()
				return err
			}
			status = history.StatusApplied
		}
		if err := writeResult(outputPath, result); err != nil {
			recordFailure()
			return err
		}
		fmt.Printf("\nMerged configuration written to %s\n", outputPath)
	}

	if entryID != "" {
		err := writer.UpdateComplete(entryID, status, string(auditResult.RiskLevel),
			result.Stats.ConflictsDetected, time.Since(start))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to update history: %v\n", err)
		}
	}
	return nil
}

// preApplySafety snapshots and backs up the output directory so the
// operator can roll back an applied merge.
func preApplySafety(cfg *config.Configuration, outputPath string) error {
	targetDir := filepath.Dir(outputPath)
	if _, err := os.Stat(targetDir); err != nil {
		// Nothing on disk to protect yet.
		return nil
	}

	return withSpinner(cfg.ShowProgress, "Creating snapshot and backup...", func() error {
		snap, err := snapshot.Create(targetDir)
		if err != nil {
			return fmt.Errorf("creating pre-merge snapshot: %w", err)
		}
		if _, err := snap.Save(cfg.StateDir); err != nil {
			return fmt.Errorf("saving pre-merge snapshot: %w", err)
		}
		if _, err := snapshot.Backup(targetDir, cfg.StateDir); err != nil {
			return fmt.Errorf("creating pre-merge backup: %w", err)
		}
		return nil
	})
}

func printMergeSummary(strategy string, sources []project.Source, result *merge.Result, auditResult *audit.Result) {
	fmt.Printf("Strategy: %s\n", strategy)
	fmt.Printf("Projects analyzed: %d\n", result.Stats.ProjectsAnalyzed)
	fmt.Printf("Permissions: %d\n", len(result.Permissions))
	fmt.Printf("Integrations: %d\n", len(result.Integrations))

	fmt.Printf("\nConflicts: %d detected, %d auto-resolved\n",
		result.Stats.ConflictsDetected, result.Stats.AutoResolved)
	for _, c := range result.Conflicts {
		marker := " "
		if c.RequiresManualReview {
			marker = "!"
		}
		fmt.Printf("  %s %s: %d values\n", marker, c.Field, len(c.Values))
	}

	fmt.Printf("\nSecurity audit: risk %s, %d issue(s)\n",
		colorSeverity(auditResult.RiskLevel), len(auditResult.Issues))
	for _, issue := range auditResult.Issues {
		fmt.Printf("  [%s] %s\n", colorSeverity(issue.Severity), issue.Description)
	}
	if !auditResult.Passed {
		fmt.Println("\nAudit FAILED: the merged configuration grants dangerous capabilities.")
	}
}

// loadRules reads a custom-strategy rules object from a JSON file.
func loadRules(path string) (*merge.Rules, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), kjson.Parser()); err != nil {
		return nil, fmt.Errorf("loading rules file %s: %w", path, err)
	}
	var rules merge.Rules
	if err := k.Unmarshal("", &rules); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	return &rules, nil
}

// writeResult persists a merge result as JSON using an atomic rename.
func writeResult(path string, result *merge.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling merge result: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing merge result: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming merge result: %w", err)
	}
	return nil
}
