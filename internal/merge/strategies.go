package merge

import (
	"github.com/ariel-frischer/ccem/internal/project"
)

// recommendedMerge deduplicates permissions, lets later projects win
// settings ties, and treats every conflict as informational.
func recommendedMerge(configs []project.Config) *Result {
	conflicts := scanConflicts(configs, false)
	return &Result{
		Permissions:  mergePermissions(configs, true),
		Integrations: mergeIntegrations(configs),
		Settings:     mergeSettings(configs, lastWriteWins),
		Conflicts:    conflicts,
		Stats: Stats{
			ProjectsAnalyzed:  len(configs),
			ConflictsDetected: len(conflicts),
			AutoResolved:      0,
		},
	}
}

// defaultMerge unions permissions without deduplication and counts every
// conflict as auto-resolved by last-write-wins.
func defaultMerge(configs []project.Config) *Result {
	conflicts := scanConflicts(configs, false)
	return &Result{
		Permissions:  mergePermissions(configs, false),
		Integrations: mergeIntegrations(configs),
		Settings:     mergeSettings(configs, lastWriteWins),
		Conflicts:    conflicts,
		Stats: Stats{
			ProjectsAnalyzed:  len(configs),
			ConflictsDetected: len(conflicts),
			AutoResolved:      len(conflicts),
		},
	}
}

// conservativeMerge keeps the earliest project's settings, flags every
// conflict for manual review, and auto-resolves nothing.
func conservativeMerge(configs []project.Config) *Result {
	conflicts := scanConflicts(configs, true)
	return &Result{
		Permissions:  mergePermissions(configs, true),
		Integrations: mergeIntegrations(configs),
		Settings:     mergeSettings(configs, firstWriteWins),
		Conflicts:    conflicts,
		Stats: Stats{
			ProjectsAnalyzed:  len(configs),
			ConflictsDetected: len(conflicts),
			AutoResolved:      0,
		},
	}
}

// hybridMerge resolves settings last-write-wins but still flags every
// conflict for review; autoResolved counts the unflagged ones, which is
// structurally zero here.
func hybridMerge(configs []project.Config) *Result {
	conflicts := scanConflicts(configs, true)
	return &Result{
		Permissions:  mergePermissions(configs, true),
		Integrations: mergeIntegrations(configs),
		Settings:     mergeSettings(configs, lastWriteWins),
		Conflicts:    conflicts,
		Stats: Stats{
			ProjectsAnalyzed:  len(configs),
			ConflictsDetected: len(conflicts),
			AutoResolved:      countAutoResolved(conflicts),
		},
	}
}

// customMerge applies caller-supplied rules: strict deduplication is
// opt-in, and each settings key resolves per its configured mode. Keys
// ruled "manual" keep the last value but their conflicts are flagged for
// review; autoResolved counts only unflagged conflicts.
func customMerge(configs []project.Config, rules *Rules) *Result {
	conflicts := scanConflicts(configs, false)

	// Flag conflicts whose settings key is ruled manual.
	for i := range conflicts {
		key, ok := settingsKey(conflicts[i].Field)
		if !ok {
			continue
		}
		if rules.Settings[key] == "manual" {
			conflicts[i].RequiresManualReview = true
		}
	}

	// Back-fill missing suggestions with each conflict's first value.
	for i := range conflicts {
		if conflicts[i].Suggestion == nil && len(conflicts[i].Values) > 0 {
			conflicts[i].Suggestion = conflicts[i].Values[0]
		}
	}

	return &Result{
		Permissions:  mergePermissions(configs, rules.Permissions.Deduplication == "strict"),
		Integrations: mergeIntegrations(configs),
		Settings:     customSettings(configs, rules),
		Conflicts:    conflicts,
		Stats: Stats{
			ProjectsAnalyzed:  len(configs),
			ConflictsDetected: len(conflicts),
			AutoResolved:      countAutoResolved(conflicts),
		},
	}
}

// customSettings resolves each observed top-level key per its rule:
// prefer-first keeps the first non-nil value observed in project order,
// prefer-last (and any unruled or manual key) keeps the last observed.
func customSettings(configs []project.Config, rules *Rules) map[string]any {
	out := map[string]any{}
	for _, cfg := range configs {
		for key, value := range cfg.Settings {
			if rules.Settings[key] == "prefer-first" {
				if existing, ok := out[key]; ok && existing != nil {
					continue
				}
			}
			out[key] = value
		}
	}
	return out
}

// settingsKey strips the "settings." prefix from an inline-scan field,
// returning false for non-settings conflicts.
func settingsKey(field string) (string, bool) {
	const prefix = "settings."
	if len(field) <= len(prefix) || field[:len(prefix)] != prefix {
		return "", false
	}
	return field[len(prefix):], true
}
