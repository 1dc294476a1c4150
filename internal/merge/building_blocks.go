package merge

import (
	"github.com/ariel-frischer/ccem/internal/conflict"
	"github.com/ariel-frischer/ccem/internal/permission"
	"github.com/ariel-frischer/ccem/internal/project"
)

// settingsMode selects how disagreeing settings values are resolved.
type settingsMode int

const (
	// lastWriteWins lets later projects overwrite earlier ones.
	lastWriteWins settingsMode = iota
	// firstWriteWins keeps the earliest project's value.
	firstWriteWins
)

// mergePermissions concatenates all grants in project order, deduplicating
// (first occurrence kept) when dedup is set.
func mergePermissions(configs []project.Config, dedup bool) []string {
	var all []string
	for _, cfg := range configs {
		all = append(all, cfg.Permissions...)
	}
	if all == nil {
		all = []string{}
	}
	if !dedup {
		return all
	}
	return permission.Dedup(all)
}

// mergeIntegrations keeps, for each integration name, the first record
// encountered across the input order.
func mergeIntegrations(configs []project.Config) map[string]project.Integration {
	out := map[string]project.Integration{}
	for _, cfg := range configs {
		for name, record := range cfg.Integrations {
			if _, ok := out[name]; ok {
				continue
			}
			out[name] = record
		}
	}
	return out
}

// mergeSettings folds settings maps left to right. Under firstWriteWins the
// fold runs in reverse project order so the earliest project's values
// survive the overwrites of later folds.
func mergeSettings(configs []project.Config, mode settingsMode) map[string]any {
	out := map[string]any{}
	if mode == firstWriteWins {
		for i := len(configs) - 1; i >= 0; i-- {
			for key, value := range configs[i].Settings {
				out[key] = value
			}
		}
		return out
	}
	for _, cfg := range configs {
		for key, value := range cfg.Settings {
			out[key] = value
		}
	}
	return out
}

// scanConflicts runs the inline conflict scan shared by all strategies:
// the settings and integration passes of the shared detection core, mapped
// to strategy-local conflicts. The full permission hierarchy analysis is
// deliberately left to the stand-alone detector.
func scanConflicts(configs []project.Config, requireReview bool) []Conflict {
	var out []Conflict
	for _, kv := range conflict.SettingConflicts(configs) {
		out = append(out, Conflict{
			Field:                kv.Path,
			Values:               kv.Values,
			RequiresManualReview: requireReview,
		})
	}
	for _, kv := range conflict.IntegrationConflicts(configs) {
		out = append(out, Conflict{
			Field:                kv.Path,
			Values:               kv.Values,
			RequiresManualReview: requireReview,
		})
	}
	if out == nil {
		out = []Conflict{}
	}
	return out
}

// countAutoResolved counts conflicts not flagged for manual review.
func countAutoResolved(conflicts []Conflict) int {
	n := 0
	for _, c := range conflicts {
		if !c.RequiresManualReview {
			n++
		}
	}
	return n
}
