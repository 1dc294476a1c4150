package conflict

import (
	"github.com/ariel-frischer/ccem/internal/permission"
	"github.com/ariel-frischer/ccem/internal/project"
)

// Detect analyzes the given configs and produces a full conflict report:
// permission hierarchy/overlap conflicts, then setting conflicts, then
// integration conflicts. With one config or none there is nothing to
// disagree about, so the zero report is returned immediately.
func Detect(configs []project.Config) *Report {
	report := newReport()
	if len(configs) <= 1 {
		return report
	}

	report.Conflicts = append(report.Conflicts, permissionConflicts(configs)...)
	for _, kv := range SettingConflicts(configs) {
		report.Conflicts = append(report.Conflicts, Conflict{
			Type:                  TypeSettingValue,
			Path:                  kv.Path,
			Values:                kv.Values,
			Severity:              SeverityLow,
			ResolutionStrategies:  []string{"prefer-first", "prefer-last", "manual"},
			RecommendedResolution: "prefer-last",
			ResolutionRationale:   "most recent value maintains latest preference",
			Context:               Context{AffectedProjects: kv.Projects},
		})
	}
	for _, kv := range IntegrationConflicts(configs) {
		report.Conflicts = append(report.Conflicts, Conflict{
			Type:                  TypeIntegrationConfig,
			Path:                  kv.Path,
			Values:                kv.All,
			Severity:              SeverityHigh,
			ResolutionStrategies:  []string{"prefer-first", "manual-review"},
			RecommendedResolution: "manual-review",
			ResolutionRationale:   "integration configuration requires careful review for correct operation",
			Context:               Context{AffectedProjects: kv.Projects},
		})
	}

	report.Summary.TotalConflicts = len(report.Conflicts)
	for _, c := range report.Conflicts {
		report.Summary.ConflictsByType[c.Type]++
		report.Summary.ConflictsBySeverity[c.Severity]++
	}
	return report
}

// grantRef is one permission entry paired with its source config index.
type grantRef struct {
	grant  string
	source int
}

// permissionConflicts compares every unordered pair of grant entries that
// share an action. A strict specificity ordering yields a hierarchy
// conflict; otherwise textually distinct grants yield an overlap conflict.
// Quadratic in total grants, which stay in the tens in practice.
func permissionConflicts(configs []project.Config) []Conflict {
	var refs []grantRef
	for i, cfg := range configs {
		for _, grant := range cfg.Permissions {
			refs = append(refs, grantRef{grant: grant, source: i})
		}
	}

	var out []Conflict
	for i := 0; i < len(refs); i++ {
		for j := i + 1; j < len(refs); j++ {
			a, b := refs[i], refs[j]
			action := permission.Action(a.grant)
			if action == "" || action != permission.Action(b.grant) {
				continue
			}

			switch {
			case permission.IsMoreGeneral(a.grant, b.grant):
				out = append(out, hierarchyConflict(a.grant, b.grant, a.source, b.source))
			case permission.IsMoreGeneral(b.grant, a.grant):
				out = append(out, hierarchyConflict(b.grant, a.grant, a.source, b.source))
			case a.grant != b.grant:
				out = append(out, Conflict{
					Type:                  TypeCapabilityOverlap,
					Path:                  "permissions",
					Values:                []any{a.grant, b.grant},
					Severity:              SeverityMedium,
					ResolutionStrategies:  []string{"merge-union", "manual-review"},
					RecommendedResolution: "merge-union",
					ResolutionRationale:   "union preserves all required access",
					Context:               Context{AffectedProjects: []int{a.source, b.source}},
				})
			}
		}
	}
	return out
}

func hierarchyConflict(moreGeneral, moreSpecific string, sourceA, sourceB int) Conflict {
	return Conflict{
		Type:                  TypeCapabilityHierarchy,
		Path:                  "permissions",
		Values:                []any{moreGeneral, moreSpecific},
		Severity:              SeverityMedium,
		ResolutionStrategies:  []string{"use-more-general", "use-more-specific", "keep-both"},
		RecommendedResolution: "use-more-general",
		ResolutionRationale:   "broader grant preserves access while keeping security boundaries",
		Context:               Context{AffectedProjects: []int{sourceA, sourceB}},
	}
}
