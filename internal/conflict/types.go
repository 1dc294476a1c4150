// Package conflict implements conflict detection across project
// configurations. One shared detection core serves both the merge engine's
// inline scan (settings and integrations) and the full stand-alone report,
// which adds permission hierarchy and overlap analysis.
package conflict

// Severity classifies how serious a conflict or finding is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity in ascending order of seriousness.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank returns the numeric rank of a severity, low (0) through critical (3).
// Unknown severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// Type identifies which detection pass produced a conflict.
type Type string

const (
	TypeCapabilityOverlap   Type = "capability-overlap"
	TypeCapabilityHierarchy Type = "capability-hierarchy"
	TypeSettingValue        Type = "setting-value"
	TypeIntegrationConfig   Type = "integration-config"
)

// Types lists every conflict type, in report order.
var Types = []Type{TypeCapabilityOverlap, TypeCapabilityHierarchy, TypeSettingValue, TypeIntegrationConfig}

// Context carries provenance for a conflict.
type Context struct {
	// AffectedProjects lists the indices of the source configs involved.
	AffectedProjects []int `json:"affectedProjects"`
}

// Conflict is one report-grade finding from the detector.
type Conflict struct {
	Type                  Type     `json:"type"`
	Path                  string   `json:"path"`
	Values                []any    `json:"values"`
	Severity              Severity `json:"severity"`
	ResolutionStrategies  []string `json:"resolutionStrategies"`
	RecommendedResolution string   `json:"recommendedResolution"`
	ResolutionRationale   string   `json:"resolutionRationale"`
	Context               Context  `json:"context"`
}

// Summary tallies a report's conflicts by type and severity. Every enum
// member is present even when its count is zero.
type Summary struct {
	TotalConflicts      int              `json:"totalConflicts"`
	ConflictsByType     map[Type]int     `json:"conflictsByType"`
	ConflictsBySeverity map[Severity]int `json:"conflictsBySeverity"`
}

// Report is the full output of Detect.
type Report struct {
	Conflicts []Conflict `json:"conflicts"`
	Summary   Summary    `json:"summary"`
}

func newReport() *Report {
	byType := make(map[Type]int, len(Types))
	for _, t := range Types {
		byType[t] = 0
	}
	bySeverity := make(map[Severity]int, len(Severities))
	for _, s := range Severities {
		bySeverity[s] = 0
	}
	return &Report{
		Conflicts: []Conflict{},
		Summary: Summary{
			ConflictsByType:     byType,
			ConflictsBySeverity: bySeverity,
		},
	}
}
