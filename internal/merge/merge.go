// Package merge combines N project configurations into one under five
// interchangeable strategies, each with its own permission-deduplication,
// settings-resolution, and conflict-tolerance policy.
package merge

import (
	"fmt"

	"github.com/ariel-frischer/ccem/internal/project"
)

// Strategy names a merge policy. The set is closed: dispatch is an
// exhaustive switch so every strategy stays enumerable and testable alone.
type Strategy string

const (
	StrategyRecommended  Strategy = "recommended"
	StrategyDefault      Strategy = "default"
	StrategyConservative Strategy = "conservative"
	StrategyHybrid       Strategy = "hybrid"
	StrategyCustom       Strategy = "custom"
)

// Strategies lists every merge strategy.
var Strategies = []Strategy{
	StrategyRecommended,
	StrategyDefault,
	StrategyConservative,
	StrategyHybrid,
	StrategyCustom,
}

// Conflict is a lightweight, strategy-local disagreement found during the
// merge's inline scan.
type Conflict struct {
	// Field is the dotted path of the disagreeing key.
	Field string `json:"field"`
	// Values holds the distinct values observed across projects.
	Values []any `json:"values"`
	// RequiresManualReview marks conflicts the strategy refuses to
	// auto-resolve.
	RequiresManualReview bool `json:"requiresManualReview"`
	// Suggestion optionally proposes a resolution value.
	Suggestion any `json:"suggestion,omitempty"`
}

// Stats summarizes one merge call.
type Stats struct {
	ProjectsAnalyzed  int `json:"projectsAnalyzed"`
	ConflictsDetected int `json:"conflictsDetected"`
	AutoResolved      int `json:"autoResolved"`
}

// Result is the outcome of a merge. It is constructed once per call and
// never mutated after return.
type Result struct {
	Permissions  []string                       `json:"permissions"`
	Integrations map[string]project.Integration `json:"integrations"`
	Settings     map[string]any                 `json:"settings"`
	Conflicts    []Conflict                     `json:"conflicts"`
	Stats        Stats                          `json:"stats"`
}

// PermissionRules configures permission handling for the custom strategy.
type PermissionRules struct {
	// Deduplication selects "strict" (dedup) or "pattern-match" (union).
	Deduplication string `json:"deduplication,omitempty" koanf:"deduplication"`
	// ConflictResolution optionally names a preferred resolution.
	ConflictResolution string `json:"conflictResolution,omitempty" koanf:"conflictResolution"`
	// Patterns optionally restricts which grants the rules apply to.
	Patterns []string `json:"patterns,omitempty" koanf:"patterns"`
}

// Rules is the per-merge policy object required by the custom strategy.
type Rules struct {
	Permissions PermissionRules `json:"permissions" koanf:"permissions"`
	// Settings maps a settings key to "prefer-first", "prefer-last", or
	// "manual". Keys without a rule default to prefer-last.
	Settings map[string]string `json:"settings" koanf:"settings"`
}

// Options carries optional merge parameters.
type Options struct {
	Rules *Rules
}

// Merge combines configs under the named strategy. Earlier configs win
// ties. An unknown strategy, or the custom strategy without rules, is a
// caller contract violation and fails fast.
func Merge(strategy Strategy, configs []project.Config, opts *Options) (*Result, error) {
	if len(configs) == 0 {
		return emptyResult(), nil
	}

	switch strategy {
	case StrategyRecommended:
		return recommendedMerge(configs), nil
	case StrategyDefault:
		return defaultMerge(configs), nil
	case StrategyConservative:
		return conservativeMerge(configs), nil
	case StrategyHybrid:
		return hybridMerge(configs), nil
	case StrategyCustom:
		if opts == nil || opts.Rules == nil {
			return nil, fmt.Errorf("custom merge strategy requires a rules object")
		}
		return customMerge(configs, opts.Rules), nil
	default:
		return nil, fmt.Errorf("unknown merge strategy %q", strategy)
	}
}

// emptyResult is the defined short-circuit for zero inputs.
func emptyResult() *Result {
	return &Result{
		Permissions:  []string{},
		Integrations: map[string]project.Integration{},
		Settings:     map[string]any{},
		Conflicts:    []Conflict{},
	}
}
