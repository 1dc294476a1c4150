package conflict

import (
	"testing"

	"github.com/ariel-frischer/ccem/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDegenerateInputs(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		configs []project.Config
	}{
		"no configs":  {configs: nil},
		"one config": {configs: []project.Config{{
			Permissions: []string{"Read(*)", "Write(*)"},
			Settings:    map[string]any{"theme": "dark"},
		}}},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			report := Detect(tc.configs)

			assert.Empty(t, report.Conflicts)
			assert.Equal(t, 0, report.Summary.TotalConflicts)
			// Every enum member reports zero rather than being omitted.
			require.Len(t, report.Summary.ConflictsByType, len(Types))
			for _, typ := range Types {
				assert.Equal(t, 0, report.Summary.ConflictsByType[typ])
			}
			require.Len(t, report.Summary.ConflictsBySeverity, len(Severities))
			for _, sev := range Severities {
				assert.Equal(t, 0, report.Summary.ConflictsBySeverity[sev])
			}
		})
	}
}

func TestDetectSettingConflict(t *testing.T) {
	t.Parallel()

	report := Detect([]project.Config{
		{Settings: map[string]any{"theme": "light"}},
		{Settings: map[string]any{"theme": "dark"}},
	})

	require.Len(t, report.Conflicts, 1)
	c := report.Conflicts[0]
	assert.Equal(t, TypeSettingValue, c.Type)
	assert.Equal(t, "settings.theme", c.Path)
	assert.Equal(t, []any{"light", "dark"}, c.Values)
	assert.Equal(t, SeverityLow, c.Severity)
	assert.Equal(t, "prefer-last", c.RecommendedResolution)
	assert.Equal(t, []int{0, 1}, c.Context.AffectedProjects)
	assert.Equal(t, 1, report.Summary.ConflictsByType[TypeSettingValue])
	assert.Equal(t, 1, report.Summary.ConflictsBySeverity[SeverityLow])
}

func TestDetectSettingConflictListsAllDefiners(t *testing.T) {
	t.Parallel()

	// The third project agrees with the first but still appears in context.
	report := Detect([]project.Config{
		{Settings: map[string]any{"theme": "light"}},
		{Settings: map[string]any{"theme": "dark"}},
		{Settings: map[string]any{"theme": "light"}},
	})

	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, []int{0, 1, 2}, report.Conflicts[0].Context.AffectedProjects)
	assert.Equal(t, []any{"light", "dark"}, report.Conflicts[0].Values)
}

func TestDetectNestedSettings(t *testing.T) {
	t.Parallel()

	report := Detect([]project.Config{
		{Settings: map[string]any{"editor": map[string]any{"tabSize": float64(2)}}},
		{Settings: map[string]any{"editor": map[string]any{"tabSize": float64(4)}}},
	})

	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "settings.editor.tabSize", report.Conflicts[0].Path)
}

func TestDetectArraysAreLeafValues(t *testing.T) {
	t.Parallel()

	report := Detect([]project.Config{
		{Settings: map[string]any{"tags": []any{"a", "b"}}},
		{Settings: map[string]any{"tags": []any{"a", "c"}}},
	})

	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "settings.tags", report.Conflicts[0].Path)
}

func TestDetectEqualMapsDifferingKeyOrderAgree(t *testing.T) {
	t.Parallel()

	// Deep equality, not serialized comparison: key order is irrelevant.
	report := Detect([]project.Config{
		{Settings: map[string]any{"editor": map[string]any{"a": float64(1), "b": float64(2)}}},
		{Settings: map[string]any{"editor": map[string]any{"b": float64(2), "a": float64(1)}}},
	})

	assert.Empty(t, report.Conflicts)
}

func TestDetectPermissionHierarchy(t *testing.T) {
	t.Parallel()

	report := Detect([]project.Config{
		{Permissions: []string{"Read(*)"}},
		{Permissions: []string{"Read(/a/b)"}},
	})

	require.Len(t, report.Conflicts, 1)
	c := report.Conflicts[0]
	assert.Equal(t, TypeCapabilityHierarchy, c.Type)
	assert.Equal(t, SeverityMedium, c.Severity)
	assert.Equal(t, "use-more-general", c.RecommendedResolution)
	// More general grant always comes first regardless of input order.
	assert.Equal(t, []any{"Read(*)", "Read(/a/b)"}, c.Values)
}

func TestDetectPermissionHierarchyReversedInput(t *testing.T) {
	t.Parallel()

	report := Detect([]project.Config{
		{Permissions: []string{"Read(/a/b)"}},
		{Permissions: []string{"Read(*)"}},
	})

	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, []any{"Read(*)", "Read(/a/b)"}, report.Conflicts[0].Values)
}

func TestDetectPermissionOverlap(t *testing.T) {
	t.Parallel()

	report := Detect([]project.Config{
		{Permissions: []string{"Read(/a/b)"}},
		{Permissions: []string{"Read(/a/c)"}},
	})

	require.Len(t, report.Conflicts, 1)
	c := report.Conflicts[0]
	assert.Equal(t, TypeCapabilityOverlap, c.Type)
	assert.Equal(t, "merge-union", c.RecommendedResolution)
	assert.Equal(t, []any{"Read(/a/b)", "Read(/a/c)"}, c.Values)
}

func TestDetectDifferentActionsNeverCompared(t *testing.T) {
	t.Parallel()

	report := Detect([]project.Config{
		{Permissions: []string{"Read(*)"}},
		{Permissions: []string{"Write(*)"}},
	})

	assert.Empty(t, report.Conflicts)
}

func TestDetectIdenticalGrantsNoConflict(t *testing.T) {
	t.Parallel()

	report := Detect([]project.Config{
		{Permissions: []string{"Read(*)"}},
		{Permissions: []string{"Read(*)"}},
	})

	assert.Empty(t, report.Conflicts)
}

func TestDetectIntegrationConflict(t *testing.T) {
	t.Parallel()

	a := project.Integration{"enabled": true, "url": "https://a.example"}
	b := project.Integration{"enabled": true, "url": "https://b.example"}

	report := Detect([]project.Config{
		{Integrations: map[string]project.Integration{"github": a}},
		{Integrations: map[string]project.Integration{"github": b}},
	})

	require.Len(t, report.Conflicts, 1)
	c := report.Conflicts[0]
	assert.Equal(t, TypeIntegrationConfig, c.Type)
	assert.Equal(t, "integrations.github", c.Path)
	assert.Equal(t, SeverityHigh, c.Severity)
	assert.Equal(t, "manual-review", c.RecommendedResolution)
	// Every defining project's record, duplicates included.
	assert.Equal(t, []any{a, b}, c.Values)
	assert.Equal(t, []int{0, 1}, c.Context.AffectedProjects)
}

func TestDetectIdenticalIntegrationsAgree(t *testing.T) {
	t.Parallel()

	record := project.Integration{"enabled": true, "url": "https://a.example"}
	report := Detect([]project.Config{
		{Integrations: map[string]project.Integration{"github": record}},
		{Integrations: map[string]project.Integration{"github": record}},
	})

	assert.Empty(t, report.Conflicts)
}

func TestDetectReportOrderAndSummary(t *testing.T) {
	t.Parallel()

	// Permission conflicts come first, then settings, then integrations.
	report := Detect([]project.Config{
		{
			Permissions:  []string{"Read(*)"},
			Settings:     map[string]any{"theme": "light"},
			Integrations: map[string]project.Integration{"gh": {"enabled": true}},
		},
		{
			Permissions:  []string{"Read(/a)"},
			Settings:     map[string]any{"theme": "dark"},
			Integrations: map[string]project.Integration{"gh": {"enabled": false}},
		},
	})

	require.Len(t, report.Conflicts, 3)
	assert.Equal(t, TypeCapabilityHierarchy, report.Conflicts[0].Type)
	assert.Equal(t, TypeSettingValue, report.Conflicts[1].Type)
	assert.Equal(t, TypeIntegrationConfig, report.Conflicts[2].Type)

	assert.Equal(t, 3, report.Summary.TotalConflicts)
	assert.Equal(t, 2, report.Summary.ConflictsBySeverity[SeverityMedium]+
		report.Summary.ConflictsBySeverity[SeverityLow])
	assert.Equal(t, 1, report.Summary.ConflictsBySeverity[SeverityHigh])
}
