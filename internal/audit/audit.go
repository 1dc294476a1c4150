package audit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ariel-frischer/ccem/internal/conflict"
	"github.com/ariel-frischer/ccem/internal/merge"
	"github.com/ariel-frischer/ccem/internal/permission"
	"github.com/ariel-frischer/ccem/internal/project"
)

// IssueType identifies which scanner produced a finding.
type IssueType string

const (
	IssueDangerousPermission IssueType = "dangerous-permission"
	IssueDangerousBash       IssueType = "dangerous-bash"
	IssueInsecureIntegration IssueType = "insecure-integration"
	IssueConfigurationRisk   IssueType = "configuration-risk"
)

// Issue is one security finding.
type Issue struct {
	Type           IssueType         `json:"type"`
	Severity       conflict.Severity `json:"severity"`
	Description    string            `json:"description"`
	Recommendation string            `json:"recommendation"`
	AffectedField  string            `json:"affectedField"`
}

// Result aggregates all findings for one audit.
type Result struct {
	// Passed is true iff no issue is high or critical; medium and low
	// findings alone still pass.
	Passed bool    `json:"passed"`
	Issues []Issue `json:"issues"`
	// RiskLevel is the highest severity present, or low with no issues.
	RiskLevel conflict.Severity `json:"riskLevel"`
	// Summary counts issues per severity; every severity is present.
	Summary map[conflict.Severity]int `json:"summary"`
	// Recommendations holds up to 5 distinct texts, ascending by the
	// source issue's severity rank.
	Recommendations []string `json:"recommendations"`
}

// Target is any configuration shape the auditor can scan; it matches the
// merge result's payload but need not come from this engine.
type Target struct {
	Permissions  []string
	Integrations map[string]project.Integration
	Settings     map[string]any
}

// maxRecommendations caps the prioritized recommendation list.
const maxRecommendations = 5

// Merge audits a merge result.
func Merge(res *merge.Result) *Result {
	return Audit(Target{
		Permissions:  res.Permissions,
		Integrations: res.Integrations,
		Settings:     res.Settings,
	})
}

// Audit runs the permission, integration, and settings scanners over the
// target and aggregates their findings.
func Audit(target Target) *Result {
	var issues []Issue
	issues = append(issues, scanPermissions(target.Permissions)...)
	issues = append(issues, scanIntegrations(target.Integrations)...)
	issues = append(issues, scanSettings(target.Settings)...)
	if issues == nil {
		issues = []Issue{}
	}

	summary := make(map[conflict.Severity]int, len(conflict.Severities))
	for _, s := range conflict.Severities {
		summary[s] = 0
	}

	risk := conflict.SeverityLow
	passed := true
	for _, issue := range issues {
		summary[issue.Severity]++
		if issue.Severity.Rank() > risk.Rank() {
			risk = issue.Severity
		}
		if issue.Severity == conflict.SeverityHigh || issue.Severity == conflict.SeverityCritical {
			passed = false
		}
	}

	return &Result{
		Passed:          passed,
		Issues:          issues,
		RiskLevel:       risk,
		Summary:         summary,
		Recommendations: recommendations(issues),
	}
}

// scanPermissions tests every grant against the dangerous-permission table
// and, for Bash grants, the inner command against the dangerous-command
// table. Each pattern match is a distinct issue.
func scanPermissions(grants []string) []Issue {
	var issues []Issue
	for _, grant := range grants {
		for _, p := range dangerousPermissions {
			if !p.matcher.MatchString(grant) {
				continue
			}
			issues = append(issues, Issue{
				Type:           IssueDangerousPermission,
				Severity:       p.severity,
				Description:    fmt.Sprintf("%s: %s", grant, p.description),
				Recommendation: p.recommendation,
				AffectedField:  "permissions",
			})
		}

		if permission.Action(grant) != "Bash" {
			continue
		}
		cmd, ok := permission.Command(grant)
		if !ok {
			continue
		}
		for _, p := range dangerousCommands {
			if !p.matcher.MatchString(cmd) {
				continue
			}
			issues = append(issues, Issue{
				Type:           IssueDangerousBash,
				Severity:       p.severity,
				Description:    fmt.Sprintf("%s: %s", grant, p.description),
				Recommendation: p.recommendation,
				AffectedField:  "permissions",
			})
		}
	}
	return issues
}

// scanIntegrations inspects enabled integrations only. Plain-http remote
// urls are flagged medium; urls touching a known-bad domain gain a second,
// high-severity issue regardless.
func scanIntegrations(integrations map[string]project.Integration) []Issue {
	names := make([]string, 0, len(integrations))
	for name := range integrations {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []Issue
	for _, name := range names {
		record := integrations[name]
		if !record.Enabled() {
			continue
		}
		url := record.URL()
		if url == "" {
			continue
		}
		field := "integrations." + name

		if strings.HasPrefix(url, "http://") && !isLoopback(url) {
			issues = append(issues, Issue{
				Type:           IssueInsecureIntegration,
				Severity:       conflict.SeverityMedium,
				Description:    fmt.Sprintf("integration %q connects over unencrypted http: %s", name, url),
				Recommendation: "use a secure transport for remote integration connections",
				AffectedField:  field,
			})
		}

		for _, domain := range insecureDomains {
			if !strings.Contains(url, domain) {
				continue
			}
			issues = append(issues, Issue{
				Type:           IssueInsecureIntegration,
				Severity:       conflict.SeverityHigh,
				Description:    fmt.Sprintf("integration %q points at untrusted domain %s", name, domain),
				Recommendation: "remove integrations that route through untrusted hosts",
				AffectedField:  field,
			})
			break
		}
	}
	return issues
}

// scanSettings flags risky top-level settings.
func scanSettings(settings map[string]any) []Issue {
	var issues []Issue
	if v, ok := settings["allowRemoteExecution"].(bool); ok && v {
		issues = append(issues, Issue{
			Type:           IssueConfigurationRisk,
			Severity:       conflict.SeverityHigh,
			Description:    "allowRemoteExecution permits arbitrary remote command execution",
			Recommendation: "disable allowRemoteExecution unless the project strictly requires it",
			AffectedField:  "settings.allowRemoteExecution",
		})
	}
	return issues
}

// isLoopback reports whether a url targets the local machine.
func isLoopback(url string) bool {
	return strings.Contains(url, "localhost") || strings.Contains(url, "127.0.0.1")
}

// recommendations collects up to maxRecommendations distinct recommendation
// texts, ordered ascending by the source issue's severity rank. The sort is
// stable so equal severities keep scan order.
func recommendations(issues []Issue) []string {
	ordered := make([]Issue, len(issues))
	copy(ordered, issues)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Severity.Rank() < ordered[j].Severity.Rank()
	})

	seen := map[string]struct{}{}
	out := []string{}
	for _, issue := range ordered {
		if _, ok := seen[issue.Recommendation]; ok {
			continue
		}
		seen[issue.Recommendation] = struct{}{}
		out = append(out, issue.Recommendation)
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}
