// Package permission provides capability-grant string helpers and the
// specificity ordering used for permission hierarchy analysis.
//
// A grant has the form Action(pattern), e.g. "Read(*)" or "Write(/etc/*)".
// No grammar validation is performed: malformed strings (missing parentheses)
// are simply never classified as a hierarchy relationship.
package permission

import "strings"

// Action returns the action prefix of a grant (the substring before the
// first parenthesis), or "" when the grant carries no parenthesized pattern.
func Action(grant string) string {
	open := strings.Index(grant, "(")
	if open <= 0 {
		return ""
	}
	if !strings.Contains(grant[open+1:], ")") {
		return ""
	}
	return grant[:open]
}

// Pattern returns the first parenthesized group of a grant.
// The second return value is false when no such group exists.
func Pattern(grant string) (string, bool) {
	open := strings.Index(grant, "(")
	if open < 0 {
		return "", false
	}
	end := strings.Index(grant[open+1:], ")")
	if end < 0 {
		return "", false
	}
	return grant[open+1 : open+1+end], true
}

// Command returns the full inner text of a grant: everything between the
// first opening parenthesis and the final closing one. Unlike Pattern this
// tolerates nested parentheses, which shell commands routinely contain.
func Command(grant string) (string, bool) {
	open := strings.Index(grant, "(")
	end := strings.LastIndex(grant, ")")
	if open < 0 || end < open {
		return "", false
	}
	return grant[open+1 : end], true
}

// IsMoreGeneral reports whether grant a is broader than grant b.
//
// Only grants sharing the same action are ordered. The rules, in order:
// a bare "*" pattern is broader than any non-"*" pattern; otherwise a is
// broader only when its pattern (trailing "*" stripped) is a strict prefix
// of b's pattern and a's raw pattern is shorter than b's.
//
// This is a heuristic ordering, not a formal subset proof: multi-segment
// wildcard patterns such as "/a/*/c" vs "/a/b*" can be misclassified.
func IsMoreGeneral(a, b string) bool {
	pa, ok := Pattern(a)
	if !ok {
		return false
	}
	pb, ok := Pattern(b)
	if !ok {
		return false
	}
	if Action(a) != Action(b) {
		return false
	}

	if pa == "*" {
		return pb != "*"
	}
	if pb == "*" {
		return false
	}

	base := strings.TrimSuffix(pa, "*")
	return strings.HasPrefix(pb, base) && pb != base && len(pa) < len(pb)
}

// Dedup removes duplicate grants, keeping the first occurrence of each and
// preserving input order.
func Dedup(grants []string) []string {
	seen := make(map[string]struct{}, len(grants))
	out := make([]string, 0, len(grants))
	for _, g := range grants {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
