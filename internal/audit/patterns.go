// Package audit scans a merged configuration for dangerous capability
// grants, dangerous shell commands, insecure remote integrations, and risky
// settings, producing an aggregate risk level and prioritized
// recommendations.
package audit

import (
	"regexp"

	"github.com/ariel-frischer/ccem/internal/conflict"
)

// pattern is one entry in an ordered scan table. Tables are built once at
// init and never mutated.
type pattern struct {
	matcher        *regexp.Regexp
	severity       conflict.Severity
	description    string
	recommendation string
}

// dangerousPermissions flags grants that hand out broad or system-level
// write access. A single grant may match several entries; each match
// becomes its own issue.
var dangerousPermissions = []pattern{
	{
		matcher:        regexp.MustCompile(`^Write\(\*\)$`),
		severity:       conflict.SeverityHigh,
		description:    "unrestricted write access to the entire filesystem",
		recommendation: "scope Write grants to the specific paths the project needs",
	},
	{
		matcher:        regexp.MustCompile(`^Write\(/etc/`),
		severity:       conflict.SeverityCritical,
		description:    "write access to system configuration under /etc",
		recommendation: "remove write grants for system configuration directories",
	},
	{
		matcher:        regexp.MustCompile(`^Write\(/root/`),
		severity:       conflict.SeverityCritical,
		description:    "write access to the root user's home directory",
		recommendation: "remove write grants for privileged home directories",
	},
	{
		matcher:        regexp.MustCompile(`^Write\(/sys/`),
		severity:       conflict.SeverityCritical,
		description:    "write access to kernel interfaces under /sys",
		recommendation: "remove write grants for kernel interface paths",
	},
}

// dangerousCommands flags shell commands inside Bash(...) grants.
var dangerousCommands = []pattern{
	{
		matcher:        regexp.MustCompile(`rm\s+-rf\s+/`),
		severity:       conflict.SeverityCritical,
		description:    "recursive forced deletion from the filesystem root",
		recommendation: "remove destructive filesystem commands from permission grants",
	},
	{
		matcher:        regexp.MustCompile(`\bsudo\b`),
		severity:       conflict.SeverityHigh,
		description:    "privilege escalation via sudo",
		recommendation: "avoid granting commands that escalate privileges",
	},
	{
		matcher:        regexp.MustCompile(`\b(curl|wget)\b[^|]*\|\s*(ba|z)?sh\b`),
		severity:       conflict.SeverityCritical,
		description:    "remote script piped directly into a shell",
		recommendation: "download and inspect remote scripts before executing them",
	},
	{
		matcher:        regexp.MustCompile(`\beval\b`),
		severity:       conflict.SeverityHigh,
		description:    "dynamic code execution via eval",
		recommendation: "replace eval with explicit commands",
	},
	{
		matcher:        regexp.MustCompile(`\$\{[^}]*\}`),
		severity:       conflict.SeverityMedium,
		description:    "shell variable expansion inside a granted command",
		recommendation: "pin granted commands to literal arguments",
	},
	{
		matcher:        regexp.MustCompile(`>\s*/dev/sd[a-z]`),
		severity:       conflict.SeverityCritical,
		description:    "direct write to a block device",
		recommendation: "remove block device writes from permission grants",
	},
	{
		matcher:        regexp.MustCompile(`\bdd\s+if=`),
		severity:       conflict.SeverityHigh,
		description:    "raw disk copy via dd",
		recommendation: "remove raw disk operations from permission grants",
	},
}

// insecureDomains lists known-bad domain substrings for integration urls.
var insecureDomains = []string{
	"pastebin.com",
	"hastebin.com",
	"transfer.sh",
	"ngrok.io",
}
