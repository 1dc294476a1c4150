// Package project defines the project configuration model shared by the merge,
// conflict, and audit packages, along with JSON loading and disk discovery.
package project

// Config is one project's configuration as supplied by the operator.
// Inputs are owned by the caller and never mutated by this tool.
type Config struct {
	// Permissions is an unordered list of capability-grant strings in
	// Action(pattern) form, e.g. "Read(*)" or "Bash(npm test)".
	// Duplicates are possible.
	Permissions []string `json:"permissions" koanf:"permissions"`
	// Integrations maps an integration name to its record.
	Integrations map[string]Integration `json:"integrations" koanf:"integrations"`
	// Settings maps dotted-or-flat keys to arbitrary values.
	Settings map[string]any `json:"settings" koanf:"settings"`
}

// Integration is a named external-tool record: an enabled flag plus an open
// set of additional fields that may include a connection url.
type Integration map[string]any

// Enabled reports whether the record's enabled flag is set to true.
// A missing or ill-typed flag reads as false.
func (i Integration) Enabled() bool {
	v, ok := i["enabled"].(bool)
	return ok && v
}

// URL returns the record's url field, or "" when absent or not a string.
func (i Integration) URL() string {
	v, _ := i["url"].(string)
	return v
}

// Source pairs a loaded Config with where it came from.
type Source struct {
	Name   string
	Path   string
	Config Config
}

// normalize replaces nil collections so callers can range without nil checks.
func (c *Config) normalize() {
	if c.Permissions == nil {
		c.Permissions = []string{}
	}
	if c.Integrations == nil {
		c.Integrations = map[string]Integration{}
	}
	if c.Settings == nil {
		c.Settings = map[string]any{}
	}
}
