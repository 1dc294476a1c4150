package config

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "default_strategy")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"projects_dir": {
		Path:        "projects_dir",
		Type:        TypeString,
		Description: "Directory scanned for project configurations",
		Default:     ".",
	},
	"state_dir": {
		Path:        "state_dir",
		Type:        TypeString,
		Description: "Directory for snapshots, backups, and history",
		Default:     "~/.ccem/state",
	},
	"default_strategy": {
		Path:          "default_strategy",
		Type:          TypeEnum,
		AllowedValues: []string{"recommended", "default", "conservative", "hybrid", "custom"},
		Description:   "Merge strategy used when --strategy is not given",
		Default:       "recommended",
	},
	"max_history_entries": {
		Path:        "max_history_entries",
		Type:        TypeInt,
		Description: "Maximum number of merge history entries to retain",
		Default:     500,
	},
	"server_port": {
		Path:        "server_port",
		Type:        TypeInt,
		Description: "Port for the dashboard server",
		Default:     8420,
	},
	"skip_confirmations": {
		Path:        "skip_confirmations",
		Type:        TypeBool,
		Description: "Skip confirmation prompts",
		Default:     false,
	},
	"show_progress": {
		Path:        "show_progress",
		Type:        TypeBool,
		Description: "Show progress indicators during snapshot and backup",
		Default:     true,
	},
}
