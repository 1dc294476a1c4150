package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"projects_dir":        ".",
		"state_dir":           "~/.ccem/state",
		"default_strategy":    "recommended",
		"max_history_entries": 500,
		"server_port":         8420,
		"skip_confirmations":  false,
		"show_progress":       true,
	}
}
