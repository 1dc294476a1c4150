// Package config loads and validates the ccem CLI tool configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the ccem CLI tool configuration
type Configuration struct {
	ProjectsDir       string `koanf:"projects_dir" validate:"required"`
	StateDir          string `koanf:"state_dir" validate:"required"`
	DefaultStrategy   string `koanf:"default_strategy" validate:"required,oneof=recommended default conservative hybrid custom"`
	MaxHistoryEntries int    `koanf:"max_history_entries" validate:"min=0,max=10000"`
	ServerPort        int    `koanf:"server_port" validate:"min=1,max=65535"`
	SkipConfirmations bool   `koanf:"skip_confirmations"` // Skip confirmation prompts (can also be set via CCEM_YES env var)
	ShowProgress      bool   `koanf:"show_progress"`      // Show progress indicators (spinners) during snapshot/backup
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	// Apply defaults first
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Load global config if it exists
	homeDir, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(homeDir, ".ccem", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	// Load local config if it exists
	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	k.Load(env.Provider("CCEM_", ".", envTransform), nil)

	// Unmarshal into struct
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Expand home directory in paths
	cfg.StateDir = expandHomePath(cfg.StateDir)
	cfg.ProjectsDir = expandHomePath(cfg.ProjectsDir)

	// Handle CCEM_YES as an alias for skip_confirmations
	if os.Getenv("CCEM_YES") != "" {
		cfg.SkipConfirmations = true
	}

	return &cfg, nil
}

// envTransform converts environment variable names to config keys
// Example: CCEM_MAX_HISTORY_ENTRIES -> max_history_entries
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "CCEM_"))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
