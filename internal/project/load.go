package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// SettingsFileNames are the config file names recognized during discovery,
// checked in order inside each project's .claude directory.
var SettingsFileNames = []string{"settings.json", "settings.local.json"}

// Load reads a single project configuration from a JSON file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("loading project config %s: %w", path, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing project config %s: %w", path, err)
	}

	cfg.normalize()
	return &cfg, nil
}

// LoadAll loads every path in order, pairing each config with its source.
// The file's base directory name labels the project.
func LoadAll(paths []string) ([]Source, error) {
	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		cfg, err := Load(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{
			Name:   sourceName(path),
			Path:   path,
			Config: *cfg,
		})
	}
	return sources, nil
}

// Discover walks the immediate subdirectories of root looking for Claude
// project configurations (.claude/settings.json or .claude/settings.local.json).
// Results are sorted by project name for deterministic merge ordering.
func Discover(root string) ([]Source, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading projects directory %s: %w", root, err)
	}

	var sources []Source
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		for _, name := range SettingsFileNames {
			path := filepath.Join(root, entry.Name(), ".claude", name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				return nil, err
			}
			sources = append(sources, Source{
				Name:   entry.Name(),
				Path:   path,
				Config: *cfg,
			})
			break
		}
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}

// Configs extracts the bare configs from a list of sources, preserving order.
func Configs(sources []Source) []Config {
	configs := make([]Config, len(sources))
	for i, src := range sources {
		configs[i] = src.Config
	}
	return configs
}

// sourceName derives a project label from a config file path.
// For .claude/settings.json layouts the project directory name is used.
func sourceName(path string) string {
	dir := filepath.Dir(path)
	if filepath.Base(dir) == ".claude" {
		return filepath.Base(filepath.Dir(dir))
	}
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
