package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/ariel-frischer/ccem/internal/config"
	"github.com/ariel-frischer/ccem/internal/conflict"
	"github.com/ariel-frischer/ccem/internal/project"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// severityColors renders a severity in the color dashboards use for it.
var severityColors = map[conflict.Severity]*color.Color{
	conflict.SeverityLow:      color.New(color.FgCyan),
	conflict.SeverityMedium:   color.New(color.FgYellow),
	conflict.SeverityHigh:     color.New(color.FgRed),
	conflict.SeverityCritical: color.New(color.FgRed, color.Bold),
}

// colorSeverity returns the severity text colorized for terminal output.
func colorSeverity(s conflict.Severity) string {
	c, ok := severityColors[s]
	if !ok {
		return string(s)
	}
	return c.Sprint(string(s))
}

// loadConfig resolves the tool configuration for a command invocation.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dir, _ := cmd.Flags().GetString("projects-dir"); dir != "" {
		cfg.ProjectsDir = dir
	}
	return cfg, nil
}

// resolveSources loads configs from explicit paths, or discovers them under
// the configured projects directory when no paths are given.
func resolveSources(cfg *config.Configuration, paths []string) ([]project.Source, error) {
	if len(paths) > 0 {
		return project.LoadAll(paths)
	}
	sources, err := project.Discover(cfg.ProjectsDir)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no project configurations found under %s", cfg.ProjectsDir)
	}
	return sources, nil
}

// withSpinner runs fn behind a progress spinner when enabled and the
// output is a terminal; otherwise it just prints the message.
func withSpinner(show bool, message string, fn func() error) error {
	if !show {
		fmt.Println(message)
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = os.Stderr // keep stdout clean for piped output
	s.Suffix = " " + message
	s.Start()
	err := fn()
	s.Stop()
	return err
}
