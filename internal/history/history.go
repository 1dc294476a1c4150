// Package history provides merge operation history storage and retrieval.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// HistoryFileName is the name of the history file.
	HistoryFileName = "history.yaml"
	// BackupSuffix is the suffix for backup files when corruption is detected.
	BackupSuffix = ".backup"
)

// Status constants for history entries.
const (
	// StatusRunning indicates the merge is currently executing.
	StatusRunning = "running"
	// StatusCompleted indicates the merge finished without being applied.
	StatusCompleted = "completed"
	// StatusApplied indicates the merge result was written to disk.
	StatusApplied = "applied"
	// StatusFailed indicates the merge finished with an error.
	StatusFailed = "failed"
)

// Entry represents a single merge operation record.
type Entry struct {
	// ID is a unique identifier in adjective_noun_YYYYMMDD_HHMMSS format.
	ID string `yaml:"id,omitempty"`
	// Timestamp is when the merge started (RFC3339 format in YAML).
	Timestamp time.Time `yaml:"timestamp"`
	// Strategy is the merge strategy name.
	Strategy string `yaml:"strategy"`
	// Projects lists the names of the merged source projects.
	Projects []string `yaml:"projects,omitempty"`
	// ConflictsDetected is the inline scan's conflict count.
	ConflictsDetected int `yaml:"conflicts_detected"`
	// RiskLevel is the audit's aggregate risk level (may be empty when
	// the audit was skipped).
	RiskLevel string `yaml:"risk_level,omitempty"`
	// Status is the current state: running, completed, applied, failed.
	Status string `yaml:"status,omitempty"`
	// CompletedAt is when the merge finished (nil if still running).
	CompletedAt *time.Time `yaml:"completed_at,omitempty"`
	// Duration is the execution duration in Go duration format.
	Duration string `yaml:"duration,omitempty"`
}

// File represents the YAML file containing all history entries.
type File struct {
	// Entries is an ordered list of merges (newest appended at end).
	Entries []Entry `yaml:"entries"`
}

// Load loads the history file from the given state directory.
// Returns empty history if the file doesn't exist. Corrupted files are
// backed up and replaced by a fresh history.
func Load(stateDir string) (*File, error) {
	historyPath := filepath.Join(stateDir, HistoryFileName)

	data, err := os.ReadFile(historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{Entries: []Entry{}}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history File
	if err := yaml.Unmarshal(data, &history); err != nil {
		if backupErr := backupCorruptedFile(historyPath); backupErr != nil {
			return nil, fmt.Errorf("backing up corrupted history file: %w", backupErr)
		}
		return &File{Entries: []Entry{}}, nil
	}

	if history.Entries == nil {
		history.Entries = []Entry{}
	}

	return &history, nil
}

// backupCorruptedFile renames a corrupted file with a .backup suffix.
func backupCorruptedFile(path string) error {
	backupPath := path + BackupSuffix
	if err := os.Rename(path, backupPath); err != nil {
		return fmt.Errorf("renaming corrupted file to backup: %w", err)
	}
	return nil
}

// Save saves the history file to the given state directory using atomic
// writes. Creates parent directories if needed.
func Save(stateDir string, history *File) error {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	historyPath := filepath.Join(stateDir, HistoryFileName)
	tmpPath := historyPath + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing temp history file: %w", err)
	}

	if err := os.Rename(tmpPath, historyPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp history file: %w", err)
	}

	return nil
}

// Clear removes all entries from the history file.
func Clear(stateDir string) error {
	return Save(stateDir, &File{Entries: []Entry{}})
}
