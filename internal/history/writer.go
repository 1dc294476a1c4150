package history

import (
	"fmt"
	"os"
	"time"
)

// Writer provides history logging with automatic pruning.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries is the maximum number of entries to retain.
	MaxEntries int
}

// NewWriter creates a new history writer.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{
		StateDir:   stateDir,
		MaxEntries: maxEntries,
	}
}

// LogEntry adds a new entry to the history file.
// Errors are non-fatal: they are written to stderr and don't fail merges.
func (w *Writer) LogEntry(entry Entry) {
	if err := w.logEntryInternal(entry); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to log history: %v\n", err)
	}
}

func (w *Writer) logEntryInternal(entry Entry) error {
	history, err := Load(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	history.Entries = append(history.Entries, entry)

	// Prune oldest entries if over limit
	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := Save(w.StateDir, history); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}

	return nil
}

// WriteStart creates an entry with 'running' status when a merge starts.
// Returns the generated unique ID for later update via UpdateComplete.
func (w *Writer) WriteStart(strategy string, projects []string) (string, error) {
	id, err := GenerateID()
	if err != nil {
		return "", fmt.Errorf("generating history ID: %w", err)
	}

	entry := Entry{
		ID:        id,
		Timestamp: time.Now(),
		Strategy:  strategy,
		Projects:  projects,
		Status:    StatusRunning,
	}

	if err := w.logEntryInternal(entry); err != nil {
		return "", fmt.Errorf("writing start entry: %w", err)
	}

	return id, nil
}

// UpdateComplete updates a running entry with its final outcome.
// Returns an error if the entry with the given ID is not found.
func (w *Writer) UpdateComplete(id, status, riskLevel string, conflicts int, duration time.Duration) error {
	history, err := Load(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history for update: %w", err)
	}

	found := false
	for i := range history.Entries {
		if history.Entries[i].ID != id {
			continue
		}
		now := time.Now()
		history.Entries[i].Status = status
		history.Entries[i].RiskLevel = riskLevel
		history.Entries[i].ConflictsDetected = conflicts
		history.Entries[i].CompletedAt = &now
		history.Entries[i].Duration = duration.String()
		found = true
		break
	}
	if !found {
		return fmt.Errorf("history entry %q not found", id)
	}

	if err := Save(w.StateDir, history); err != nil {
		return fmt.Errorf("saving updated history: %w", err)
	}

	return nil
}
