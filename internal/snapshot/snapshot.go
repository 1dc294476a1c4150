// Package snapshot creates checksummed file-tree snapshots and compressed
// backup archives so an applied merge can be rolled back.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// FileEntry records one file's state at snapshot time.
type FileEntry struct {
	Path         string    `json:"path"`
	Checksum     string    `json:"checksum"`
	Size         int64     `json:"size"`
	ModifiedTime time.Time `json:"modifiedTime"`
}

// Snapshot is a checksummed picture of a directory tree.
type Snapshot struct {
	ID        string      `json:"id"`
	Root      string      `json:"root"`
	CreatedAt time.Time   `json:"createdAt"`
	FileCount int         `json:"fileCount"`
	Files     []FileEntry `json:"files"`
}

// Create walks root and records every regular file with its sha256
// checksum. The .git directory is skipped.
func Create(root string) (*Snapshot, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving snapshot root: %w", err)
	}

	snap := &Snapshot{
		ID:        uuid.NewString(),
		Root:      abs,
		CreatedAt: time.Now().UTC(),
		Files:     []FileEntry{},
	}

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		checksum, err := checksumFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}

		snap.Files = append(snap.Files, FileEntry{
			Path:         rel,
			Checksum:     checksum,
			Size:         info.Size(),
			ModifiedTime: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", abs, err)
	}

	snap.FileCount = len(snap.Files)
	return snap, nil
}

// Save writes the snapshot as JSON under stateDir using an atomic
// temp-file rename. Returns the path written.
func (s *Snapshot) Save(stateDir string) (string, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}

	path := filepath.Join(stateDir, fmt.Sprintf("snapshot-%s.json", s.ID))
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing temp snapshot file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp snapshot file: %w", err)
	}
	return path, nil
}

// Load reads a snapshot previously written by Save.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot file: %w", err)
	}
	return &snap, nil
}

// Verify re-checksums the snapshot's files against the tree at root and
// returns the relative paths that changed, disappeared, or are new.
func (s *Snapshot) Verify(root string) ([]string, error) {
	var changed []string
	recorded := make(map[string]FileEntry, len(s.Files))
	for _, entry := range s.Files {
		recorded[entry.Path] = entry
	}

	for path, entry := range recorded {
		sum, err := checksumFile(filepath.Join(root, path))
		if err != nil {
			if os.IsNotExist(err) {
				changed = append(changed, path)
				continue
			}
			return nil, err
		}
		if sum != entry.Checksum {
			changed = append(changed, path)
		}
	}

	current, err := Create(root)
	if err != nil {
		return nil, err
	}
	for _, entry := range current.Files {
		if _, ok := recorded[entry.Path]; !ok {
			changed = append(changed, entry.Path)
		}
	}

	sort.Strings(changed)
	return changed, nil
}

func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("checksumming %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
