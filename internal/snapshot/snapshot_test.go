package snapshot

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCreate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".claude", "settings.json"), `{"permissions": []}`)
	writeFile(t, filepath.Join(root, "README.md"), "readme")
	// Git internals are not part of a configuration snapshot.
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref: refs/heads/main")

	snap, err := Create(root)

	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, 2, snap.FileCount)
	require.Len(t, snap.Files, 2)

	for _, entry := range snap.Files {
		assert.NotEmpty(t, entry.Checksum)
		assert.Len(t, entry.Checksum, 64) // hex-encoded sha256
		assert.Greater(t, entry.Size, int64(0))
		assert.False(t, entry.ModifiedTime.IsZero())
		assert.NotContains(t, entry.Path, ".git")
	}
}

func TestCreateIdenticalContentSameChecksum(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.json"), "same")
	writeFile(t, filepath.Join(root, "b.json"), "same")

	snap, err := Create(root)

	require.NoError(t, err)
	require.Len(t, snap.Files, 2)
	assert.Equal(t, snap.Files[0].Checksum, snap.Files[1].Checksum)
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "settings.json"), `{}`)

	snap, err := Create(root)
	require.NoError(t, err)

	stateDir := t.TempDir()
	path, err := snap.Save(stateDir)
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, loaded.ID)
	assert.Equal(t, snap.FileCount, loaded.FileCount)
	require.Len(t, loaded.Files, 1)
	assert.Equal(t, snap.Files[0].Checksum, loaded.Files[0].Checksum)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "kept.json"), "kept")
	writeFile(t, filepath.Join(root, "changed.json"), "before")
	writeFile(t, filepath.Join(root, "removed.json"), "bye")

	snap, err := Create(root)
	require.NoError(t, err)

	// Untouched tree verifies clean.
	changed, err := snap.Verify(root)
	require.NoError(t, err)
	assert.Empty(t, changed)

	writeFile(t, filepath.Join(root, "changed.json"), "after")
	require.NoError(t, os.Remove(filepath.Join(root, "removed.json")))
	writeFile(t, filepath.Join(root, "added.json"), "new")

	changed, err = snap.Verify(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"added.json", "changed.json", "removed.json"}, changed)
}

func TestBackup(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".claude", "settings.json"), `{"a": 1}`)
	writeFile(t, filepath.Join(root, "notes.txt"), "notes")
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref")

	destDir := t.TempDir()
	archivePath, err := Backup(root, destDir)

	require.NoError(t, err)
	assert.FileExists(t, archivePath)

	// The archive round-trips: both files present, git internals absent.
	names := readArchiveNames(t, archivePath)
	assert.ElementsMatch(t, []string{".claude/settings.json", "notes.txt"}, names)
}

func readArchiveNames(t *testing.T, path string) []string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var names []string
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, header.Name)
	}
	return names
}
