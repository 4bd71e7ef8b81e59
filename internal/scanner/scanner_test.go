package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinTDCT/pifindex/internal/watcher"
)

func TestWalkSkipsKnownAndIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.mkv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	known := map[string]bool{filepath.Join(dir, "a.jpg"): true}

	found, err := Walk(dir, known)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(dir, "b.mkv"), found[0].Path)
	assert.Equal(t, watcher.KindVideo, found[0].Kind)
}

func TestWalkEmptyDir(t *testing.T) {
	dir := t.TempDir()
	found, err := Walk(dir, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}
