package xopen

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramCache(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the executable bit")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mytool"), []byte("#!/bin/sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", dir)

	c := NewProgramCache()

	path, ok := c.Find("mytool")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "mytool"), path)

	assert.False(t, c.Available("missing-tool"))

	// results are memoised: removing the program does not change the answer until Refresh.
	require.NoError(t, os.Remove(filepath.Join(dir, "mytool")))
	assert.True(t, c.Available("mytool"))

	c.Refresh()
	assert.False(t, c.Available("mytool"))
}

func TestProgramCache_NotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the executable bit")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mytool"), []byte("#!/bin/sh\nexit 0\n"), 0o644))
	t.Setenv("PATH", dir)

	assert.False(t, NewProgramCache().Available("mytool"))
}
