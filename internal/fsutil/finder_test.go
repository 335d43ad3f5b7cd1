package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/haspcfg/internal/fsutil"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "global.yaml"))
	writeFile(t, filepath.Join(root, "devices", "plate", "vars.yml"))
	writeFile(t, filepath.Join(root, "devices", "plate", "home.jsonl"))
	writeFile(t, filepath.Join(root, ".git", "config.yaml"))
	writeFile(t, filepath.Join(root, "devices", ".hidden.yaml"))

	files, err := fsutil.FindFiles(root, "**/*.{yaml,yml}", "*.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "devices", "plate", "vars.yml"),
		filepath.Join(root, "global.yaml"),
	}, files)
}

func TestFindDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "devices", "plate", "a.cmd"))
	writeFile(t, filepath.Join(root, ".cache", "x"))

	dirs, err := fsutil.FindDirs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		root,
		filepath.Join(root, "devices"),
		filepath.Join(root, "devices", "plate"),
	}, dirs)
}

func TestMatchAnyAndHidden(t *testing.T) {
	assert.True(t, fsutil.MatchAny("home.jsonl", "*.jsonl", "*.cmd"))
	assert.False(t, fsutil.MatchAny("home.yaml", "*.jsonl", "*.cmd"))
	assert.True(t, fsutil.IsHidden("a/.b/c"))
	assert.False(t, fsutil.IsHidden("a/b/c"))
}
