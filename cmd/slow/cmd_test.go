package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rytswd/slow/internal/ui"
)

func TestMain(m *testing.M) {
	ui.Output = io.Discard
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte("a\nb\nc\n"), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte("a\nx\nc\n"), 0o644))

	out, err := execute(t, "diff", "--label", "src/f.txt", "--context", "1", oldPath, newPath)
	require.NoError(t, err)
	assert.Equal(t, "--- a/src/f.txt\n+++ b/src/f.txt\n@@ -1,3 +1,3 @@\n a\n-b\n+x\n c\n", out)

	_, err = execute(t, "diff", oldPath, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestConfigShowCommand(t *testing.T) {
	out, err := execute(t, "config", "show", "--context", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "context_lines: 7\n")
	assert.Contains(t, out, "window_lines: 30\n")
	assert.Contains(t, out, "double_press: 500ms\n")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "slow dev")
}

func TestReviewEditRejectsMissingFile(t *testing.T) {
	_, err := execute(t, "review", "edit", filepath.Join(t.TempDir(), "nope.go"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
