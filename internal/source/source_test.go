package source

import (
	"errors"
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

func pipeWith(t *testing.T, content string) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	go func() {
		w.WriteString(content)
		w.Close()
	}()
	t.Cleanup(func() { r.Close() })
	return r
}

func TestGetContent_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proposal.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	sp := New(path)
	sp.readClipboard = func() (string, error) { return "", errors.New("must not be called") }

	got, err := sp.GetContent()
	require.NoError(t, err)
	assert.Equal(t, "package main\n", got)

	_, err = New(filepath.Join(t.TempDir(), "missing")).GetContent()
	assert.Error(t, err)
}

func TestGetContent_Stdin(t *testing.T) {
	sp := New("")
	sp.stdin = pipeWith(t, "from a pipe")
	sp.readClipboard = func() (string, error) { return "", errors.New("must not be called") }

	got, err := sp.GetContent()
	require.NoError(t, err)
	assert.Equal(t, "from a pipe", got)
}

func TestGetContent_Clipboard(t *testing.T) {
	sp := New("")
	sp.stdin = nil
	sp.readClipboard = func() (string, error) { return "copied", nil }

	got, err := sp.GetContent()
	require.NoError(t, err)
	assert.Equal(t, "copied", got)

	sp.readClipboard = func() (string, error) { return "  \n", nil }
	got, err = sp.GetContent()
	require.NoError(t, err)
	assert.Empty(t, got)

	sp.readClipboard = func() (string, error) { return "", errors.New("no clipboard") }
	_, err = sp.GetContent()
	assert.Error(t, err)
}
