package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/rytswd/slow/internal/ui"
)

// SourceProvider determines and retrieves proposed content.
type SourceProvider struct {
	// File, when set, is read instead of stdin or the clipboard. "-" means
	// stdin.
	File string

	stdin         *os.File
	readClipboard func() (string, error)
}

// New creates a new SourceProvider reading from file when it is not empty.
func New(file string) *SourceProvider {
	return &SourceProvider{
		File:          file,
		stdin:         os.Stdin,
		readClipboard: clipboard.ReadAll,
	}
}

// GetContent retrieves content from the file, stdin (if piped) or the
// clipboard, in that order.
func (sp *SourceProvider) GetContent() (string, error) {
	if sp.File != "" && sp.File != "-" {
		content, err := os.ReadFile(sp.File)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", sp.File, err)
		}
		return string(content), nil
	}

	if sp.File == "-" || isPiped(sp.stdin) {
		ui.Header("--- Reading from stdin ---")
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	}

	ui.Header("--- Reading from clipboard ---")
	content, err := sp.readClipboard()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		ui.Warning("Clipboard is empty. Nothing to process.")
		return "", nil
	}
	return content, nil
}

func isPiped(f *os.File) bool {
	if f == nil {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
