// Package stage materializes proposed content as files under a private
// temporary root so that external diff tools and editors can work on them.
package stage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Store owns one temporary root for the lifetime of a session.
type Store struct {
	mu     sync.Mutex
	root   string
	closed bool
}

// New creates a Store rooted in a freshly created, randomly named temporary
// directory.
func New(prefix string) (*Store, error) {
	if prefix == "" {
		prefix = "slow-"
	}
	root, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the staging root directory.
func (s *Store) Root() string {
	return s.root
}

// Stage writes content to rel under the root, creating parent directories,
// and returns the absolute path of the staged artifact.
func (s *Store) Stage(rel, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", fmt.Errorf("staging store is closed")
	}
	path, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("failed to create staging directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", rel, err)
	}
	return path, nil
}

// StageEdit stages the old and new snapshot of target side by side. The
// names are "<base>-<millis>.old<ext>" and "<base>-<millis>.new<ext>" so
// tools can still infer the file type from the extension.
func (s *Store) StageEdit(target, oldText, newText string, now time.Time) (oldPath, newPath string, err error) {
	base := filepath.Base(target)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "file"
	}
	stamp := now.UnixMilli()

	oldPath, err = s.Stage(fmt.Sprintf("%s-%d.old%s", stem, stamp, ext), oldText)
	if err != nil {
		return "", "", err
	}
	newPath, err = s.Stage(fmt.Sprintf("%s-%d.new%s", stem, stamp, ext), newText)
	if err != nil {
		_ = s.Unstage(oldPath)
		return "", "", err
	}
	return oldPath, newPath, nil
}

// Read returns the current content of a staged artifact.
func (s *Store) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read staged file: %w", err)
	}
	return string(data), nil
}

// Unstage deletes a staged artifact. A missing file is not an error.
func (s *Store) Unstage(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to unstage %s: %w", path, err)
	}
	return nil
}

// Artifacts lists the regular files currently under the root.
func (s *Store) Artifacts() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// Close removes the root and everything below it. It is safe to call more
// than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("failed to remove staging root: %w", err)
	}
	return nil
}

// resolve maps rel to a path under the root, refusing anything that would
// land outside it.
func (s *Store) resolve(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || clean == "" {
		return "", fmt.Errorf("invalid staging path %q", rel)
	}
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("staging path %q escapes the staging root", rel)
	}
	return filepath.Join(s.root, clean), nil
}

// RelPath turns a mutation target into a path relative to the staging root.
// Paths inside cwd keep their layout; other absolute paths lose their volume
// and leading separators.
func RelPath(target, cwd string) string {
	if !filepath.IsAbs(target) {
		clean := filepath.Clean(target)
		if clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return clean
		}
		if cwd == "" {
			return filepath.Base(clean)
		}
		target = filepath.Join(cwd, clean)
	}

	if cwd != "" {
		if rel, err := filepath.Rel(cwd, target); err == nil &&
			rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return rel
		}
	}
	trimmed := strings.TrimPrefix(target, filepath.VolumeName(target))
	trimmed = strings.TrimLeft(trimmed, string(filepath.Separator))
	if trimmed == "" {
		return "root"
	}
	return trimmed
}
