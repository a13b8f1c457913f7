package slow

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rytswd/slow/model"
)

// ErrNoSurface is returned when a review is required but no terminal can
// show it.
var ErrNoSurface = errors.New("no terminal available for review")

// Review runs m through the gate with slow mode on and, when the mutation
// may proceed, writes the resulting content to m.Path. Edit mutations given
// to Review carry whole-file texts.
func (a *App) Review(ctx context.Context, m model.Mutation) (model.Outcome, error) {
	if !a.surface.Available() {
		return model.Outcome{Action: model.Block, Reason: ErrNoSurface.Error()}, ErrNoSurface
	}
	a.controller.Enable()

	out, err := a.Intercept(ctx, m)
	if err != nil || out.Action != model.Proceed {
		return out, err
	}
	if err := writeFile(m.Path, Result(m, out)); err != nil {
		return out, err
	}
	return out, nil
}

// Result is the content a proceeding mutation leaves behind: the reviewed
// text when the reviewer changed it, the proposal otherwise.
func Result(m model.Mutation, out model.Outcome) string {
	if m.Kind == model.KindEdit {
		if out.Replaced {
			return out.NewText
		}
		return m.NewText
	}
	if out.Replaced {
		return out.Content
	}
	return m.Content
}

func writeFile(path, content string) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
