package gate

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/rytswd/slow/internal/bridge"
	"github.com/rytswd/slow/internal/review"
	"github.com/rytswd/slow/model"
)

// DefaultTTY is the controlling terminal on Unix systems.
const DefaultTTY = "/dev/tty"

// Terminal is a Surface that runs reviews on the controlling terminal. It
// opens the terminal device itself so it keeps working when stdin and
// stdout are pipes, as they are for a protocol server.
type Terminal struct {
	Bridge  *bridge.Bridge
	Options review.Options
	// TTY is the terminal device. Empty means DefaultTTY.
	TTY string
}

func (t *Terminal) open() (*os.File, error) {
	path := t.TTY
	if path == "" {
		path = DefaultTTY
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal %s: %w", path, err)
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		f.Close()
		return nil, fmt.Errorf("%s is not a terminal", path)
	}
	return f, nil
}

func (t *Terminal) Available() bool {
	f, err := t.open()
	if err != nil {
		return false
	}
	f.Close()
	return true
}

func (t *Terminal) Review(ctx context.Context, req review.Request) (model.Decision, error) {
	f, err := t.open()
	if err != nil {
		return model.Reject, err
	}
	defer f.Close()

	opts := t.Options
	opts.Input, opts.Output = f, f
	opts.AltScreen = true
	return review.Run(ctx, req, opts)
}

func (t *Terminal) Edit(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := t.Bridge
	if b == nil {
		b = bridge.New()
	}
	f, err := t.open()
	if err != nil {
		return err
	}
	defer f.Close()

	return b.OpenFile(path, f)
}
