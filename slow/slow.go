// Package slow wires the review gate together for embedding in a host:
// configuration, the staging store, external tools, the terminal surface
// and the slow mode controller.
package slow

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rytswd/slow/cli"
	"github.com/rytswd/slow/internal/bridge"
	"github.com/rytswd/slow/internal/diff"
	"github.com/rytswd/slow/internal/gate"
	"github.com/rytswd/slow/internal/review"
	"github.com/rytswd/slow/internal/stage"
	"github.com/rytswd/slow/internal/ui"
	"github.com/rytswd/slow/model"
)

// App owns one slow mode session.
type App struct {
	store      *stage.Store
	bridge     *bridge.Bridge
	surface    gate.Surface
	controller *gate.Controller
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates an App. A nil surface means reviews run on the controlling
// terminal.
func New(cfg *cli.Config, surface gate.Surface) (*App, error) {
	store, err := stage.New("slow-")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize staging store: %w", err)
	}

	b := NewBridge(cfg)
	if surface == nil {
		surface = &gate.Terminal{Bridge: b, Options: ReviewOptions(cfg)}
	}

	cwd, _ := os.Getwd()
	controller := gate.New(store, surface, gate.Options{
		ContextLines: cfg.ContextLines,
		Bridge:       b,
		Colorize:     cfg.Colorize,
		Cwd:          cwd,
	})
	if cfg.StartEnabled {
		controller.Enable()
	}

	return &App{
		store:      store,
		bridge:     b,
		surface:    surface,
		controller: controller,
	}, nil
}

// NewBridge builds the external tool bridge described by cfg.
func NewBridge(cfg *cli.Config) *bridge.Bridge {
	b := bridge.New()
	b.Editor = cfg.Editor
	if len(cfg.DiffTools) > 0 {
		b.DiffTools = cfg.DiffTools
	}
	b.ColorizeTimeout = cfg.ColorizeTimeout
	b.ContextLines = cfg.ContextLines
	b.Remote = cfg.NvimRemote
	return b
}

// ReviewOptions converts cfg into review session options.
func ReviewOptions(cfg *cli.Config) review.Options {
	return review.Options{
		Window:      cfg.WindowLines,
		DoublePress: cfg.DoublePress,
	}
}

// SetupLogging sends the standard logger to path, or discards it when path
// is empty. The returned closer must be closed on exit.
func SetupLogging(path string) (io.Closer, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return io.NopCloser(nil), nil
	}
	f, err := tea.LogToFile(path, "slow")
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log %s: %w", path, err)
	}
	return f, nil
}

func (a *App) Controller() *gate.Controller { return a.controller }
func (a *App) Bridge() *bridge.Bridge         { return a.bridge }

// Toggle flips slow mode, shows the new status and notifies the user.
func (a *App) Toggle() bool {
	on := a.controller.Toggle()
	ui.Status(a.controller.Status())
	if on {
		ui.Notify("Slow mode enabled: every write and edit will be reviewed")
	} else {
		ui.Notify("Slow mode disabled")
	}
	return on
}

// Intercept hands m to the gate.
func (a *App) Intercept(ctx context.Context, m model.Mutation) (out model.Outcome, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			out = model.Outcome{RequestID: m.RequestID, Action: model.Block, Reason: "internal error during review"}
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()
	return a.controller.Intercept(ctx, m)
}

// Complete annotates the result of a carried out mutation.
func (a *App) Complete(requestID, result string) string {
	return a.controller.Complete(requestID, result)
}

// Diff renders the unified diff between two texts, colorized through b
// when color is set and a colorizer is available.
func Diff(ctx context.Context, b *bridge.Bridge, label, oldText, newText string, contextLines int, color bool) string {
	text := diff.UnifiedText(label, oldText, newText, contextLines)
	if color && text != "" {
		text = b.Colorize(ctx, text)
	}
	return text
}

// Close shuts the controller down and purges staged files.
func (a *App) Close() error {
	return a.controller.Shutdown()
}
