package review

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rytswd/slow/model"
)

// Options tune a review session.
type Options struct {
	// Window is the number of body lines visible at once.
	Window int
	// DoublePress is how long a first "g" waits for the second.
	DoublePress time.Duration
	// Input and Output default to the process terminal when nil.
	Input  io.Reader
	Output io.Writer
	// AltScreen draws the session on the alternate screen.
	AltScreen bool
}

// Run shows one review session and blocks until it resolves. A session
// that ends without a decision counts as a rejection.
func Run(ctx context.Context, req Request, opts Options) (model.Decision, error) {
	popts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		popts = append(popts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		popts = append(popts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		popts = append(popts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(NewModel(req, opts), popts...).Run()
	if err != nil {
		return model.Reject, fmt.Errorf("review session for %s failed: %w", req.Path, err)
	}
	m, ok := final.(Model)
	if !ok || m.Decision() == model.DecisionNone {
		return model.Reject, nil
	}
	return m.Decision(), nil
}
