// Package gate decides, for each proposed file mutation, whether it needs a
// review, runs that review against staged copies of the content and turns
// the decision into an outcome for the host.
package gate

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rytswd/slow/internal/bridge"
	"github.com/rytswd/slow/internal/diff"
	"github.com/rytswd/slow/internal/review"
	"github.com/rytswd/slow/internal/stage"
	"github.com/rytswd/slow/model"
)

// RejectReason is the block reason reported when the reviewer rejects.
const RejectReason = "rejected during slow mode review"

// Surface is the interactive UI a review runs on.
type Surface interface {
	// Available reports whether a human can be asked right now.
	Available() bool
	// Review shows one review session and returns its decision.
	Review(ctx context.Context, req review.Request) (model.Decision, error)
	// Edit opens path in the user's editor and returns once it exits.
	Edit(ctx context.Context, path string) error
}

// Options configure a Controller. The zero value is usable.
type Options struct {
	ContextLines int
	// Bridge provides external tools for the "open externally" action and
	// colorization. Nil disables both.
	Bridge *bridge.Bridge
	// Colorize pipes edit diffs through the bridge colorizer.
	Colorize bool
	// Cwd is used to label and stage absolute targets.
	Cwd   string
	Now   func() time.Time
	NewID func() string
}

// Controller is the slow mode switch plus the per-mutation dispatcher.
type Controller struct {
	store   *stage.Store
	surface Surface
	opts    Options

	mu       sync.Mutex
	enabled  bool
	shutdown bool
	pending  map[string]model.Substitution

	// reviews run one at a time
	reviewMu sync.Mutex
}

// New creates a disabled Controller.
func New(store *stage.Store, surface Surface, opts Options) *Controller {
	if opts.ContextLines < 0 {
		opts.ContextLines = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = newULID
	}
	return &Controller{
		store:   store,
		surface: surface,
		opts:    opts,
		pending: make(map[string]model.Substitution),
	}
}

func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

func (c *Controller) Enable()  { c.set(true) }
func (c *Controller) Disable() { c.set(false) }

func (c *Controller) set(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = on && !c.shutdown
}

// Toggle flips slow mode and returns the new state.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = !c.enabled && !c.shutdown
	return c.enabled
}

func (c *Controller) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Status is the status-bar text for the current state.
func (c *Controller) Status() string {
	if c.IsEnabled() {
		return "slow mode: on"
	}
	return "slow mode: off"
}

// Pending returns the number of substitution records awaiting completion.
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Shutdown disables the controller for good, drops pending records and
// removes the staging root. It is safe to call more than once.
func (c *Controller) Shutdown() error {
	c.mu.Lock()
	c.enabled = false
	c.shutdown = true
	clear(c.pending)
	c.mu.Unlock()

	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to purge staging root: %w", err)
	}
	return nil
}

// Intercept decides what happens to m. Disabled mode, a missing surface and
// malformed mutations all pass through untouched. The returned error is
// set only for failures that forced a block.
func (c *Controller) Intercept(ctx context.Context, m model.Mutation) (model.Outcome, error) {
	if !c.IsEnabled() || !m.Valid() || c.surface == nil || !c.surface.Available() {
		return model.Outcome{RequestID: m.RequestID, Action: model.Proceed}, nil
	}

	c.reviewMu.Lock()
	defer c.reviewMu.Unlock()

	if m.RequestID == "" {
		m.RequestID = c.opts.NewID()
	}

	var (
		out model.Outcome
		err error
	)
	switch m.Kind {
	case model.KindWrite:
		out, err = c.interceptWrite(ctx, m)
	case model.KindEdit:
		out, err = c.interceptEdit(ctx, m)
	}
	out.RequestID = m.RequestID
	return out, err
}

func blocked(reason string, err error) (model.Outcome, error) {
	return model.Outcome{Action: model.Block, Reason: reason}, err
}

func (c *Controller) label(path string) string {
	return filepath.ToSlash(stage.RelPath(path, c.opts.Cwd))
}

func (c *Controller) unstage(paths ...string) {
	for _, p := range paths {
		if err := c.store.Unstage(p); err != nil {
			log.Printf("slow: cleanup of %s failed: %v", p, err)
		}
	}
}

func (c *Controller) interceptWrite(ctx context.Context, m model.Mutation) (model.Outcome, error) {
	staged, err := c.store.Stage(stage.RelPath(m.Path, c.opts.Cwd), m.Content)
	if err != nil {
		return blocked("could not stage content for review", err)
	}
	defer c.unstage(staged)

	req := review.Request{
		Kind:   model.KindWrite,
		Path:   c.label(m.Path),
		Body:   m.Content,
		Reload: func() (string, error) { return c.store.Read(staged) },
	}
	if b := c.opts.Bridge; b != nil {
		req.External = func() bridge.Command { return b.FileCommand(staged) }
	}

	decision, err := c.surface.Review(ctx, req)
	if err != nil {
		return blocked("review failed", err)
	}
	if decision != model.Approve {
		return blocked(RejectReason, nil)
	}

	reviewed, err := c.store.Read(staged)
	if err != nil {
		return blocked("could not read reviewed content", err)
	}
	out := model.Outcome{Action: model.Proceed}
	if reviewed != m.Content {
		c.record(m.RequestID, m.Path, m.Content, reviewed)
		out.Replaced = true
		out.Content = reviewed
	}
	return out, nil
}

func (c *Controller) interceptEdit(ctx context.Context, m model.Mutation) (model.Outcome, error) {
	oldPath, newPath, err := c.store.StageEdit(m.Path, m.OldText, m.NewText, c.opts.Now())
	if err != nil {
		return blocked("could not stage content for review", err)
	}
	defer c.unstage(oldPath, newPath)

	label := c.label(m.Path)
	body := func() (string, error) {
		current, err := c.store.Read(newPath)
		if err != nil {
			return "", err
		}
		return c.diffBody(ctx, label, m.OldText, current), nil
	}

	var status string
	for {
		if err := ctx.Err(); err != nil {
			return blocked("review cancelled", err)
		}
		text, err := body()
		if err != nil {
			return blocked("could not read reviewed content", err)
		}
		req := review.Request{
			Kind:   model.KindEdit,
			Path:   label,
			Body:   text,
			Reload: body,
			Status: status,
		}
		if b := c.opts.Bridge; b != nil {
			req.External = func() bridge.Command { return b.DiffCommand(oldPath, newPath, label) }
		}

		decision, err := c.surface.Review(ctx, req)
		if err != nil {
			return blocked("review failed", err)
		}
		switch decision {
		case model.Approve:
			return c.approveEdit(m, newPath)
		case model.EditAgain:
			status = ""
			if err := c.surface.Edit(ctx, newPath); err != nil {
				log.Printf("slow: editor for %s failed: %v", label, err)
				status = fmt.Sprintf("editor failed: %v", err)
			}
		default:
			return blocked(RejectReason, nil)
		}
	}
}

func (c *Controller) approveEdit(m model.Mutation, newPath string) (model.Outcome, error) {
	reviewed, err := c.store.Read(newPath)
	if err != nil {
		return blocked("could not read reviewed content", err)
	}
	out := model.Outcome{Action: model.Proceed}
	if reviewed != m.NewText {
		c.record(m.RequestID, m.Path, m.NewText, reviewed)
		out.Replaced = true
		out.NewText = reviewed
	}
	return out, nil
}

// diffBody renders the unified diff shown in an edit review.
func (c *Controller) diffBody(ctx context.Context, label, oldText, newText string) string {
	text := diff.UnifiedText(label, oldText, newText, c.opts.ContextLines)
	if text == "" {
		return "(no changes)"
	}
	if c.opts.Colorize && c.opts.Bridge != nil {
		text = c.opts.Bridge.Colorize(ctx, text)
	}
	return text
}
