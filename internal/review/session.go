// Package review implements the interactive review session: a scrollable
// view over proposed content or a unified diff that resolves to approve,
// reject or (for edits) edit again.
package review

import (
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/rytswd/slow/model"
)

const (
	DefaultWindow      = 30
	DefaultDoublePress = 500 * time.Millisecond
)

// Session holds the state of one review. It has no terminal dependencies;
// Model drives it from key presses.
type Session struct {
	kind model.Kind
	path string
	body []string

	offset      int
	window      int
	doublePress time.Duration
	lastTop     time.Time

	decision model.Decision
	status   string

	cache      []string
	cacheWidth int
	cacheValid bool
}

// NewSession creates a session showing body. window and doublePress fall
// back to their defaults when not positive.
func NewSession(kind model.Kind, path, body string, window int, doublePress time.Duration) *Session {
	if window <= 0 {
		window = DefaultWindow
	}
	if doublePress <= 0 {
		doublePress = DefaultDoublePress
	}
	s := &Session{
		kind:        kind,
		path:        path,
		window:      window,
		doublePress: doublePress,
	}
	s.SetBody(body)
	return s
}

func (s *Session) Kind() model.Kind { return s.kind }
func (s *Session) Path() string     { return s.path }
func (s *Session) Offset() int      { return s.offset }
func (s *Session) Window() int      { return s.window }
func (s *Session) Lines() int       { return len(s.body) }

// SetBody replaces the displayed content, keeping the offset in bounds.
func (s *Session) SetBody(body string) {
	body = strings.TrimSuffix(body, "\n")
	s.body = strings.Split(body, "\n")
	s.setOffset(s.offset)
	s.cacheValid = false
}

// SetWindow changes the number of visible body lines.
func (s *Session) SetWindow(n int) {
	if n <= 0 || n == s.window {
		return
	}
	s.window = n
	s.setOffset(s.offset)
	s.cacheValid = false
}

// MaxOffset is the largest scroll offset; at it the last line is the
// bottom line of the window.
func (s *Session) MaxOffset() int {
	return max(0, len(s.body)-s.window)
}

func (s *Session) setOffset(n int) {
	n = min(max(n, 0), s.MaxOffset())
	if n != s.offset {
		s.offset = n
		s.cacheValid = false
	}
}

func (s *Session) ScrollDown(n int) { s.setOffset(s.offset + n) }
func (s *Session) ScrollUp(n int)   { s.setOffset(s.offset - n) }
func (s *Session) HalfPageDown()    { s.ScrollDown(max(1, s.window/2)) }
func (s *Session) HalfPageUp()      { s.ScrollUp(max(1, s.window/2)) }
func (s *Session) Bottom()          { s.setOffset(s.MaxOffset()) }

// PressTop registers one press of the "go to top" key. A second press
// within the double-press window jumps to the top and reports true; a lone
// press is remembered until it expires.
func (s *Session) PressTop(now time.Time) bool {
	if !s.lastTop.IsZero() && now.Sub(s.lastTop) <= s.doublePress {
		s.lastTop = time.Time{}
		s.setOffset(0)
		return true
	}
	s.lastTop = now
	return false
}

// Approve ends the session with approval.
func (s *Session) Approve() { s.decision = model.Approve }

// Reject ends the session with rejection.
func (s *Session) Reject() { s.decision = model.Reject }

// EditAgain ends an edit review so the caller can reopen the editor. It
// does nothing for write reviews and reports whether it applied.
func (s *Session) EditAgain() bool {
	if s.kind != model.KindEdit {
		return false
	}
	s.decision = model.EditAgain
	return true
}

func (s *Session) Decision() model.Decision { return s.decision }
func (s *Session) Done() bool               { return s.decision != model.DecisionNone }

func (s *Session) Status() string     { return s.status }
func (s *Session) SetStatus(m string) { s.status = m }

// Visible returns the styled body lines inside the window, truncated to
// width. The result is cached until the body, offset or width changes.
func (s *Session) Visible(width int) []string {
	if s.cacheValid && s.cacheWidth == width {
		return s.cache
	}

	end := min(s.offset+s.window, len(s.body))
	lines := make([]string, 0, end-s.offset)
	for _, line := range s.body[s.offset:end] {
		line = strings.ReplaceAll(line, "\t", "    ")
		if width > 0 {
			line = ansi.Truncate(line, width, "…")
		}
		lines = append(lines, s.style(line))
	}

	s.cache, s.cacheWidth, s.cacheValid = lines, width, true
	return lines
}

func (s *Session) style(line string) string {
	if s.kind != model.KindEdit || strings.Contains(line, "\x1b[") {
		return line
	}
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return fileHeaderStyle.Render(line)
	case strings.HasPrefix(line, "@@"):
		return hunkStyle.Render(line)
	case strings.HasPrefix(line, "+"):
		return addStyle.Render(line)
	case strings.HasPrefix(line, "-"):
		return removeStyle.Render(line)
	default:
		return line
	}
}

// Position describes the window for the scroll indicator. It is empty when
// the whole body fits.
func (s *Session) Position() (first, last, total int, ok bool) {
	total = len(s.body)
	if total <= s.window {
		return 0, 0, total, false
	}
	return s.offset + 1, min(s.offset+s.window, total), total, true
}
