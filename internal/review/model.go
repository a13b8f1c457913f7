package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rytswd/slow/internal/bridge"
	"github.com/rytswd/slow/model"
)

// --- Styles ---
var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	pathStyle       = lipgloss.NewStyle().Bold(true)
	fileHeaderStyle = lipgloss.NewStyle().Bold(true)
	hunkStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	addStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	removeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	faintStyle      = lipgloss.NewStyle().Faint(true)
)

// chromeLines is the number of non-body lines View draws.
const chromeLines = 5

// Request describes what to review.
type Request struct {
	Kind model.Kind
	Path string
	// Body is the proposed content for writes or the unified diff for edits.
	Body string
	// Reload re-reads the body after an external tool returns. Nil means the
	// body does not change while the session runs.
	Reload func() (string, error)
	// External builds the command for the "open externally" action.
	External func() bridge.Command
	// Status is shown in the status line when the session starts.
	Status string
}

// --- Messages ---
type externalDoneMsg struct{ err error }

// Model is the bubbletea model for one review session.
type Model struct {
	session   *Session
	req       Request
	keys      keyMap
	help      help.Model
	maxWindow int
	width     int
	now       func() time.Time
}

// NewModel creates the model for req.
func NewModel(req Request, opts Options) Model {
	s := NewSession(req.Kind, req.Path, req.Body, opts.Window, opts.DoublePress)
	s.SetStatus(req.Status)
	return Model{
		session:   s,
		req:       req,
		keys:      newKeyMap(req.Kind == model.KindEdit, req.External != nil),
		help:      help.New(),
		maxWindow: s.Window(),
		now:       time.Now,
	}
}

// Session exposes the underlying session state.
func (m Model) Session() *Session { return m.session }

// Decision is the result once the program has quit.
func (m Model) Decision() model.Decision { return m.session.Decision() }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := m.session

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if msg.Height > chromeLines {
			s.SetWindow(min(m.maxWindow, msg.Height-chromeLines))
		}
		return m, nil

	case externalDoneMsg:
		m.afterExternal(msg.err)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Approve):
			s.Approve()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reject):
			s.Reject()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Edit):
			if s.EditAgain() {
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.Down):
			s.ScrollDown(1)
		case key.Matches(msg, m.keys.Up):
			s.ScrollUp(1)
		case key.Matches(msg, m.keys.HalfDown):
			s.HalfPageDown()
		case key.Matches(msg, m.keys.HalfUp):
			s.HalfPageUp()
		case key.Matches(msg, m.keys.Top):
			s.PressTop(m.now())
		case key.Matches(msg, m.keys.Bottom):
			s.Bottom()
		case key.Matches(msg, m.keys.Open):
			s.SetStatus("")
			return m, tea.Exec(m.req.External(), func(err error) tea.Msg {
				return externalDoneMsg{err: err}
			})
		}
	}
	return m, nil
}

// afterExternal refreshes the body once an external tool has returned. A
// failed tool leaves the current body in place.
func (m Model) afterExternal(err error) {
	s := m.session
	if err != nil {
		s.SetStatus(fmt.Sprintf("external tool failed: %v", err))
		return
	}
	if m.req.Reload == nil {
		return
	}
	body, err := m.req.Reload()
	if err != nil {
		s.SetStatus(fmt.Sprintf("could not reload: %v", err))
		return
	}
	s.SetBody(body)
}

func (m Model) View() string {
	s := m.session
	var b strings.Builder

	title := "Review write"
	if s.Kind() == model.KindEdit {
		title = "Review edit"
	}
	b.WriteString(titleStyle.Render(title+":") + " " + pathStyle.Render(s.Path()))
	b.WriteString("\n\n")

	for _, line := range s.Visible(m.width) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if first, last, total, ok := s.Position(); ok {
		pct := 100 * last / total
		b.WriteString(faintStyle.Render(fmt.Sprintf("lines %d-%d of %d (%d%%)", first, last, total, pct)))
		b.WriteString("\n")
	}
	if status := s.Status(); status != "" {
		b.WriteString(statusStyle.Render(status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
