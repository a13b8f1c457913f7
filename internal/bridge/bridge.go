// Package bridge finds and runs the external programs used during a review:
// a diff viewer, a text editor and an optional colorizer.
package bridge

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rytswd/slow/internal/diff"
)

// Tool roles.
const (
	RoleColorizer = "colorizer"
	RoleDiffMode  = "diff-mode editor"
	RolePlainDiff = "line diff"
	RoleEditor    = "editor"
	RolePager     = "pager"
	RoleOther     = "diff tool"
)

// DefaultDiffTools is the discovery order for diff viewing.
var DefaultDiffTools = []string{"delta", "nvim", "vim", "diff"}

// Tool is a discovered executable.
type Tool struct {
	Name string
	Path string
	Role string
}

// Found reports whether discovery produced a tool.
func (t Tool) Found() bool {
	return t.Path != ""
}

// ToolStatus describes one candidate for display.
type ToolStatus struct {
	Tool
	Available bool
}

// Bridge discovers and invokes external diff tools and editors.
type Bridge struct {
	// DiffTools is the ordered list of diff viewers to probe.
	DiffTools []string
	// Editor overrides $VISUAL/$EDITOR when set.
	Editor string
	// Colorizer is the command used by Colorize; the diff is fed on stdin.
	Colorizer []string
	// ColorizeTimeout bounds Colorize.
	ColorizeTimeout time.Duration
	// ContextLines is used for diffs generated in-process.
	ContextLines int
	// Remote enables opening tools in the hosting Neovim when there is one.
	Remote bool

	LookPath func(string) (string, error)
	Getenv   func(string) string
}

// New returns a Bridge probing the real PATH and environment.
func New() *Bridge {
	return &Bridge{
		DiffTools:       append([]string(nil), DefaultDiffTools...),
		Colorizer:       []string{"delta", "--color-only", "--paging=never"},
		ColorizeTimeout: 2 * time.Second,
		ContextLines:    3,
		Remote:          true,
		LookPath:        exec.LookPath,
		Getenv:          os.Getenv,
	}
}

func (b *Bridge) lookPath(name string) (string, error) {
	if b.LookPath == nil {
		return exec.LookPath(name)
	}
	return b.LookPath(name)
}

func (b *Bridge) getenv(key string) string {
	if b.Getenv == nil {
		return os.Getenv(key)
	}
	return b.Getenv(key)
}

func diffRole(name string) string {
	switch name {
	case "delta":
		return RoleColorizer
	case "nvim", "vim", "gvim", "mvim":
		return RoleDiffMode
	case "diff":
		return RolePlainDiff
	default:
		return RoleOther
	}
}

// DiffTool returns the first available diff tool in discovery order.
func (b *Bridge) DiffTool() Tool {
	for _, name := range b.DiffTools {
		if path, err := b.lookPath(name); err == nil {
			return Tool{Name: name, Path: path, Role: diffRole(name)}
		}
	}
	return Tool{}
}

// EditorArgv resolves the preferred editor command line: the configured
// editor, then $VISUAL, then $EDITOR, then vi.
func (b *Bridge) EditorArgv() []string {
	for _, candidate := range []string{b.Editor, b.getenv("VISUAL"), b.getenv("EDITOR")} {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// pager returns the pager argv for plain diff output, or nil.
func (b *Bridge) pager() []string {
	if fields := strings.Fields(b.getenv("PAGER")); len(fields) > 0 {
		if _, err := b.lookPath(fields[0]); err == nil {
			return fields
		}
	}
	if path, err := b.lookPath("less"); err == nil {
		return []string{path, "-R"}
	}
	return nil
}

// DiffCommand builds the command that shows oldPath against newPath. label is
// the real file path, used in diff headers.
func (b *Bridge) DiffCommand(oldPath, newPath, label string) Command {
	local := b.localDiffCommand(oldPath, newPath, label)
	if addr := b.remoteAddr(); addr != "" {
		return &fallbackCommand{primary: newRemoteCommand(addr, oldPath, newPath), secondary: local}
	}
	return local
}

func (b *Bridge) localDiffCommand(oldPath, newPath, label string) Command {
	tool := b.DiffTool()
	if !tool.Found() {
		return b.localFileCommand(newPath)
	}

	switch tool.Role {
	case RoleColorizer:
		viaStdin := newProc(tool.Path)
		viaStdin.input = func() (string, error) {
			return b.unifiedFromFiles(oldPath, newPath, label)
		}
		return &fallbackCommand{primary: viaStdin, secondary: newProc(tool.Path, oldPath, newPath)}
	case RoleDiffMode:
		return newProc(tool.Path, "-d", oldPath, newPath)
	case RolePlainDiff:
		producer := newProc(tool.Path, "-u", "--label", "a/"+label, "--label", "b/"+label, oldPath, newPath)
		producer.okCodes = []int{1}
		if pager := b.pager(); pager != nil {
			return &pipeCommand{producer: producer, consumer: newProc(pager[0], pager[1:]...)}
		}
		return producer
	default:
		return newProc(tool.Path, oldPath, newPath)
	}
}

// FileCommand builds the command that opens path in the preferred editor.
func (b *Bridge) FileCommand(path string) Command {
	local := b.localFileCommand(path)
	if addr := b.remoteAddr(); addr != "" {
		return &fallbackCommand{primary: newRemoteCommand(addr, path), secondary: local}
	}
	return local
}

func (b *Bridge) localFileCommand(path string) Command {
	argv := b.EditorArgv()
	return newProc(argv[0], append(argv[1:], path)...)
}

// OpenDiff shows the diff on term and blocks until the viewer exits. A nil
// term means the process stdio.
func (b *Bridge) OpenDiff(oldPath, newPath, label string, term io.ReadWriter) error {
	return run(b.DiffCommand(oldPath, newPath, label), term)
}

// OpenFile opens path in the editor on term and blocks until it exits. A
// nil term means the process stdio.
func (b *Bridge) OpenFile(path string, term io.ReadWriter) error {
	return run(b.FileCommand(path), term)
}

func run(cmd Command, term io.ReadWriter) error {
	if term != nil {
		cmd.SetStdin(term)
		cmd.SetStdout(term)
		cmd.SetStderr(term)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("external tool failed: %w", err)
	}
	return nil
}

// unifiedFromFiles renders the diff between two staged files with label as
// the path in the header, so colorizers pick the right syntax.
func (b *Bridge) unifiedFromFiles(oldPath, newPath, label string) (string, error) {
	oldData, err := os.ReadFile(oldPath)
	if err != nil {
		return "", err
	}
	newData, err := os.ReadFile(newPath)
	if err != nil {
		return "", err
	}
	ctx := b.ContextLines
	if ctx <= 0 {
		ctx = 3
	}
	return diff.UnifiedText(strings.TrimLeft(label, "/"), string(oldData), string(newData), ctx), nil
}

// Tools lists every diff tool candidate, the editor and the pager with
// their availability.
func (b *Bridge) Tools() []ToolStatus {
	var out []ToolStatus
	for _, name := range b.DiffTools {
		path, err := b.lookPath(name)
		out = append(out, ToolStatus{Tool: Tool{Name: name, Path: path, Role: diffRole(name)}, Available: err == nil})
	}

	editor := b.EditorArgv()
	path, err := b.lookPath(editor[0])
	out = append(out, ToolStatus{Tool: Tool{Name: strings.Join(editor, " "), Path: path, Role: RoleEditor}, Available: err == nil})

	if pager := b.pager(); pager != nil {
		out = append(out, ToolStatus{Tool: Tool{Name: strings.Join(pager, " "), Path: pager[0], Role: RolePager}, Available: true})
	}
	if len(b.Colorizer) > 0 {
		path, err := b.lookPath(b.Colorizer[0])
		out = append(out, ToolStatus{Tool: Tool{Name: strings.Join(b.Colorizer, " "), Path: path, Role: RoleColorizer}, Available: err == nil})
	}
	return out
}
