package bridge

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/neovim/go-client/nvim"
)

const closedMethod = "slow_review_closed"

// remoteAddr returns the RPC address of the Neovim hosting this process,
// if remote use is enabled and there is one.
func (b *Bridge) remoteAddr() string {
	if !b.Remote {
		return ""
	}
	if addr := b.getenv("NVIM"); addr != "" {
		return addr
	}
	return b.getenv("NVIM_LISTEN_ADDRESS")
}

// remoteCommand opens files in a new tab of a running Neovim and blocks
// until the user leaves the tab's last window.
type remoteCommand struct {
	stdio
	addr  string
	paths []string
	// poll is how often the connection is checked while waiting.
	poll time.Duration
}

func newRemoteCommand(addr string, paths ...string) *remoteCommand {
	return &remoteCommand{addr: addr, paths: paths, poll: time.Second}
}

func (c *remoteCommand) String() string {
	return fmt.Sprintf("nvim@%s %s", c.addr, strings.Join(c.paths, " "))
}

func (c *remoteCommand) Run() error {
	v, err := nvim.Dial(c.addr)
	if err != nil {
		return fmt.Errorf("failed to connect to nvim at %s: %w", c.addr, err)
	}
	defer v.Close()

	done := make(chan struct{})
	var once sync.Once
	if err := v.RegisterHandler(closedMethod, func() {
		once.Do(func() { close(done) })
	}); err != nil {
		return fmt.Errorf("failed to register nvim handler: %w", err)
	}

	b := v.NewBatch()
	for _, cmd := range c.openCommands(v.ChannelID()) {
		b.Command(cmd)
	}
	if err := b.Execute(); err != nil {
		return fmt.Errorf("failed to open review tab in nvim: %w", err)
	}

	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			c.wipe(v)
			return nil
		case <-ticker.C:
			var alive int
			if err := v.Eval("1", &alive); err != nil {
				return fmt.Errorf("lost connection to nvim: %w", err)
			}
		}
	}
}

// openCommands returns the ex commands that open the review tab. The last
// opened window is the one the user edits; leaving it ends the review.
func (c *remoteCommand) openCommands(channel int) []string {
	cmds := []string{"execute 'tabedit ' . fnameescape(" + vimQuote(c.paths[0]) + ")"}
	if len(c.paths) > 1 {
		cmds = append(cmds,
			"diffthis",
			"execute 'vertical diffsplit ' . fnameescape("+vimQuote(c.paths[1])+")",
		)
	}
	cmds = append(cmds, fmt.Sprintf(
		"autocmd BufWinLeave <buffer> ++once call rpcnotify(%d, '%s')", channel, closedMethod))
	return cmds
}

// wipe drops the staged buffers so a later review of the same file does not
// pick up a stale one.
func (c *remoteCommand) wipe(v *nvim.Nvim) {
	b := v.NewBatch()
	for _, p := range c.paths {
		b.Command("silent! execute 'bwipeout! ' . fnameescape(" + vimQuote(p) + ")")
	}
	if err := b.Execute(); err != nil {
		log.Printf("bridge: failed to wipe review buffers in nvim: %v", err)
	}
}

// vimQuote returns s as a single-quoted Vim string literal.
func vimQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
