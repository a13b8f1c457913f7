package bridge

import (
	"bytes"
	"context"
	"log"
	"os/exec"
	"strings"
	"time"
)

// Colorize pipes a unified diff through the colorizer to get ANSI colored
// text for inline rendering. Any failure, including the timeout, returns
// diffText unchanged.
func (b *Bridge) Colorize(ctx context.Context, diffText string) string {
	if diffText == "" || len(b.Colorizer) == 0 {
		return diffText
	}
	bin, err := b.lookPath(b.Colorizer[0])
	if err != nil {
		return diffText
	}

	timeout := b.ColorizeTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, b.Colorizer[1:]...)
	cmd.Stdin = strings.NewReader(diffText)
	cmd.Stdout = &stdout
	cmd.WaitDelay = 100 * time.Millisecond

	if err := cmd.Run(); err != nil {
		log.Printf("bridge: colorizer %s failed: %v", b.Colorizer[0], err)
		return diffText
	}
	if stdout.Len() == 0 {
		return diffText
	}
	return stdout.String()
}
