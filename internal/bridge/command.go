package bridge

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
)

// Command is one blocking external invocation. The caller attaches stdio
// before Run; a running bubbletea program satisfies this through tea.Exec.
type Command interface {
	Run() error
	SetStdin(io.Reader)
	SetStdout(io.Writer)
	SetStderr(io.Writer)
}

type stdio struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (s *stdio) SetStdin(r io.Reader)  { s.stdin = r }
func (s *stdio) SetStdout(w io.Writer) { s.stdout = w }
func (s *stdio) SetStderr(w io.Writer) { s.stderr = w }

func (s *stdio) attach(cmd *exec.Cmd) {
	cmd.Stdin, cmd.Stdout, cmd.Stderr = s.stdin, s.stdout, s.stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
}

// procCommand runs a single process.
type procCommand struct {
	stdio
	name string
	args []string
	// input, when set, produces the process stdin instead of the attached reader.
	input func() (string, error)
	// okCodes are exit codes that still count as success.
	okCodes []int
}

func newProc(name string, args ...string) *procCommand {
	return &procCommand{name: name, args: args}
}

func (c *procCommand) Run() error {
	cmd := exec.Command(c.name, c.args...)
	c.attach(cmd)
	if c.input != nil {
		text, err := c.input()
		if err != nil {
			return err
		}
		cmd.Stdin = strings.NewReader(text)
	}
	return acceptExit(cmd.Run(), c.okCodes)
}

func (c *procCommand) String() string {
	return strings.Join(append([]string{c.name}, c.args...), " ")
}

// pipeCommand runs producer | consumer with the consumer on the terminal.
type pipeCommand struct {
	stdio
	producer *procCommand
	consumer *procCommand
}

func (c *pipeCommand) Run() error {
	prod := exec.Command(c.producer.name, c.producer.args...)
	cons := exec.Command(c.consumer.name, c.consumer.args...)
	c.attach(cons)
	prod.Stderr = cons.Stderr

	out, err := prod.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to pipe %s: %w", c.producer.name, err)
	}
	cons.Stdin = out

	if err := prod.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", c.producer.name, err)
	}
	if err := cons.Start(); err != nil {
		_ = prod.Process.Kill()
		_ = prod.Wait()
		return fmt.Errorf("failed to start %s: %w", c.consumer.name, err)
	}
	prodErr := acceptExit(prod.Wait(), c.producer.okCodes)
	if err := cons.Wait(); err != nil {
		return err
	}
	return prodErr
}

func (c *pipeCommand) String() string {
	return c.producer.String() + " | " + c.consumer.String()
}

// fallbackCommand runs secondary when primary fails.
type fallbackCommand struct {
	primary   Command
	secondary Command
}

func (c *fallbackCommand) SetStdin(r io.Reader) {
	c.primary.SetStdin(r)
	c.secondary.SetStdin(r)
}

func (c *fallbackCommand) SetStdout(w io.Writer) {
	c.primary.SetStdout(w)
	c.secondary.SetStdout(w)
}

func (c *fallbackCommand) SetStderr(w io.Writer) {
	c.primary.SetStderr(w)
	c.secondary.SetStderr(w)
}

func (c *fallbackCommand) Run() error {
	err := c.primary.Run()
	if err == nil {
		return nil
	}
	log.Printf("bridge: %v failed, falling back to %v: %v", c.primary, c.secondary, err)
	return c.secondary.Run()
}

func (c *fallbackCommand) String() string {
	return fmt.Sprintf("%v || %v", c.primary, c.secondary)
}

func acceptExit(err error, okCodes []int) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		for _, code := range okCodes {
			if exitErr.ExitCode() == code {
				return nil
			}
		}
	}
	return err
}
