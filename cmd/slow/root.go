package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rytswd/slow/cli"
	"github.com/rytswd/slow/internal/ui"
	"github.com/rytswd/slow/slow"
)

// Exit codes.
const (
	exitOK       = 0
	exitRejected = 1
	exitError    = 2
)

// exitCodeError carries a specific exit code out of a command.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

var (
	cfgFile string
	v       = viper.New()
	cfg     *cli.Config
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "slow",
	Short: "Review every file change before it lands",
	Long: `slow puts a human review step in front of proposed file writes and
edits. Changes are staged in a private temporary directory, shown as
content or a unified diff, and only applied once approved. The reviewer
may also edit the proposal in their own editor before approving.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  loadConfig,
	PersistentPostRunE: closeLog,
}

// Execute runs the command tree and exits with the matching code.
func Execute() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err == nil {
		os.Exit(exitOK)
	}

	var coded *exitCodeError
	if errors.As(err, &coded) {
		if coded.code != exitRejected {
			ui.Error("Error: %v", coded.err)
		}
		os.Exit(coded.code)
	}

	var detailed *slow.DetailedError
	if errors.As(err, &detailed) {
		ui.Error("An unexpected error occurred: %v", detailed.Err)
		ui.Error("Stack trace:\n%s", detailed.Stack)
		os.Exit(exitError)
	}

	ui.Error("Error: %v", err)
	os.Exit(exitError)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ~/.config/slow/config.yaml)")
	pf.Int("context", 3, "Number of context lines around each change")
	pf.Int("window", 30, "Number of lines visible in the review view")
	pf.Bool("color", true, "Colorize diffs through delta when available")
	pf.String("editor", "", "Editor command (default $VISUAL, then $EDITOR, then vi)")
	pf.StringSlice("diff-tool", nil, "Diff viewers to probe, in order (default delta,nvim,vim,diff)")
	pf.Bool("nvim-remote", true, "Open diffs in the hosting Neovim when running inside one")
	pf.String("debug-log", "", "Write debug logs to this file")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := cli.Init(v, cfgFile); err != nil {
		return err
	}
	if err := cli.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	c, err := cli.Load(v)
	if err != nil {
		return err
	}
	cfg = c

	closer, err := slow.SetupLogging(cfg.DebugLog)
	if err != nil {
		return err
	}
	logFile = closer
	return nil
}

func closeLog(*cobra.Command, []string) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
