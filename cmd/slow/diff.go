package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rytswd/slow/slow"
)

var diffLabel string

var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Print the unified diff between two files",
	Long: `Print the unified diff between two files, the same way edit reviews
show it. The header uses --label, or NEW's path when no label is given.
Output is colorized through delta when stdout is a terminal.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return diffRun(cmd, args[0], args[1])
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffLabel, "label", "", "Path to show in the diff header")
	rootCmd.AddCommand(diffCmd)
}

func diffRun(cmd *cobra.Command, oldPath, newPath string) error {
	oldText, err := os.ReadFile(oldPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", oldPath, err)
	}
	newText, err := os.ReadFile(newPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", newPath, err)
	}

	label := diffLabel
	if label == "" {
		label = newPath
	}
	color := cfg.Colorize && isatty.IsTerminal(os.Stdout.Fd())

	out := slow.Diff(cmd.Context(), slow.NewBridge(cfg), label, string(oldText), string(newText), cfg.ContextLines, color)
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
