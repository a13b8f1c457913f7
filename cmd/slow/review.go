package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/rytswd/slow/internal/parser"
	"github.com/rytswd/slow/internal/patcher"
	"github.com/rytswd/slow/internal/source"
	"github.com/rytswd/slow/internal/ui"
	"github.com/rytswd/slow/model"
	"github.com/rytswd/slow/slow"
)

var (
	reviewFrom     string
	reviewMarkdown bool
	reviewPatch    bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a proposed change to a file before applying it",
	Long: `Review a proposed change to a file before applying it.

The proposal is read from --from, piped stdin or the clipboard, in that
order. With --markdown the proposal is an answer containing fenced code
blocks, and the block naming PATH is used.`,
}

var reviewWriteCmd = &cobra.Command{
	Use:   "write PATH",
	Short: "Review the full new content of PATH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reviewWriteRun(cmd, args[0])
	},
}

var reviewEditCmd = &cobra.Command{
	Use:   "edit PATH",
	Short: "Review a change to an existing PATH as a diff",
	Long: `Review a change to an existing PATH as a diff.

The proposal is the complete new content, or with --patch a unified diff
to apply to the current content. Hunk line numbers in the patch are not
trusted; each hunk is placed by searching for its context.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reviewEditRun(cmd, args[0])
	},
}

func init() {
	for _, c := range []*cobra.Command{reviewWriteCmd, reviewEditCmd} {
		c.Flags().StringVarP(&reviewFrom, "from", "f", "", "Read the proposal from this file ('-' for stdin)")
		c.Flags().BoolVarP(&reviewMarkdown, "markdown", "m", false, "Extract the proposal from markdown code blocks")
	}
	reviewEditCmd.Flags().BoolVarP(&reviewPatch, "patch", "p", false, "The proposal is a unified diff")

	reviewCmd.AddCommand(reviewWriteCmd)
	reviewCmd.AddCommand(reviewEditCmd)
	rootCmd.AddCommand(reviewCmd)
}

func readProposal() (string, error) {
	content, err := source.New(reviewFrom).GetContent()
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", fmt.Errorf("the proposal is empty")
	}
	return content, nil
}

func reviewWriteRun(cmd *cobra.Command, path string) error {
	content, err := readProposal()
	if err != nil {
		return err
	}
	if reviewMarkdown {
		if content, err = parser.SelectContent(content, path); err != nil {
			return err
		}
	}

	return runReview(cmd, model.Mutation{Kind: model.KindWrite, Path: path, Content: content})
}

func reviewEditRun(cmd *cobra.Command, path string) error {
	current, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s does not exist; use 'slow review write' for new files", path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	oldText := string(current)

	proposal, err := readProposal()
	if err != nil {
		return err
	}

	var newText string
	switch {
	case reviewPatch:
		if reviewMarkdown {
			if proposal, err = parser.SelectDiff(proposal, path); err != nil {
				return err
			}
		}
		if newText, err = patcher.Apply(oldText, proposal); err != nil {
			return fmt.Errorf("failed to apply patch to %s: %w", path, err)
		}
	case reviewMarkdown:
		if newText, err = parser.SelectContent(proposal, path); err != nil {
			return err
		}
	default:
		newText = proposal
	}

	if newText == oldText {
		ui.Info("No changes to %s.", path)
		return nil
	}
	return runReview(cmd, model.Mutation{Kind: model.KindEdit, Path: path, OldText: oldText, NewText: newText})
}

func runReview(cmd *cobra.Command, m model.Mutation) error {
	app, err := slow.New(cfg, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	out, err := app.Review(cmd.Context(), m)
	if err != nil {
		return err
	}
	ui.PrintOutcome(m.Path, out)
	if out.Action == model.Block {
		return &exitCodeError{code: exitRejected, err: errors.New(out.Reason)}
	}
	return nil
}
