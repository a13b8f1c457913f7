package main

import (
	"github.com/spf13/cobra"

	"github.com/rytswd/slow/internal/ui"
	"github.com/rytswd/slow/slow"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show which diff viewers and editor would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		return toolsRun(cmd)
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func toolsRun(cmd *cobra.Command) error {
	b := slow.NewBridge(cfg)
	chosen := b.DiffTool()

	table := ui.Table(cmd.OutOrStdout(), []string{"Tool", "Role", "Path", "Status"})
	for _, t := range b.Tools() {
		status := "missing"
		switch {
		case t.Available && t.Name == chosen.Name && t.Role == chosen.Role:
			status = "selected"
		case t.Available:
			status = "found"
		}
		table.Append([]string{t.Name, t.Role, t.Path, status})
	}
	return table.Render()
}
