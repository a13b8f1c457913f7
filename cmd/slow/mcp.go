package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rytswd/slow/internal/mcp"
	"github.com/rytswd/slow/internal/ui"
	"github.com/rytswd/slow/slow"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

An agent calls slow_intercept_write / slow_intercept_edit before touching
a file and slow_complete afterwards. While slow mode is on, each call
opens a review on the controlling terminal. Configure with:

  {
    "mcpServers": {
      "slow": { "command": "slow", "args": ["mcp"] }
    }
  }

Available tools: slow_toggle, slow_status, slow_intercept_write,
slow_intercept_edit, slow_complete`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpRun(cmd.Context())
	},
}

func init() {
	mcpCmd.Flags().Bool("enable", false, "Start with slow mode on")
	rootCmd.AddCommand(mcpCmd)
}

func mcpRun(ctx context.Context) error {
	app, err := slow.New(cfg, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.Status(app.Controller().Status())
	err = mcp.NewServer(app, version).ServeStdio(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
