package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rytswd/slow/cli"
	"github.com/rytswd/slow/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: `Show slow configuration.

Running bare 'slow config' is the same as 'slow config show'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun(cmd)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun(cmd)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func configShowRun(cmd *cobra.Command) error {
	if used := v.ConfigFileUsed(); used != "" {
		ui.Info("Config file: %s", used)
	} else if dir, err := cli.DefaultConfigDir(); err == nil {
		ui.Info("Config file: (none, looked for %s)", filepath.Join(dir, "config.yaml"))
	}
	ui.Info("Environment overrides use the %s_ prefix, e.g. %s_CONTEXT_LINES.", cli.EnvPrefix, cli.EnvPrefix)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
