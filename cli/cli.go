package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. SLOW_CONTEXT_LINES.
const EnvPrefix = "SLOW"

// Config holds the effective settings from defaults, the config file,
// environment and flags.
type Config struct {
	ContextLines    int           `mapstructure:"context_lines" yaml:"context_lines"`
	WindowLines     int           `mapstructure:"window_lines" yaml:"window_lines"`
	DoublePress     time.Duration `mapstructure:"double_press" yaml:"double_press"`
	Colorize        bool          `mapstructure:"colorize" yaml:"colorize"`
	ColorizeTimeout time.Duration `mapstructure:"colorize_timeout" yaml:"colorize_timeout"`
	Editor          string        `mapstructure:"editor" yaml:"editor"`
	DiffTools       []string      `mapstructure:"diff_tools" yaml:"diff_tools"`
	NvimRemote      bool          `mapstructure:"nvim_remote" yaml:"nvim_remote"`
	DebugLog        string        `mapstructure:"debug_log" yaml:"debug_log"`
	StartEnabled    bool          `mapstructure:"start_enabled" yaml:"start_enabled"`
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"context":     "context_lines",
	"window":      "window_lines",
	"color":       "colorize",
	"editor":      "editor",
	"diff-tool":   "diff_tools",
	"nvim-remote": "nvim_remote",
	"debug-log":   "debug_log",
	"enable":      "start_enabled",
}

// DefaultConfigDir returns ~/.config/slow.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "slow"), nil
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("context_lines", 3)
	v.SetDefault("window_lines", 30)
	v.SetDefault("double_press", 500*time.Millisecond)
	v.SetDefault("colorize", true)
	v.SetDefault("colorize_timeout", 2*time.Second)
	v.SetDefault("editor", "")
	v.SetDefault("diff_tools", []string{"delta", "nvim", "vim", "diff"})
	v.SetDefault("nvim_remote", true)
	v.SetDefault("debug_log", "")
	v.SetDefault("start_enabled", false)
}

// Init prepares v: defaults, environment overrides and the config file.
// cfgFile overrides the default location. A missing default file is fine;
// a missing or broken explicit one is not.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
		return nil
	}

	dir, err := DefaultConfigDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// BindFlags binds whichever of the known flags exist in fs to v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load decodes v into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.ContextLines < 0 {
		return fmt.Errorf("context_lines must not be negative, got %d", c.ContextLines)
	}
	if c.WindowLines <= 0 {
		return fmt.Errorf("window_lines must be positive, got %d", c.WindowLines)
	}
	if c.DoublePress <= 0 {
		return fmt.Errorf("double_press must be positive, got %s", c.DoublePress)
	}
	if c.ColorizeTimeout <= 0 {
		return fmt.Errorf("colorize_timeout must be positive, got %s", c.ColorizeTimeout)
	}
	return nil
}

// MarshalYAML writes durations in their readable form, e.g. "500ms".
func (c Config) MarshalYAML() (interface{}, error) {
	return struct {
		ContextLines    int      `yaml:"context_lines"`
		WindowLines     int      `yaml:"window_lines"`
		DoublePress     string   `yaml:"double_press"`
		Colorize        bool     `yaml:"colorize"`
		ColorizeTimeout string   `yaml:"colorize_timeout"`
		Editor          string   `yaml:"editor"`
		DiffTools       []string `yaml:"diff_tools"`
		NvimRemote      bool     `yaml:"nvim_remote"`
		DebugLog        string   `yaml:"debug_log"`
		StartEnabled    bool     `yaml:"start_enabled"`
	}{
		ContextLines:    c.ContextLines,
		WindowLines:     c.WindowLines,
		DoublePress:     c.DoublePress.String(),
		Colorize:        c.Colorize,
		ColorizeTimeout: c.ColorizeTimeout.String(),
		Editor:          c.Editor,
		DiffTools:       c.DiffTools,
		NvimRemote:      c.NvimRemote,
		DebugLog:        c.DebugLog,
		StartEnabled:    c.StartEnabled,
	}, nil
}
