package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		ContextLines:    3,
		WindowLines:     30,
		DoublePress:     500 * time.Millisecond,
		Colorize:        true,
		ColorizeTimeout: 2 * time.Second,
		DiffTools:       []string{"delta", "nvim", "vim", "diff"},
		NvimRemote:      true,
	}, cfg)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	path := writeConfig(t, "context_lines: 5\ndouble_press: 300ms\ndiff_tools: [diff]\neditor: nano\n")
	t.Setenv("SLOW_EDITOR", "hx")
	t.Setenv("SLOW_WINDOW_LINES", "12")

	v := viper.New()
	require.NoError(t, Init(v, path))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("context", 3, "")
	fs.Bool("enable", false, "")
	require.NoError(t, BindFlags(v, fs))
	require.NoError(t, fs.Parse([]string{"--context", "1", "--enable"}))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.ContextLines, "flag beats file")
	assert.Equal(t, 12, cfg.WindowLines, "env beats default")
	assert.Equal(t, "hx", cfg.Editor, "env beats file")
	assert.Equal(t, 300*time.Millisecond, cfg.DoublePress)
	assert.Equal(t, []string{"diff"}, cfg.DiffTools)
	assert.True(t, cfg.StartEnabled)
}

func TestInit_ExplicitFileMustExist(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{WindowLines: 30, DoublePress: time.Second, ColorizeTimeout: time.Second}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"negative context", func(c *Config) { c.ContextLines = -1 }},
		{"zero window", func(c *Config) { c.WindowLines = 0 }},
		{"zero double press", func(c *Config) { c.DoublePress = 0 }},
		{"zero timeout", func(c *Config) { c.ColorizeTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfig_MarshalYAML(t *testing.T) {
	cfg := Config{ContextLines: 3, WindowLines: 30, DoublePress: 500 * time.Millisecond, ColorizeTimeout: 2 * time.Second, DiffTools: []string{"delta"}}
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "double_press: 500ms\n")
	assert.Contains(t, out, "colorize_timeout: 2s\n")
	assert.Contains(t, out, "diff_tools:\n    - delta\n")
}
