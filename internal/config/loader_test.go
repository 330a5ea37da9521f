package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysmon-tui/sysmon/internal/api"
	"github.com/sysmon-tui/sysmon/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, api.DefaultServerURL, cfg.Server.URL)
	assert.Zero(t, cfg.Server.Timeout)
	assert.Zero(t, cfg.Display.Points)
	assert.Zero(t, cfg.Console.MaxLines)
	assert.Equal(t, ClearRemote, cfg.Console.ClearMode)
	assert.Equal(t, MarkupEscape, cfg.Console.Markup)
	assert.Empty(t, cfg.Console.Filters)
	assert.Equal(t, 3, cfg.Console.FollowThreshold)
	assert.Zero(t, cfg.Overrides)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)

	content := `
version: 1
server:
  url: http://monitor.lan:5000
  timeout: 3s
display:
  points: 60
console:
  max_lines: 500
  clear_mode: local
  markup: allowlist
  filters:
    - GET
    - Leberwurst
  follow_threshold: 5
overrides:
  metrics: 1s
  idle: 2m
log:
  file: /tmp/sysmon.log
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "http://monitor.lan:5000", cfg.Server.URL)
	assert.Equal(t, 3*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 60, cfg.Display.Points)
	assert.Equal(t, 500, cfg.Console.MaxLines)
	assert.Equal(t, ClearLocal, cfg.Console.ClearMode)
	assert.Equal(t, MarkupAllowlist, cfg.Console.Markup)
	assert.Equal(t, []string{"GET", "Leberwurst"}, cfg.Console.Filters)
	assert.Equal(t, 5, cfg.Console.FollowThreshold)
	assert.Equal(t, time.Second, cfg.Overrides.Metrics)
	assert.Zero(t, cfg.Overrides.Console)
	assert.Equal(t, 2*time.Minute, cfg.Overrides.Idle)
	assert.Equal(t, "/tmp/sysmon.log", cfg.Log.File)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("display:\n  points: 10\n"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Display.Points)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.Server.URL)
	assert.Equal(t, ClearRemote, cfg.Console.ClearMode)
	assert.Equal(t, 3, cfg.Console.FollowThreshold)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.URL, cfg.Server.URL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SYSMON_SERVER_URL", "http://from-env:8080")
	t.Setenv("SYSMON_OVERRIDES_METRICS", "750ms")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:8080", cfg.Server.URL)
	assert.Equal(t, 750*time.Millisecond, cfg.Overrides.Metrics)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("server: [unclosed\n"), 0644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_ExpandsLogFileTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  file: ~/sysmon.log\n"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "sysmon.log"), cfg.Log.File)
}

func TestFind(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "custom.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("version: 1\n"), 0644))

		found, err := Find(configPath)
		require.NoError(t, err)
		assert.Equal(t, configPath, found)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("current directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("HOME", t.TempDir())
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("version: 1\n"), 0644))
		t.Chdir(dir)

		found, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, ConfigFileName, filepath.Base(found))
	})

	t.Run("global config", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Chdir(t.TempDir())

		globalDir := filepath.Join(home, GlobalConfigDir)
		require.NoError(t, os.MkdirAll(globalDir, 0755))
		globalPath := filepath.Join(globalDir, GlobalConfigFile)
		require.NoError(t, os.WriteFile(globalPath, []byte("version: 1\n"), 0644))

		found, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, globalPath, found)
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Chdir(t.TempDir())

		found, err := Find("")
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestLoadOrDefault_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, ClearRemote, cfg.Console.ClearMode)
	assert.Equal(t, MarkupEscape, cfg.Console.Markup)
	assert.Empty(t, cfg.Console.Filters)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/var/log/sysmon.log", "/var/log/sysmon.log"},
		{"~", home},
		{"~/logs/x.log", filepath.Join(home, "logs/x.log")},
		{"~other/x", "~other/x"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTilde(tt.in))
		})
	}
}
