package config

import (
	"time"

	"github.com/sysmon-tui/sysmon/internal/api"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Clear modes for the console panel.
const (
	// ClearRemote asks the backend to clear and only empties the view on an
	// acknowledged success.
	ClearRemote = "remote"
	// ClearLocal empties the client buffer without contacting the backend.
	ClearLocal = "local"
)

// Markup modes for console text.
const (
	// MarkupEscape shows markup literally and strips terminal control sequences.
	MarkupEscape = "escape"
	// MarkupAllowlist renders a small set of inline tags as styles and drops the rest.
	MarkupAllowlist = "allowlist"
)

// Config represents the sysmon.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Display   DisplayConfig   `yaml:"display" mapstructure:"display"`
	Console   ConsoleConfig   `yaml:"console" mapstructure:"console"`
	Overrides OverridesConfig `yaml:"overrides" mapstructure:"overrides"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig locates the SYSMON backend.
type ServerConfig struct {
	// URL of the backend, e.g. http://127.0.0.1:5000.
	URL string `yaml:"url" mapstructure:"url"`

	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DisplayConfig controls the chart panels.
type DisplayConfig struct {
	// Points caps the chart length when samples are appended one at a time.
	// Zero defers to the backend's LIMIT_DISPLAYED_DATAPOINTS.
	Points int `yaml:"points" mapstructure:"points"`
}

// ConsoleConfig controls the log panel.
type ConsoleConfig struct {
	// MaxLines caps the buffered lines. Zero defers to the backend's CONSOLE_MAX_LINES.
	MaxLines int `yaml:"max_lines" mapstructure:"max_lines"`

	// ClearMode is "remote" or "local".
	ClearMode string `yaml:"clear_mode" mapstructure:"clear_mode"`

	// Markup is "escape" or "allowlist".
	Markup string `yaml:"markup" mapstructure:"markup"`

	// Filters drop any line whose text contains one of these substrings.
	Filters []string `yaml:"filters" mapstructure:"filters"`

	// FollowThreshold is how many rows from the bottom still count as
	// "at the bottom" for auto-scroll.
	FollowThreshold int `yaml:"follow_threshold" mapstructure:"follow_threshold"`
}

// OverridesConfig pins timer values regardless of what /get-config returns.
type OverridesConfig struct {
	Metrics time.Duration `yaml:"metrics" mapstructure:"metrics"`
	Console time.Duration `yaml:"console" mapstructure:"console"`
	Idle    time.Duration `yaml:"idle" mapstructure:"idle"`
}

// LogConfig controls where diagnostics go while the dashboard runs.
type LogConfig struct {
	// File receives log output. Empty discards it unless SYSMON_DEBUG is set.
	File string `yaml:"file" mapstructure:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Server: ServerConfig{
			URL: api.DefaultServerURL,
		},
		Console: ConsoleConfig{
			ClearMode:       ClearRemote,
			Markup:          MarkupEscape,
			Filters:         []string{},
			FollowThreshold: 3,
		},
	}
}
