package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysmon-tui/sysmon/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"future version", func(c *Config) { c.Version = CurrentConfigVersion + 1 }, "from the future"},
		{"empty url", func(c *Config) { c.Server.URL = "" }, "server.url is empty"},
		{"bad scheme", func(c *Config) { c.Server.URL = "ftp://host" }, "http:// or https://"},
		{"no host", func(c *Config) { c.Server.URL = "http://" }, "missing a host"},
		{"negative timeout", func(c *Config) { c.Server.Timeout = -time.Second }, "server.timeout"},
		{"negative points", func(c *Config) { c.Display.Points = -1 }, "display.points"},
		{"negative max lines", func(c *Config) { c.Console.MaxLines = -5 }, "console.max_lines"},
		{"unknown clear mode", func(c *Config) { c.Console.ClearMode = "nuke" }, "console.clear_mode"},
		{"unknown markup", func(c *Config) { c.Console.Markup = "html" }, "console.markup"},
		{"empty filter", func(c *Config) { c.Console.Filters = []string{"GET", " "} }, "console.filters"},
		{"negative follow threshold", func(c *Config) { c.Console.FollowThreshold = -1 }, "follow_threshold"},
		{"negative override", func(c *Config) { c.Overrides.Console = -time.Second }, "overrides.console"},
		{"local clear mode", func(c *Config) { c.Console.ClearMode = ClearLocal }, ""},
		{"allowlist markup", func(c *Config) { c.Console.Markup = MarkupAllowlist }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
