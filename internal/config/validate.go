package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sysmon-tui/sysmon/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but sysmon only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade sysmon or lower the version in sysmon.yaml.")
	}

	if err := validateServer(cfg.Server); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'server' section in your sysmon.yaml.")
	}

	if cfg.Display.Points < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("display.points can't be negative (got %d)", cfg.Display.Points),
			"Use 0 to take the value from the backend.")
	}

	if err := validateConsole(cfg.Console); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'console' section in your sysmon.yaml.")
	}

	if err := validateOverrides(cfg.Overrides); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'overrides' section in your sysmon.yaml.")
	}

	return nil
}

func validateServer(s ServerConfig) error {
	if s.URL == "" {
		return fmt.Errorf("server.url is empty - point it at your SYSMON backend, like http://127.0.0.1:5000")
	}
	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("server.url '%s' isn't a valid URL: %v", s.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url '%s' needs an http:// or https:// scheme", s.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("server.url '%s' is missing a host", s.URL)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("server.timeout can't be negative")
	}
	return nil
}

func validateConsole(c ConsoleConfig) error {
	if c.MaxLines < 0 {
		return fmt.Errorf("console.max_lines can't be negative (got %d)", c.MaxLines)
	}

	switch c.ClearMode {
	case "", ClearRemote, ClearLocal:
	default:
		return fmt.Errorf("console.clear_mode '%s' isn't valid - use '%s' or '%s'", c.ClearMode, ClearRemote, ClearLocal)
	}

	switch c.Markup {
	case "", MarkupEscape, MarkupAllowlist:
	default:
		return fmt.Errorf("console.markup '%s' isn't valid - use '%s' or '%s'", c.Markup, MarkupEscape, MarkupAllowlist)
	}

	for _, f := range c.Filters {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("console.filters has an empty entry - it would hide every line")
		}
	}

	if c.FollowThreshold < 0 {
		return fmt.Errorf("console.follow_threshold can't be negative (got %d)", c.FollowThreshold)
	}
	return nil
}

func validateOverrides(o OverridesConfig) error {
	checks := []struct {
		name  string
		value time.Duration
	}{
		{"overrides.metrics", o.Metrics},
		{"overrides.console", o.Console},
		{"overrides.idle", o.Idle},
	}
	for _, c := range checks {
		if c.value < 0 {
			return fmt.Errorf("%s can't be negative", c.name)
		}
	}
	return nil
}
