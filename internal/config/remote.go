package config

import (
	"context"
	"math"
	"time"

	"github.com/sysmon-tui/sysmon/internal/api"
	"github.com/sysmon-tui/sysmon/internal/logger"
)

// Defaults used when /get-config omits a field or cannot be fetched.
const (
	DefaultRefreshRate    = 2500 * time.Millisecond
	DefaultConsoleRefresh = 5000 * time.Millisecond
	DefaultIdleTime       = 300000 * time.Millisecond
	DefaultDatapoints     = 30
	DefaultConsoleLines   = 100
)

// ClientConfig is the dashboard configuration served by the backend.
type ClientConfig struct {
	IdleTime       time.Duration
	RefreshRate    time.Duration
	ConsoleRefresh time.Duration
	Datapoints     int
	ConsoleLines   int
}

// DefaultClientConfig returns the values used when the backend gives none.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		IdleTime:       DefaultIdleTime,
		RefreshRate:    DefaultRefreshRate,
		ConsoleRefresh: DefaultConsoleRefresh,
		Datapoints:     DefaultDatapoints,
		ConsoleLines:   DefaultConsoleLines,
	}
}

// RemoteSource serves /get-config. *api.Client satisfies it.
type RemoteSource interface {
	Config(ctx context.Context) (*api.RemoteConfig, error)
}

// Fetch requests the remote configuration once. On failure it logs the
// error and returns the defaults together with the error, so callers can
// start anyway.
func Fetch(ctx context.Context, src RemoteSource, log logger.Logger) (ClientConfig, error) {
	rc, err := src.Config(ctx)
	if err != nil {
		log.Error("failed to load config, using defaults: %v", err)
		return DefaultClientConfig(), err
	}
	return FromRemote(rc, log), nil
}

// FromRemote fills a ClientConfig from the payload. Missing, malformed and
// non-positive fields fall back to the defaults and each one is logged.
func FromRemote(rc *api.RemoteConfig, log logger.Logger) ClientConfig {
	cfg := DefaultClientConfig()
	if rc == nil {
		log.Warn("empty config payload, using defaults")
		return cfg
	}

	for _, key := range rc.Invalid {
		log.Warn("config field %s is not a number", key)
	}

	cfg.IdleTime = millis(api.KeyIdleTime, rc.SetIdleTime, cfg.IdleTime, log)
	cfg.RefreshRate = millis(api.KeyRefreshRate, rc.RefreshRate, cfg.RefreshRate, log)
	cfg.ConsoleRefresh = millis(api.KeyConsoleRefresh, rc.ConsoleRefreshInterval, cfg.ConsoleRefresh, log)
	cfg.Datapoints = count(api.KeyDisplayedDatapoints, rc.DisplayedDatapoints, cfg.Datapoints, log)
	cfg.ConsoleLines = count(api.KeyConsoleMaxLines, rc.ConsoleMaxLines, cfg.ConsoleLines, log)
	return cfg
}

func millis(key string, v *float64, def time.Duration, log logger.Logger) time.Duration {
	if !usable(v) {
		log.Info("%s not set, defaulting to %dms", key, def.Milliseconds())
		return def
	}
	return time.Duration(*v * float64(time.Millisecond))
}

func count(key string, v *float64, def int, log logger.Logger) int {
	if !usable(v) || *v < 1 {
		log.Info("%s not set, defaulting to %d", key, def)
		return def
	}
	return int(*v)
}

func usable(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 0) && !math.IsNaN(*v)
}
