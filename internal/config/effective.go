package config

import "time"

// MinInterval is the shortest polling or idle period the dashboard accepts.
const MinInterval = 250 * time.Millisecond

// Intervals are the three timer periods of the dashboard.
type Intervals struct {
	Metrics time.Duration
	Console time.Duration
	Idle    time.Duration
}

// Effective is the merged configuration every component reads.
type Effective struct {
	Intervals Intervals

	// Points caps the chart length in append mode.
	Points int
	// MaxLines caps the console buffer.
	MaxLines int

	ClearMode       string
	Markup          string
	Filters         []string
	FollowThreshold int
}

// Resolve merges the local file and the backend config. Local overrides win
// over backend values, which win over defaults. Intervals shorter than
// MinInterval are raised to it.
func Resolve(local *Config, remote ClientConfig) Effective {
	if local == nil {
		local = DefaultConfig()
	}

	eff := Effective{
		Intervals: Intervals{
			Metrics: pick(local.Overrides.Metrics, remote.RefreshRate, DefaultRefreshRate),
			Console: pick(local.Overrides.Console, remote.ConsoleRefresh, DefaultConsoleRefresh),
			Idle:    pick(local.Overrides.Idle, remote.IdleTime, DefaultIdleTime),
		},
		Points:          pickInt(local.Display.Points, remote.Datapoints, DefaultDatapoints),
		MaxLines:        pickInt(local.Console.MaxLines, remote.ConsoleLines, DefaultConsoleLines),
		ClearMode:       local.Console.ClearMode,
		Markup:          local.Console.Markup,
		Filters:         append([]string(nil), local.Console.Filters...),
		FollowThreshold: local.Console.FollowThreshold,
	}

	if eff.ClearMode == "" {
		eff.ClearMode = ClearRemote
	}
	if eff.Markup == "" {
		eff.Markup = MarkupEscape
	}
	return eff
}

func pick(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			if v < MinInterval {
				return MinInterval
			}
			return v
		}
	}
	return MinInterval
}

func pickInt(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 1
}
