package dashboard

import (
	"context"

	"github.com/sysmon-tui/sysmon/internal/api"
)

// Backend is the subset of the SYSMON API the dashboard polls.
// *api.Client satisfies it.
type Backend interface {
	Config(ctx context.Context) (*api.RemoteConfig, error)
	Metrics(ctx context.Context) (*api.MetricsResponse, error)
	Console(ctx context.Context) ([]api.ConsoleLine, error)
	ClearConsole(ctx context.Context) (*api.ClearResponse, error)
}

var _ Backend = (*api.Client)(nil)
