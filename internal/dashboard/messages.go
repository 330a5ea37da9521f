package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sysmon-tui/sysmon/internal/api"
	"github.com/sysmon-tui/sysmon/internal/config"
)

// configLoadedMsg carries the backend config, or defaults plus the error.
type configLoadedMsg struct {
	cfg config.ClientConfig
	err error
}

// metricsTickMsg signals the metrics refresh interval elapsed.
type metricsTickMsg time.Time

// consoleTickMsg signals the console refresh interval elapsed.
type consoleTickMsg time.Time

// metricsMsg carries one /update_data result.
type metricsMsg struct {
	resp *api.MetricsResponse
	err  error
	at   time.Time
}

// consoleMsg carries one /get-console-output result.
type consoleMsg struct {
	lines []api.ConsoleLine
	err   error
}

// clearMsg carries the /clear-console result.
type clearMsg struct {
	resp *api.ClearResponse
	err  error
}

func (m Model) loadConfigCmd() tea.Cmd {
	backend, log := m.backend, m.log
	return func() tea.Msg {
		cfg, err := config.Fetch(context.Background(), backend, log)
		return configLoadedMsg{cfg: cfg, err: err}
	}
}

func (m Model) fetchMetricsCmd() tea.Cmd {
	backend, now := m.backend, m.now
	return func() tea.Msg {
		resp, err := backend.Metrics(context.Background())
		return metricsMsg{resp: resp, err: err, at: now()}
	}
}

func (m Model) fetchConsoleCmd() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		lines, err := backend.Console(context.Background())
		return consoleMsg{lines: lines, err: err}
	}
}

func (m Model) clearConsoleCmd() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		resp, err := backend.ClearConsole(context.Background())
		return clearMsg{resp: resp, err: err}
	}
}

func (m Model) metricsTickCmd() tea.Cmd {
	return tea.Tick(m.eff.Intervals.Metrics, func(t time.Time) tea.Msg {
		return metricsTickMsg(t)
	})
}

func (m Model) consoleTickCmd() tea.Cmd {
	return tea.Tick(m.eff.Intervals.Console, func(t time.Time) tea.Msg {
		return consoleTickMsg(t)
	})
}
