package dashboard

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/sysmon-tui/sysmon/internal/api"
	"github.com/sysmon-tui/sysmon/internal/config"
)

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		side   bool
	}{
		{"wide terminal", 180, 50, true},
		{"breakpoint", BreakpointWide, 40, true},
		{"narrow terminal", 100, 60, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := computeLayout(tt.width, tt.height)
			assert.Equal(t, tt.side, l.sideBySide)

			var chartRows int
			if l.sideBySide {
				chartRows = l.chartHeight + 2
				assert.LessOrEqual(t, 3*(l.chartWidth+4), tt.width)
			} else {
				chartRows = 3 * (l.chartHeight + 2)
				assert.LessOrEqual(t, l.chartWidth+4, tt.width)
			}
			total := fixedRows + chartRows + l.panelHeight + 2
			assert.LessOrEqual(t, total, tt.height)
		})
	}
}

func TestComputeLayout_TinyTerminal(t *testing.T) {
	l := computeLayout(20, 5)
	assert.GreaterOrEqual(t, l.chartWidth, 10)
	assert.GreaterOrEqual(t, l.chartHeight, 1)
	assert.GreaterOrEqual(t, l.panelHeight, 1)
}

func TestView_BeforeSize(t *testing.T) {
	m, _ := newTestModel(t, &stubBackend{}, nil)
	assert.Equal(t, "Starting…", m.View())
}

func TestView_Dashboard(t *testing.T) {
	m, _ := readyModel(t, &stubBackend{}, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 150, Height: 40})

	sample := api.MetricSample{
		CPU:    12.34,
		Memory: 55,
		Disk:   91,
		Network: api.Network{
			Sent: api.Rate{BytesPerSec: 1536},
			Recv: api.Rate{Text: "3.2 MB/s"},
		},
	}
	m, _ = update(t, m, metricsMsg{resp: api.NewSampleResponse(sample), at: fixedNow})
	m, _ = update(t, m, consoleMsg{lines: []api.ConsoleLine{{Timestamp: "12:00:00", Type: api.LineLog, Text: "server <b>started</b>"}}})

	out := m.View()

	assert.Contains(t, out, "SYSMON")
	assert.Contains(t, out, "http://127.0.0.1:5000")
	assert.Contains(t, out, "last update just now")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "12.3%")
	assert.Contains(t, out, "55.0%")
	assert.Contains(t, out, "91.0%")
	assert.Contains(t, out, "1.5 KB/s")
	assert.Contains(t, out, "3.2 MB/s")
	assert.Contains(t, out, "CPU Usage")
	assert.Contains(t, out, "Disk Usage")
	assert.Contains(t, out, "Speed (bytes/s)")
	assert.Contains(t, out, "[12:00:00] server <b>started</b>")
	assert.Contains(t, out, "[p] Pause")
	assert.Contains(t, out, "1 line")

	assert.LessOrEqual(t, len(strings.Split(out, "\n")), 40)
}

func TestView_IdleBadgeAndPause(t *testing.T) {
	m, _ := readyModel(t, &stubBackend{}, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 150, Height: 40})
	m.idle.SetClock(func() time.Time { return fixedNow.Add(time.Hour) })
	m.idle.Expire(m.idle.Generation())
	m.buffer.TogglePause()

	out := m.View()
	assert.Contains(t, out, "IDLE")
	assert.Contains(t, out, "[p] Resume")
	assert.Contains(t, out, "paused")
	assert.NotContains(t, out, "dropped")

	m.buffer.Append([]api.ConsoleLine{{Text: "a"}, {Text: "b"}})
	assert.Contains(t, m.View(), "2 dropped")
}

func TestView_FilteredCount(t *testing.T) {
	local := config.DefaultConfig()
	local.Console.Filters = []string{"heartbeat"}
	m, _ := readyModel(t, &stubBackend{}, local)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 150, Height: 40})

	assert.NotContains(t, m.View(), "filtered")

	m, _ = update(t, m, consoleMsg{lines: []api.ConsoleLine{
		{Text: "heartbeat ok"},
		{Text: "job done"},
		{Text: "heartbeat ok"},
	}})

	out := m.View()
	assert.Contains(t, out, "2 filtered")
	assert.Contains(t, out, "1 line")
}

func TestView_StatusPlaceholders(t *testing.T) {
	m, _ := readyModel(t, &stubBackend{}, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	out := m.View()
	assert.Contains(t, out, "CPU --")
	assert.Contains(t, out, "waiting for data")
}

func TestView_HelpOverlay(t *testing.T) {
	m, _ := readyModel(t, &stubBackend{}, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, keyMsg("?"))

	out := m.View()
	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "clear console")
	assert.Contains(t, out, "follow output")
}

func TestStatus_Apply(t *testing.T) {
	var s Status
	s.Apply(api.MetricSample{
		CPU:    99.96,
		Memory: 0,
		Disk:   50.05,
		Network: api.Network{
			Sent: api.Rate{BytesPerSec: 0},
			Recv: api.Rate{BytesPerSec: 1048576},
		},
	})

	assert.Equal(t, "100.0%", s.CPU)
	assert.Equal(t, "0.0%", s.Memory)
	assert.Equal(t, "0 Bytes/s", s.Sent)
	assert.Equal(t, "1 MB/s", s.Recv)
	assert.Equal(t, noValue, Status{}.cell("x"))
}

func TestHelpOverlay_ShowsSettings(t *testing.T) {
	local := config.DefaultConfig()
	local.Console.ClearMode = config.ClearLocal
	local.Console.Filters = []string{"GET /", "favicon"}

	m, _ := readyModel(t, &stubBackend{}, local)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 150, Height: 40})
	m.showHelp = true

	out := m.View()
	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "clear: local")
	assert.Contains(t, out, "filters: GET /, favicon")
}

func TestSettingsLine_NoFilters(t *testing.T) {
	m, _ := readyModel(t, &stubBackend{}, nil)
	assert.Contains(t, m.settingsLine(), "filters: none")
	assert.Contains(t, m.settingsLine(), "markup: escape")
}
