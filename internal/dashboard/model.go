package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sysmon-tui/sysmon/internal/chart"
	"github.com/sysmon-tui/sysmon/internal/config"
	"github.com/sysmon-tui/sysmon/internal/console"
	"github.com/sysmon-tui/sysmon/internal/idle"
	"github.com/sysmon-tui/sysmon/internal/logger"
)

// Options configures a dashboard Model.
type Options struct {
	// Backend is polled for config, metrics and console output.
	Backend Backend

	// Local is the loaded config file. Nil means defaults.
	Local *config.Config

	// ServerURL is shown in the header.
	ServerURL string

	// Logger receives fetch failures and state changes. Nil discards them.
	Logger logger.Logger

	// Now is the clock used to label samples. Nil uses time.Now.
	Now func() time.Time
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	backend   Backend
	local     *config.Config
	serverURL string
	log       logger.Logger
	now       func() time.Time

	// eff is the resolved configuration; valid once ready is set.
	eff   config.Effective
	ready bool

	charts *chart.Renderer
	status Status
	buffer *console.Buffer
	panel  console.Panel
	idle   *idle.Tracker

	keys     KeyMap
	help     help.Model
	showHelp bool

	width  int
	height int
	layout layout

	lastUpdate  time.Time
	lastError   string
	configError string
	clearing    bool
	quitting    bool
}

// NewModel creates a dashboard model. Components start with the default
// configuration and are resized once /get-config answers.
func NewModel(opts Options) Model {
	local := opts.Local
	if local == nil {
		local = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	eff := config.Resolve(local, config.DefaultClientConfig())
	tracker := idle.NewTracker(eff.Intervals.Idle)
	tracker.SetClock(now)

	return Model{
		backend:   opts.Backend,
		local:     local,
		serverURL: opts.ServerURL,
		log:       log,
		now:       now,
		eff:       eff,
		charts:    chart.NewRenderer(eff.Points),
		buffer:    console.NewBuffer(eff.MaxLines, eff.Filters),
		panel:     console.NewPanel(80, 10, eff.FollowThreshold, console.ParseMarkup(eff.Markup)),
		idle:      tracker,
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
}

// Init requests the backend config. Polling starts when it arrives.
func (m Model) Init() tea.Cmd {
	return m.loadConfigCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		touch := m.touch()
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, tea.Batch(touch, cmd)
		}
		return m, touch

	case tea.MouseMsg:
		// Motion resets the idle timer; the wheel scrolls the console.
		touch := m.touch()
		return m, tea.Batch(touch, m.panel.Update(msg))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout = computeLayout(msg.Width, msg.Height)
		m.panel.SetSize(m.layout.panelWidth, m.layout.panelHeight)
		m.panel.SetLines(m.buffer.Lines())

	case configLoadedMsg:
		return m, m.applyConfig(msg)

	case metricsTickMsg:
		return m, tea.Batch(m.fetchMetricsCmd(), m.metricsTickCmd())

	case consoleTickMsg:
		return m, tea.Batch(m.fetchConsoleCmd(), m.consoleTickCmd())

	case metricsMsg:
		m.applyMetrics(msg)

	case consoleMsg:
		m.applyConsole(msg)

	case clearMsg:
		m.applyClear(msg)

	case idle.TimeoutMsg:
		wentIdle, rearm := m.idle.Expire(msg.Gen)
		if wentIdle {
			m.log.Info("no input for %s, marking user idle", m.idle.Window())
		}
		return m, rearm
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// applyConfig resolves the effective config, resizes the components and
// starts the three timers.
func (m *Model) applyConfig(msg configLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.configError = "config unavailable, using defaults"
	}

	m.eff = config.Resolve(m.local, msg.cfg)
	m.charts.SetPoints(m.eff.Points)
	m.buffer.SetMax(m.eff.MaxLines)
	m.idle.SetWindow(m.eff.Intervals.Idle)
	m.ready = true

	m.log.Debug("polling metrics every %s, console every %s, idle after %s",
		m.eff.Intervals.Metrics, m.eff.Intervals.Console, m.eff.Intervals.Idle)

	return tea.Batch(
		m.fetchMetricsCmd(),
		m.metricsTickCmd(),
		m.fetchConsoleCmd(),
		m.consoleTickCmd(),
		m.idle.Start(),
	)
}

func (m *Model) applyMetrics(msg metricsMsg) {
	if msg.err != nil {
		m.lastError = "metrics update failed"
		m.log.Error("error fetching metrics: %v", msg.err)
		return
	}
	if msg.resp == nil {
		return
	}

	m.charts.Update(msg.resp, msg.at)
	m.status.Apply(msg.resp.Current)
	m.lastUpdate = msg.at
	m.lastError = ""
}

func (m *Model) applyConsole(msg consoleMsg) {
	if msg.err != nil {
		m.log.Error("error fetching console output: %v", msg.err)
		return
	}
	if len(msg.lines) == 0 {
		return
	}
	if m.buffer.Append(msg.lines) > 0 {
		m.panel.SetLines(m.buffer.Lines())
	}
}

func (m *Model) applyClear(msg clearMsg) {
	m.clearing = false
	switch {
	case msg.err != nil:
		m.log.Error("error clearing console: %v", msg.err)
	case !msg.resp.Acknowledged():
		status := ""
		if msg.resp != nil {
			status = msg.resp.Status
		}
		m.log.Warn("backend did not confirm console clear (status %q)", status)
	default:
		m.clearConsole()
	}
}

func (m *Model) clearConsole() {
	m.buffer.Clear()
	m.panel.SetLines(nil)
}

// touch records user activity once the idle timer runs.
func (m *Model) touch() tea.Cmd {
	if !m.ready {
		return nil
	}
	return m.idle.Touch()
}

// SecondsSinceUpdate returns seconds since the last successful metrics
// update, or -1 if none arrived yet.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return -1
	}
	return int(m.now().Sub(m.lastUpdate).Seconds())
}
