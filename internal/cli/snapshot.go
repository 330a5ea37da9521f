package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sysmon-tui/sysmon/internal/api"
	"github.com/sysmon-tui/sysmon/internal/config"
	"github.com/sysmon-tui/sysmon/internal/console"
	"github.com/sysmon-tui/sysmon/internal/errors"
	"github.com/sysmon-tui/sysmon/internal/logger"
	"github.com/sysmon-tui/sysmon/internal/ui"
	"github.com/sysmon-tui/sysmon/internal/util"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// snapshotBackend is the part of the API a snapshot reads. It never clears.
type snapshotBackend interface {
	Config(ctx context.Context) (*api.RemoteConfig, error)
	Metrics(ctx context.Context) (*api.MetricsResponse, error)
	Console(ctx context.Context) ([]api.ConsoleLine, error)
}

// SnapshotOptions controls a single snapshot run.
type SnapshotOptions struct {
	ConfigPath string
	Server     string
	Console    bool
	Timeout    time.Duration
	JSON       bool
	Verbose    bool

	Out io.Writer
	Err io.Writer

	// Backend replaces the HTTP client, for tests.
	Backend snapshotBackend
}

// SnapshotTimers is the resolved timer set in JSON output.
type SnapshotTimers struct {
	MetricsMS int64 `json:"metrics_ms"`
	ConsoleMS int64 `json:"console_ms"`
	IdleMS    int64 `json:"idle_ms"`
	Points    int   `json:"points"`
	MaxLines  int   `json:"max_lines"`
}

// SnapshotEndpoint records how one request went.
type SnapshotEndpoint struct {
	Path      string `json:"path"`
	OK        bool   `json:"ok"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"`
}

// SnapshotResult is the data payload of `sysmon snapshot --json`.
type SnapshotResult struct {
	Server        string             `json:"server"`
	Timers        SnapshotTimers     `json:"timers"`
	Metrics       *api.MetricSample  `json:"metrics,omitempty"`
	HistoryPoints int                `json:"history_points"`
	Console       []api.ConsoleLine  `json:"console,omitempty"`
	Endpoints     []SnapshotEndpoint `json:"endpoints"`

	raw *api.MetricsResponse
}

// snapshotCommand is the implementation called by the cobra command.
func snapshotCommand(ctx context.Context, opts SnapshotOptions) error {
	if opts.ConfigPath == "" {
		opts.ConfigPath = cfgFile
	}
	if opts.Server == "" {
		opts.Server = serverFlag
	}
	opts.Verbose = opts.Verbose || verbose
	return Snapshot(ctx, opts)
}

// Snapshot fetches config, metrics and optionally console output
// concurrently, prints them, and returns an error if any request failed.
func Snapshot(ctx context.Context, opts SnapshotOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	log := logger.Noop()
	if opts.Verbose {
		log = logger.Default()
	}

	cfg, _, err := loadConfig(opts.ConfigPath, opts.Server)
	if err != nil {
		return reportSnapshotError(opts, err)
	}

	backend := opts.Backend
	serverURL := cfg.Server.URL
	if backend == nil {
		client, err := api.NewClient(cfg.Server.URL, cfg.Server.Timeout)
		if err != nil {
			return reportSnapshotError(opts, err)
		}
		backend = client
		serverURL = client.BaseURL()
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var spinner *ui.Spinner
	if !opts.JSON {
		spinner = ui.NewSpinner("Contacting "+serverURL, opts.Err)
		spinner.SetAnimated(isTerminalWriter(opts.Err))
		spinner.Start()
	}

	result, fetchErr := fetchSnapshot(ctx, backend, cfg, opts.Console, log)
	result.Server = serverURL

	if spinner != nil {
		if failed := result.failedCount(); failed > 0 {
			spinner.SetLabel(fmt.Sprintf("Contacting %s: %d %s failed",
				serverURL, failed, util.Pluralize(failed, "request", "requests")))
			spinner.Fail()
		} else {
			spinner.Success()
		}
		if !result.Endpoints[0].OK {
			ui.PrintWarning(opts.Err, "config unavailable, timers below are defaults")
		}
	}

	if opts.JSON {
		if fetchErr != nil {
			if err := WriteJSONError(opts.Out, jsonCodeFor(fetchErr), firstLine(fetchErr), "", result); err != nil {
				return err
			}
			return errors.NewExitError(1)
		}
		return WriteJSONSuccess(opts.Out, result)
	}

	fmt.Fprint(opts.Out, renderSnapshot(result, cfg))
	if fetchErr != nil {
		return errors.NewExitError(1)
	}
	return nil
}

// fetchSnapshot runs the requests in parallel. Every request runs to
// completion so the report covers all endpoints; the first error is returned.
func fetchSnapshot(ctx context.Context, backend snapshotBackend, cfg *config.Config, withConsole bool, log logger.Logger) (*SnapshotResult, error) {
	result := &SnapshotResult{
		Endpoints: []SnapshotEndpoint{
			{Path: api.PathConfig},
			{Path: api.PathMetrics},
			{Path: api.PathConsole, Skipped: !withConsole},
		},
	}

	var (
		g       errgroup.Group
		remote  config.ClientConfig
		metrics *api.MetricsResponse
		lines   []api.ConsoleLine
	)

	timed := func(ep *SnapshotEndpoint, fn func() error) func() error {
		return func() error {
			start := time.Now()
			err := fn()
			ep.LatencyMS = time.Since(start).Milliseconds()
			ep.OK = err == nil
			if err != nil {
				ep.Error = firstLine(err)
				log.Debug("GET %s failed after %dms", ep.Path, ep.LatencyMS)
			}
			return err
		}
	}

	g.Go(timed(&result.Endpoints[0], func() error {
		var err error
		remote, err = config.Fetch(ctx, backend, log)
		return err
	}))
	g.Go(timed(&result.Endpoints[1], func() error {
		var err error
		metrics, err = backend.Metrics(ctx)
		return err
	}))
	if withConsole {
		g.Go(timed(&result.Endpoints[2], func() error {
			var err error
			lines, err = backend.Console(ctx)
			return err
		}))
	}

	err := g.Wait()

	eff := config.Resolve(cfg, remote)
	result.Timers = SnapshotTimers{
		MetricsMS: eff.Intervals.Metrics.Milliseconds(),
		ConsoleMS: eff.Intervals.Console.Milliseconds(),
		IdleMS:    eff.Intervals.Idle.Milliseconds(),
		Points:    eff.Points,
		MaxLines:  eff.MaxLines,
	}

	if metrics != nil {
		current := metrics.Current
		result.Metrics = &current
		result.HistoryPoints = len(metrics.History)
		result.raw = metrics
	}

	if len(lines) > 0 {
		buf := console.NewBuffer(eff.MaxLines, eff.Filters)
		buf.Append(lines)
		result.Console = buf.Lines()
	}

	return result, err
}

// failedCount returns how many requests that ran did not succeed.
func (r *SnapshotResult) failedCount() int {
	n := 0
	for _, ep := range r.Endpoints {
		if !ep.Skipped && !ep.OK {
			n++
		}
	}
	return n
}

// renderSnapshot formats the human-readable report.
func renderSnapshot(r *SnapshotResult, cfg *config.Config) string {
	var b strings.Builder

	b.WriteString(ui.RenderHeader(ui.HeaderInfo{Version: formatVersion(version), Server: r.Server}))

	rows := make([]ui.CheckRow, 0, len(r.Endpoints))
	for _, ep := range r.Endpoints {
		row := ui.CheckRow{Name: ep.Path}
		switch {
		case ep.Skipped:
			row.Status = ui.CheckSkip
			row.Detail = "skipped (use --console)"
		case ep.OK:
			row.Status = ui.CheckPass
			row.Detail = fmt.Sprintf("%dms", ep.LatencyMS)
		default:
			row.Status = ui.CheckFail
			row.Detail = ep.Error
			row.Suggestion = "Check that the SYSMON backend is running at " + r.Server
		}
		rows = append(rows, row)
	}
	b.WriteString(ui.RenderCheckTable("Backend", rows))
	b.WriteString("\n")

	b.WriteString(ui.RenderKeyValues("Timers", [][2]string{
		{"Metrics refresh", fmt.Sprintf("%dms", r.Timers.MetricsMS)},
		{"Console refresh", fmt.Sprintf("%dms", r.Timers.ConsoleMS)},
		{"Idle after", fmt.Sprintf("%dms", r.Timers.IdleMS)},
		{"Chart points", fmt.Sprintf("%d", r.Timers.Points)},
		{"Console lines", fmt.Sprintf("%d", r.Timers.MaxLines)},
		{"Console filters", util.JoinOrNone(cfg.Console.Filters)},
	}))

	if r.Metrics != nil {
		m := r.Metrics
		pairs := [][2]string{
			{"CPU", util.FormatPercent(m.CPU) + "%"},
			{"Memory", util.FormatPercent(m.Memory) + "%"},
			{"Disk", util.FormatPercent(m.Disk) + "%"},
			{"Upload", m.Network.Sent.Display()},
			{"Download", m.Network.Recv.Display()},
		}
		if r.raw != nil && r.raw.HasHistory() {
			pairs = append(pairs, [2]string{"History", fmt.Sprintf("%d %s",
				r.HistoryPoints, util.Pluralize(r.HistoryPoints, "point", "points"))})
		}
		b.WriteString("\n")
		b.WriteString(ui.RenderKeyValues("Metrics", pairs))
	}

	if len(r.Console) > 0 {
		mode := console.ParseMarkup(cfg.Console.Markup)
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Console (%d %s)\n", len(r.Console), util.Pluralize(len(r.Console), "line", "lines")))
		for _, l := range r.Console {
			b.WriteString("  " + console.FormatLine(l, mode) + "\n")
		}
	}

	return b.String()
}

// reportSnapshotError prints setup errors in the selected output format.
func reportSnapshotError(opts SnapshotOptions, err error) error {
	if opts.JSON {
		if werr := WriteJSONFromError(opts.Out, err); werr != nil {
			return werr
		}
		return errors.NewExitError(1)
	}
	return err
}

// jsonCodeFor maps a fetch error to a machine-readable code.
func jsonCodeFor(err error) string {
	if je := ErrorToJSON(err); je != nil {
		return je.Code
	}
	return ErrCodeUnknown
}

// firstLine returns the first non-empty line of err's message without the
// failure symbol structured errors start with.
func firstLine(err error) string {
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ui.SymbolFail))
		if line != "" {
			return line
		}
	}
	return ""
}

// isTerminalWriter reports whether w is a terminal.
func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
