package cli

import (
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sysmon-tui/sysmon/internal/api"
	"github.com/sysmon-tui/sysmon/internal/config"
	"github.com/sysmon-tui/sysmon/internal/dashboard"
	"github.com/sysmon-tui/sysmon/internal/errors"
	"github.com/sysmon-tui/sysmon/internal/logger"
	"golang.org/x/term"
)

// debugLogFile receives logs when SYSMON_DEBUG is set and no file is configured.
const debugLogFile = "sysmon-debug.log"

// DashboardOptions holds the resolved dashboard flags.
type DashboardOptions struct {
	ConfigPath string
	Server     string
	Interval   string
	LogFile    string
}

func dashboardOptionsFromFlags() DashboardOptions {
	return DashboardOptions{
		ConfigPath: cfgFile,
		Server:     serverFlag,
		Interval:   dashboardIntervalFlag,
		LogFile:    dashboardLogFileFlag,
	}
}

// dashboardCommand loads config and runs the TUI until the user quits.
func dashboardCommand(opts DashboardOptions) error {
	interval, err := parseInterval(opts.Interval)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(opts.ConfigPath, opts.Server)
	if err != nil {
		return err
	}
	if interval > 0 {
		cfg.Overrides.Metrics = interval
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'sysmon snapshot' (or 'sysmon snapshot --json') for scripted output")
	}

	client, err := api.NewClient(cfg.Server.URL, cfg.Server.Timeout)
	if err != nil {
		return err
	}

	restore, err := redirectLog(opts.LogFile, cfg.Log.File)
	if err != nil {
		return err
	}
	defer restore()

	model := dashboard.NewModel(dashboard.Options{
		Backend:   client,
		Local:     cfg,
		ServerURL: client.BaseURL(),
		Logger:    logger.NewEnvLogger("[dashboard]"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Dashboard exited with an error",
			"Run with --log-file to capture diagnostics")
	}
	return nil
}

// loadConfig finds, loads and validates the config, applying --server.
func loadConfig(explicit, server string) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(explicit)
	if err != nil {
		return nil, "", err
	}
	if server != "" {
		cfg.Server.URL = server
	}
	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// redirectLog points the standard logger away from the terminal the TUI
// owns. The flag wins over log.file; SYSMON_DEBUG without either writes to
// sysmon-debug.log. With nothing configured, output is discarded.
// The returned func restores stderr.
func redirectLog(flagPath, cfgPath string) (func(), error) {
	path := flagPath
	if path == "" {
		path = cfgPath
	}
	if path == "" && logger.DebugEnabled() {
		path = debugLogFile
	}

	if path == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}

	path = config.ExpandTilde(path)
	f, err := tea.LogToFile(path, "sysmon")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open log file: "+path,
			"Check the directory exists and is writable")
	}
	return func() {
		f.Close()
		log.SetOutput(os.Stderr)
		log.SetPrefix("")
	}, nil
}
