package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/sysmon-tui/sysmon/internal/api"
	"github.com/sysmon-tui/sysmon/internal/config"
	"github.com/sysmon-tui/sysmon/internal/errors"
	"github.com/sysmon-tui/sysmon/internal/logger"
	"github.com/sysmon-tui/sysmon/internal/ui"
	"golang.org/x/term"
)

// defaultProbeTimeout bounds the /get-config check before saving.
const defaultProbeTimeout = 5 * time.Second

// InitOptions holds options for the init command.
type InitOptions struct {
	Server         string // Pre-specified backend URL
	ClearMode      string // "remote" or "local"; empty uses the default
	Markup         string // "escape" or "allowlist"; empty uses the default
	Dir            string // Directory to write sysmon.yaml into; empty is "."
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use flags and environment
	SkipProbe      bool   // Save without checking the backend
	ProbeTimeout   time.Duration
	Out            io.Writer
}

// initDefaults holds values picked up from the environment.
type initDefaults struct {
	Server         string
	NonInteractive bool
}

// getInitDefaults reads SYSMON_SERVER_URL, SYSMON_NON_INTERACTIVE and CI.
func getInitDefaults() initDefaults {
	return initDefaults{
		Server:         os.Getenv("SYSMON_SERVER_URL"),
		NonInteractive: isTruthy(os.Getenv("SYSMON_NON_INTERACTIVE")) || isTruthy(os.Getenv("CI")),
	}
}

// mergeInitOptions fills empty options from the environment. Flags win.
func mergeInitOptions(opts InitOptions) InitOptions {
	defaults := getInitDefaults()
	if opts.Server == "" {
		opts.Server = defaults.Server
	}
	if defaults.NonInteractive {
		opts.NonInteractive = true
	}
	return opts
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Init creates or updates sysmon.yaml.
func Init(opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		// An explicit URL on an existing file only rewrites server.url.
		if opts.Server != "" {
			return updateServerURL(out, configPath, opts)
		}

		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite, or --server to change only the backend URL")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.Server != "" {
		cfg.Server.URL = opts.Server
	}
	if opts.ClearMode != "" {
		cfg.Console.ClearMode = opts.ClearMode
	}
	if opts.Markup != "" {
		cfg.Console.Markup = opts.Markup
	}

	if !opts.NonInteractive {
		if err := runInitForm(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := probeUnlessSkipped(out, cfg.Server.URL, opts); err != nil {
		return err
	}

	if err := config.Save(configPath, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  sysmon           - Open the dashboard")
	fmt.Fprintln(out, "  sysmon snapshot  - Check the backend once")
	return nil
}

// runInitForm prompts for the values a new config needs.
func runInitForm(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Where the SYSMON backend listens").
				Placeholder(api.DefaultServerURL).
				Value(&cfg.Server.URL).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("backend URL is required")
					}
					if _, err := api.NewClient(s, 0); err != nil {
						return fmt.Errorf("use a full http:// or https:// URL")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Console clear").
				Description("What the c key does").
				Options(
					huh.NewOption("Ask the backend (/clear-console)", config.ClearRemote),
					huh.NewOption("Clear the screen only", config.ClearLocal),
				).
				Value(&cfg.Console.ClearMode),
			huh.NewSelect[string]().
				Title("Console markup").
				Description("How HTML in log lines is shown").
				Options(
					huh.NewOption("Show it literally", config.MarkupEscape),
					huh.NewOption("Render bold, italic, underline and span classes", config.MarkupAllowlist),
				).
				Value(&cfg.Console.Markup),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive")
	}
	cfg.Server.URL = strings.TrimSpace(cfg.Server.URL)
	return nil
}

// updateServerURL rewrites server.url in place, keeping the rest of the file.
func updateServerURL(out io.Writer, configPath string, opts InitOptions) error {
	if _, err := api.NewClient(opts.Server, 0); err != nil {
		return err
	}
	if err := probeUnlessSkipped(out, opts.Server, opts); err != nil {
		return err
	}
	if err := config.SetServerURL(configPath, opts.Server); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to update %s", configPath),
			"Fix the file by hand or rerun with --force")
	}
	fmt.Fprintf(out, "%s Updated server.url in %s\n", ui.SymbolSuccess, configPath)
	return nil
}

// probeUnlessSkipped runs checkBackend, or records the check as skipped.
func probeUnlessSkipped(out io.Writer, serverURL string, opts InitOptions) error {
	if opts.SkipProbe {
		ui.NewSpinner("Checking "+serverURL, out).Skip()
		return nil
	}
	return checkBackend(out, serverURL, opts)
}

// checkBackend asks the backend for /get-config. In interactive mode a
// failure offers to save anyway.
func checkBackend(out io.Writer, serverURL string, opts InitOptions) error {
	timeout := opts.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	client, err := api.NewClient(serverURL, timeout)
	if err != nil {
		return err
	}

	spinner := ui.NewSpinner("Checking "+client.BaseURL(), out)
	spinner.SetAnimated(isTerminalWriter(out))
	spinner.Start()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rc, err := client.Config(ctx)
	if err == nil {
		spinner.Success()
		remote := config.FromRemote(rc, logger.Noop())
		fmt.Fprintf(out, "  %s\n\n", ui.MutedStyle().Render(fmt.Sprintf(
			"backend refresh %dms, console %dms, idle after %dms",
			remote.RefreshRate.Milliseconds(),
			remote.ConsoleRefresh.Milliseconds(),
			remote.IdleTime.Milliseconds())))
		return nil
	}
	spinner.Fail()

	fail := errors.WrapWithCode(err, errors.ErrHTTP,
		fmt.Sprintf("Backend at %s did not answer /get-config", serverURL),
		"Start the backend, or rerun with --skip-check to save anyway")

	if opts.NonInteractive {
		return fail
	}

	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (The dashboard retries on every tick)").
				Value(&saveAnyway),
		),
	)
	if formErr := form.Run(); formErr != nil || !saveAnyway {
		return fail
	}
	return nil
}

// initCommand is the implementation called by the cobra command.
func initCommand(server string, force, nonInteractive, skipProbe bool) error {
	opts := mergeInitOptions(InitOptions{
		Server:         server,
		Overwrite:      force,
		NonInteractive: nonInteractive,
		SkipProbe:      skipProbe,
	})
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		opts.NonInteractive = true
	}
	return Init(opts)
}
