package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/sysmon-tui/sysmon/internal/config"
	"github.com/sysmon-tui/sysmon/internal/errors"
)

// Command-specific flags
var (
	dashboardIntervalFlag string
	dashboardLogFileFlag  string
	snapshotConsoleFlag   bool
	snapshotTimeoutFlag   time.Duration
	initForce             bool
	initNonInteractive    bool
	initSkipProbe         bool
)

// dashboardCmd starts the TUI dashboard
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "ui"},
	Short:   "Live metrics and console dashboard",
	Long: `Start the full-screen dashboard for a SYSMON backend.

Timers come from the backend's /get-config (refresh rate, console refresh,
idle time) unless pinned under 'overrides' in sysmon.yaml. --interval pins
the metrics refresh for this run only.

Keyboard shortcuts:
  c           Clear the console
  p           Pause / resume the console
  up/k down/j Scroll the console
  pgup pgdown Scroll a page
  G / End     Jump to the newest line
  ?           Show help
  q / Ctrl+C  Quit

Examples:
  sysmon dashboard
  sysmon dashboard --server http://10.0.0.5:5000
  sysmon dashboard --interval 1s --log-file /tmp/sysmon.log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(dashboardOptionsFromFlags())
	},
}

// snapshotCmd prints one round of backend data and exits
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print current metrics once and exit",
	Long: `Fetch /get-config and /update_data (and /get-console-output with
--console) concurrently, print the result and exit.

Exits non-zero if any request fails, so it doubles as a health check.

Note: the backend drains its console queue on every read, so --console
takes those lines away from a running dashboard.

Examples:
  sysmon snapshot
  sysmon snapshot --console
  sysmon snapshot --json | jq .data.metrics.cpu`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotCommand(cmd.Context(), SnapshotOptions{
			Console: snapshotConsoleFlag,
			Timeout: snapshotTimeoutFlag,
			JSON:    machineMode,
			Out:     cmd.OutOrStdout(),
			Err:     cmd.ErrOrStderr(),
		})
	},
}

// initCmd creates a new sysmon.yaml
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create sysmon.yaml",
	Long: `Create a sysmon.yaml configuration in the current directory.

Prompts for the backend URL, console clear mode and markup handling when
run in a terminal. Checks the backend answers /get-config before saving.

With an existing config and --server, only server.url is rewritten and the
rest of the file (comments included) is kept.

Environment:
  SYSMON_SERVER_URL       default backend URL
  SYSMON_NON_INTERACTIVE  skip prompts (also implied by CI)

Examples:
  sysmon init
  sysmon init --server http://10.0.0.5:5000
  sysmon init --force --non-interactive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(serverFlag, initForce, initNonInteractive, initSkipProbe)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for sysmon.

Examples:
  # Bash
  sysmon completion bash > /etc/bash_completion.d/sysmon

  # Zsh
  sysmon completion zsh > "${fpath[1]}/_sysmon"

  # Fish
  sysmon completion fish > ~/.config/fish/completions/sysmon.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

// addDashboardFlags registers the dashboard flags on cmd. Both the root
// command and "dashboard" carry them so bare "sysmon --interval 1s" works.
func addDashboardFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dashboardIntervalFlag, "interval", "", "metrics refresh interval, overrides the backend (e.g. 1s, 500ms)")
	cmd.Flags().StringVar(&dashboardLogFileFlag, "log-file", "", "write diagnostics to this file while the dashboard runs")
}

// parseInterval validates an --interval value. Empty means no override.
func parseInterval(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid interval: %s", s),
			"Use a valid duration like 500ms, 2s or 1m")
	}
	if d < config.MinInterval {
		return 0, errors.New(errors.ErrConfig,
			"Interval too short",
			fmt.Sprintf("Minimum interval is %s to avoid overwhelming the backend", config.MinInterval))
	}
	return d, nil
}

func init() {
	addDashboardFlags(dashboardCmd)

	snapshotCmd.Flags().BoolVar(&snapshotConsoleFlag, "console", false, "also fetch pending console lines")
	snapshotCmd.Flags().DurationVar(&snapshotTimeoutFlag, "timeout", 10*time.Second, "overall deadline for the requests")
	snapshotCmd.Flags().BoolVar(&machineMode, "json", false, "print a JSON envelope instead of a table")

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "never prompt, use flags and environment")
	initCmd.Flags().BoolVar(&initSkipProbe, "skip-check", false, "save without checking the backend")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
