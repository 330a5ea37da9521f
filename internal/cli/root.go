package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sysmon-tui/sysmon/internal/errors"
	"github.com/sysmon-tui/sysmon/internal/ui"
)

// Global flags
var (
	cfgFile    string
	serverFlag string
	verbose    bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "sysmon",
	Short: "Terminal dashboard for a SYSMON backend",
	Long: `sysmon polls a SYSMON backend and shows CPU, memory, disk and network
charts next to a live console log.

Running sysmon without a subcommand starts the dashboard.

Config is read from --config, ./sysmon.yaml or ~/.config/sysmon/config.yaml.
Any key can be overridden from the environment with the SYSMON_ prefix,
e.g. SYSMON_SERVER_URL=http://10.0.0.5:5000.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(dashboardOptionsFromFlags())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sysmon.yaml, then ~/.config/sysmon/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "backend URL, overrides server.url")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests and config resolution to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	addDashboardFlags(rootCmd)
}

// RootCommand returns the root command, for documentation generators.
func RootCommand() *cobra.Command {
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	if code, ok := errors.GetExitCode(err); ok {
		os.Exit(code)
	}

	if machineMode {
		_ = WriteJSONFromError(os.Stdout, err)
		os.Exit(1)
	}

	if isUnknownCommandError(err) {
		if name := extractUnknownCommand(err); name != "" {
			fmt.Fprintf(os.Stderr, "%s Unknown command %q\n\n  Run 'sysmon --help' to see available commands\n", ui.SymbolFail, name)
		} else {
			fmt.Fprintf(os.Stderr, "%s %v\n\n  Run 'sysmon --help' for usage\n", ui.SymbolFail, err)
		}
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, formatError(err))
	os.Exit(1)
}

// formatError renders structured errors as-is and prefixes anything else
// with the failure symbol.
func formatError(err error) string {
	msg := err.Error()
	if !errors.IsCode(err, errors.ErrConfig) &&
		!errors.IsCode(err, errors.ErrHTTP) &&
		!errors.IsCode(err, errors.ErrDecode) &&
		!errors.IsCode(err, errors.ErrBackend) {
		msg = fmt.Sprintf("%s %s", ui.SymbolFail, msg)
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	return msg
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "sysmon"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
