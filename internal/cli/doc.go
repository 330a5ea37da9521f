// Package cli implements the sysmon command-line interface.
//
// Each cobra command is a thin wrapper: it collects flags into an options
// struct and calls an exported function (Snapshot, Init) or the dashboard
// runner, which do the work and are what the tests drive.
//
// # Command Structure
//
//	sysmon                  - Dashboard (same as "sysmon dashboard")
//	sysmon dashboard        - Full-screen metrics and console view
//	sysmon snapshot         - One round of requests, table or --json
//	sysmon init             - Create or update sysmon.yaml
//	sysmon version          - Build information
//	sysmon completion SHELL - Shell completion script
//
// # Flag Handling
//
// Global flags (--config, --server, --verbose, --no-color) live on the root
// command. --server beats server.url from the file and SYSMON_SERVER_URL.
//
// # Errors
//
// Commands return internal/errors values. Execute prints them to stderr and
// exits 1, or writes a JSON envelope when --json is set. Commands that
// already printed their own report return an ExitError to set the code
// silently.
package cli
