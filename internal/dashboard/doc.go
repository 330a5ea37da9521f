// Package dashboard implements the full-screen SYSMON dashboard.
//
// The dashboard polls a SYSMON backend for metrics and console output and
// renders CPU, memory/disk and network charts, a row of status cells and a
// scrollable console panel.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: Holds the chart renderer, console buffer and panel, idle tracker
//   - Update: Processes ticks, fetch results, keystrokes and mouse events
//   - View: Renders the current state to a string for display
//
// All state changes happen inside Update. HTTP requests run inside tea.Cmd
// goroutines and come back as messages, so no locking is needed.
//
// # Message Flow
//
// Init issues only the /get-config request. Everything else waits for it:
//
//  1. configLoadedMsg arrives (with defaults if the request failed)
//  2. metrics and console are fetched immediately and their ticks armed
//  3. the idle timer starts
//  4. each metricsTickMsg / consoleTickMsg fetches again and re-arms itself
//
// Fetch failures are logged and dropped; the next tick tries again. The
// header shows how long ago the last successful metrics update arrived.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	c           - Clear console
//	p           - Pause / resume console
//	↑/↓, PgUp/PgDn, End - Scroll console
//	?           - Toggle help overlay
package dashboard
