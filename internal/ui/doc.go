// Package ui holds the styled line output used by sysmon's one-shot
// commands (snapshot, init, version). The dashboard renders its own
// full-screen layout in package dashboard; this package is for plain
// terminal output that scrolls.
//
// Colors are ANSI codes so output follows the terminal theme. DisableColors
// drops to monochrome for --no-color.
//
//	s := ui.NewSpinner("Contacting backend", os.Stderr)
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail() or s.Skip()
package ui
