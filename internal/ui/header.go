package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string // e.g. "v0.4.0"
	Server  string // backend URL, optional
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders the title line, the backend URL and a divider.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	versionStyle := lipgloss.NewStyle().Foreground(ColorInfo)

	var b strings.Builder
	b.WriteString(titleStyle.Render("sysmon"))
	if info.Version != "" {
		b.WriteString(" ")
		b.WriteString(versionStyle.Render(info.Version))
	}
	b.WriteString("\n")

	if info.Server != "" {
		b.WriteString(MutedStyle().Render(info.Server))
		b.WriteString("\n")
	}

	b.WriteString(MutedStyle().Render(strings.Repeat("━", HeaderWidth)))
	b.WriteString("\n")
	return b.String()
}
