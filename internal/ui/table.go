package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Check statuses understood by RenderCheckTable.
const (
	CheckPass = "pass"
	CheckFail = "fail"
	CheckSkip = "skip"
)

// CheckRow is one line of a check table, e.g. one backend endpoint.
type CheckRow struct {
	Status string // CheckPass, CheckFail or CheckSkip
	Name   string
	Detail string
	// Suggestion is printed under failed rows.
	Suggestion string
}

// RenderCheckTable renders rows under a bold title with a status symbol per row.
func RenderCheckTable(title string, rows []CheckRow) string {
	if len(rows) == 0 {
		return ""
	}

	nameWidth := 0
	for _, row := range rows {
		if w := lipgloss.Width(row.Name); w > nameWidth {
			nameWidth = w
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
		b.WriteString("\n")
	}

	for _, row := range rows {
		var icon, detail string
		switch row.Status {
		case CheckPass:
			icon = SuccessStyle().Render(SymbolComplete)
			detail = MutedStyle().Render(row.Detail)
		case CheckFail:
			icon = ErrorStyle().Render(SymbolFail)
			detail = ErrorStyle().Render(row.Detail)
		case CheckSkip:
			icon = WarningStyle().Render(SymbolSkipped)
			detail = MutedStyle().Render(row.Detail)
		default:
			icon = MutedStyle().Render(SymbolPending)
			detail = row.Detail
		}

		b.WriteString("  " + icon + " " + padRight(row.Name, nameWidth+2) + detail + "\n")

		if row.Suggestion != "" && row.Status == CheckFail {
			b.WriteString("      " + MutedStyle().Render(row.Suggestion) + "\n")
		}
	}
	return b.String()
}

// RenderKeyValues renders aligned "key  value" pairs under a bold title.
func RenderKeyValues(title string, pairs [][2]string) string {
	if len(pairs) == 0 {
		return ""
	}

	keyWidth := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p[0]); w > keyWidth {
			keyWidth = w
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
		b.WriteString("\n")
	}
	for _, p := range pairs {
		b.WriteString("  " + MutedStyle().Render(padRight(p[0], keyWidth+2)) + p[1] + "\n")
	}
	return b.String()
}

// padRight pads s to width visible cells, ignoring ANSI codes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
