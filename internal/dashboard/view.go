package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sysmon-tui/sysmon/internal/util"
)

// Width breakpoint above which the three charts sit side by side.
const BreakpointWide = 120

// Fixed rows: header, status row, console title, footer.
const fixedRows = 4

// layout holds the computed panel sizes for a terminal size.
type layout struct {
	sideBySide  bool
	chartWidth  int
	chartHeight int
	panelWidth  int
	panelHeight int
}

// computeLayout splits the terminal between the charts and the console.
// Charts get roughly half of the free rows; the console gets the rest.
func computeLayout(width, height int) layout {
	l := layout{sideBySide: width >= BreakpointWide}

	free := height - fixedRows
	if free < 6 {
		free = 6
	}
	chartRows := free / 2

	// Cards add a border on each side and one column of padding.
	if l.sideBySide {
		l.chartWidth = width/3 - 4
		l.chartHeight = chartRows - 2
	} else {
		l.chartWidth = width - 4
		l.chartHeight = chartRows/3 - 2
	}
	l.chartWidth = max(l.chartWidth, 10)
	l.chartHeight = max(l.chartHeight, 1)

	l.panelWidth = max(width-4, 10)
	l.panelHeight = max(free-chartRows-2, 1)
	return l
}

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.width == 0 {
		return "Starting…"
	}

	sections := []string{
		m.renderHeader(),
		m.renderStatusRow(),
		m.renderCharts(),
		m.renderConsole(),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title, backend URL, update age and idle badge.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("SYSMON")

	var updateText string
	switch age := m.SecondsSinceUpdate(); {
	case !m.ready:
		updateText = "connecting"
	case age < 0:
		updateText = "waiting for data"
	case age == 0:
		updateText = "last update just now"
	case age == 1:
		updateText = "last update 1s ago"
	default:
		updateText = fmt.Sprintf("last update %ds ago", age)
	}

	stats := LabelStyle.Render(fmt.Sprintf(" | %s | %s", m.serverURL, updateText))

	var warn string
	if m.lastError != "" {
		warn = StaleStyle.Render(" | " + m.lastError)
	} else if m.configError != "" {
		warn = StaleStyle.Render(" | " + m.configError)
	}

	badge := ActiveBadgeStyle.Render("active")
	if m.idle.IsIdle() {
		badge = IdleBadgeStyle.Render("IDLE")
	}

	left := title + stats + warn
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(badge) - 2
	if gap < 1 {
		gap = 1
	}
	return HeaderStyle.Render(left + strings.Repeat(" ", gap) + badge)
}

// renderStatusRow renders the cpuUsage, memoryUsage, diskUsage,
// networkSent and networkRecv cells.
func (m Model) renderStatusRow() string {
	s := m.status
	percent := func(label, value string, v float64) string {
		style := ValueStyle
		if s.set {
			style = MetricStyle(v)
		}
		return LabelStyle.Render(label+" ") + style.Render(s.cell(value))
	}
	rate := func(label, value string) string {
		return LabelStyle.Render(label+" ") + ValueStyle.Render(s.cell(value))
	}

	cells := []string{
		percent("CPU", s.CPU, s.cpu),
		percent("Memory", s.Memory, s.memory),
		percent("Disk", s.Disk, s.disk),
		rate("↑ Sent", s.Sent),
		rate("↓ Recv", s.Recv),
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(cells, MutedStyle.Render("  │  ")))
}

// renderCharts renders the three chart cards.
func (m Model) renderCharts() string {
	l := m.layout
	charts := m.charts.Charts()
	cards := make([]string, len(charts))
	for i, c := range charts {
		cards[i] = CardStyle.Render(c.Render(l.chartWidth, l.chartHeight))
	}
	if l.sideBySide {
		return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// renderConsole renders the console title bar and the scrollable panel.
func (m Model) renderConsole() string {
	controls := []string{
		MutedStyle.Render("[c] Clear"),
		MutedStyle.Render("[p] " + m.buffer.PauseLabel()),
	}
	title := LabelStyle.Bold(true).Render("Console") + "  " + strings.Join(controls, "  ")

	if m.buffer.Paused() {
		title += "  " + PausedBadgeStyle.Render("paused")
		if n := m.buffer.Dropped(); n > 0 {
			title += "  " + MutedStyle.Render(fmt.Sprintf("%d dropped", n))
		}
	}
	if n := m.buffer.FilteredCount(); n > 0 {
		title += "  " + MutedStyle.Render(fmt.Sprintf("%d filtered", n))
	}
	if m.clearing {
		title += "  " + MutedStyle.Render("clearing…")
	}
	title += "  " + MutedStyle.Render(fmt.Sprintf("%d %s", m.panel.LineCount(), util.Pluralize(m.panel.LineCount(), "line", "lines")))

	body := CardStyle.Render(m.panel.View())
	return lipgloss.JoinVertical(lipgloss.Left, " "+title, body)
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}
