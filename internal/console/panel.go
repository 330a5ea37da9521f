package console

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sysmon-tui/sysmon/internal/api"
)

// DefaultFollowThreshold is how many rows from the bottom still count as
// following the output.
const DefaultFollowThreshold = 3

var (
	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6B8D"))
	stdoutStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	stderrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0055"))
	logStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#B4B4D0"))
	otherStyle     = lipgloss.NewStyle()
	emptyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6B8D")).Italic(true)
)

// StyleFor returns the text style for a line type.
func StyleFor(lineType string) lipgloss.Style {
	switch lineType {
	case api.LineStdout:
		return stdoutStyle
	case api.LineStderr:
		return stderrStyle
	case api.LineLog:
		return logStyle
	default:
		return otherStyle
	}
}

// FormatLine renders one line as "[timestamp] text".
func FormatLine(l api.ConsoleLine, mode Markup) string {
	ts := timestampStyle.Render("[" + Sanitize(l.Timestamp) + "]")
	return ts + " " + Render(l.Text, mode, StyleFor(l.Type))
}

// Panel is the scrollable console view. It stays pinned to the newest
// output while the user is near the bottom and holds still otherwise.
type Panel struct {
	vp        viewport.Model
	follow    int
	markup    Markup
	lineCount int
}

// NewPanel creates a panel of the given size.
func NewPanel(width, height, followThreshold int, mode Markup) Panel {
	if followThreshold < 0 {
		followThreshold = DefaultFollowThreshold
	}
	vp := viewport.New(max(width, 1), max(height, 1))
	vp.SetContent(emptyStyle.Render("No console output yet"))
	return Panel{vp: vp, follow: followThreshold, markup: mode}
}

// SetSize resizes the panel.
func (p *Panel) SetSize(width, height int) {
	p.vp.Width = max(width, 1)
	p.vp.Height = max(height, 1)
}

// Width returns the panel width.
func (p *Panel) Width() int {
	return p.vp.Width
}

// Height returns the panel height.
func (p *Panel) Height() int {
	return p.vp.Height
}

// NearBottom reports whether the view is within the follow threshold of
// the last row.
func (p *Panel) NearBottom() bool {
	below := p.vp.TotalLineCount() - (p.vp.YOffset + p.vp.Height)
	return below <= p.follow
}

// SetLines replaces the panel content with lines. If the view was near the
// bottom beforehand it scrolls to the new bottom; otherwise the scroll
// offset is kept.
func (p *Panel) SetLines(lines []api.ConsoleLine) {
	follow := p.NearBottom()
	offset := p.vp.YOffset

	p.lineCount = len(lines)
	if len(lines) == 0 {
		p.vp.SetContent(emptyStyle.Render("No console output yet"))
		p.vp.GotoTop()
		return
	}

	rendered := make([]string, len(lines))
	wrap := lipgloss.NewStyle().Width(p.vp.Width)
	for i, l := range lines {
		rendered[i] = wrap.Render(FormatLine(l, p.markup))
	}
	p.vp.SetContent(strings.Join(rendered, "\n"))

	if follow {
		p.vp.GotoBottom()
		return
	}
	p.vp.SetYOffset(offset)
}

// LineCount returns the number of console lines shown.
func (p *Panel) LineCount() int {
	return p.lineCount
}

// YOffset returns the current scroll offset in rows.
func (p *Panel) YOffset() int {
	return p.vp.YOffset
}

// ScrollUp moves the view up by n rows.
func (p *Panel) ScrollUp(n int) {
	p.vp.ScrollUp(n)
}

// ScrollDown moves the view down by n rows.
func (p *Panel) ScrollDown(n int) {
	p.vp.ScrollDown(n)
}

// GotoBottom scrolls to the newest line.
func (p *Panel) GotoBottom() {
	p.vp.GotoBottom()
}

// Update forwards scroll keys and mouse wheel events to the viewport.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

// View renders the visible rows.
func (p Panel) View() string {
	return p.vp.View()
}
