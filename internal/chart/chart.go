package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	axisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6B8D"))
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B4B4D0"))
)

// Series is one named line of a chart.
type Series struct {
	Label string
	Color lipgloss.Color
	Data  []float64
}

// Latest returns the newest value and whether there is one.
func (s *Series) Latest() (float64, bool) {
	if len(s.Data) == 0 {
		return 0, false
	}
	return s.Data[len(s.Data)-1], true
}

// Chart is a titled set of series sharing a y axis.
type Chart struct {
	ID     string
	Title  string
	Series []*Series

	// AxisTitle is printed next to the title when set.
	AxisTitle string

	// Fixed charts always span [Min, Max]. Others scale from Min to the
	// largest visible value.
	Fixed    bool
	Min, Max float64

	// Format renders axis ticks and legend values.
	Format func(float64) string
}

// Bounds returns the y range the chart is drawn with.
func (c *Chart) Bounds() (minVal, maxVal float64) {
	if c.Fixed {
		return c.Min, c.Max
	}
	maxVal = c.Min
	for _, s := range c.Series {
		for _, v := range s.Data {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if maxVal <= c.Min {
		maxVal = c.Min + 1
	}
	return c.Min, maxVal
}

// Render draws the chart into a block of the given size: a title row, the
// plot with a y axis, and a legend with each series' latest value. The
// legend takes one row, or one row per series when that does not fit.
func (c *Chart) Render(width, height int) string {
	title := titleStyle.Render(c.Title)
	if c.AxisTitle != "" {
		title += axisStyle.Render("  " + c.AxisTitle)
	}

	legend := c.legend(width)
	plotHeight := height - 1 - len(legend)
	minVal, maxVal := c.Bounds()
	top, bottom := c.format(maxVal), c.format(minVal)
	axisWidth := max(lipgloss.Width(top), lipgloss.Width(bottom))
	plotWidth := width - axisWidth - 2

	if plotHeight < 1 || plotWidth < 2 {
		return lipgloss.NewStyle().MaxWidth(width).Render(title)
	}

	cv := newCanvas(plotWidth, plotHeight)
	colors := make([]lipgloss.Color, len(c.Series))
	dots := plotHeight * 4
	for i, s := range c.Series {
		colors[i] = s.Color
		data := s.Data
		if len(data) > 1 {
			data = resampleData(data, plotWidth*2)
		}
		ys := make([]int, len(data))
		for j, v := range data {
			ys[j] = scale(v, minVal, maxVal, dots)
		}
		cv.line(ys, i)
	}

	rows := cv.render(colors)
	lines := make([]string, 0, height)
	lines = append(lines, ansi.Truncate(title, width, "…"))
	for i, row := range rows {
		tick := ""
		switch i {
		case 0:
			tick = top
		case len(rows) - 1:
			tick = bottom
		}
		axis := axisStyle.Render(fmt.Sprintf("%*s ┤", axisWidth, tick))
		lines = append(lines, axis+row)
	}
	for _, l := range legend {
		lines = append(lines, ansi.Truncate(l, width, "…"))
	}

	return strings.Join(lines, "\n")
}

func (c *Chart) legend(width int) []string {
	parts := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		value := "-"
		if v, ok := s.Latest(); ok {
			value = c.format(v)
		}
		swatch := lipgloss.NewStyle().Foreground(s.Color).Render("■")
		parts = append(parts, swatch+" "+legendStyle.Render(s.Label+" "+value))
	}
	joined := strings.Join(parts, "   ")
	if lipgloss.Width(joined) <= width {
		return []string{joined}
	}
	return parts
}

func (c *Chart) format(v float64) string {
	if c.Format == nil {
		return fmt.Sprintf("%.0f", v)
	}
	return c.Format(v)
}

func (c *Chart) shift() {
	for _, s := range c.Series {
		if len(s.Data) > 0 {
			s.Data = s.Data[1:]
		}
	}
}
