package chart

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cells give a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// U+2800 is the empty cell; bits 0-7 map to dots 1-8.
const brailleBase = '⠀'

// brailleDots maps [row][col] inside a cell to the bit offset.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// canvas is a grid of braille cells. Each cell remembers which series
// drew into it last so it can be colored.
type canvas struct {
	width, height int
	cells         [][]rune
	owner         [][]int
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height}
	c.cells = make([][]rune, height)
	c.owner = make([][]int, height)
	for i := range c.cells {
		c.cells[i] = make([]rune, width)
		c.owner[i] = make([]int, width)
		for j := range c.cells[i] {
			c.cells[i][j] = brailleBase
			c.owner[i][j] = -1
		}
	}
	return c
}

// set lights the dot at x (0..width*2-1) and y (0..height*4-1, bottom up).
func (c *canvas) set(x, y, series int) {
	col := x / 2
	row := c.height - 1 - y/4
	if col < 0 || col >= c.width || row < 0 || row >= c.height {
		return
	}
	c.cells[row][col] |= rune(1 << brailleDots[3-y%4][x%2])
	c.owner[row][col] = series
}

// line plots values, already scaled to dot rows, as a connected line.
// Consecutive points are joined by a vertical run so steep changes stay visible.
func (c *canvas) line(ys []int, series int) {
	offset := c.width*2 - len(ys)
	if offset < 0 {
		offset = 0
	}
	for i, y := range ys {
		lo, hi := y, y
		if i > 0 {
			prev := ys[i-1]
			if prev < lo {
				lo = prev + 1
			}
			if prev > hi {
				hi = prev - 1
			}
		}
		for d := lo; d <= hi; d++ {
			c.set(i+offset, d, series)
		}
	}
}

// render returns one string per row, coloring each cell by its owner.
func (c *canvas) render(colors []lipgloss.Color) []string {
	lines := make([]string, c.height)
	for r := range c.cells {
		var b strings.Builder
		for col, ch := range c.cells[r] {
			owner := c.owner[r][col]
			if owner < 0 || owner >= len(colors) {
				b.WriteRune(ch)
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(colors[owner]).Render(string(ch)))
		}
		lines[r] = b.String()
	}
	return lines
}

// scale maps v in [minVal, maxVal] onto 0..dots-1.
func scale(v, minVal, maxVal float64, dots int) int {
	return clampInt(int(normalizeValue(v, minVal, maxVal)*float64(dots-1)+0.5), dots-1)
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// resampleData resamples data to the target size.
// Downsampling keeps the max of each bucket so spikes survive.
// Upsampling interpolates linearly, which also rounds off the corners of
// the drawn line.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	step := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * step
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}
