// Package chart keeps the CPU, memory/disk and network series for the
// dashboard and draws them as braille line charts.
//
// Two update modes exist. Append adds one sample and evicts the oldest
// point from every series once the display cap is exceeded, so all series
// keep the same length. ReplaceHistory rebuilds every series from a full
// history payload and applies no cap.
package chart

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sysmon-tui/sysmon/internal/api"
	"github.com/sysmon-tui/sysmon/internal/util"
)

// Chart identifiers.
const (
	IDCPU        = "cpuChart"
	IDMemoryDisk = "memoryDiskChart"
	IDNetwork    = "networkChart"
)

// Series colors.
const (
	ColorCPU      = lipgloss.Color("#3e7bfa")
	ColorMemory   = lipgloss.Color("#64dae2")
	ColorDisk     = lipgloss.Color("#fdac42")
	ColorUpload   = lipgloss.Color("#ff8800")
	ColorDownload = lipgloss.Color("#06c270")
)

// LabelLayout formats the label of an untimestamped appended sample.
const LabelLayout = "15:04:05"

// Renderer owns the three dashboard charts and their shared x labels.
type Renderer struct {
	CPU        *Chart
	MemoryDisk *Chart
	Network    *Chart

	labels []string
	points int
}

// NewRenderer creates the three charts with empty series. points caps the
// series length in append mode; values below 1 are treated as 1.
func NewRenderer(points int) *Renderer {
	if points < 1 {
		points = 1
	}
	percent := func(v float64) string { return util.FormatPercent(v) + "%" }

	return &Renderer{
		CPU: &Chart{
			ID:    IDCPU,
			Title: "CPU",
			Series: []*Series{
				{Label: "CPU Usage", Color: ColorCPU},
			},
			Fixed:  true,
			Min:    0,
			Max:    100,
			Format: percent,
		},
		MemoryDisk: &Chart{
			ID:    IDMemoryDisk,
			Title: "Memory & Disk",
			Series: []*Series{
				{Label: "Memory Usage", Color: ColorMemory},
				{Label: "Disk Usage", Color: ColorDisk},
			},
			Fixed:  true,
			Min:    0,
			Max:    100,
			Format: percent,
		},
		Network: &Chart{
			ID:    IDNetwork,
			Title: "Network",
			Series: []*Series{
				{Label: "Network Upload Speed", Color: ColorUpload},
				{Label: "Network Download Speed", Color: ColorDownload},
			},
			AxisTitle: "Speed (bytes/s)",
			Format:    util.FormatRate,
		},
		labels: []string{},
		points: points,
	}
}

// Charts returns the charts in display order.
func (r *Renderer) Charts() []*Chart {
	return []*Chart{r.CPU, r.MemoryDisk, r.Network}
}

// Labels returns the x axis labels, oldest first.
func (r *Renderer) Labels() []string {
	return r.labels
}

// Len returns the number of points currently held.
func (r *Renderer) Len() int {
	return len(r.labels)
}

// Points returns the append-mode cap.
func (r *Renderer) Points() int {
	return r.points
}

// SetPoints changes the append-mode cap. Excess points are evicted on the
// next Append.
func (r *Renderer) SetPoints(points int) {
	if points < 1 {
		points = 1
	}
	r.points = points
}

// Append pushes one sample onto every series. When the length exceeds the
// cap, the oldest label and point are dropped from every series together.
func (r *Renderer) Append(label string, s api.MetricSample) {
	r.labels = append(r.labels, label)
	r.push(s)

	for len(r.labels) > r.points {
		r.labels = r.labels[1:]
		for _, c := range r.Charts() {
			c.shift()
		}
	}
}

// ReplaceHistory rebuilds every series from samples, oldest first. Samples
// without a timestamp are labeled by their index.
func (r *Renderer) ReplaceHistory(samples []api.MetricSample) {
	r.labels = make([]string, 0, len(samples))
	for _, c := range r.Charts() {
		for _, s := range c.Series {
			s.Data = make([]float64, 0, len(samples))
		}
	}

	for i, s := range samples {
		label := s.Timestamp
		if label == "" {
			label = strconv.Itoa(i)
		}
		r.labels = append(r.labels, label)
		r.push(s)
	}
}

// Update applies a metrics response: history payloads replace the charts,
// single samples are appended and labeled with their timestamp or now.
func (r *Renderer) Update(resp *api.MetricsResponse, now time.Time) {
	if resp == nil {
		return
	}
	if resp.HasHistory() {
		r.ReplaceHistory(resp.History)
		return
	}

	label := resp.Current.Timestamp
	if label == "" {
		label = now.Format(LabelLayout)
	}
	r.Append(label, resp.Current)
}

func (r *Renderer) push(s api.MetricSample) {
	appendTo(r.CPU.Series[0], s.CPU)
	appendTo(r.MemoryDisk.Series[0], s.Memory)
	appendTo(r.MemoryDisk.Series[1], s.Disk)
	appendTo(r.Network.Series[0], s.Network.Sent.BytesPerSec)
	appendTo(r.Network.Series[1], s.Network.Recv.BytesPerSec)
}

func appendTo(s *Series, v float64) {
	s.Data = append(s.Data, v)
}
