package dashboard

import (
	"github.com/sysmon-tui/sysmon/internal/api"
	"github.com/sysmon-tui/sysmon/internal/util"
)

// Status holds the text of the five status cells.
type Status struct {
	CPU    string
	Memory string
	Disk   string
	Sent   string
	Recv   string

	// Raw percentages for coloring.
	cpu, memory, disk float64
	set               bool
}

// Placeholder shown before the first sample.
const noValue = "--"

// Apply updates every cell from the current sample. Percentages use one
// decimal; network rates use the backend text when it sent one.
func (s *Status) Apply(sample api.MetricSample) {
	s.CPU = util.FormatPercent(sample.CPU) + "%"
	s.Memory = util.FormatPercent(sample.Memory) + "%"
	s.Disk = util.FormatPercent(sample.Disk) + "%"
	s.Sent = sample.Network.Sent.Display()
	s.Recv = sample.Network.Recv.Display()
	s.cpu, s.memory, s.disk = sample.CPU, sample.Memory, sample.Disk
	s.set = true
}

// cell returns a value or the placeholder before the first update.
func (s Status) cell(v string) string {
	if !s.set {
		return noValue
	}
	return v
}
