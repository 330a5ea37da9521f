package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/sysmon-tui/sysmon/internal/util"
)

// Rate is a network throughput value. Backends send either a number of
// bytes per second or a string they already formatted for display.
type Rate struct {
	BytesPerSec float64
	Text        string
}

// UnmarshalJSON accepts a JSON number, a numeric string, or display text.
// Strings such as "Infinity" or "NaN" parse as floats but are kept as text.
func (r *Rate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Rate{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil && finite(v) {
			*r = Rate{BytesPerSec: v}
			return nil
		}
		*r = Rate{Text: s}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Rate{BytesPerSec: v}
	return nil
}

// MarshalJSON writes the text form when present, the number otherwise.
func (r Rate) MarshalJSON() ([]byte, error) {
	if r.Text != "" {
		return json.Marshal(r.Text)
	}
	return json.Marshal(r.BytesPerSec)
}

// Display returns the backend text if it sent one, else a formatted rate.
func (r Rate) Display() string {
	if r.Text != "" {
		return r.Text
	}
	return util.FormatRate(r.BytesPerSec)
}

// Network holds upload (sent) and download (recv) rates.
type Network struct {
	Sent Rate `json:"sent"`
	Recv Rate `json:"recv"`
}

// MetricSample is one timestamped utilization measurement.
// CPU, Memory and Disk are percentages in the 0-100 range.
type MetricSample struct {
	Timestamp string  `json:"timestamp,omitempty"`
	CPU       float64 `json:"cpu"`
	Memory    float64 `json:"memory"`
	Disk      float64 `json:"disk"`
	Network   Network `json:"network"`
}

// MetricsResponse is the decoded body of /update_data.
//
// Three payload shapes are understood:
//
//	{"cpu": .., "memory": .., ...}                        flat current sample
//	{"current": {...}, "history": [{...}, ...]}           current plus history
//	{"cpu": .., "cpu_data": [..], "network_data": [..]}   flat plus parallel arrays
//
// History is ordered oldest to newest.
type MetricsResponse struct {
	Current MetricSample
	History []MetricSample

	historical bool
}

// HasHistory reports whether the backend supplied a history to replace
// the chart contents with, as opposed to a single sample to append.
func (r *MetricsResponse) HasHistory() bool {
	return r.historical
}

// NewSampleResponse builds a response carrying only a current sample.
func NewSampleResponse(s MetricSample) *MetricsResponse {
	return &MetricsResponse{Current: s}
}

// NewHistoryResponse builds a response carrying a current sample and history.
func NewHistoryResponse(current MetricSample, history []MetricSample) *MetricsResponse {
	if history == nil {
		history = []MetricSample{}
	}
	return &MetricsResponse{Current: current, History: history, historical: true}
}

type rawMetrics struct {
	MetricSample

	Current *MetricSample  `json:"current"`
	History []MetricSample `json:"history"`

	CPUData     []float64 `json:"cpu_data"`
	MemoryData  []float64 `json:"memory_data"`
	DiskData    []float64 `json:"disk_data"`
	NetworkData []Network `json:"network_data"`
}

// UnmarshalJSON decodes any of the supported payload shapes.
func (r *MetricsResponse) UnmarshalJSON(data []byte) error {
	var raw rawMetrics
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Current != nil {
		*r = MetricsResponse{
			Current:    *raw.Current,
			History:    raw.History,
			historical: raw.History != nil,
		}
		return nil
	}

	*r = MetricsResponse{Current: raw.MetricSample}
	switch {
	case raw.History != nil:
		r.History = raw.History
		r.historical = true
	case raw.CPUData != nil:
		r.History = zipSeries(raw)
		r.historical = true
	}
	return nil
}

// MarshalJSON writes the current/history shape, or a flat sample when
// there is no history.
func (r MetricsResponse) MarshalJSON() ([]byte, error) {
	if !r.historical {
		return json.Marshal(r.Current)
	}
	history := r.History
	if history == nil {
		history = []MetricSample{}
	}
	return json.Marshal(struct {
		Current MetricSample   `json:"current"`
		History []MetricSample `json:"history"`
	}{r.Current, history})
}

// zipSeries turns the parallel per-metric arrays into samples. The CPU
// array defines the length; shorter arrays leave zero values.
func zipSeries(raw rawMetrics) []MetricSample {
	samples := make([]MetricSample, len(raw.CPUData))
	for i := range samples {
		samples[i].CPU = raw.CPUData[i]
		if i < len(raw.MemoryData) {
			samples[i].Memory = raw.MemoryData[i]
		}
		if i < len(raw.DiskData) {
			samples[i].Disk = raw.DiskData[i]
		}
		if i < len(raw.NetworkData) {
			samples[i].Network = raw.NetworkData[i]
		}
	}
	return samples
}

// Console line types emitted by the backend.
const (
	LineStdout = "stdout"
	LineStderr = "stderr"
	LineLog    = "log"
)

// ConsoleLine is one unit of backend log output. Text may contain markup.
type ConsoleLine struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      string `json:"text"`
}

// ClearResponse is the body of /clear-console.
type ClearResponse struct {
	Status string `json:"status"`
}

// Acknowledged reports whether the backend confirmed the clear.
func (r *ClearResponse) Acknowledged() bool {
	return r != nil && r.Status == "success"
}

// Keys of the /get-config payload.
const (
	KeyIdleTime            = "SET_IDLE_TIME"
	KeyRefreshRate         = "SYSMON_REFRESH_RATE"
	KeyConsoleRefresh      = "CONSOLE_REFRESH_INTERVAL"
	KeyDisplayedDatapoints = "LIMIT_DISPLAYED_DATAPOINTS"
	KeyConsoleMaxLines     = "CONSOLE_MAX_LINES"
)

// RemoteConfig is the body of /get-config. Durations are milliseconds.
// Nil fields were absent from the payload; fields that were present but not
// numeric are nil too and listed in Invalid.
type RemoteConfig struct {
	SetIdleTime            *float64
	RefreshRate            *float64
	ConsoleRefreshInterval *float64
	DisplayedDatapoints    *float64
	ConsoleMaxLines        *float64

	Invalid []string
}

// UnmarshalJSON decodes each known key on its own so one malformed value
// does not discard the rest of the configuration.
func (c *RemoteConfig) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*c = RemoteConfig{}
	targets := []struct {
		key string
		dst **float64
	}{
		{KeyIdleTime, &c.SetIdleTime},
		{KeyRefreshRate, &c.RefreshRate},
		{KeyConsoleRefresh, &c.ConsoleRefreshInterval},
		{KeyDisplayedDatapoints, &c.DisplayedDatapoints},
		{KeyConsoleMaxLines, &c.ConsoleMaxLines},
	}
	for _, t := range targets {
		raw, ok := fields[t.key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		v, ok := parseNumber(raw)
		if !ok {
			c.Invalid = append(c.Invalid, t.key)
			continue
		}
		*t.dst = &v
	}
	return nil
}

// MarshalJSON writes the present fields under their wire keys.
func (c RemoteConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64)
	put := func(key string, v *float64) {
		if v != nil {
			out[key] = *v
		}
	}
	put(KeyIdleTime, c.SetIdleTime)
	put(KeyRefreshRate, c.RefreshRate)
	put(KeyConsoleRefresh, c.ConsoleRefreshInterval)
	put(KeyDisplayedDatapoints, c.DisplayedDatapoints)
	put(KeyConsoleMaxLines, c.ConsoleMaxLines)
	return json.Marshal(out)
}

// parseNumber accepts a JSON number or a string holding one.
func parseNumber(raw json.RawMessage) (float64, bool) {
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
