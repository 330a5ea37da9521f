// Package testing provides an in-process SYSMON backend for tests.
package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/sysmon-tui/sysmon/internal/api"
)

// FakeBackend serves the four SYSMON endpoints from configured values.
// Console lines are queued and drained by each /get-console-output call,
// the same way the real backend empties its output queue.
type FakeBackend struct {
	mu sync.Mutex

	// ConfigBody is written verbatim for /get-config.
	ConfigBody string
	// Metrics is encoded for /update_data. MetricsBody wins when set.
	Metrics     *api.MetricsResponse
	MetricsBody string
	// ClearStatus is the status field returned by /clear-console.
	ClearStatus string

	// StatusCodes overrides the HTTP status per path.
	StatusCodes map[string]int

	pending []api.ConsoleLine

	// Calls counts requests per path.
	Calls map[string]int
}

// NewFakeBackend creates a backend with the original defaults.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		ConfigBody:  `{"SET_IDLE_TIME":300000,"SYSMON_REFRESH_RATE":2500,"CONSOLE_REFRESH_INTERVAL":5000}`,
		Metrics:     api.NewSampleResponse(api.MetricSample{}),
		ClearStatus: "success",
		StatusCodes: make(map[string]int),
		Calls:       make(map[string]int),
	}
}

// NewServer starts an httptest server backed by f. Callers must Close it.
func (f *FakeBackend) NewServer() *httptest.Server {
	return httptest.NewServer(f)
}

// QueueLines adds lines for the next console poll.
func (f *FakeBackend) QueueLines(lines ...api.ConsoleLine) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, lines...)
	return f
}

// SetStatus makes path answer with the given HTTP status code.
func (f *FakeBackend) SetStatus(path string, code int) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusCodes[path] = code
	return f
}

// SetMetrics replaces the /update_data payload.
func (f *FakeBackend) SetMetrics(resp *api.MetricsResponse) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Metrics = resp
	f.MetricsBody = ""
	return f
}

// CallCount returns how many requests hit path.
func (f *FakeBackend) CallCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[path]
}

// ServeHTTP implements http.Handler.
func (f *FakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls[r.URL.Path]++

	if code, ok := f.StatusCodes[r.URL.Path]; ok && code != http.StatusOK {
		http.Error(w, http.StatusText(code), code)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case api.PathConfig:
		_, _ = w.Write([]byte(f.ConfigBody))
	case api.PathMetrics:
		if f.MetricsBody != "" {
			_, _ = w.Write([]byte(f.MetricsBody))
			return
		}
		_ = json.NewEncoder(w).Encode(f.Metrics)
	case api.PathConsole:
		lines := f.pending
		f.pending = nil
		if lines == nil {
			lines = []api.ConsoleLine{}
		}
		_ = json.NewEncoder(w).Encode(lines)
	case api.PathClearConsole:
		if f.ClearStatus == "success" {
			f.pending = nil
		}
		_ = json.NewEncoder(w).Encode(api.ClearResponse{Status: f.ClearStatus})
	default:
		http.NotFound(w, r)
	}
}
