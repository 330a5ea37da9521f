// Package api is the HTTP client for a SYSMON backend.
//
// The backend exposes four GET endpoints. The client treats any non-2xx
// status as an error and never retries; callers poll again on their next
// tick.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sysmon-tui/sysmon/internal/errors"
)

// Backend endpoint paths.
const (
	PathConfig       = "/get-config"
	PathMetrics      = "/update_data"
	PathConsole      = "/get-console-output"
	PathClearConsole = "/clear-console"
)

// DefaultServerURL is where the original Flask backend listens.
const DefaultServerURL = "http://127.0.0.1:5000"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// StatusError reports a non-2xx response.
type StatusError struct {
	Path       string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.Path, e.Status)
}

// Client talks to one backend.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates a client for the backend at serverURL. A zero timeout
// leaves requests unbounded.
func NewClient(serverURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(serverURL) == "" {
		serverURL = DefaultServerURL
	}

	u, err := url.Parse(serverURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if err == nil {
			err = fmt.Errorf("missing scheme or host")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid server URL: %s", serverURL),
			"Use a full URL like http://127.0.0.1:5000")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unsupported URL scheme %q", u.Scheme),
			"Use an http:// or https:// server URL")
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the backend URL the client was created with.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Config fetches the dashboard configuration.
func (c *Client) Config(ctx context.Context) (*RemoteConfig, error) {
	var cfg RemoteConfig
	if err := c.getJSON(ctx, PathConfig, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Metrics fetches the current sample and, depending on the backend, its history.
func (c *Client) Metrics(ctx context.Context) (*MetricsResponse, error) {
	var resp MetricsResponse
	if err := c.getJSON(ctx, PathMetrics, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Console fetches the log lines produced since the previous call.
// The backend decides what "new" means; a null body yields no lines.
func (c *Client) Console(ctx context.Context) ([]ConsoleLine, error) {
	var lines []ConsoleLine
	if err := c.getJSON(ctx, PathConsole, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// ClearConsole asks the backend to drop its buffered log lines.
func (c *Client) ClearConsole(ctx context.Context) (*ClearResponse, error) {
	var resp ClearResponse
	if err := c.getJSON(ctx, PathClearConsole, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = c.base.Path + path
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("Failed to build request for %s", path))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrHTTP,
			fmt.Sprintf("GET %s failed", path),
			fmt.Sprintf("Check that the SYSMON backend is reachable at %s", c.base))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return errors.WrapWithCode(&StatusError{Path: path, StatusCode: resp.StatusCode, Status: resp.Status},
			errors.ErrHTTP,
			fmt.Sprintf("GET %s returned %d", path, resp.StatusCode),
			"Check the backend logs")
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return errors.WrapWithCode(err, errors.ErrDecode,
			fmt.Sprintf("Response from %s is not valid JSON", path),
			"Check that --server points at a SYSMON backend")
	}
	return nil
}
