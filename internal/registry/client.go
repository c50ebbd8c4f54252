// SPDX-License-Identifier: MPL-2.0

// Package registry queries a package registry for the published version
// history of a package. The wire format is the crates.io-style versions
// endpoint: a JSON object with a "versions" array ordered newest-first,
// each record carrying the version string in "num".
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// defaultBaseURL is the registry API root queried when no override is given.
	defaultBaseURL = "https://crates.io/api/v1"

	// defaultUserAgent identifies this client to the registry. Registries
	// commonly reject requests without a descriptive User-Agent.
	defaultUserAgent = "respawn-cli (+https://github.com/respawn-cli)"

	// maxResponseBytes bounds the JSON response size (10 MB). Prevents
	// unbounded memory consumption from a malformed or hostile response.
	maxResponseBytes = 10 << 20
)

var (
	// ErrNetwork indicates the HTTP request itself failed (DNS, connect,
	// TLS, ...), as opposed to an unexpected response.
	ErrNetwork = errors.New("registry request failed")

	// ErrMalformedResponse indicates the registry answered 200 but the body
	// could not be interpreted as a version history.
	ErrMalformedResponse = errors.New("malformed registry response")
)

type (
	// StatusError is returned when the registry answers with a non-success
	// HTTP status code.
	StatusError struct {
		Code int
	}

	// Client fetches version information from a package registry. The zero
	// value is not usable; construct with NewClient.
	Client struct {
		httpClient *http.Client
		baseURL    string
		userAgent  string
	}

	// Option configures a Client during construction.
	Option func(*Client)

	// versionsResponse is the JSON wire format of the versions endpoint.
	versionsResponse struct {
		Versions []versionRecord `json:"versions"`
	}

	// versionRecord is a single published version entry.
	versionRecord struct {
		Num string `json:"num"`
	}
)

// Error formats the unexpected status as a human-readable message.
func (e *StatusError) Error() string {
	return fmt.Sprintf("registry responded with HTTP %d", e.Code)
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Client) {
		r.httpClient = c
	}
}

// WithBaseURL overrides the registry API root, primarily for test servers
// and private registries.
func WithBaseURL(base string) Option {
	return func(r *Client) {
		r.baseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(r *Client) {
		r.userAgent = ua
	}
}

// NewClient creates a Client with sensible defaults: the public crates.io
// API root, http.DefaultClient, and a descriptive User-Agent.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestVersion fetches the version history for pkg and returns the first
// (newest) published version string. One blocking GET, no retries, no
// caching: any failure is final and reported to the caller.
func (c *Client) LatestVersion(ctx context.Context, pkg string) (string, error) {
	reqURL := fmt.Sprintf("%s/crates/%s/versions", c.baseURL, pkg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", pkg, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode}
	}

	var vr versionsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&vr); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	// The endpoint returns versions ordered newest-first; the head of the
	// list is the latest published version.
	if len(vr.Versions) == 0 || vr.Versions[0].Num == "" {
		return "", fmt.Errorf("%w: no versions listed for %s", ErrMalformedResponse, pkg)
	}

	return vr.Versions[0].Num, nil
}
