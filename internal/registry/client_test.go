// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newVersionsServer serves the versions endpoint for the given package with
// a fixed response body and status.
func newVersionsServer(t *testing.T, pkg string, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := fmt.Sprintf("/crates/%s/versions", pkg)
		if r.URL.Path != wantPath {
			t.Errorf("request path %s, want %s", r.URL.Path, wantPath)
		}
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("request sent without a User-Agent header")
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestLatestVersion(t *testing.T) {
	srv := newVersionsServer(t, "respawn", http.StatusOK,
		`{"versions":[{"num":"0.2.0"},{"num":"0.1.1"},{"num":"0.1.0"}]}`)

	c := NewClient(WithBaseURL(srv.URL))
	got, err := c.LatestVersion(context.Background(), "respawn")
	if err != nil {
		t.Fatalf("LatestVersion failed: %v", err)
	}
	if got != "0.2.0" {
		t.Errorf("latest version %q, want first record %q", got, "0.2.0")
	}
}

func TestLatestVersionHTTPError(t *testing.T) {
	srv := newVersionsServer(t, "respawn", http.StatusInternalServerError, `{"errors":[]}`)

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.LatestVersion(context.Background(), "respawn")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("got %v, want StatusError", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Errorf("status code %d, want 500", statusErr.Code)
	}
}

func TestLatestVersionMalformedBody(t *testing.T) {
	srv := newVersionsServer(t, "respawn", http.StatusOK, `{"versions":`)

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.LatestVersion(context.Background(), "respawn")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("got %v, want ErrMalformedResponse", err)
	}
}

func TestLatestVersionEmptyHistory(t *testing.T) {
	srv := newVersionsServer(t, "respawn", http.StatusOK, `{"versions":[]}`)

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.LatestVersion(context.Background(), "respawn")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("got %v, want ErrMalformedResponse for empty history", err)
	}
}

func TestLatestVersionNetworkError(t *testing.T) {
	// Point the client at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.LatestVersion(context.Background(), "respawn")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("got %v, want ErrNetwork", err)
	}
}

func TestWithUserAgent(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("User-Agent")
		fmt.Fprint(w, `{"versions":[{"num":"1.0.0"}]}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(WithBaseURL(srv.URL), WithUserAgent("host-program/9.9.9"))
	if _, err := c.LatestVersion(context.Background(), "pkg"); err != nil {
		t.Fatalf("LatestVersion failed: %v", err)
	}
	if seen != "host-program/9.9.9" {
		t.Errorf("User-Agent %q, want override", seen)
	}
}

func TestWithBaseURLTrimsSlash(t *testing.T) {
	c := NewClient(WithBaseURL("https://example.test/api/"))
	if c.baseURL != "https://example.test/api" {
		t.Errorf("baseURL %q, want trailing slash trimmed", c.baseURL)
	}
}
