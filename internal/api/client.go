// Package api is the client for the zask application backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"zask/internal/logging"
)

const maxBodySize = 4 << 20

// StatusError reports a non-2xx answer
type StatusError struct {
	Method string
	Path   string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Status)
}

// Client is an authenticated HTTP client for the zask API
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithSessionCookie seeds the jar with a raw "name=value" cookie line so the
// client acts as an already signed-in browser.
func WithSessionCookie(raw string) Option {
	return func(c *Client) {
		raw = strings.TrimSpace(raw)
		if raw == "" || c.http.Jar == nil {
			return
		}
		u, err := url.Parse(c.baseURL)
		if err != nil {
			return
		}
		cookies, err := http.ParseCookie(raw)
		if err != nil {
			logger := logging.L()
			logger.Warn().Err(err).Str(logging.FieldComponent, "api").Msg("ignoring malformed session cookie")
			return
		}
		c.http.Jar.SetCookies(u, cookies)
	}
}

// NewClient creates a client rooted at baseURL with its own cookie jar
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPClient returns the client used for requests. Search backends share it
// so they send the same session cookies.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s body: %w", path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	logger := logging.Ctx(ctx)
	logger.Debug().
		Str(logging.FieldComponent, "api").
		Str("method", method).
		Str("path", path).
		Int(logging.FieldStatus, resp.StatusCode).
		Dur(logging.FieldLatency, time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Status: resp.Status}
	}
	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
