// file: internal/api/client.go
// version: 1.2.0
// guid: b5fc81d9-c1ea-438c-bd1f-3c2afdbf7f1c

// Package api provides the single configured HTTP transport for the
// upstream library API. Every remote call in the application goes
// through one Client so timeout, headers, and error normalization
// are applied uniformly.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/idea-foundation/reading-room/internal/metrics"
)

// DefaultTimeout is the hard cap on any upstream request.
const DefaultTimeout = 15 * time.Second

// Error is the normalized upstream failure shape. Message carries the
// first usable description found in the response body or transport error.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// errorBody matches the permissive {message|error} payloads the server
// emits on failures.
type errorBody struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

// Client handles requests against the upstream library API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, DefaultTimeout)
}

// NewClientWithTimeout creates a client with a custom total timeout (for testing).
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON issues a GET against path and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, v any) error {
	resp, err := c.do(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// RawResponse is an upstream response whose body may be JSON or binary.
// Body is fully read; the caller branches on ContentType.
type RawResponse struct {
	Status      int
	ContentType string
	Disposition string
	Body        []byte
}

// IsJSON reports whether the response body is a JSON document.
func (r *RawResponse) IsJSON() bool {
	mt, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// Filename extracts the filename parameter from the Content-Disposition
// header, or returns the empty string.
func (r *RawResponse) Filename() string {
	if r.Disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(r.Disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// GetRaw issues a GET against path and returns the raw response. Non-2xx
// statuses are normalized into *Error; a binary error body is never
// parsed as JSON.
func (c *Client) GetRaw(ctx context.Context, path string) (*RawResponse, error) {
	resp, err := c.do(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}
	return &RawResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Disposition: resp.Header.Get("Content-Disposition"),
		Body:        body,
	}, nil
}

func (c *Client) do(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u = u + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncUpstreamRequest(path, "error")
		return nil, &Error{Message: err.Error()}
	}
	metrics.IncUpstreamRequest(path, fmt.Sprintf("%d", resp.StatusCode))
	return resp, nil
}

// checkStatus turns a non-2xx response into a normalized *Error. The body
// is consumed only when it looks like JSON.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &Error{Status: resp.StatusCode, Message: "Request failed"}

	ct := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err == nil && (mt == "application/json" || strings.HasSuffix(mt, "+json")) {
		var body errorBody
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil {
			if body.Message != "" {
				apiErr.Message = body.Message
			} else if body.Err != "" {
				apiErr.Message = body.Err
			}
		}
	}
	io.Copy(io.Discard, resp.Body)
	return apiErr
}
