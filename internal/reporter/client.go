// Package reporter provides a minimal client for the NIH Reporter v2 API.
package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public NIH Reporter v2 endpoint.
	DefaultBaseURL = "https://api.reporter.nih.gov/v2"
	// DefaultTimeout bounds every upstream request; there are no retries.
	DefaultTimeout = 30 * time.Second
	// MaxLimit is the row cap the upstream enforces per search request.
	MaxLimit = 500
)

// Client is a minimal HTTP client for the NIH Reporter search endpoints.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a new client. If httpClient is nil, a default with a 30s timeout is used.
func New(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: httpClient}
}

// Post sends payload as a JSON body to the endpoint path and returns the raw
// response body. The body is passed through opaque; callers decide how much of
// it to interpret.
func (c *Client) Post(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	reqURL := c.BaseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, c.HTTP.Timeout)
		}
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if !json.Valid(raw) {
		return nil, &FormatError{Detail: "response body is not valid JSON"}
	}
	return raw, nil
}

// SearchProjects posts a payload to the projects/search endpoint.
func (c *Client) SearchProjects(ctx context.Context, payload SearchPayload) (json.RawMessage, error) {
	return c.Post(ctx, "projects/search", payload)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}
