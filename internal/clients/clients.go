// Package clients provides HTTP clients for external APIs
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-akashdhara/internal/domain"
	"go-akashdhara/internal/observability"
)

const userAgent = "go-akashdhara/1.0"

// HTTPClient is a wrapper around http.Client with common configuration
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a new HTTP client with timeout
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Response is a fully read upstream answer
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request and returns the response, whatever its status
func (c *HTTPClient) Get(ctx context.Context, service, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, service, req)
}

// PostJSON encodes body as JSON and POSTs it with the given extra headers
func (c *HTTPClient) PostJSON(ctx context.Context, service, url string, headers map[string]string, body interface{}) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", service, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, service, req)
}

// Do issues req. Transport failures come back as *domain.NetworkError, except
// when ctx itself was cancelled, in which case ctx.Err() is returned.
func (c *HTTPClient) Do(ctx context.Context, service string, req *http.Request) (*Response, error) {
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		observability.LoggerFromContext(ctx).Warn("upstream unreachable", "service", service, "error", err)
		return nil, &domain.NetworkError{Service: service, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &domain.NetworkError{Service: service, Err: err}
	}

	if resp.StatusCode >= 400 {
		observability.LoggerFromContext(ctx).Warn("upstream error status",
			"service", service, "status", resp.StatusCode)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
		Body:       body,
	}, nil
}

func statusText(resp *http.Response) string {
	if t := http.StatusText(resp.StatusCode); t != "" {
		return t
	}
	return resp.Status
}
