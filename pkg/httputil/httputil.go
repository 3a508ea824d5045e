// Package httputil provides shared HTTP helpers for providers and the fetcher
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// RequestDetails holds the details for a JSON POST request
type RequestDetails struct {
	URL               string
	APIKey            string
	RequestBody       interface{}
	AdditionalHeaders map[string]string
}

// ClientOptions holds options for customizing a single request.
// There is deliberately no retry knob: every call is one attempt and
// the caller decides what to do with a failure.
type ClientOptions struct {
	Timeout time.Duration
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Body)
}

var (
	httpClient *http.Client
	clientOnce sync.Once
)

func initClient() {
	httpClient = &http.Client{}
}

func drainAndCloseBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

// PostJSON marshals details.RequestBody, issues one POST and returns the
// response body. Non-2xx responses are returned as *StatusError.
func PostJSON(ctx context.Context, details RequestDetails, options ClientOptions) ([]byte, error) {
	jsonBody, err := json.Marshal(details.RequestBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, details.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request for URL %s: %w", details.URL, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if details.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+details.APIKey)
	}
	for key, value := range details.AdditionalHeaders {
		req.Header.Set(key, value)
	}

	return execute(req)
}

// Get issues one GET request and returns the response body. Non-2xx
// responses are returned as *StatusError.
func Get(ctx context.Context, url string, options ClientOptions) ([]byte, error) {
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request for URL %s: %w", url, err)
	}

	return execute(req)
}

func execute(req *http.Request) ([]byte, error) {
	clientOnce.Do(initClient)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request to %s: %w", req.URL, err)
	}
	defer drainAndCloseBody(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response from %s: %w", req.URL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
