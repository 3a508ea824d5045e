// Package fetch retrieves remote documents and renders them as markdown context
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/postforge/postforge/pkg/httputil"
	"github.com/postforge/postforge/pkg/postkit/config"
	pkerrors "github.com/postforge/postforge/pkg/postkit/errors"
)

// Fetcher retrieves a document by URL and returns it as plain text or
// markdown suitable for use as LLM grounding context.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// HTTPFetcher fetches over HTTP and converts HTML to markdown. Headings,
// links and lists are preserved; scripts and styles are stripped. Every
// call issues exactly one GET — no caching, no retries.
type HTTPFetcher struct {
	timeout time.Duration
}

// Option configures an HTTPFetcher
type Option func(*HTTPFetcher)

// WithTimeout bounds the fetch round trip
func WithTimeout(timeout time.Duration) Option {
	return func(f *HTTPFetcher) {
		f.timeout = timeout
	}
}

// NewHTTPFetcher creates a fetcher with the default timeout
func NewHTTPFetcher(options ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		timeout: config.DefaultTimeout,
	}
	for _, option := range options {
		option(f)
	}
	return f
}

// Fetch retrieves rawURL and returns its markdown rendering
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return "", pkerrors.New("fetch", "parse_url",
			fmt.Errorf("%w: %q is not an absolute URL", pkerrors.ErrFetch, rawURL))
	}

	body, err := httputil.Get(ctx, rawURL, httputil.ClientOptions{Timeout: f.timeout})
	if err != nil {
		return "", pkerrors.New("fetch", "get",
			fmt.Errorf("%w: %v", pkerrors.ErrFetch, err))
	}

	// A fresh converter per call keeps Fetch free of shared mutable state.
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(string(body))
	if err != nil {
		return "", pkerrors.New("fetch", "convert",
			fmt.Errorf("%w: %v", pkerrors.ErrConversion, err))
	}

	return strings.TrimSpace(markdown), nil
}
