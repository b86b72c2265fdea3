// Package fetch provides generic URL fetching for template pages and
// embedded images. This package centralizes the HTTP logic used by document
// extraction and template loading.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; Spoofpress/1.0)"

// Result holds the response from a URL fetch. Body is the raw payload;
// callers parsing HTML wrap it themselves.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// OK reports whether the fetch returned a success status.
func (r *Result) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Subtype returns the part of the Content-Type header after the slash in a
// "type/subtype" media type, with any parameters dropped. It returns "" when
// the header is absent or not in that shape, which callers treat as an
// unresolvable payload type.
func (r *Result) Subtype() string {
	mediaType := r.ContentType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.TrimSpace(mediaType)
	i := strings.Index(mediaType, "/")
	if i < 0 || i == len(mediaType)-1 {
		return ""
	}
	return mediaType[i+1:]
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Func is the fetch capability threaded into the extraction and site layers,
// satisfied by URL and by test fakes.
type Func func(ctx context.Context, urlStr string) (*Result, error)

// WithOptions adapts URL into a Func carrying fixed options.
func WithOptions(opts *Options) Func {
	return func(ctx context.Context, urlStr string) (*Result, error) {
		return URL(ctx, urlStr, opts)
	}
}

// URL retrieves the content at a URL. A non-success status returns both the
// result and an *Error so callers can choose between degrading and aborting.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	client := &http.Client{
		Timeout: opts.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	result := &Result{
		URL:         urlStr,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}
