// Package fetch retrieves document bodies from URLs.
package fetch

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_fetcher.go -package=mocks docrag/internal/fetch Fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"docrag/internal/contextutil"
	"docrag/internal/document"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 5.0
	DefaultBurstSize         = 5
	DefaultMaxBytes          = 32 << 20
	defaultRetryAfter        = 60 * time.Second
	userAgent                = "docrag/1.0"
)

// ErrTooLarge is returned when a body exceeds the configured size cap.
var ErrTooLarge = errors.New("response body too large")

// Fetcher retrieves the raw body behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Result, error)
}

// Result is a fetched body.
type Result struct {
	URL         string
	ContentType string
	Body        []byte
}

// Options configures an HTTPFetcher.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	BurstSize         int
	MaxBytes          int64
}

// HTTPFetcher fetches over HTTP with a shared token-bucket limit. A 429
// response pauses all further requests until its Retry-After has passed.
type HTTPFetcher struct {
	client   *http.Client
	limiter  *rate.Limiter
	maxBytes int64

	mu      sync.Mutex
	retryAt time.Time
}

// NewHTTPFetcher creates a fetcher with the given options.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if opts.BurstSize <= 0 {
		opts.BurstSize = DefaultBurstSize
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	return &HTTPFetcher{
		client:   &http.Client{Timeout: opts.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.BurstSize),
		maxBytes: opts.MaxBytes,
	}
}

// Fetch retrieves rawURL. Any network error or non-2xx status wraps
// document.ErrUpstreamFetch.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", document.ErrUpstreamFetch, rawURL)
	}

	if err := f.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", document.ErrUpstreamFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", document.ErrUpstreamFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		logger.WarnContext(ctx, "fetch failed", "url", rawURL, "error", err)
		return nil, fmt.Errorf("%w: failed to fetch %s: %w", document.ErrUpstreamFetch, rawURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		f.recordRateLimit(resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.WarnContext(ctx, "fetch returned non-2xx status", "url", rawURL, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %s returned status %d", document.ErrUpstreamFetch, rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %w", document.ErrUpstreamFetch, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %w: limit is %d bytes", document.ErrUpstreamFetch, ErrTooLarge, f.maxBytes)
	}

	logger.DebugContext(ctx, "fetched url", "url", rawURL, "bytes", len(body), "duration", time.Since(start))

	return &Result{
		URL:         rawURL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// wait blocks until the backoff window has passed and a token is available.
func (f *HTTPFetcher) wait(ctx context.Context) error {
	f.mu.Lock()
	retryAt := f.retryAt
	f.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return f.limiter.Wait(ctx)
}

// recordRateLimit sets the backoff window from a Retry-After header in seconds.
func (f *HTTPFetcher) recordRateLimit(retryAfter string) {
	d := defaultRetryAfter
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		d = time.Duration(secs) * time.Second
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.retryAt = time.Now().Add(d)
}
