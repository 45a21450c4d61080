package fetcher

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	// defaultRequestLimit caps in-flight requests across the whole program.
	defaultRequestLimit = 5

	// defaultTimeout bounds a single request from dial to last body byte.
	defaultTimeout = 30 * time.Second

	// defaultMaxBodySize limits how much of a response body is read.
	defaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// defaultUserAgent identifies the archiver to the remote site.
	defaultUserAgent = "wikidump/1.0 (+https://github.com/yomogi/wikidump)"
)

// Fetcher retrieves pages over HTTP. It is safe for concurrent use; all
// workers share one Fetcher so that the request cap holds program-wide.
type Fetcher struct {
	// client performs the requests. Redirect handling is the client's.
	client *http.Client

	// gate bounds the number of concurrent requests.
	gate *semaphore.Weighted

	// limiter spaces out request starts. Nil disables the delay.
	limiter *rate.Limiter

	// timeout is the per-request deadline.
	timeout time.Duration

	// userAgent is sent on every request.
	userAgent string

	// cookie is an optional Cookie header value, e.g. for wikis that
	// hide content behind a consent wall.
	cookie string

	// headers are extra headers applied after the defaults, so a site
	// configuration can override Accept or Accept-Language.
	headers map[string]string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRequestLimit sets the global cap on concurrent requests.
// Values below 1 are ignored.
func WithRequestLimit(n int) Option {
	return func(f *Fetcher) {
		if n >= 1 {
			f.gate = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithTimeout sets the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithDelay sets the minimum time between request starts.
// Zero disables the delay.
func WithDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.limiter = rate.NewLimiter(rate.Every(d), 1)
		} else {
			f.limiter = nil
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithCookie sets a Cookie header sent on every request.
func WithCookie(cookie string) Option {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// WithHeaders sets extra headers applied to every request after the
// defaults, so they may override Accept or Accept-Language.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// New creates a Fetcher using the given HTTP client.
//
// Design decision: We require an external client because:
//  1. Transport concerns (proxies, TLS, redirect policy) belong to the caller
//  2. Consistent with how the policy filter receives its client
//  3. Tests can inject an httptest server's client directly
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		gate:        semaphore.NewWeighted(defaultRequestLimit),
		timeout:     defaultTimeout,
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Result is a successfully fetched page body.
type Result struct {
	// FinalURL is the URL after redirects.
	FinalURL string

	// Body is the response body decoded to UTF-8.
	Body []byte

	// StatusCode is the HTTP status of the final response.
	StatusCode int

	// ContentType is the raw Content-Type header.
	ContentType string

	// Duration measures the network round trip including the body read.
	Duration time.Duration
}

// Fetch retrieves a single page.
//
// The call blocks until the rate limiter (if any) grants a slot and the
// global request gate admits it, then performs the request under the
// per-request timeout. Failures return a *FetchError classified by kind;
// caller cancellation returns the context error unwrapped.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	// The delay waits first so a long politeness interval never holds a
	// semaphore slot that another worker could use.
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if err := f.gate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.gate.Release(1)

	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: KindTransport, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.classify(ctx, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, f.maxBodySize)) //nolint:errcheck
		return nil, &FetchError{URL: rawURL, Kind: KindHTTPStatus, Status: resp.StatusCode}
	}

	// Decode legacy charsets to UTF-8 using the Content-Type header and
	// content sniffing, so extraction sees clean text.
	bodyReader, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, f.classify(ctx, rawURL, err)
	}

	body, err := io.ReadAll(bodyReader)
	if err != nil {
		return nil, f.classify(ctx, rawURL, err)
	}

	return &Result{
		FinalURL:    resp.Request.URL.String(),
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Duration:    time.Since(start),
	}, nil
}

// classify maps a low-level request error to the fetch error taxonomy.
// Caller cancellation is passed through untouched so the worker pool can
// tell shutdown apart from a page failure.
func (f *Fetcher) classify(ctx context.Context, rawURL string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &FetchError{URL: rawURL, Kind: KindTimeout, Err: err}
	}
	return &FetchError{URL: rawURL, Kind: KindTransport, Err: err}
}
