package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yomogi/wikidump/internal/extract"
	"github.com/yomogi/wikidump/internal/fetcher"
	"github.com/yomogi/wikidump/internal/model"
	"github.com/yomogi/wikidump/internal/policy"
	"github.com/yomogi/wikidump/internal/storage"
)

// Crawler drives a fixed pool of workers over one shared Frontier.
// All dependencies are injected so tests can crawl an httptest server.
type Crawler struct {
	// filter answers robots and scope questions. Immutable during the run.
	filter *policy.Filter

	// fetcher retrieves pages and enforces the global request cap.
	fetcher *fetcher.Fetcher

	// store persists extracted article text.
	store *storage.Store

	// frontier is created by Run from the seed URL.
	frontier *Frontier

	// workers is the fixed pool size.
	workers int

	// maxPages caps attempted pages. Zero means unlimited.
	maxPages int

	// userAgent is recorded in the report for provenance.
	userAgent string

	// logger receives per-page progress and failures.
	logger *slog.Logger

	// popped counts frontier pops toward the maxPages cap.
	popped atomic.Int64

	// mu guards report, which workers mutate concurrently.
	mu     sync.Mutex
	report *model.CrawlReport
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithWorkers sets the worker pool size.
// Default is one worker per three CPUs, and at least one.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithMaxPages caps the number of pages attempted. Zero, the default,
// means the crawl runs until the frontier drains.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithUserAgent sets the identity recorded in the crawl report. It does
// not change what the fetcher sends; configure both from the same value.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) {
		c.userAgent = ua
	}
}

// WithLogger sets a custom logger for crawl progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler from its three collaborators. The policy filter
// must already be initialized for the site the seed URL belongs to.
func New(filter *policy.Filter, f *fetcher.Fetcher, store *storage.Store, opts ...Option) *Crawler {
	c := &Crawler{
		filter:  filter,
		fetcher: f,
		store:   store,
		workers: defaultWorkers(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// defaultWorkers is one worker per three CPUs, floored at one. Workers
// spend most of their time waiting on the request gate, so more would
// only burn memory.
func defaultWorkers() int {
	if n := runtime.NumCPU() / 3; n > 1 {
		return n
	}
	return 1
}

// Run crawls from startURL until the frontier drains, the page cap is
// reached, or ctx is cancelled. It blocks until every worker has exited
// and always returns a report; on cancellation the report describes the
// partial crawl and the context error is returned alongside it.
func (c *Crawler) Run(ctx context.Context, startURL string) (*model.CrawlReport, error) {
	start, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL: %w", err)
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		return nil, fmt.Errorf("invalid start URL %q: scheme must be http or https", startURL)
	}

	// The seed enters the frontier in canonical form, fragment-free like
	// every discovered link, so it cannot be re-enqueued under a variant.
	start.Fragment = ""
	start.RawFragment = ""
	seed := start.String()

	c.report = model.NewCrawlReport(seed, start.Host)
	c.report.UserAgent = c.userAgent
	c.report.OutputDir = c.store.Dir()
	c.report.PolicyDegraded = c.filter.Degraded()
	c.frontier = NewFrontier(seed)

	c.logger.Info("starting crawl",
		"start_url", seed,
		"workers", c.workers,
		"output_dir", c.store.Dir(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i := 0; i < c.workers; i++ {
		g.Go(func() error {
			return c.worker(gctx, i+1)
		})
	}

	// Wait for every worker to reach its terminal state.
	runErr := g.Wait()
	if runErr != nil {
		c.report.Interrupted = true
	}
	c.report.Finish()

	c.logger.Info("crawl finished",
		"visited", c.report.Visited,
		"saved", c.report.Saved,
		"skipped", c.report.Skipped,
		"failed", c.report.Failed,
		"elapsed", c.report.Elapsed,
	)

	return c.report, runErr
}

// worker drains the frontier until it observes it empty, then exits for
// good. The first empty observation is terminal even though a sibling
// worker may push more URLs a moment later; the remaining workers drain
// those. The last worker cannot exit before the frontier is truly empty,
// which is what keeps the crawl complete.
func (c *Crawler) worker(ctx context.Context, id int) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pageURL, ok := c.frontier.Pop()
		if !ok {
			c.logger.Debug("frontier empty, worker exiting", "worker", id)
			return nil
		}

		// A reached page cap ends the worker exactly like an empty
		// frontier. The popped URL is dropped; the crawl is over.
		if c.maxPages > 0 && c.popped.Add(1) > int64(c.maxPages) {
			c.logger.Debug("page cap reached, worker exiting", "worker", id)
			return nil
		}

		c.processPage(ctx, pageURL)
	}
}

// processPage runs one URL through the pipeline: policy, fetch, extract,
// persist, enqueue links. Failures are recorded and never propagate; a
// bad page must not take a worker down with it.
func (c *Crawler) processPage(ctx context.Context, pageURL string) {
	if !c.filter.Allowed(pageURL) {
		c.mu.Lock()
		c.report.Skipped++
		c.mu.Unlock()
		c.logger.Debug("disallowed by robots policy", "url", pageURL)
		return
	}

	// The URL counts as visited from here on, even if the fetch fails.
	c.mu.Lock()
	c.report.AddVisited(pageURL)
	c.mu.Unlock()

	res, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		c.recordFetchFailure(pageURL, err)
		return
	}

	// Links resolve against the final URL so pages reached through a
	// redirect resolve their relative hrefs correctly.
	page, err := extract.Extract(res.Body, res.FinalURL, c.filter.InScope)
	if err != nil {
		c.recordExtractFailure(pageURL, err)
		return
	}
	page.FetchedAt = time.Now()
	page.FetchDuration = res.Duration
	page.Size = len(res.Body)

	// The file is named after the frontier URL, not the redirect target,
	// so the archive maps one-to-one onto the visited list.
	if err := c.store.Save(pageURL, page.Text); err != nil {
		c.mu.Lock()
		c.report.AddFailure(pageURL, model.FailurePersist, err.Error())
		c.mu.Unlock()
		c.logger.Error("failed to save page", "url", pageURL, "error", err)
	} else {
		c.mu.Lock()
		c.report.Saved++
		c.mu.Unlock()
		c.logger.Info("saved page",
			"url", pageURL,
			"title", page.Title,
			"bytes", len(page.Text),
		)
	}

	// Links are pushed even when the save failed: a full disk should
	// not stop discovery.
	if added := c.frontier.PushAll(page.Links); added > 0 {
		c.logger.Debug("discovered links",
			"url", pageURL,
			"added", added,
			"queued", c.frontier.Len(),
		)
	}
}

// recordFetchFailure classifies a fetch error into the report taxonomy.
// Context cancellation is not a page failure; the run-level Interrupted
// flag covers it.
func (c *Crawler) recordFetchFailure(pageURL string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	kind := model.FailureTransport
	var fe *fetcher.FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case fetcher.KindTimeout:
			kind = model.FailureTimeout
		case fetcher.KindHTTPStatus:
			kind = model.FailureHTTPStatus
		}
	}

	c.mu.Lock()
	c.report.AddFailure(pageURL, kind, err.Error())
	c.mu.Unlock()
	c.logger.Warn("fetch failed", "url", pageURL, "kind", kind, "error", err)
}

// recordExtractFailure classifies an extraction error. Pages without a
// content region are routine (redirect stubs, error pages) and log at
// Debug; truly unparseable markup logs at Warn.
func (c *Crawler) recordExtractFailure(pageURL string, err error) {
	kind := model.FailureMalformed
	if errors.Is(err, extract.ErrNoContentRegion) {
		kind = model.FailureNoContent
		c.logger.Debug("no content region", "url", pageURL)
	} else {
		c.logger.Warn("extraction failed", "url", pageURL, "error", err)
	}

	c.mu.Lock()
	c.report.AddFailure(pageURL, kind, err.Error())
	c.mu.Unlock()
}
