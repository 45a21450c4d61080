package model

import (
	"sort"
	"time"
)

// Failure kinds recorded in a CrawlReport.
// The kind names mirror the error taxonomy of the crawl pipeline so that
// report consumers can group failures without parsing messages.
const (
	// FailureTimeout means the fetch exceeded the per-request timeout.
	FailureTimeout = "timeout"

	// FailureHTTPStatus means the server answered with a non-2xx status.
	FailureHTTPStatus = "http_status"

	// FailureTransport means a transport-level error (DNS, reset, TLS).
	FailureTransport = "transport"

	// FailureNoContent means the page had no recognizable content region.
	FailureNoContent = "no_content_region"

	// FailureMalformed means the page markup could not be parsed at all.
	FailureMalformed = "malformed"

	// FailurePersist means the extracted text could not be written to disk.
	// Links from the page are still enqueued when this occurs.
	FailurePersist = "persist"
)

// FailureRecord captures one per-page failure with enough context to
// diagnose after the fact: which URL, which kind of failure, and the
// underlying error message.
type FailureRecord struct {
	// URL is the canonical URL that failed.
	URL string `json:"url"`

	// Kind is one of the Failure* constants.
	Kind string `json:"kind"`

	// Message is the underlying error text.
	Message string `json:"message"`
}

// CrawlReport is the end-of-run summary of a crawl.
// The required contract is Visited and Elapsed; everything else exists so
// a crawl can be diagnosed and diffed (see the compare subcommand) after
// the process has exited.
//
// Design decision: We keep the full visited-URL list in the report rather
// than only counts because:
// 1. The output directory alone cannot reconstruct which URLs were attempted
//    (failed pages leave no file behind)
// 2. Comparing two crawls of the same site needs URL sets, not counts
// 3. Wiki page lists are small relative to the page bodies we already write
type CrawlReport struct {
	// StartURL is the seed URL the crawl began from.
	StartURL string `json:"start_url"`

	// Host is the scope boundary derived from the seed URL.
	Host string `json:"host"`

	// UserAgent is the client identity used for fetching and for
	// robots.txt evaluation.
	UserAgent string `json:"user_agent"`

	// OutputDir is where article files were written.
	OutputDir string `json:"output_dir"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total crawl duration in nanoseconds.
	Elapsed time.Duration `json:"elapsed"`

	// Visited is the number of unique URLs attempted. A URL that was
	// popped from the frontier counts as visited even if its fetch or
	// extraction failed afterwards.
	Visited int `json:"visited"`

	// Saved is the number of article files written to the output directory.
	Saved int `json:"saved"`

	// Skipped is the number of URLs rejected by the site's crawl policy
	// after they had already been enqueued.
	Skipped int `json:"skipped"`

	// Failed is the number of URLs whose processing failed at some stage.
	Failed int `json:"failed"`

	// Interrupted is true when the crawl was cancelled (signal) before
	// the frontier drained; counts then describe a partial crawl.
	Interrupted bool `json:"interrupted"`

	// PolicyDegraded is true when robots.txt could not be fetched or
	// parsed and the crawl proceeded with an allow-all policy.
	PolicyDegraded bool `json:"policy_degraded"`

	// VisitedURLs lists every attempted URL, sorted lexicographically.
	VisitedURLs []string `json:"visited_urls"`

	// Failures lists every per-page failure.
	Failures []FailureRecord `json:"failures,omitempty"`
}

// NewCrawlReport creates a report for a crawl of the given seed URL.
func NewCrawlReport(startURL, host string) *CrawlReport {
	return &CrawlReport{
		StartURL:  startURL,
		Host:      host,
		StartedAt: time.Now(),
	}
}

// AddVisited records an attempted URL. Not safe for concurrent use; the
// crawler serializes report mutation behind its own lock.
func (r *CrawlReport) AddVisited(url string) {
	r.VisitedURLs = append(r.VisitedURLs, url)
	r.Visited++
}

// AddFailure records a per-page failure and counts it.
func (r *CrawlReport) AddFailure(url, kind, message string) {
	r.Failures = append(r.Failures, FailureRecord{URL: url, Kind: kind, Message: message})
	r.Failed++
}

// Finish stamps the elapsed time and sorts the visited list so that
// report output and comparisons are deterministic.
func (r *CrawlReport) Finish() {
	r.Elapsed = time.Since(r.StartedAt)
	sort.Strings(r.VisitedURLs)
}

// VisitedSet returns the visited URLs as a set for diffing.
func (r *CrawlReport) VisitedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.VisitedURLs))
	for _, u := range r.VisitedURLs {
		set[u] = struct{}{}
	}
	return set
}

// FailuresByKind groups the failure count by kind for summary display.
func (r *CrawlReport) FailuresByKind() map[string]int {
	counts := make(map[string]int)
	for _, f := range r.Failures {
		counts[f.Kind]++
	}
	return counts
}
