package model

import "time"

// Page represents one wiki article after extraction.
// It holds the cleaned article text and the in-scope links discovered on
// the page, in document order.
//
// Design decision: We do not keep the raw response body on the Page because:
// 1. Only the extracted text is persisted (one flat file per article)
// 2. Links are pushed to the frontier immediately after extraction
// 3. Dropping the body keeps memory flat regardless of crawl size
type Page struct {
	// URL is the canonical (fragment-stripped, absolute) URL of the article.
	URL string `json:"url"`

	// Title is the article title, taken from the page heading or <title>.
	// Informational only; the output filename is derived from the URL path.
	Title string `json:"title,omitempty"`

	// Text is the normalized article text: one line per structural block,
	// no blank lines, interior space runs collapsed.
	Text string `json:"-"` // Excluded from JSON to keep reports small

	// Links are the in-scope outbound links found in the content region,
	// absolute and fragment-stripped, in document order. Duplicates are
	// allowed here; the frontier deduplicates.
	Links []string `json:"-"`

	// FetchedAt is when the page body was retrieved.
	FetchedAt time.Time `json:"fetched_at"`

	// FetchDuration is how long the HTTP fetch took.
	FetchDuration time.Duration `json:"fetch_duration"`

	// Size is the raw body size in bytes before extraction.
	Size int `json:"size"`
}
