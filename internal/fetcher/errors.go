package fetcher

import "fmt"

// Kind classifies a fetch failure.
type Kind int

const (
	// KindTimeout marks a request that exceeded the per-request deadline.
	KindTimeout Kind = iota + 1

	// KindHTTPStatus marks a response with a non-success status code.
	KindHTTPStatus

	// KindTransport marks a network-level failure: DNS resolution,
	// connection reset, TLS handshake, or a body read error.
	KindTransport
)

// String returns the report label for the kind.
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http_status"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// FetchError describes why a single page could not be retrieved.
//
// Design decision: We use one typed error with a Kind instead of separate
// sentinel errors because:
//  1. Callers always handle the kinds the same way (record and skip), so
//     a switch on one field is enough
//  2. The error carries the URL and status alongside the classification
//  3. errors.As gives tests and the crawler a single extraction point
type FetchError struct {
	// URL is the page that failed.
	URL string

	// Kind classifies the failure.
	Kind Kind

	// Status is the HTTP status code. Only set for KindHTTPStatus.
	Status int

	// Err is the underlying cause, when one exists.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("fetch %s: request timed out", e.URL)
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
