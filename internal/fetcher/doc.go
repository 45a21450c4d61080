// Package fetcher retrieves pages over HTTP with a global concurrency cap.
//
// # Architecture
//
// The package is built around the Fetcher type. Every worker in the crawl
// pool shares one Fetcher, and the Fetcher owns the two throttles that
// protect the remote site:
//
//   - A weighted semaphore caps the number of in-flight requests for the
//     whole program, independent of how many workers exist.
//   - An optional rate limiter enforces a minimum delay between request
//     starts. The limiter is consulted before the semaphore so that a
//     long delay cannot hold a semaphore slot hostage.
//
// Design decision: The cap lives in the Fetcher rather than in the worker
// pool because:
//  1. The limit protects the remote site, not this process, so it must
//     hold no matter how many goroutines call Fetch
//  2. Workers stay simple: they call Fetch and never reason about rates
//  3. Tests can exercise the gate without spinning up a pool
//
// # Errors
//
// Failures are classified into a small taxonomy via FetchError: timeouts,
// non-success HTTP statuses, and transport-level faults. Callers switch on
// the Kind to decide how to record the failure; no kind is retried.
//
// # Usage
//
//	f := fetcher.New(httpClient,
//		fetcher.WithRequestLimit(5),
//		fetcher.WithUserAgent("archivebot/1.0"),
//	)
//	res, err := f.Fetch(ctx, "https://wiki.example.org/wiki/Main_Page")
package fetcher
