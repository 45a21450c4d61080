// Package crawler coordinates the crawl: the URL frontier and the worker
// pool that drains it.
//
// # Architecture
//
// The package is designed around two types:
//
//   - Frontier: a FIFO queue of URLs to visit fused with the set of URLs
//     ever enqueued. One mutex covers both, so checking "have we seen
//     this" and enqueueing are a single atomic step and a URL can never
//     be enqueued twice no matter how many workers push at once.
//   - Crawler: a fixed-size worker pool sharing one Frontier, one policy
//     filter, one fetcher, and one store. Run blocks until every worker
//     has finished and returns the crawl report.
//
// # Worker lifecycle
//
// Each worker loops: pop a URL, check policy, fetch, extract, persist,
// push discovered links. A failure at any stage is recorded in the report
// and the worker moves on; only context cancellation ends the loop early.
//
// A worker exits the first time it observes an empty frontier. There is
// no barrier that waits for in-flight pages to push their links first, so
// workers can exit while a sibling is still about to push. Those URLs are
// drained by whichever workers remain, and the last worker cannot exit
// before the frontier is truly empty, so every discovered URL is still
// visited; the pool merely narrows toward the end of the crawl. This
// termination contract is deliberate. A strict barrier would keep all
// workers alive until global quiescence at the cost of tracking in-flight
// pages; the narrowing pool costs at most some parallelism in the final
// stretch of the crawl.
//
// # Usage
//
//	c := crawler.New(filter, fetch, store,
//		crawler.WithWorkers(4),
//	)
//	report, err := c.Run(ctx, "https://wiki.example.org/wiki/Main_Page")
package crawler
