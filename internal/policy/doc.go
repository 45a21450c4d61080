// Package policy decides which URLs a crawl may visit.
//
// Two independent checks gate every URL before it reaches the frontier:
//
//   - Allowed: does the site's robots.txt permit our user agent to fetch
//     this path? The rules are fetched and parsed exactly once, before any
//     worker starts; afterwards reads are lock-free. If robots.txt cannot
//     be retrieved or parsed the filter degrades to allow-all, because an
//     unreachable policy file should not abort an archive run.
//
//   - InScope: is the URL part of the wiki being archived? Same host as
//     the seed, under the /wiki/ content namespace, not one of the
//     non-article namespaces (Special, File, Category, User, Talk, ...),
//     and not an edit or history view.
//
// Design decision: The Filter is immutable after construction. It is built
// single-threaded during startup and then shared by every worker without
// synchronization, which keeps the per-URL hot path free of locking.
package policy
