package crawler

import "sync"

// Frontier is the crawl's work queue: a FIFO of URLs waiting to be
// visited plus the set of every URL ever enqueued.
//
// Design decision: One mutex guards both structures together rather than
// using a concurrent map plus a channel because:
//  1. seen-check and enqueue must be one atomic step, or two workers
//     pushing the same link would enqueue it twice
//  2. Pop must report emptiness rather than block; worker shutdown is
//     driven by observing an empty frontier, not by channel close
//  3. The critical sections are a map lookup and a slice append, far too
//     short for lock contention to matter at crawl scale
type Frontier struct {
	mu      sync.Mutex
	pending []string
	seen    map[string]struct{}
}

// NewFrontier creates a Frontier holding the given seed URLs. Seeds are
// deduplicated like any other push.
func NewFrontier(seeds ...string) *Frontier {
	f := &Frontier{
		seen: make(map[string]struct{}),
	}
	f.PushAll(seeds)
	return f
}

// Pop removes and returns the oldest pending URL. The second return is
// false when the frontier is empty. Pop never blocks.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == 0 {
		return "", false
	}
	u := f.pending[0]
	f.pending = f.pending[1:]
	return u, true
}

// PushAll enqueues every URL that has never been enqueued before,
// preserving input order among the newly added, and returns how many
// were added. Duplicates, both against earlier pushes and within the
// batch itself, are silently dropped.
func (f *Frontier) PushAll(urls []string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	added := 0
	for _, u := range urls {
		if _, ok := f.seen[u]; ok {
			continue
		}
		f.seen[u] = struct{}{}
		f.pending = append(f.pending, u)
		added++
	}
	return added
}

// Len returns the number of URLs waiting to be visited.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// SeenCount returns how many unique URLs have ever been enqueued.
func (f *Frontier) SeenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}
