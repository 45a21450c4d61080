package policy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/temoto/robotstxt"
)

// ContentPrefix is the path prefix of article pages. URLs outside this
// namespace are never crawled.
const ContentPrefix = "/wiki/"

// defaultAgent is the robots.txt product token used when no agent is
// configured. A group addressed to this token takes precedence over the
// wildcard group.
const defaultAgent = "wikidump"

// defaultDenyPrefixes lists the non-article namespaces of a MediaWiki or
// Fandom wiki. Pages under these prefixes are maintenance, media, or
// discussion pages, not content worth archiving.
var defaultDenyPrefixes = []string{
	ContentPrefix + "Special:",
	ContentPrefix + "File:",
	ContentPrefix + "Category:",
	ContentPrefix + "User:",
	ContentPrefix + "User_blog:",
	ContentPrefix + "Template:",
	ContentPrefix + "Help:",
	ContentPrefix + "MediaWiki:",
	ContentPrefix + "Talk:",
	ContentPrefix + "Forum:",
	ContentPrefix + "Board:",
}

// Filter answers robots.txt and crawl-scope questions for a single site.
//
// All fields are written once by New and are read-only afterwards, so the
// methods are safe for concurrent use without locking.
type Filter struct {
	host         string
	agent        string
	group        *robotstxt.Group
	denyPrefixes []string
	degraded     bool
	logger       *slog.Logger
}

// Option configures a Filter.
type Option func(*Filter)

// WithAgent sets the user agent token matched against robots.txt groups
// and sent when fetching robots.txt itself.
func WithAgent(agent string) Option {
	return func(f *Filter) {
		if agent != "" {
			f.agent = agent
		}
	}
}

// WithExtraDenyPrefixes adds path prefixes to the built-in namespace deny
// list. Prefixes are matched against the URL path verbatim.
func WithExtraDenyPrefixes(prefixes ...string) Option {
	return func(f *Filter) {
		f.denyPrefixes = append(f.denyPrefixes, prefixes...)
	}
}

// WithLogger sets the logger used to report robots.txt degradation.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New builds a Filter for the site that root belongs to. It fetches
// <scheme>://<host>/robots.txt once using client and parses it.
//
// New never fails because of the remote site: a network error, a
// non-success status, or a malformed policy file all degrade the filter
// to allow-all. The degradation is logged at Warn and reported by
// Degraded, and the crawl proceeds.
func New(ctx context.Context, client *http.Client, root *url.URL, opts ...Option) *Filter {
	f := &Filter{
		host:         root.Host,
		agent:        defaultAgent,
		denyPrefixes: append([]string(nil), defaultDenyPrefixes...),
	}
	for _, opt := range opts {
		opt(f)
	}

	// Set default logger if not provided
	if f.logger == nil {
		f.logger = slog.Default()
	}

	robotsURL := root.Scheme + "://" + root.Host + "/robots.txt"
	data, err := fetchRobots(ctx, client, robotsURL, f.agent)
	if err != nil {
		f.degraded = true
		f.logger.Warn("robots.txt unavailable, allowing all paths",
			"url", robotsURL,
			"error", err)
		return f
	}

	// An agent-specific group wins over the wildcard group. FindGroup
	// already falls back to "*" when no closer match exists.
	f.group = data.FindGroup(f.agent)
	return f
}

// fetchRobots retrieves and parses a robots.txt file. Any failure mode,
// including a non-2xx status, is returned as an error so that the caller
// can fall back to allow-all.
func fetchRobots(ctx context.Context, client *http.Client, robotsURL, agent string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build robots.txt request: %w", err)
	}
	req.Header.Set("User-Agent", agent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch robots.txt: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}

// Allowed reports whether robots.txt permits fetching rawURL. A degraded
// filter permits everything. Unparseable URLs are rejected.
func (f *Filter) Allowed(rawURL string) bool {
	if f.degraded || f.group == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return f.group.Test(u.Path)
}

// InScope reports whether rawURL belongs to the wiki being archived.
//
// A URL is in scope when its host equals the seed host, its path is under
// the content namespace, the path does not enter a denied namespace, and
// the query does not request an edit or history view. The query check is
// a substring match so that variants such as veaction=edit are caught too.
func (f *Filter) InScope(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Host != f.host {
		return false
	}
	if !strings.HasPrefix(u.Path, ContentPrefix) {
		return false
	}
	for _, prefix := range f.denyPrefixes {
		if strings.HasPrefix(u.Path, prefix) {
			return false
		}
	}
	if strings.Contains(u.RawQuery, "action=edit") || strings.Contains(u.RawQuery, "action=history") {
		return false
	}
	return true
}

// Degraded reports whether robots.txt could not be loaded and the filter
// is allowing every path.
func (f *Filter) Degraded() bool {
	return f.degraded
}

// Host returns the host every in-scope URL must match.
func (f *Filter) Host() string {
	return f.host
}
