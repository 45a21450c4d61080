package config

import (
	"net/url"
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror the behavior the tool is known for: a small, polite
// crawl footprint that still saturates a typical wiki's page graph quickly.
const (
	// DefaultOutputDir is where extracted article files are written.
	// A relative path keeps dump output next to wherever the tool is run,
	// which is the expected workflow for one-off archive jobs.
	DefaultOutputDir = "./dump"

	// DefaultRequestLimit caps the number of HTTP fetches in flight across
	// the whole process, independent of worker count. Five concurrent
	// requests is gentle enough for shared wiki farms while keeping the
	// network pipe busy.
	DefaultRequestLimit = 5

	// DefaultTimeout is the per-request fetch timeout. Wiki pages are
	// small; 30 seconds is generous and mostly guards against servers
	// that accept a connection and then stall.
	DefaultTimeout = 30 * time.Second

	// DefaultCrawlDelay is the politeness delay between fetches.
	// Zero disables the delay; the request-limit gate is then the only
	// throttle. Operators crawling small community wikis should consider
	// setting this via --crawl-delay.
	DefaultCrawlDelay = 0 * time.Second

	// DefaultMaxPages is the cap on pages visited per crawl.
	// Zero means unlimited: the crawl ends when the frontier drains.
	DefaultMaxPages = 0

	// DefaultUserAgent identifies wikidump in HTTP requests and is the
	// same token used to evaluate robots.txt rules, so the policy the
	// server publishes for us is the policy we apply to ourselves.
	DefaultUserAgent = "wikidump/1.0 (+https://github.com/yomogi/wikidump)"

	// DefaultMaxBodySize limits the response body size to read.
	// 10MB comfortably covers even very long wiki articles while
	// preventing memory exhaustion from unexpected responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// AppName is the application name used for XDG directory paths.
	AppName = "wikidump"
)

// DefaultWorkers returns the default worker pool size: one worker per
// three CPUs, and never fewer than one. Workers spend most of their time
// parked on the request gate, so there is no benefit in matching CPU count.
func DefaultWorkers() int {
	if n := runtime.NumCPU() / 3; n > 1 {
		return n
	}
	return 1
}

// Config holds all configuration options for a crawl.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// StartURL is the absolute seed URL the crawl begins from.
	// Its host defines the crawl's scope boundary.
	StartURL string

	// OutputDir is the directory extracted article files are written to.
	// Created on first write if it does not exist.
	OutputDir string

	// Workers is the fixed number of concurrent crawl workers.
	// Workers beyond RequestLimit overlap parsing with fetching.
	Workers int

	// RequestLimit is the global cap on in-flight HTTP fetches.
	// It is deliberately independent of Workers.
	RequestLimit int

	// Timeout is the per-request fetch timeout.
	Timeout time.Duration

	// CrawlDelay is the politeness delay between fetches.
	// Zero disables the delay.
	CrawlDelay time.Duration

	// MaxPages caps the number of unique URLs visited. Zero means
	// unlimited; the crawl then ends when the frontier is exhausted.
	MaxPages int

	// UserAgent is the client identity sent with every request and used
	// for robots.txt group selection.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated.
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .wikidump in the current directory
	// and then in the XDG config directory.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of the human-readable
	// summary. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable summary. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the crawl report.
	// When set, the report is written there instead of stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most wikis.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeout, request limit).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		OutputDir:    DefaultOutputDir,
		Workers:      DefaultWorkers(),
		RequestLimit: DefaultRequestLimit,
		Timeout:      DefaultTimeout,
		CrawlDelay:   DefaultCrawlDelay,
		MaxPages:     DefaultMaxPages,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the XDG config directory for wikidump.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/wikidump
// On macOS: ~/Library/Application Support/wikidump
// On Windows: %APPDATA%\wikidump
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before the crawl begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.StartURL == "" {
		return ErrNoStartURL
	}

	// The seed must be an absolute http(s) URL; its host is the scope
	// boundary for the whole crawl.
	u, err := url.Parse(c.StartURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidStartURL
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// At least one worker is needed to drain the frontier
	if c.Workers <= 0 {
		return ErrInvalidWorkerCount
	}

	// The fetch gate needs at least one slot or every fetch blocks forever
	if c.RequestLimit <= 0 {
		return ErrInvalidRequestLimit
	}

	// CrawlDelay must be non-negative
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	// MaxPages must be non-negative; zero means unlimited
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	// MaxBodySize must be non-negative; zero means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
