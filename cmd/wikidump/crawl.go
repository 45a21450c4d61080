package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yomogi/wikidump/internal/config"
	"github.com/yomogi/wikidump/internal/crawler"
	"github.com/yomogi/wikidump/internal/fetcher"
	"github.com/yomogi/wikidump/internal/log"
	"github.com/yomogi/wikidump/internal/model"
	"github.com/yomogi/wikidump/internal/policy"
	"github.com/yomogi/wikidump/internal/report"
	"github.com/yomogi/wikidump/internal/storage"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <start-url>",
		Short: "Crawl a wiki and archive its articles as text files",
		Long: `Crawl archives every reachable article of a wiki as plain text.

Starting from the given page, crawl follows article links under /wiki/ on
the same host, strips navigation and other non-article markup from each
page, and writes the remaining text to one .txt file per page in the
output directory.

The crawl honors the site's robots.txt; when robots.txt cannot be fetched
the crawl proceeds with an allow-all policy. Press Ctrl-C to stop a crawl
early; pages archived so far are kept and the report marks the run as
interrupted.

Examples:
  # Archive a wiki into ./dump
  wikidump crawl https://example.fandom.com/wiki/Main_Page

  # Custom output directory and politeness delay
  wikidump crawl -o ./archive --crawl-delay 500ms https://example.fandom.com/wiki/Main_Page

  # Stop after 100 pages
  wikidump crawl -p 100 https://example.fandom.com/wiki/Main_Page

  # Write a JSON report next to the archive
  wikidump crawl --json --report-file crawl.json https://example.fandom.com/wiki/Main_Page

Configuration file (.wikidump) example:
  sites:
    example.fandom.com:
      cookie: "wiki_session=abc123"
      crawlDelay: "1s"
      ignorePrefixes:
        - /wiki/Blog:`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().StringP("out", "o", config.DefaultOutputDir, "Output directory for extracted text files")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers(), "Number of concurrent crawl workers")
	cmd.Flags().IntP("request-limit", "r", config.DefaultRequestLimit, "Maximum number of HTTP requests in flight")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each page fetch")
	cmd.Flags().Duration("crawl-delay", config.DefaultCrawlDelay, "Politeness delay before each fetch (0 disables)")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages, "Maximum number of pages to visit (0 means unlimited)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header and robots.txt identity")

	// Configuration file
	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .wikidump in current or XDG config directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false, "Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report-file", "", "Write the report to the specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd is the entry point for the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag value from the command or its root.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		// Try persistent flags from root command
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig builds the crawl configuration from command line flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.StartURL = args[0]

	var err error

	cfg.OutputDir, err = cmd.Flags().GetString("out")
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.RequestLimit, err = cmd.Flags().GetInt("request-limit")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("crawl-delay")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load configuration file if available. An explicitly requested file
	// must exist; the default locations are optional.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report-file")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runCrawl wires the crawl components together and runs the crawl to
// completion, then writes the report.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	start, err := url.Parse(cfg.StartURL)
	if err != nil {
		return fmt.Errorf("invalid start URL: %w", err)
	}

	// Site-specific settings from the configuration file override flags.
	site := config.SiteConfig{}
	if cfg.SiteConfigs != nil {
		site = cfg.SiteConfigs.GetSiteConfig(start.Host)
	}

	crawlDelay := cfg.CrawlDelay
	if site.CrawlDelay != "" {
		d, err := time.ParseDuration(site.CrawlDelay)
		if err != nil {
			return fmt.Errorf("invalid crawlDelay for %s: %w", start.Host, err)
		}
		crawlDelay = d
	}

	maxPages := cfg.MaxPages
	if site.MaxPages > 0 {
		maxPages = site.MaxPages
	}

	logger.Info("starting crawl",
		"startURL", cfg.StartURL,
		"outputDir", cfg.OutputDir,
		"workers", cfg.Workers,
		"requestLimit", cfg.RequestLimit,
	)

	// One HTTP client serves the robots.txt fetch and all page fetches.
	client := &http.Client{}

	filterOpts := []policy.Option{
		policy.WithAgent(cfg.UserAgent),
		policy.WithLogger(logger),
	}
	if len(site.IgnorePrefixes) > 0 {
		filterOpts = append(filterOpts, policy.WithExtraDenyPrefixes(site.IgnorePrefixes...))
	}
	filter := policy.New(ctx, client, start, filterOpts...)

	fetchOpts := []fetcher.Option{
		fetcher.WithRequestLimit(cfg.RequestLimit),
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithDelay(crawlDelay),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
	}
	if site.Cookie != "" {
		fetchOpts = append(fetchOpts, fetcher.WithCookie(site.Cookie))
	}
	if len(site.Headers) > 0 {
		fetchOpts = append(fetchOpts, fetcher.WithHeaders(site.Headers))
	}
	f := fetcher.New(client, fetchOpts...)

	store := storage.New(cfg.OutputDir)

	c := crawler.New(filter, f, store,
		crawler.WithWorkers(cfg.Workers),
		crawler.WithMaxPages(maxPages),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithLogger(logger),
	)

	fmt.Fprintf(os.Stderr, "Crawling %s...\n", cfg.StartURL)
	crawlReport, runErr := c.Run(ctx, cfg.StartURL)
	if crawlReport == nil {
		return runErr
	}

	if err := outputReport(cfg, crawlReport); err != nil {
		return fmt.Errorf("failed to output report: %w", err)
	}

	// A cancelled crawl already shows up as interrupted in the report,
	// so it does not also fail the command.
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// outputReport writes the crawl report in the configured format.
// With a report file the formatted report goes to the file and a plain
// summary is still echoed to stdout, so a crawl never ends silently.
func outputReport(cfg *config.Config, crawlReport *model.CrawlReport) error {
	if cfg.ReportFile == "" {
		_, err := formatWriter(cfg, os.Stdout).Write(crawlReport)
		return err
	}

	// Create directories if they don't exist
	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	file, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	multi := report.NewMultiWriter(
		formatWriter(cfg, file),
		report.NewSimpleWriter(os.Stdout),
	)
	if _, err := multi.Write(crawlReport); err != nil {
		return err
	}
	return nil
}

// formatWriter selects the report writer for the configured format.
func formatWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
