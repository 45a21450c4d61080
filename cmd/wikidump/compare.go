package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yomogi/wikidump/internal/model"
)

// Constants for coverage direction.
const (
	coverageGrew      = "grew"
	coverageShrank    = "shrank"
	coverageUnchanged = "unchanged"
)

// NewCompareCmd creates the compare command.
// This command compares two crawl reports saved with --json --report-file.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <previous.json> <current.json>",
		Short: "Compare two saved crawl reports",
		Long: `Compare displays differences between two crawl reports of the same wiki.

Run 'wikidump crawl --json --report-file report.json' to save reports, then
compare an older and a newer report to see:
- Pages that appeared since the previous crawl
- Pages that disappeared from the wiki
- Changes in the visit, save, skip, and failure counts

Both reports must describe the same host.

Examples:
  # Compare two saved reports
  wikidump compare january.json february.json

  # Output comparison in JSON format
  wikidump compare --json january.json february.json

  # Output comparison in Markdown format
  wikidump compare --markdown january.json february.json`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	previous, err := loadReport(args[0])
	if err != nil {
		return err
	}
	current, err := loadReport(args[1])
	if err != nil {
		return err
	}

	if previous.Host != current.Host {
		return fmt.Errorf("reports describe different hosts: %s and %s", previous.Host, current.Host)
	}

	comparison := compareCrawls(previous, current)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// loadReport reads a crawl report previously saved in JSON format.
func loadReport(path string) (*model.CrawlReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var crawlReport model.CrawlReport
	if err := json.Unmarshal(data, &crawlReport); err != nil {
		return nil, fmt.Errorf("failed to parse report file %s: %w", path, err)
	}
	if crawlReport.Host == "" {
		return nil, fmt.Errorf("report file %s is missing the host field", path)
	}
	return &crawlReport, nil
}

// ComparisonResult holds the result of comparing two crawl reports.
type ComparisonResult struct {
	// Host is the crawled wiki host.
	Host string `json:"host"`

	// PreviousCrawl contains metadata about the older crawl.
	PreviousCrawl CrawlMetadata `json:"previous_crawl"`

	// CurrentCrawl contains metadata about the newer crawl.
	CurrentCrawl CrawlMetadata `json:"current_crawl"`

	// AddedPages contains page URLs visited only by the newer crawl.
	AddedPages []string `json:"added_pages,omitempty"`

	// RemovedPages contains page URLs visited only by the older crawl.
	RemovedPages []string `json:"removed_pages,omitempty"`

	// UnchangedCount is the number of pages present in both crawls.
	UnchangedCount int `json:"unchanged_count"`

	// CoverageChange describes the overall change in crawl coverage.
	CoverageChange CoverageChange `json:"coverage_change"`
}

// CrawlMetadata contains metadata about one crawl for comparison display.
type CrawlMetadata struct {
	// DateCrawled is when the crawl started.
	DateCrawled time.Time `json:"date_crawled"`

	// Visited is the number of unique pages visited.
	Visited int `json:"visited"`

	// Saved is the number of pages archived as text files.
	Saved int `json:"saved"`

	// Skipped is the number of pages without a recognizable article body.
	Skipped int `json:"skipped"`

	// Failed is the number of pages that could not be fetched or saved.
	Failed int `json:"failed"`

	// Elapsed is how long the crawl ran.
	Elapsed time.Duration `json:"elapsed"`

	// Interrupted reports whether the crawl was stopped early.
	Interrupted bool `json:"interrupted"`
}

// CoverageChange describes the change in crawl coverage between two crawls.
type CoverageChange struct {
	// Direction is "grew", "shrank", or "unchanged".
	Direction string `json:"direction"`

	// VisitedDelta is the change in visited page count.
	VisitedDelta int `json:"visited_delta"`

	// SavedDelta is the change in archived page count.
	SavedDelta int `json:"saved_delta"`

	// SkippedDelta is the change in skipped page count.
	SkippedDelta int `json:"skipped_delta"`

	// FailedDelta is the change in failed page count.
	FailedDelta int `json:"failed_delta"`
}

// compareCrawls compares two crawl reports and generates a comparison result.
func compareCrawls(previous, current *model.CrawlReport) *ComparisonResult {
	result := &ComparisonResult{
		Host:          current.Host,
		PreviousCrawl: crawlMetadata(previous),
		CurrentCrawl:  crawlMetadata(current),
	}

	previousPages := previous.VisitedSet()
	currentPages := current.VisitedSet()

	// Find pages that are new in the current crawl
	for page := range currentPages {
		if _, exists := previousPages[page]; !exists {
			result.AddedPages = append(result.AddedPages, page)
		}
	}

	// Find pages that disappeared since the previous crawl
	for page := range previousPages {
		if _, exists := currentPages[page]; !exists {
			result.RemovedPages = append(result.RemovedPages, page)
		} else {
			result.UnchangedCount++
		}
	}

	// Map iteration order is random, so sort for stable output
	sort.Strings(result.AddedPages)
	sort.Strings(result.RemovedPages)

	result.CoverageChange = calculateCoverageChange(result.PreviousCrawl, result.CurrentCrawl)

	return result
}

// crawlMetadata extracts the comparison metadata from a crawl report.
func crawlMetadata(crawlReport *model.CrawlReport) CrawlMetadata {
	return CrawlMetadata{
		DateCrawled: crawlReport.StartedAt,
		Visited:     crawlReport.Visited,
		Saved:       crawlReport.Saved,
		Skipped:     crawlReport.Skipped,
		Failed:      crawlReport.Failed,
		Elapsed:     crawlReport.Elapsed,
		Interrupted: crawlReport.Interrupted,
	}
}

// calculateCoverageChange calculates the change in coverage between two crawls.
func calculateCoverageChange(previous, current CrawlMetadata) CoverageChange {
	change := CoverageChange{
		VisitedDelta: current.Visited - previous.Visited,
		SavedDelta:   current.Saved - previous.Saved,
		SkippedDelta: current.Skipped - previous.Skipped,
		FailedDelta:  current.Failed - previous.Failed,
	}

	switch {
	case change.VisitedDelta > 0:
		change.Direction = coverageGrew
	case change.VisitedDelta < 0:
		change.Direction = coverageShrank
	default:
		change.Direction = coverageUnchanged
	}

	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(result *ComparisonResult) error {
	fmt.Printf("# Crawl Comparison: %s\n\n", result.Host)

	// Coverage summary
	fmt.Println("## Summary")
	fmt.Printf("\n**Coverage:** %s\n\n", formatCoverageDirection(result.CoverageChange))

	// Crawl metadata table
	fmt.Println("| Metric | Previous | Current | Change |")
	fmt.Println("|--------|----------|---------|--------|")
	fmt.Printf("| Date | %s | %s | - |\n",
		result.PreviousCrawl.DateCrawled.Format("2006-01-02 15:04"),
		result.CurrentCrawl.DateCrawled.Format("2006-01-02 15:04"))
	fmt.Printf("| Visited | %d | %d | %s |\n",
		result.PreviousCrawl.Visited,
		result.CurrentCrawl.Visited,
		formatDelta(result.CoverageChange.VisitedDelta))
	fmt.Printf("| Saved | %d | %d | %s |\n",
		result.PreviousCrawl.Saved,
		result.CurrentCrawl.Saved,
		formatDelta(result.CoverageChange.SavedDelta))
	fmt.Printf("| Skipped | %d | %d | %s |\n",
		result.PreviousCrawl.Skipped,
		result.CurrentCrawl.Skipped,
		formatDelta(result.CoverageChange.SkippedDelta))
	fmt.Printf("| Failed | %d | %d | %s |\n",
		result.PreviousCrawl.Failed,
		result.CurrentCrawl.Failed,
		formatDelta(result.CoverageChange.FailedDelta))
	fmt.Printf("| Elapsed | %s | %s | - |\n",
		result.PreviousCrawl.Elapsed.Round(time.Millisecond),
		result.CurrentCrawl.Elapsed.Round(time.Millisecond))

	// New pages
	if len(result.AddedPages) > 0 {
		fmt.Printf("\n## New Pages (%d)\n\n", len(result.AddedPages))
		for _, page := range result.AddedPages {
			fmt.Printf("- `%s`\n", page)
		}
	}

	// Removed pages
	if len(result.RemovedPages) > 0 {
		fmt.Printf("\n## Removed Pages (%d)\n\n", len(result.RemovedPages))
		for _, page := range result.RemovedPages {
			fmt.Printf("- ~~`%s`~~\n", page)
		}
	}

	// Unchanged count
	if result.UnchangedCount > 0 {
		fmt.Printf("\n---\n\n*%d pages unchanged*\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Crawl Comparison: %s\n", result.Host)
	fmt.Println(strings.Repeat("=", 60))

	// Coverage summary
	fmt.Printf("\nCoverage: %s\n", formatCoverageDirection(result.CoverageChange))

	// Crawl dates
	fmt.Printf("\nPrevious crawl: %s%s\n",
		result.PreviousCrawl.DateCrawled.Format("2006-01-02 15:04:05"),
		interruptedSuffix(result.PreviousCrawl))
	fmt.Printf("Current crawl:  %s%s\n",
		result.CurrentCrawl.DateCrawled.Format("2006-01-02 15:04:05"),
		interruptedSuffix(result.CurrentCrawl))

	// Summary table
	fmt.Println("\nPage Counts:")
	fmt.Printf("  %-10s  %-10s  %-10s  %-10s\n", "Counter", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Visited",
		result.PreviousCrawl.Visited, result.CurrentCrawl.Visited,
		formatDelta(result.CoverageChange.VisitedDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Saved",
		result.PreviousCrawl.Saved, result.CurrentCrawl.Saved,
		formatDelta(result.CoverageChange.SavedDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Skipped",
		result.PreviousCrawl.Skipped, result.CurrentCrawl.Skipped,
		formatDelta(result.CoverageChange.SkippedDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Failed",
		result.PreviousCrawl.Failed, result.CurrentCrawl.Failed,
		formatDelta(result.CoverageChange.FailedDelta))

	// New pages
	if len(result.AddedPages) > 0 {
		fmt.Printf("\nNew Pages (%d):\n", len(result.AddedPages))
		for _, page := range result.AddedPages {
			fmt.Printf("  [+] %s\n", page)
		}
	}

	// Removed pages
	if len(result.RemovedPages) > 0 {
		fmt.Printf("\nRemoved Pages (%d):\n", len(result.RemovedPages))
		for _, page := range result.RemovedPages {
			fmt.Printf("  [-] %s\n", page)
		}
	}

	// Unchanged count
	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d pages\n", result.UnchangedCount)
	}

	return nil
}

// interruptedSuffix marks crawls that were stopped before completion.
func interruptedSuffix(meta CrawlMetadata) string {
	if meta.Interrupted {
		return " (interrupted)"
	}
	return ""
}

// formatCoverageDirection formats the coverage change direction for display.
func formatCoverageDirection(change CoverageChange) string {
	switch change.Direction {
	case coverageGrew:
		return fmt.Sprintf("GREW (+%d pages)", change.VisitedDelta)
	case coverageShrank:
		return fmt.Sprintf("SHRANK (%d pages)", change.VisitedDelta)
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
