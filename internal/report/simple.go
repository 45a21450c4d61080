package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yomogi/wikidump/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and aligned summary counters.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	// Header
	w.writeHeader(&sb, report)

	// Summary
	w.writeSummary(&sb, report)

	// Failures grouped by kind
	w.writeFailures(&sb, report)

	// Visited URL list (verbose only)
	w.writeVisited(&sb, report)

	// Footer
	w.writeFooter(&sb, report)

	// Write to output
	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with crawl information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        WIKIDUMP CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Site:        %s\n", report.Host))
	sb.WriteString(fmt.Sprintf("Start URL:   %s\n", report.StartURL))
	sb.WriteString(fmt.Sprintf("User Agent:  %s\n", report.UserAgent))
	sb.WriteString(fmt.Sprintf("Crawl Date:  %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))

	if report.Interrupted {
		sb.WriteString("Status:      INTERRUPTED (partial results)\n")
	} else {
		sb.WriteString("Status:      Complete\n")
	}

	if report.PolicyDegraded {
		sb.WriteString("Robots:      unavailable (crawled with allow-all policy)\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the crawl summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CRAWL SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Visited:  %d unique pages\n", report.Visited))
	sb.WriteString(fmt.Sprintf("  Saved:    %d\n", report.Saved))
	sb.WriteString(fmt.Sprintf("  Skipped:  %d\n", report.Skipped))
	sb.WriteString(fmt.Sprintf("  Failed:   %d\n", report.Failed))
	sb.WriteString(fmt.Sprintf("  Elapsed:  %s\n", report.Elapsed.Round(time.Millisecond)))
	sb.WriteString("\n")

	if report.OutputDir != "" {
		sb.WriteString(fmt.Sprintf("  Text files saved in: %s\n", report.OutputDir))
		sb.WriteString("\n")
	}
}

// writeFailures writes all failures grouped by kind.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, report *model.CrawlReport) {
	if len(report.Failures) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FAILURES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Failures) == 0 {
		sb.WriteString("  No failures\n\n")
		return
	}

	// Write failures in a fixed kind order so output is deterministic.
	kinds := []string{
		model.FailureTimeout,
		model.FailureHTTPStatus,
		model.FailureTransport,
		model.FailureNoContent,
		model.FailureMalformed,
		model.FailurePersist,
	}

	grouped := groupFailures(report)
	for _, kind := range kinds {
		records := grouped[kind]
		if len(records) == 0 && !w.showEmpty {
			continue
		}

		w.writeFailuresForKind(sb, kind, records)
	}
}

// writeFailuresForKind writes failures of a specific kind.
func (w *SimpleWriter) writeFailuresForKind(sb *strings.Builder, kind string, records []model.FailureRecord) {
	sb.WriteString(fmt.Sprintf("[%s] %d\n", kind, len(records)))

	if len(records) == 0 {
		sb.WriteString("  No failures\n\n")
		return
	}

	for _, record := range records {
		sb.WriteString(fmt.Sprintf("  * %s\n", record.URL))
		if w.verbose && record.Message != "" {
			sb.WriteString(fmt.Sprintf("    Error: %s\n", record.Message))
		}
	}
	sb.WriteString("\n")
}

// writeVisited writes the full visited URL list. This can be long for a
// large wiki, so it is gated behind verbose mode; the JSON format always
// carries the full list.
func (w *SimpleWriter) writeVisited(sb *strings.Builder, report *model.CrawlReport) {
	if !w.verbose {
		return
	}
	if len(report.VisitedURLs) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("VISITED URLS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.VisitedURLs) == 0 {
		sb.WriteString("  No pages visited\n")
	} else {
		for _, u := range report.VisitedURLs {
			sb.WriteString(fmt.Sprintf("  * %s\n", u))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, _ *model.CrawlReport) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by wikidump\n")
	sb.WriteString("https://github.com/yomogi/wikidump\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// groupFailures indexes the report failures by kind, preserving the
// order records were added within each kind.
func groupFailures(report *model.CrawlReport) map[string][]model.FailureRecord {
	grouped := make(map[string][]model.FailureRecord)
	for _, f := range report.Failures {
		grouped[f.Kind] = append(grouped[f.Kind], f)
	}
	return grouped
}
