package report

import (
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/yomogi/wikidump/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	// Header
	w.writeHeader(md, report)

	// Summary
	w.writeSummary(md, report)

	// Failures
	w.writeFailures(md, report)

	// Footer
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Wikidump Crawl Report")
	md.PlainText("")

	// Basic info table
	rows := [][]string{
		{"Site", "`" + report.Host + "`"},
		{"Start URL", "`" + report.StartURL + "`"},
		{"User Agent", report.UserAgent},
		{"Crawl Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
		{"Status", w.getStatusText(report)},
	}
	if report.OutputDir != "" {
		rows = append(rows, []string{"Output Directory", "`" + report.OutputDir + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.CrawlReport) string {
	if report.Interrupted {
		return "⚠️ Interrupted (partial results)"
	}
	return "✅ Complete"
}

// writeSummary writes the crawl summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Crawl Summary")
	md.PlainText("")

	// Summary table
	md.Table(markdown.TableSet{
		Header: []string{"Counter", "Value"},
		Rows: [][]string{
			{"Visited", strconv.Itoa(report.Visited)},
			{"Saved", strconv.Itoa(report.Saved)},
			{"Skipped", strconv.Itoa(report.Skipped)},
			{"Failed", strconv.Itoa(report.Failed)},
			{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")

	// Add pie chart if anything was processed
	if report.Saved > 0 || report.Skipped > 0 || report.Failed > 0 {
		w.writePieChart(md, report)
	}

	// Add alerts based on crawl state
	w.writeAlerts(md, report)
}

// writePieChart writes a mermaid pie chart for the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.CrawlReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Crawl Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if report.Saved > 0 {
		chart.LabelAndIntValue("Saved", uint64(report.Saved))
	}
	if report.Skipped > 0 {
		chart.LabelAndIntValue("Skipped", uint64(report.Skipped))
	}
	if report.Failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(report.Failed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlerts writes alerts based on crawl state. Interruption and policy
// degradation are independent conditions, so unlike severity levels they
// are not folded into a single alert.
func (w *MarkdownWriter) writeAlerts(md *markdown.Markdown, report *model.CrawlReport) {
	if report.Interrupted {
		md.Warningf(
			"The crawl was interrupted after %d page(s); counts describe a partial crawl.",
			report.Visited,
		)
		md.PlainText("")
	}
	if report.PolicyDegraded {
		md.Cautionf(
			"robots.txt for %s was unavailable; the crawl ran with an allow-all policy.",
			report.Host,
		)
		md.PlainText("")
	}

	switch {
	case report.Failed > 0:
		md.Importantf(
			"%d page(s) could not be archived (%s). See the failures table below.",
			report.Failed,
			summarizeFailureKinds(report),
		)
	default:
		md.Tip("Every visited page was archived successfully.")
	}
	md.PlainText("")
}

// summarizeFailureKinds renders the per-kind failure counts as a short
// comma-separated list with a stable order.
func summarizeFailureKinds(report *model.CrawlReport) string {
	counts := report.FailuresByKind()
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, kind+": "+strconv.Itoa(counts[kind]))
	}
	return strings.Join(parts, ", ")
}

// writeFailures writes the per-page failure table.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Failures")
	md.PlainText("")

	if len(report.Failures) == 0 {
		md.PlainText("No failures recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Failures))
	for i, f := range report.Failures {
		message := f.Message
		if message == "" {
			message = "-"
		}

		rows[i] = []string{
			truncateString(f.URL, 60),
			f.Kind,
			truncateString(message, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Kind", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wikidump](https://github.com/yomogi/wikidump)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
