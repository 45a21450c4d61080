package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/yomogi/wikidump/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *model.CrawlReport {
	report := model.NewCrawlReport("https://wiki.example.test/wiki/Alpha", "wiki.example.test")
	report.UserAgent = "wikidump/1.0"
	report.OutputDir = "/tmp/wiki_dump"
	report.AddVisited("https://wiki.example.test/wiki/Alpha")
	report.AddVisited("https://wiki.example.test/wiki/Beta")
	report.AddVisited("https://wiki.example.test/wiki/Broken")
	report.Saved = 2
	report.Skipped = 1
	report.AddFailure("https://wiki.example.test/wiki/Broken", model.FailureHTTPStatus, "unexpected status 500")
	report.Finish()
	return report
}

// createCleanReport creates a report without any failures.
func createCleanReport() *model.CrawlReport {
	report := model.NewCrawlReport("https://wiki.example.test/wiki/Alpha", "wiki.example.test")
	report.UserAgent = "wikidump/1.0"
	report.AddVisited("https://wiki.example.test/wiki/Alpha")
	report.Saved = 1
	report.Finish()
	return report
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "WIKIDUMP CRAWL REPORT") {
			t.Error("expected output to contain header")
		}
		if !strings.Contains(output, "wiki.example.test") {
			t.Error("expected output to contain site host")
		}
		if !strings.Contains(output, "https://wiki.example.test/wiki/Alpha") {
			t.Error("expected output to contain start URL")
		}
	})

	t.Run("writes crawl summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "CRAWL SUMMARY") {
			t.Error("expected output to contain crawl summary")
		}
		if !strings.Contains(output, "Visited:  3 unique pages") {
			t.Error("expected output to contain visited count")
		}
		if !strings.Contains(output, "Saved:    2") {
			t.Error("expected output to contain saved count")
		}
		if !strings.Contains(output, "Text files saved in: /tmp/wiki_dump") {
			t.Error("expected output to contain output directory")
		}
	})

	t.Run("writes failures grouped by kind", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "FAILURES") {
			t.Error("expected output to contain failures section")
		}
		if !strings.Contains(output, "[http_status] 1") {
			t.Error("expected output to contain failure kind with count")
		}
		if !strings.Contains(output, "https://wiki.example.test/wiki/Broken") {
			t.Error("expected output to contain failing URL")
		}
	})

	t.Run("verbose mode includes error messages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Error: unexpected status 500") {
			t.Error("expected verbose output to contain error messages")
		}
	})

	t.Run("visited list only in verbose mode", func(t *testing.T) {
		t.Parallel()

		var plain, verbose bytes.Buffer
		report := createTestReport()

		if _, err := NewSimpleWriter(&plain).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewSimpleWriter(&verbose, WithVerbose(true)).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(plain.String(), "VISITED URLS") {
			t.Error("should not show visited list without verbose")
		}
		if !strings.Contains(verbose.String(), "VISITED URLS") {
			t.Error("expected verbose output to contain visited list")
		}
		if !strings.Contains(verbose.String(), "https://wiki.example.test/wiki/Beta") {
			t.Error("expected verbose output to list visited URLs")
		}
	})

	t.Run("handles interrupted report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()
		report.Interrupted = true

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "INTERRUPTED") {
			t.Error("expected output to indicate interruption")
		}
	})

	t.Run("notes degraded robots policy", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()
		report.PolicyDegraded = true

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "allow-all") {
			t.Error("expected output to note the allow-all policy")
		}
	})

	t.Run("hides failures section without showEmpty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createCleanReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "FAILURES") {
			t.Error("should not show failures section without showEmpty")
		}
	})

	t.Run("shows empty sections with showEmpty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(true))
		report := createCleanReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No failures") {
			t.Error("expected 'No failures' message with showEmpty")
		}
	})

	t.Run("writes footer with link", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Report generated by wikidump") {
			t.Error("expected footer with generator name")
		}
		if !strings.Contains(output, "https://github.com/yomogi/wikidump") {
			t.Error("expected footer with repository link")
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Verify it's valid JSON
		var parsed model.CrawlReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.Host != "wiki.example.test" {
			t.Errorf("expected host %q, got %q", "wiki.example.test", parsed.Host)
		}
		if parsed.Visited != 3 {
			t.Errorf("expected visited count 3, got %d", parsed.Visited)
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		// Compact JSON should be on fewer lines
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) > 1 {
			t.Errorf("expected compact output (1 line), got %d lines", len(lines))
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		// Pretty printed JSON should have multiple lines
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) < 5 {
			t.Errorf("expected multi-line output, got %d lines", len(lines))
		}
	})

	t.Run("report round trips for comparison", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed model.CrawlReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if len(parsed.VisitedURLs) != 3 {
			t.Errorf("expected 3 visited URLs, got %d", len(parsed.VisitedURLs))
		}
		if len(parsed.Failures) != 1 {
			t.Fatalf("expected 1 failure, got %d", len(parsed.Failures))
		}
		if parsed.Failures[0].Kind != model.FailureHTTPStatus {
			t.Errorf("expected failure kind %q, got %q",
				model.FailureHTTPStatus, parsed.Failures[0].Kind)
		}
	})
}

// TestWithIndent tests the WithIndent JSON option.
func TestWithIndent(t *testing.T) {
	t.Parallel()

	t.Run("uses custom prefix and indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithIndent(">>", "\t"))
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		// Should have multiple lines with custom formatting
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) < 5 {
			t.Errorf("expected multi-line output, got %d lines", len(lines))
		}
		// Check that prefix is used
		if !strings.Contains(output, ">>") {
			t.Error("expected custom prefix '>>' in output")
		}
		// Check that tab indent is used
		if !strings.Contains(output, "\t") {
			t.Error("expected tab indentation in output")
		}
	})
}

// TestMultiWriter tests writing to multiple outputs.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var buf1, buf2 bytes.Buffer
		w1 := NewSimpleWriter(&buf1)
		w2 := NewJSONWriter(&buf2)

		multi := NewMultiWriter(w1, w2)
		report := createTestReport()

		n, err := multi.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n == 0 {
			t.Error("expected non-zero bytes written")
		}

		// Check both buffers have content
		if buf1.Len() == 0 {
			t.Error("expected buf1 to have content")
		}
		if buf2.Len() == 0 {
			t.Error("expected buf2 to have content")
		}

		// Verify formats are different
		if strings.Contains(buf1.String(), "{") {
			t.Error("expected buf1 (simple) to not be JSON")
		}
		if !strings.Contains(buf2.String(), "{") {
			t.Error("expected buf2 (JSON) to contain JSON")
		}
	})

	t.Run("handles empty writers list", func(t *testing.T) {
		t.Parallel()

		multi := NewMultiWriter()
		report := createTestReport()

		n, err := multi.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 bytes written for empty writers, got %d", n)
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Wikidump Crawl Report") {
			t.Error("expected output to contain H1 header")
		}
		if !strings.Contains(output, "wiki.example.test") {
			t.Error("expected output to contain site host")
		}
	})

	t.Run("writes crawl summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Crawl Summary") {
			t.Error("expected output to contain crawl summary header")
		}
		if !strings.Contains(output, "Visited") {
			t.Error("expected output to contain visited counter")
		}
	})

	t.Run("includes pie chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "pie") {
			t.Error("expected output to contain mermaid pie chart")
		}
	})

	t.Run("writes failures table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Failures") {
			t.Error("expected output to contain failures header")
		}
		if !strings.Contains(output, "unexpected status 500") {
			t.Error("expected output to contain failure message")
		}
	})

	t.Run("includes GitHub alert for failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!IMPORTANT]") {
			t.Error("expected output to contain IMPORTANT alert for failures")
		}
		if !strings.Contains(output, "http_status: 1") {
			t.Error("expected alert to break failures down by kind")
		}
	})

	t.Run("handles interrupted report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()
		report.Interrupted = true

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Interrupted") {
			t.Error("expected output to indicate interruption")
		}
		if !strings.Contains(output, "[!WARNING]") {
			t.Error("expected WARNING alert for interrupted crawl")
		}
	})

	t.Run("notes degraded robots policy", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()
		report.PolicyDegraded = true

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!CAUTION]") {
			t.Error("expected CAUTION alert for degraded policy")
		}
	})

	t.Run("handles report with no failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createCleanReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No failures recorded") {
			t.Error("expected message about no failures")
		}
		if !strings.Contains(output, "[!TIP]") {
			t.Error("expected TIP alert for clean crawl")
		}
	})

	t.Run("writes footer with link", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "https://github.com/yomogi/wikidump") {
			t.Error("expected footer with repository link")
		}
	})
}

// TestTruncateString tests the string truncation helper.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a longer string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"ab", 5, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			result := truncateString(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateString(%q, %d) = %q, want %q",
					tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}
