// Package report provides crawl report output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration and for
//     the compare subcommand
//   - MarkdownWriter: Markdown output for documentation and sharing
//
// Design decision: We separate report writing from the report data
// structure (which lives in the model package) to follow the single
// responsibility principle. This allows adding new output formats without
// modifying the core data structure.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-destination output.
package report
