// Package model defines the core data structures used throughout wikidump.
//
// This package contains the following main types:
//   - Page: Represents one extracted wiki article with its outbound links
//   - CrawlReport: The end-of-run summary of a crawl
//   - FailureRecord: A single per-page failure kept for after-the-fact diagnosis
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, extract, report) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// for the compare subcommand, which diffs two saved reports.
package model
