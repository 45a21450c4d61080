// Package main provides the entry point for the wikidump CLI.
//
// Wikidump archives a single MediaWiki-style site as plain text files.
// It crawls article pages within one host, extracts their readable text,
// and writes one .txt file per page.
//
// Usage:
//
//	wikidump crawl https://example.fandom.com/wiki/Main_Page
//	wikidump compare old.json new.json
//
// See --help for all available options.
package main

// main is the entry point for wikidump.
func main() {
	Execute()
}
