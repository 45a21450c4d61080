// Package extract turns fetched wiki HTML into article text and links.
//
// # Architecture
//
// Extraction runs in a fixed order for every page:
//
//  1. Locate the article content region via CSS selectors, primary
//     div.mw-parser-output with fallback div#mw-content-text.
//  2. Scan the region for links BEFORE anything is removed. Navigation
//     boxes and infoboxes are useless as text but their links still lead
//     to real articles, so discovery must see the untouched region.
//  3. Strip non-article substructures (scripts, styles, infoboxes,
//     tables of contents, navboxes) from the region.
//  4. Flatten what remains to plain text with line breaks at block
//     boundaries, then normalize the result.
//
// Design decision: We select the MediaWiki content region instead of
// taking <body> text because:
//  1. Wiki chrome (sidebars, footers, edit links) would otherwise dominate
//     the archived text
//  2. The two selectors cover both modern and legacy MediaWiki skins
//  3. A page without either region carries no article and is skipped
//
// # Normalization
//
// Normalize applies NFC, trims every line, collapses interior whitespace
// runs, drops empty lines, and joins with single newlines. It is
// idempotent, so re-normalizing stored text never changes it.
//
// # Usage
//
//	page, err := extract.Extract(res.Body, res.FinalURL, filter.InScope)
//	if errors.Is(err, extract.ErrNoContentRegion) {
//		// not an article page; skip
//	}
package extract
