package extract

import "errors"

// Extraction errors.
//
// Design decision: We use package-level sentinel errors rather than typed
// errors because callers only ever branch on identity: both conditions
// mean "skip this page, keep crawling". errors.Is() is all they need.
var (
	// ErrNoContentRegion is returned when neither the primary nor the
	// fallback content selector matches. The page is not an article
	// (a redirect stub, an error page, a skin without the expected
	// structure) and yields no text and no links.
	ErrNoContentRegion = errors.New("no content region found: page has no recognizable article body")

	// ErrMalformed is returned when the HTML cannot be parsed at all.
	ErrMalformed = errors.New("malformed page: HTML could not be parsed")
)
