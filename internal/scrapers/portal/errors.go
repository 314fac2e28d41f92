package portal

import "errors"

var (
	// ErrFetchFailure means the accessor could not retrieve a page at all.
	ErrFetchFailure = errors.New("portal: fetch failure")
	// ErrNotYetRendered means a page was retrieved but the marker the extractor
	// waits for is not in it yet, the page should be fetched again.
	ErrNotYetRendered = errors.New("portal: page not yet rendered")
	// ErrMalformedMarkup means a region of an otherwise ready page could not be parsed.
	ErrMalformedMarkup = errors.New("portal: malformed markup")
)
