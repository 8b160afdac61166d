package platform

import "errors"

// Per-platform failure classes. The orchestrator converts all of these into
// an empty contribution plus a warning; none of them aborts a search.
var (
	// ErrBlocked means the page served an anti-bot challenge. Logged
	// distinctly so operators can see which retailers are currently hostile.
	ErrBlocked = errors.New("anti-bot challenge detected")

	// ErrNavTimeout means the page did not load in time.
	ErrNavTimeout = errors.New("navigation timed out")
)
