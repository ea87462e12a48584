package mlbstats

import crerr "github.com/cockroachdb/errors"

// The fetch layer distinguishes exactly two failure classes. Both are
// fatal for the fetch that produced them and nothing else: the caller
// keeps its last-known-good snapshot. Anything below the top-level
// records container is the normalizer's problem, never an error here.
var (
	// ErrTransport marks an unreachable host or a non-success status.
	ErrTransport = crerr.New("standings provider transport failure")

	// ErrSchema marks a response whose top-level records container is
	// missing or not list-shaped.
	ErrSchema = crerr.New("standings provider schema violation")
)
