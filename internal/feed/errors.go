package feed

import "errors"

// Sentinel kinds for feed errors.
var (
	ErrFixture    = errors.New("invalid fixture")
	ErrNotStarted = errors.New("feed not started")
	ErrNoSuchRun  = errors.New("feed has no such run")
)
