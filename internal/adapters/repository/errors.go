package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNoSuchRun = errors.New("run index out of range")
	ErrNoTarget  = errors.New("no run targeted for metrics")
	ErrLate      = errors.New("tuple arrived after delivery completed")
	ErrUnopened  = errors.New("tuple arrived before its count announcement")
)
