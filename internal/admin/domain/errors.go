package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced survey does not exist.
	ErrNotFound = errors.New("survey not found")

	// ErrInvalidArgument rejects malformed input before any query runs.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCleanupInProgress is returned when a reconciliation run is
	// already holding the single-flight lock.
	ErrCleanupInProgress = errors.New("reconciliation already running")
)
