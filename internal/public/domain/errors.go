package domain

import "errors"

var (
	// ErrNotFound is returned for missing, deleted or inactive surveys.
	ErrNotFound = errors.New("survey not found")

	// ErrInvalidArgument rejects malformed submissions before any write.
	ErrInvalidArgument = errors.New("invalid argument")
)
