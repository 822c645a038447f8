package storage

import "errors"

// Storage errors shared by all implementations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	// For FindLatestBefore it is the recognized first-run condition,
	// not a failure.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when attempting to save a snapshot
	// for a day that already has one. Snapshots are never overwritten.
	ErrDuplicateKey = errors.New("duplicate key: snapshots are append-only")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
