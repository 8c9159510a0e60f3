package storage

import "errors"

// Shared store errors. Price history, trades and equity curves are
// append-only: a record is inserted once and never updated in place.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a record whose key already
	// exists. Re-running an ingest or a persisted backtest hits this rather
	// than silently overwriting history.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
