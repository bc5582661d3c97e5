package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable is returned when the underlying store cannot be
	// reached or a read fails for reasons other than a missing record.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrCancelled is returned when the request context was cancelled while a
	// read was in flight.
	ErrCancelled = errors.New("request has been cancelled")
)
