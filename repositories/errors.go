package repositories

import "errors"

var (
	// ErrNotFound is returned when no document matches the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)
