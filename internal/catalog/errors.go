package catalog

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	// ErrNotFound is returned by single-record lookups.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable wraps any failure to reach the backing store.
	ErrUnavailable = errors.New("catalog unavailable")
	// ErrInvalidRecord is returned when a write is missing required fields.
	ErrInvalidRecord = errors.New("invalid record")
)
