package scoring

import "errors"

var (
	// ErrInvalidBenchmarks is returned when a benchmark document fails to load.
	ErrInvalidBenchmarks = errors.New("invalid benchmark table")
	// ErrUnknownFPS is returned when no frame rate is recorded for a query.
	ErrUnknownFPS = errors.New("no fps data")
)
