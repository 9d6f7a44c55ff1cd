package analytics

import "errors"

var (
	// ErrInvalidRange is returned when an interval query has start > end.
	ErrInvalidRange = errors.New("invalid interval: start is after end")

	// ErrIndexNotBuilt is returned when querying a zero-value IntervalIndex.
	ErrIndexNotBuilt = errors.New("interval index is not built")

	// ErrInvalidK is returned by TopK for negative k.
	ErrInvalidK = errors.New("k must be non-negative")
)
