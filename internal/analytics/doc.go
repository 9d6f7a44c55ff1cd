// Package analytics holds the in-memory query core: the columnar trade table,
// the Top-K and VWAP aggregators and the minute interval index.
//
// Everything here operates on an already loaded Table and performs no I/O.
// A Table and a built IntervalIndex are never mutated after construction and
// can be shared by any number of goroutines without locking.
package analytics
