package models

import "time"

// Trade represents a single executed trade as read from a partition file
// or from the trades table.
//
// Column mapping (parquet / Postgres):
//  1. date       → Date
//  2. minute     → Minute
//  3. sym_root   → RootSymbol
//  4. sym_suffix → Suffix (empty when absent)
//  5. close      → Close
//  6. size       → Size
type Trade struct {
	Date       time.Time
	Minute     int
	RootSymbol string
	Suffix     string
	Close      float64
	Size       float64
}
