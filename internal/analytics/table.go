package analytics

import (
	"time"

	"github.com/guttosm/tickpulse/internal/domain/models"
)

// Table is a columnar view over a batch of trades. Column slices are parallel:
// index i of every slice describes the same trade. IDs is the derived
// instrument identity column.
//
// A Table is built once by NewTable and only read afterwards.
type Table struct {
	Dates    []time.Time
	Minutes  []int
	Roots    []string
	Suffixes []string
	IDs      []string
	Closes   []float64
	Sizes    []float64
}

// NewTable copies trades into columns and adds the identity column.
func NewTable(trades []models.Trade) *Table {
	n := len(trades)
	t := &Table{
		Dates:    make([]time.Time, n),
		Minutes:  make([]int, n),
		Roots:    make([]string, n),
		Suffixes: make([]string, n),
		IDs:      make([]string, n),
		Closes:   make([]float64, n),
		Sizes:    make([]float64, n),
	}
	for i, tr := range trades {
		t.Dates[i] = tr.Date
		t.Minutes[i] = tr.Minute
		t.Roots[i] = tr.RootSymbol
		t.Suffixes[i] = tr.Suffix
		t.IDs[i] = NormalizeIdentity(tr.RootSymbol, tr.Suffix)
		t.Closes[i] = tr.Close
		t.Sizes[i] = tr.Size
	}
	return t
}

// Len returns the number of rows. A nil table has no rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.IDs)
}

// TotalSize sums the size column.
func (t *Table) TotalSize() float64 {
	var total float64
	for i := 0; i < t.Len(); i++ {
		total += t.Sizes[i]
	}
	return total
}

// Identities returns the number of distinct instrument identities.
func (t *Table) Identities() int {
	seen := make(map[string]struct{})
	for i := 0; i < t.Len(); i++ {
		seen[t.IDs[i]] = struct{}{}
	}
	return len(seen)
}
