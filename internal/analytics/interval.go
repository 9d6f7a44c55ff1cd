package analytics

import (
	"fmt"
	"sort"
)

// IntervalIndex maps each traded minute to the distinct identities that
// traded in it. Minutes are kept ascending so a range query is two binary
// searches plus a union over the selected buckets.
//
// The zero value is unbuilt and rejects queries with ErrIndexNotBuilt.
type IntervalIndex struct {
	minutes []int
	ids     [][]string
	built   bool
}

// BuildIntervalIndex groups t by minute. The returned index is immutable.
func BuildIntervalIndex(t *Table) *IntervalIndex {
	groups := make(map[int]map[string]struct{})
	for i := 0; i < t.Len(); i++ {
		m := t.Minutes[i]
		set, ok := groups[m]
		if !ok {
			set = make(map[string]struct{})
			groups[m] = set
		}
		set[t.IDs[i]] = struct{}{}
	}

	minutes := make([]int, 0, len(groups))
	for m := range groups {
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)

	ids := make([][]string, len(minutes))
	for i, m := range minutes {
		bucket := make([]string, 0, len(groups[m]))
		for id := range groups[m] {
			bucket = append(bucket, id)
		}
		sort.Strings(bucket)
		ids[i] = bucket
	}

	return &IntervalIndex{minutes: minutes, ids: ids, built: true}
}

// Built reports whether the index can serve queries.
func (x *IntervalIndex) Built() bool {
	return x != nil && x.built
}

// Len returns the number of distinct minutes with at least one trade.
func (x *IntervalIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.minutes)
}

// Minutes returns a copy of the indexed minutes, ascending.
func (x *IntervalIndex) Minutes() []int {
	if x == nil {
		return nil
	}
	return append([]int(nil), x.minutes...)
}

// StocksInInterval returns the sorted, deduplicated identities that traded in
// any minute m with start <= m <= end. Both bounds are inclusive. An interval
// without trades yields an empty slice.
func (x *IntervalIndex) StocksInInterval(start, end int) ([]string, error) {
	if !x.Built() {
		return nil, ErrIndexNotBuilt
	}
	if start > end {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, start, end)
	}

	lo := sort.SearchInts(x.minutes, start)
	hi := sort.Search(len(x.minutes), func(i int) bool { return x.minutes[i] > end })

	if hi-lo == 1 {
		return append([]string(nil), x.ids[lo]...), nil
	}

	set := make(map[string]struct{})
	for _, bucket := range x.ids[lo:hi] {
		for _, id := range bucket {
			set[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
