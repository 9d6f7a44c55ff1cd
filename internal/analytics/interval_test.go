package analytics

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/tickpulse/internal/domain/models"
)

func TestIntervalIndex_Scenario(t *testing.T) {
	idx := BuildIntervalIndex(scenarioTable())

	got, err := idx.StocksInInterval(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A.", "B."}, got)

	got, err = idx.StocksInInterval(2, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	got, err = idx.StocksInInterval(3, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"A."}, got)

	assert.Equal(t, []int{1, 3}, idx.Minutes())
	assert.Equal(t, 2, idx.Len())
}

func TestIntervalIndex_Bounds(t *testing.T) {
	idx := BuildIntervalIndex(NewTable([]models.Trade{
		{Minute: 0, RootSymbol: "X"},
		{Minute: 396, RootSymbol: "Y"},
		{Minute: 200, RootSymbol: "Z", Suffix: "A"},
		{Minute: 200, RootSymbol: "Z", Suffix: "A"},
	}))

	cases := []struct {
		name       string
		start, end int
		want       []string
	}{
		{name: "whole day", start: 0, end: 396, want: []string{"X.", "Y.", "Z.A"}},
		{name: "inclusive start", start: 0, end: 0, want: []string{"X."}},
		{name: "inclusive end", start: 201, end: 396, want: []string{"Y."}},
		{name: "dedup within minute", start: 200, end: 200, want: []string{"Z.A"}},
		{name: "before domain", start: -10, end: -1, want: []string{}},
		{name: "after domain", start: 397, end: 1000, want: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := idx.StocksInInterval(tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIntervalIndex_InvalidRange(t *testing.T) {
	idx := BuildIntervalIndex(scenarioTable())
	_, err := idx.StocksInInterval(5, 4)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestIntervalIndex_NotBuilt(t *testing.T) {
	var zero IntervalIndex
	_, err := zero.StocksInInterval(0, 1)
	require.ErrorIs(t, err, ErrIndexNotBuilt)

	var nilIdx *IntervalIndex
	_, err = nilIdx.StocksInInterval(0, 1)
	require.ErrorIs(t, err, ErrIndexNotBuilt)
	assert.False(t, nilIdx.Built())
}

func TestIntervalIndex_EmptyTable(t *testing.T) {
	idx := BuildIntervalIndex(NewTable(nil))
	require.True(t, idx.Built())
	got, err := idx.StocksInInterval(0, 396)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// bruteForce answers the same query with a scan over every row.
func bruteForce(tbl *Table, start, end int) []string {
	set := map[string]struct{}{}
	for i, m := range tbl.Minutes {
		if m >= start && m <= end {
			set[tbl.IDs[i]] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func union(a, b []string) []string {
	set := map[string]struct{}{}
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		set[s] = struct{}{}
	}
	return sortedKeys(set)
}

func TestIntervalIndex_Properties(t *testing.T) {
	tbl := randomTable(42, 2000, 12, 397)
	idx := BuildIntervalIndex(tbl)
	rebuilt := BuildIntervalIndex(tbl)
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 300; i++ {
		b := rng.Intn(397)
		a := rng.Intn(b + 1)

		got, err := idx.StocksInInterval(a, b)
		require.NoError(t, err)
		require.Equal(t, bruteForce(tbl, a, b), got, "[%d, %d]", a, b)

		again, err := rebuilt.StocksInInterval(a, b)
		require.NoError(t, err)
		require.Equal(t, got, again, "rebuild must answer identically")

		c := a + rng.Intn(b-a+1)
		sub, err := idx.StocksInInterval(a, c)
		require.NoError(t, err)
		require.Subset(t, got, sub, "[%d,%d] ⊇ [%d,%d]", a, b, a, c)

		if c < b {
			right, err := idx.StocksInInterval(c+1, b)
			require.NoError(t, err)
			require.Equal(t, got, union(sub, right), "split at %d", c)
		}

		single, err := idx.StocksInInterval(a, a)
		require.NoError(t, err)
		require.Equal(t, bruteForce(tbl, a, a), single)
	}
}

func BenchmarkStocksInInterval(b *testing.B) {
	idx := BuildIntervalIndex(randomTable(1, 200000, 26, 397))
	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hi := rng.Intn(397)
		lo := rng.Intn(hi + 1)
		if _, err := idx.StocksInInterval(lo, hi); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuildIntervalIndex(b *testing.B) {
	tbl := randomTable(1, 200000, 26, 397)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildIntervalIndex(tbl)
	}
}
