package analytics

import (
	"fmt"
	"sort"

	"github.com/guttosm/tickpulse/internal/domain/models"
)

// TopK sums trade size per instrument identity and returns the k largest,
// sorted by total size descending. Equal totals are ordered by identity so
// repeated calls agree. The result has min(k, distinct identities) entries.
func TopK(t *Table, k int) ([]models.Ranking, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}

	totals := make(map[string]float64)
	for i := 0; i < t.Len(); i++ {
		totals[t.IDs[i]] += t.Sizes[i]
	}

	out := make([]models.Ranking, 0, len(totals))
	for id, size := range totals {
		out = append(out, models.Ranking{ID: id, TotalSize: size})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSize != out[j].TotalSize {
			return out[i].TotalSize > out[j].TotalSize
		}
		return out[i].ID < out[j].ID
	})

	if k < len(out) {
		out = out[:k]
	}
	return out, nil
}

// Volumes turns a ranking into the reference-volume map expected by VWAP.
func Volumes(rankings []models.Ranking) map[string]float64 {
	out := make(map[string]float64, len(rankings))
	for _, r := range rankings {
		out[r.ID] = r.TotalSize
	}
	return out
}

// VolumesOf sums trade size over the whole table for each requested identity.
// Every requested identity is present in the result, with 0 when it never
// traded, so VWAP reports it as missing instead of dropping it silently.
func VolumesOf(t *Table, ids []string) map[string]float64 {
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		out[id] = 0
	}
	for i := 0; i < t.Len(); i++ {
		if _, ok := out[t.IDs[i]]; ok {
			out[t.IDs[i]] += t.Sizes[i]
		}
	}
	return out
}
