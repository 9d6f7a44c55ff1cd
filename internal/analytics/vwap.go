package analytics

import (
	"sort"

	"github.com/guttosm/tickpulse/internal/domain/models"
)

// VWAP computes sum(size*close) / volumes[id] for every identity in volumes.
//
// The reference volume is supplied by the caller and may come from a wider
// scope than t (see Volumes). Rows of other identities are skipped before
// summation. An identity with no rows in t, or with a non-positive reference
// volume, is absent from the result; absence means "no data", not zero.
func VWAP(t *Table, volumes map[string]float64) map[string]float64 {
	weighted := make(map[string]float64, len(volumes))
	for i := 0; i < t.Len(); i++ {
		id := t.IDs[i]
		if _, ok := volumes[id]; !ok {
			continue
		}
		weighted[id] += t.Sizes[i] * t.Closes[i]
	}

	out := make(map[string]float64, len(weighted))
	for id, sum := range weighted {
		v := volumes[id]
		if v <= 0 {
			continue
		}
		out[id] = sum / v
	}
	return out
}

// NewVWAPReport runs VWAP and lists the requested identities that produced no
// price, sorted.
func NewVWAPReport(t *Table, volumes map[string]float64) models.VWAPReport {
	prices := VWAP(t, volumes)
	missing := make([]string, 0)
	for id := range volumes {
		if _, ok := prices[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return models.VWAPReport{Prices: prices, Missing: missing}
}
