package analytics

import (
	"math/rand"

	"github.com/guttosm/tickpulse/internal/domain/models"
)

// scenarioTable is the three-trade example: A trades at minutes 1 and 3, B at 1.
func scenarioTable() *Table {
	return NewTable([]models.Trade{
		{Minute: 1, RootSymbol: "A", Size: 10, Close: 5},
		{Minute: 1, RootSymbol: "B", Size: 5, Close: 2},
		{Minute: 3, RootSymbol: "A", Size: 20, Close: 6},
	})
}

// randomTable builds n trades over a small universe of symbols and minutes.
func randomTable(seed int64, n, symbols, minutes int) *Table {
	rng := rand.New(rand.NewSource(seed))
	suffixes := []string{"", "A", "B"}
	trades := make([]models.Trade, n)
	for i := range trades {
		trades[i] = models.Trade{
			Minute:     rng.Intn(minutes),
			RootSymbol: string(rune('A' + rng.Intn(symbols))),
			Suffix:     suffixes[rng.Intn(len(suffixes))],
			Close:      1 + rng.Float64()*100,
			Size:       float64(rng.Intn(1000)),
		}
	}
	return NewTable(trades)
}
