package app

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"text/tabwriter"

	"github.com/guttosm/tickpulse/internal/analytics"
	"github.com/guttosm/tickpulse/internal/bench"
	"github.com/guttosm/tickpulse/internal/domain/models"
)

// AnalyzeOptions tunes the analyze run.
type AnalyzeOptions struct {
	Runs      int   // repeat count of every timed step
	K         int   // size of the most-traded ranking
	DomainMax int   // random intervals are drawn from [0, DomainMax]
	Seed      int64 // seed of the interval generator
}

// Analyze times the three queries over table and prints the results to w:
// the Top-K ranking, the VWAP of those instruments, the index build and a
// batch of random interval lookups with one sample answer.
func Analyze(w io.Writer, table *analytics.Table, opts AnalyzeOptions) error {
	if opts.DomainMax < 0 {
		return fmt.Errorf("minute domain must be non-negative, got %d", opts.DomainMax)
	}
	var top []models.Ranking
	res, err := bench.Repeat(opts.Runs, func() (err error) {
		top, err = analytics.TopK(table, opts.K)
		return err
	})
	if err != nil {
		return fmt.Errorf("top-k: %w", err)
	}
	fmt.Fprintf(w, "Top %d most traded: %s\n", opts.K, res)
	if err := printRankings(w, top); err != nil {
		return err
	}

	volumes := analytics.Volumes(top)
	var prices map[string]float64
	res, _ = bench.Repeat(opts.Runs, func() error {
		prices = analytics.VWAP(table, volumes)
		return nil
	})
	fmt.Fprintf(w, "\nVWAP of the top %d: %s\n", opts.K, res)
	if err := printPrices(w, top, prices); err != nil {
		return err
	}

	var index *analytics.IntervalIndex
	res, _ = bench.Repeat(opts.Runs, func() error {
		index = analytics.BuildIntervalIndex(table)
		return nil
	})
	fmt.Fprintf(w, "\nInterval index (%d minutes): %s\n", index.Len(), res)

	rng := rand.New(rand.NewSource(opts.Seed))
	var start, end int
	var stocks []string
	res, err = bench.Repeat(opts.Runs, func() (err error) {
		start, end = bench.RandomInterval(rng, opts.DomainMax)
		stocks, err = index.StocksInInterval(start, end)
		return err
	})
	if err != nil {
		return fmt.Errorf("interval: %w", err)
	}
	fmt.Fprintf(w, "Random interval queries: %s\n", res)
	fmt.Fprintf(w, "Sample [%d, %d]: %d stocks\n%s\n", start, end, len(stocks), strings.Join(stocks, " "))
	return nil
}

func printRankings(w io.Writer, top []models.Ranking) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTOTAL SIZE")
	for _, r := range top {
		fmt.Fprintf(tw, "%s\t%.0f\n", r.ID, r.TotalSize)
	}
	return tw.Flush()
}

func printPrices(w io.Writer, top []models.Ranking, prices map[string]float64) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVWAP")
	for _, r := range top {
		if p, ok := prices[r.ID]; ok {
			fmt.Fprintf(tw, "%s\t%.4f\n", r.ID, p)
		}
	}
	return tw.Flush()
}
