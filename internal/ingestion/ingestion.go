package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/tickpulse/internal/domain/models"
	"github.com/guttosm/tickpulse/internal/logger"
	"github.com/guttosm/tickpulse/internal/partition"
	"github.com/guttosm/tickpulse/internal/storage"
)

const (
	defaultBatchSize = 5000
	maxParallel      = 16
)

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.TradesRepository {
	return storage.NewTradesRepository(db)
}

// ParquetSource loads trades from a single parquet file or from the root of a
// symbol partitioning ("<root>/sym_root=AAPL/data.parquet").
type ParquetSource struct {
	Path     string
	Prefix   string
	Parallel int
}

// NewParquetSource builds a source; an empty prefix means partition.DefaultPrefix.
func NewParquetSource(path, prefix string, parallel int) *ParquetSource {
	if prefix == "" {
		prefix = partition.DefaultPrefix
	}
	return &ParquetSource{Path: path, Prefix: prefix, Parallel: parallel}
}

// LoadTrades reads every trade under Path. Partitions are read concurrently;
// the result is ordered by partition name so repeated loads agree. The first
// failing partition cancels the rest and its error is returned.
func (s *ParquetSource) LoadTrades(ctx context.Context) ([]models.Trade, error) {
	st, err := os.Stat(s.Path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", s.Path, err)
	}
	if !st.IsDir() {
		start := time.Now()
		trades, err := readTradeFile(ctx, s.Path, nil)
		if err != nil {
			return nil, fmt.Errorf("file %s: %w", s.Path, err)
		}
		logger.L().Info().Str("file", s.Path).Int("rows", len(trades)).Dur("elapsed", time.Since(start)).Msg("trades loaded")
		return trades, nil
	}

	mapping, err := partition.Traverse(s.Path, s.Prefix)
	if err != nil {
		return nil, err
	}
	if len(mapping) == 0 {
		return nil, fmt.Errorf("no partitions with prefix %q under %s", s.Prefix, s.Path)
	}
	return s.loadMapping(ctx, mapping)
}

func (s *ParquetSource) loadMapping(ctx context.Context, mapping partition.Mapping) ([]models.Trade, error) {
	names := mapping.Names()
	parts := make([][]models.Trade, len(names))
	limit := effectiveParallel(s.Parallel)

	logger.L().Info().Int("partitions", len(names)).Int("max_parallel", limit).Str("root", s.Path).Msg("load start")
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		g.Go(func() error {
			file := mapping[name]
			trades, err := readTradeFile(gctx, file, partitionKeys(s.Prefix, name))
			if err != nil {
				logger.L().Error().Str("partition", name).Err(err).Msg("partition failed")
				return fmt.Errorf("partition %s (%s): %w", name, file, err)
			}
			parts[i] = trades
			logger.L().Debug().Str("partition", name).Int("rows", len(trades)).Msg("partition loaded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]models.Trade, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	logger.L().Info().Int("partitions", len(names)).Int("rows", total).Dur("elapsed", time.Since(start)).Msg("load done")
	return out, nil
}

// partitionKeys turns a "<column>=" prefix and a partition name into the key
// map used to fill columns absent from the file.
func partitionKeys(prefix, name string) map[string]string {
	col := prefix
	if n := len(col); n > 0 && col[n-1] == '=' {
		col = col[:n-1]
	}
	return map[string]string{col: name}
}

// effectiveParallel clamps the requested concurrency; 0 means min(NumCPU, maxParallel).
func effectiveParallel(requested int) int {
	if requested > 0 {
		if requested > maxParallel {
			return maxParallel
		}
		return requested
	}
	if c := runtime.NumCPU(); c < maxParallel {
		return c
	}
	return maxParallel
}

// IngestPartitions copies every partition under root into Postgres.
//
// Behavior:
//   - Discovers partitions with partition.Traverse.
//   - Skips partitions already recorded in the ingestion log unless force is set;
//     with force, existing rows of the partition are deleted first.
//   - Inserts rows in batches of defaultBatchSize and records the row count.
//   - The first failing partition cancels the rest.
func IngestPartitions(ctx context.Context, root, prefix string, db *sql.DB, parallel int, force bool) error {
	repo := repoCtor(db)
	if prefix == "" {
		prefix = partition.DefaultPrefix
	}

	mapping, err := partition.Traverse(root, prefix)
	if err != nil {
		return err
	}
	if len(mapping) == 0 {
		return fmt.Errorf("no partitions with prefix %q under %s", prefix, root)
	}

	names := mapping.Names()
	limit := effectiveParallel(parallel)
	logger.L().Info().Int("partitions", len(names)).Int("max_parallel", limit).Str("root", root).Msg("ingestion start")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		g.Go(func() error {
			start := time.Now()
			file := mapping[name]
			base := filepath.Base(file)

			exists, err := repo.HasIngestionForPartition(gctx, name)
			if err != nil {
				return fmt.Errorf("partition %s: check ingestion log: %w", name, err)
			}
			if exists && !force {
				logger.L().Info().Int("idx", i+1).Int("total", len(names)).Str("partition", name).Bool("skipped", true).Msg("already ingested")
				return nil
			}
			if exists {
				if err := repo.DeletePartition(gctx, name); err != nil {
					return fmt.Errorf("partition %s: delete existing: %w", name, err)
				}
			}

			trades, err := readTradeFile(gctx, file, partitionKeys(prefix, name))
			if err != nil {
				logger.L().Error().Str("partition", name).Err(err).Msg("partition failed")
				return fmt.Errorf("partition %s (%s): %w", name, file, err)
			}
			for lo := 0; lo < len(trades); lo += defaultBatchSize {
				hi := min(lo+defaultBatchSize, len(trades))
				if err := repo.InsertTradesBatch(gctx, name, trades[lo:hi]); err != nil {
					return fmt.Errorf("partition %s: insert rows %d-%d: %w", name, lo, hi, err)
				}
			}
			if err := repo.UpsertIngestionLog(gctx, name, base, len(trades)); err != nil {
				return fmt.Errorf("partition %s: upsert ingestion log: %w", name, err)
			}

			logger.L().Info().Int("idx", i+1).Int("total", len(names)).Str("partition", name).Int("rows", len(trades)).Dur("elapsed", time.Since(start)).Bool("force", force).Msg("partition done")
			return nil
		})
	}

	return g.Wait()
}
