package storage

import (
	"context"
	"database/sql"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/guttosm/tickpulse/internal/domain/models"
)

// TradesRepository defines contract for DB operations.
type TradesRepository interface {
	InsertTradesBatch(ctx context.Context, partition string, trades []models.Trade) error
	LoadTrades(ctx context.Context) ([]models.Trade, error)
	HasIngestionForPartition(ctx context.Context, partition string) (bool, error)
	UpsertIngestionLog(ctx context.Context, partition, filename string, rowCount int) error
	DeletePartition(ctx context.Context, partition string) error
}

type tradesRepository struct {
	db *sql.DB
}

func NewTradesRepository(db *sql.DB) TradesRepository {
	return &tradesRepository{db: db}
}

// InsertTradesBatch copies trades of one partition into the trades table in a
// single transaction.
func (r *tradesRepository) InsertTradesBatch(ctx context.Context, partition string, trades []models.Trade) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"trades",
		"partition",
		"trade_date",
		"minute",
		"sym_root",
		"sym_suffix",
		"close",
		"size",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	// empty suffix is stored as NULL, matching an absent column value
	toNullSuffix := func(s string) interface{} {
		if s == "" {
			return nil
		}
		return s
	}

	for _, rec := range trades {
		if _, err := stmt.ExecContext(ctx,
			partition,
			rec.Date,
			rec.Minute,
			rec.RootSymbol,
			toNullSuffix(rec.Suffix),
			rec.Close,
			rec.Size,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// LoadTrades reads the whole trades table, ordered by partition so the
// resulting table is deterministic.
func (r *tradesRepository) LoadTrades(ctx context.Context) ([]models.Trade, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT trade_date, minute, sym_root, sym_suffix, close, size
		FROM trades
		ORDER BY partition, id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Trade
	for rows.Next() {
		var (
			t      models.Trade
			suffix sql.NullString
		)
		if err := rows.Scan(&t.Date, &t.Minute, &t.RootSymbol, &suffix, &t.Close, &t.Size); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		if suffix.Valid {
			t.Suffix = suffix.String
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HasIngestionForPartition checks if a partition was already ingested.
func (r *tradesRepository) HasIngestionForPartition(ctx context.Context, partition string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM ingestion_log WHERE partition = $1)`, partition).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertIngestionLog records (or updates) an ingestion entry for a partition.
func (r *tradesRepository) UpsertIngestionLog(ctx context.Context, partition, filename string, rowCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingestion_log (partition, filename, row_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (partition)
		DO UPDATE SET filename = EXCLUDED.filename,
					  row_count = EXCLUDED.row_count,
					  ingested_at = NOW()
	`, partition, filename, rowCount)
	return err
}

// DeletePartition removes all trades of a partition.
func (r *tradesRepository) DeletePartition(ctx context.Context, partition string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE partition = $1`, partition)
	return err
}

// Source adapts a repository to the trade source used by the query engine.
type Source struct {
	Repo TradesRepository
}

// LoadTrades implements the trade source contract.
func (s Source) LoadTrades(ctx context.Context) ([]models.Trade, error) {
	trades, err := s.Repo.LoadTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trades from postgres: %w", err)
	}
	return trades, nil
}
