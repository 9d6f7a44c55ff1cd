package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/tickpulse/config"
	"github.com/guttosm/tickpulse/internal/analytics"
	"github.com/guttosm/tickpulse/internal/domain/models"
	"github.com/guttosm/tickpulse/internal/ingestion"
	"github.com/guttosm/tickpulse/internal/logger"
	"github.com/guttosm/tickpulse/internal/storage"
)

// TradeSource yields the full trade set to analyse.
type TradeSource interface {
	LoadTrades(ctx context.Context) ([]models.Trade, error)
}

// NewTradeSource picks the source named by cfg.Data.Source. For the postgres
// source the opened pool is returned too and the caller owns closing it.
func NewTradeSource(cfg config.Config) (TradeSource, *sql.DB, error) {
	switch cfg.Data.Source {
	case config.SourcePostgres:
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		return storage.Source{Repo: storage.NewTradesRepository(db)}, db, nil
	case config.SourceParquet, "":
		return ingestion.NewParquetSource(cfg.Data.Path, cfg.Data.PartitionPrefix, cfg.Data.LoadParallel), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown trade source %q", cfg.Data.Source)
	}
}

// LoadTable reads every trade from src into a columnar table.
func LoadTable(ctx context.Context, src TradeSource) (*analytics.Table, error) {
	start := time.Now()
	trades, err := src.LoadTrades(ctx)
	if err != nil {
		return nil, err
	}
	table := analytics.NewTable(trades)
	logger.L().Info().
		Int("rows", table.Len()).
		Int("identities", table.Identities()).
		Dur("elapsed", time.Since(start)).
		Msg("dataset loaded")
	return table, nil
}
