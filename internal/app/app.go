package app

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tickpulse/config"
	"github.com/guttosm/tickpulse/internal/api"
	"github.com/guttosm/tickpulse/internal/metrics"
	"github.com/guttosm/tickpulse/internal/service"
)

// InitializeApp loads the dataset named by cfg, builds the interval index
// once and returns the configured router plus a cleanup func for shutdown.
//
// Wiring: trade source -> analytics table -> query service (index, metrics)
// -> handlers -> router, with /healthz and /readyz registered last. When the
// dataset comes from Postgres the readiness probe also pings the database.
func InitializeApp(ctx context.Context, cfg config.Config) (*gin.Engine, func(), error) {
	src, db, err := NewTradeSource(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
	}

	table, err := LoadTable(ctx, src)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	collector := metrics.New()
	svc := service.NewQueryService(table, collector)

	handler := api.NewHandler(svc, cfg.Data.TopK)
	router := api.NewRouter(handler, collector.Handler())

	api.NewHealthHandler(svc.Ready, pinger(db)).Register(router)

	return router, cleanup, nil
}

func pinger(db *sql.DB) func() error {
	if db == nil {
		return nil
	}
	return db.Ping
}
