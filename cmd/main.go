package main

//
//  @title           tickpulse API
//  @version         1.0
//  @description     Trade analytics over minute-bar datasets: most traded, VWAP and interval lookups.
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        analytics
//  @tag.description Top-K, VWAP and minute interval queries
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/tickpulse/config"
	_ "github.com/guttosm/tickpulse/docs" // swagger docs
	"github.com/guttosm/tickpulse/internal/app"
	"github.com/guttosm/tickpulse/internal/ingestion"
	"github.com/guttosm/tickpulse/internal/logger"
	"github.com/guttosm/tickpulse/internal/partition"
)

// startServer starts the HTTP server in a goroutine and returns it.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown blocks until SIGINT or SIGTERM, then drains the server
// and runs cleanup.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runPartition discovers the partitions under root and writes the mapping
// next to it (data/trades -> data/trades.json).
func runPartition(w io.Writer, root, prefix string) error {
	mapping, err := partition.Traverse(root, prefix)
	if err != nil {
		return err
	}
	out, err := partition.MappingPath(root)
	if err != nil {
		return err
	}
	if err := partition.WriteMapping(out, mapping); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d partitions written to %s\n", len(mapping), out)
	return nil
}

// runAnalyze loads the configured dataset and prints the timed query report.
func runAnalyze(ctx context.Context, w io.Writer, cfg config.Config, opts app.AnalyzeOptions) error {
	src, db, err := app.NewTradeSource(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	start := time.Now()
	table, err := app.LoadTable(ctx, src)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Loaded %d trades in %.4fs\n\n", table.Len(), time.Since(start).Seconds())
	return app.Analyze(w, table, opts)
}

// runIngest copies every partition under root into Postgres.
func runIngest(ctx context.Context, cfg config.Config, root string, parallel int, force bool) error {
	db, err := app.InitPostgres(cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	return ingestion.IngestPartitions(ctx, root, cfg.Data.PartitionPrefix, db, parallel, force)
}

// main is the entry point of tickpulse.
//
// Modes (--mode):
//   - partition: write the sym_root partition map of --path.
//   - analyze:   load --path (or Postgres with --source postgres) and time the queries.
//   - ingest:    copy the partitions of --path into Postgres.
//   - api:       serve the queries over HTTP.
func main() {
	ctx := context.Background()

	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	mode := flag.String("mode", "analyze", "Mode: partition, analyze, ingest or api")
	path := flag.String("path", cfg.Data.Path, "Parquet file or partition root")
	prefix := flag.String("prefix", cfg.Data.PartitionPrefix, "Partition directory prefix")
	source := flag.String("source", cfg.Data.Source, "Trade source: parquet or postgres")
	runs := flag.Int("n", cfg.Data.BenchRuns, "Repeat count of every timed query")
	k := flag.Int("k", cfg.Data.TopK, "Size of the most traded ranking")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Seed of the random interval generator")
	parallel := flag.Int("parallel", cfg.Data.LoadParallel, "Partitions processed concurrently (0=auto)")
	force := flag.Bool("force", false, "Re-ingest partitions already in the ingestion log")
	port := flag.String("port", cfg.Server.Port, "Port for API mode")
	flag.Parse()

	cfg.Data.Path = *path
	cfg.Data.PartitionPrefix = *prefix
	cfg.Data.Source = *source
	cfg.Data.TopK = *k
	cfg.Data.LoadParallel = *parallel

	switch *mode {
	case "partition":
		if err := runPartition(os.Stdout, *path, *prefix); err != nil {
			logger.L().Fatal().Err(err).Str("path", *path).Msg("partition failed")
		}

	case "analyze":
		opts := app.AnalyzeOptions{Runs: *runs, K: *k, DomainMax: cfg.Data.MinuteDomainMax, Seed: *seed}
		if err := runAnalyze(ctx, os.Stdout, cfg, opts); err != nil {
			logger.L().Fatal().Err(err).Msg("analyze failed")
		}

	case "ingest":
		logger.L().Info().Str("path", *path).Bool("force", *force).Msg("running ingestion")
		if err := runIngest(ctx, cfg, *path, *parallel, *force); err != nil {
			logger.L().Fatal().Err(err).Msg("ingestion failed")
		}
		logger.L().Info().Msg("ingestion completed successfully")

	case "api":
		logger.L().Info().Str("source", cfg.Data.Source).Msg("starting API server")
		router, cleanup, err := app.InitializeApp(ctx, cfg)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
