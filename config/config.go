package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=tickpulse
//	DATA_PATH=./data/trades.parquet
//	TRADE_SOURCE=parquet
//	TOP_K=20
//	BENCH_RUNS=10
//	MINUTE_DOMAIN_MAX=396
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
	Data     DataConfig     // Dataset location and query defaults
	Log      LogConfig      // Logger settings
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string
}

// PostgresConfig defines connection details for PostgreSQL.
// URL is the computed DSN used by database/sql.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// DataConfig describes where trades come from and the query defaults.
//
// Fields:
//   - Path: a single .parquet file or the root of a symbol partitioning.
//   - PartitionPrefix: directory prefix of partitions (default "sym_root=").
//   - Source: "parquet" (read Path) or "postgres" (read the trades table).
//   - TopK: default k for the most-traded query.
//   - BenchRuns: default repeat count of the analyze harness.
//   - MinuteDomainMax: last minute of the trading day used for random intervals.
//   - LoadParallel: partition files read concurrently (0 = auto).
type DataConfig struct {
	Path            string
	PartitionPrefix string
	Source          string
	TopK            int
	BenchRuns       int
	MinuteDomainMax int
	LoadParallel    int
}

// LogConfig controls the global zerolog logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

const (
	SourceParquet  = "parquet"
	SourcePostgres = "postgres"
)

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates the app.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = fromViper()
	validateConfig()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "tickpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("DATA_PATH", "./data/trades.parquet")
	viper.SetDefault("PARTITION_PREFIX", "sym_root=")
	viper.SetDefault("TRADE_SOURCE", SourceParquet)
	viper.SetDefault("TOP_K", 20)
	viper.SetDefault("BENCH_RUNS", 10)
	viper.SetDefault("MINUTE_DOMAIN_MAX", 396)
	viper.SetDefault("LOAD_PARALLEL", 0)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
}

func fromViper() Config {
	cfg := Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Data: DataConfig{
			Path:            viper.GetString("DATA_PATH"),
			PartitionPrefix: viper.GetString("PARTITION_PREFIX"),
			Source:          strings.ToLower(viper.GetString("TRADE_SOURCE")),
			TopK:            viper.GetInt("TOP_K"),
			BenchRuns:       viper.GetInt("BENCH_RUNS"),
			MinuteDomainMax: viper.GetInt("MINUTE_DOMAIN_MAX"),
			LoadParallel:    viper.GetInt("LOAD_PARALLEL"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
		},
	}
	cfg.Postgres.URL = cfg.Postgres.DSN()
	return cfg
}

// DSN builds the PostgreSQL connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

// problems lists every missing or invalid setting of cfg.
func problems(cfg Config) []string {
	var out []string

	if cfg.Server.Port == "" {
		out = append(out, "SERVER_PORT")
	}
	if cfg.Postgres.Host == "" {
		out = append(out, "POSTGRES_HOST")
	}
	if cfg.Postgres.Port == 0 {
		out = append(out, "POSTGRES_PORT")
	}
	if cfg.Postgres.DBName == "" {
		out = append(out, "POSTGRES_DB")
	}
	if cfg.Data.PartitionPrefix == "" {
		out = append(out, "PARTITION_PREFIX")
	}
	if cfg.Data.Source != SourceParquet && cfg.Data.Source != SourcePostgres {
		out = append(out, "TRADE_SOURCE (parquet|postgres)")
	}
	if cfg.Data.TopK < 0 {
		out = append(out, "TOP_K (>= 0)")
	}
	if cfg.Data.BenchRuns < 1 {
		out = append(out, "BENCH_RUNS (>= 1)")
	}
	if cfg.Data.MinuteDomainMax < 0 {
		out = append(out, "MINUTE_DOMAIN_MAX (>= 0)")
	}
	return out
}

// validateConfig terminates the application when critical settings are
// missing or invalid, avoiding failures deep inside a long load.
func validateConfig() {
	if missing := problems(AppConfig); len(missing) > 0 {
		log.Fatalf("missing or invalid environment variables: %v\n", missing)
	}
}
