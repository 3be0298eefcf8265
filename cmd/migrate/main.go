// Package main applies the embedded database migrations and exits.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"solana-whale-watch/internal/logger"
	"solana-whale-watch/internal/storage/migrations"
	pgstore "solana-whale-watch/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional)")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	log := logger.New(*logLevel)

	if *postgresDSN == "" && *clickhouseDSN == "" {
		log.Fatal().Msg("at least one of -postgres-dsn or -clickhouse-dsn is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("apply postgres migrations")
		}
		pool.Close()
		log.Info().Msg("postgres migrations applied")
	}

	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("apply clickhouse migrations")
		}
		conn.Close()
		log.Info().Msg("clickhouse migrations applied")
	}
}
