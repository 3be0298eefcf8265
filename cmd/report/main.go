// Package main prints a per-wallet trading summary computed from stored
// swap records.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"solana-whale-watch/internal/analytics"
	"solana-whale-watch/internal/logger"
	"solana-whale-watch/internal/storage"
	chstore "solana-whale-watch/internal/storage/clickhouse"
	pgstore "solana-whale-watch/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	wallet := flag.String("wallet", "", "Wallet address to summarize")
	start := flag.Int64("start", 0, "Window start (Unix seconds, inclusive)")
	end := flag.Int64("end", time.Now().Unix(), "Window end (Unix seconds, inclusive)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "Read from ClickHouse instead of PostgreSQL")
	logLevel := flag.String("log-level", "error", "Log level")
	flag.Parse()

	log := logger.New(*logLevel)

	if *wallet == "" {
		log.Fatal().Msg("-wallet is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	records, cleanup, err := openRecordStore(ctx, *postgresDSN, *clickhouseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open record store")
	}
	defer cleanup()

	agg, err := analytics.NewAggregator(records).ComputeWalletAggregate(ctx, *wallet, *start, *end)
	if err != nil {
		if errors.Is(err, analytics.ErrNoSwaps) {
			fmt.Fprintf(os.Stderr, "no swaps recorded for %s in window\n", *wallet)
			os.Exit(3)
		}
		log.Fatal().Err(err).Msg("compute wallet aggregate")
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	if err := out.Encode(agg); err != nil {
		log.Fatal().Err(err).Msg("encode aggregate")
	}
}

// openRecordStore connects to whichever database the flags select.
func openRecordStore(ctx context.Context, postgresDSN, clickhouseDSN string) (storage.SwapRecordStore, func(), error) {
	if clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, clickhouseDSN)
		if err != nil {
			return nil, nil, err
		}
		return chstore.NewSwapRecordStore(conn), func() { _ = conn.Close() }, nil
	}

	if postgresDSN == "" {
		return nil, nil, fmt.Errorf("one of -postgres-dsn or -clickhouse-dsn is required")
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, err
	}
	return pgstore.NewSwapRecordStore(pool), pool.Close, nil
}
