// Package main runs the whale watch tracker service: it follows the
// tracked wallet list, classifies every new transaction and persists the
// resulting swap records and erasure statistics.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"solana-whale-watch/internal/classifier"
	"solana-whale-watch/internal/config"
	"solana-whale-watch/internal/coreassets"
	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/logger"
	"solana-whale-watch/internal/observability"
	"solana-whale-watch/internal/provider"
	"solana-whale-watch/internal/storage"
	chstore "solana-whale-watch/internal/storage/clickhouse"
	"solana-whale-watch/internal/storage/memory"
	"solana-whale-watch/internal/storage/migrations"
	pgstore "solana-whale-watch/internal/storage/postgres"
	"solana-whale-watch/internal/tracker"
)

type stores struct {
	wallets  storage.TrackedWalletStore
	records  storage.SwapRecordStore
	erasures storage.ErasureStatStore
}

func main() {
	// Load .env file if present; real env vars take precedence
	_ = godotenv.Load()

	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	addWallet := flag.String("add-wallet", "", "Add a wallet to the tracked list and exit (address[:label])")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		// Config errors happen before the logger exists
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := createStores(ctx, cfg, *useMemory, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create stores")
	}
	defer cleanup()

	if *addWallet != "" {
		if err := addTrackedWallet(ctx, st.wallets, *addWallet); err != nil {
			log.Fatal().Err(err).Msg("add tracked wallet")
		}
		log.Info().Str("wallet", *addWallet).Msg("wallet added")
		return
	}

	client := provider.NewClient(cfg.ProviderEndpoint, provider.WithAPIKey(cfg.ProviderAPIKey))

	cls := classifier.New(coreassets.Default(),
		classifier.WithDustEpsilon(cfg.DustEpsilon),
		classifier.WithLogger(log),
	)

	tr := tracker.New(client, cls, st.wallets, st.records, st.erasures,
		tracker.WithPollInterval(time.Duration(cfg.PollIntervalSeconds)*time.Second),
		tracker.WithHistoryLimit(cfg.HistoryLimit),
		tracker.WithLogger(log),
	)

	// Metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := ":" + cfg.MetricsPort
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	// Optional live stream alongside polling
	if cfg.ProviderWSEndpoint != "" {
		go runStream(ctx, cfg, st, tr, log)
	}

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	log.Info().
		Int("poll_interval_seconds", cfg.PollIntervalSeconds).
		Bool("streaming", cfg.ProviderWSEndpoint != "").
		Msg("tracker started")

	if err := tr.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("tracker stopped")
	}

	log.Info().Msg("shutdown complete")
}

// runStream keeps a live subscription for the current active wallet set.
func runStream(ctx context.Context, cfg config.Config, st *stores, tr *tracker.Tracker, log zerolog.Logger) {
	wallets, err := st.wallets.List(ctx, true)
	if err != nil {
		log.Error().Err(err).Msg("list wallets for stream")
		return
	}
	addresses := make([]string, 0, len(wallets))
	for _, w := range wallets {
		addresses = append(addresses, w.Address)
	}

	stream, err := provider.NewStream(ctx, cfg.ProviderWSEndpoint, cfg.ProviderAPIKey, addresses, nil, log)
	if err != nil {
		log.Error().Err(err).Msg("open provider stream")
		return
	}
	defer stream.Close()

	if err := tr.RunStream(ctx, stream.Notifications()); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("stream consumer stopped")
	}
}

// createStores builds the storage set, applying migrations. When a
// ClickHouse DSN is configured, swap records are mirrored there for the
// analytics path.
func createStores(ctx context.Context, cfg config.Config, useMemory bool, log zerolog.Logger) (*stores, func(), error) {
	if useMemory {
		return &stores{
			wallets:  memory.NewWalletStore(),
			records:  memory.NewSwapRecordStore(),
			erasures: memory.NewErasureStatStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	var records storage.SwapRecordStore = pgstore.NewSwapRecordStore(pool)
	cleanup := pool.Close

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		records = storage.NewMirroredSwapRecordStore(records, chstore.NewSwapRecordStore(conn), log)
		cleanup = func() {
			_ = conn.Close()
			pool.Close()
		}
	}

	return &stores{
		wallets:  pgstore.NewWalletStore(pool),
		records:  records,
		erasures: pgstore.NewErasureStatStore(pool),
	}, cleanup, nil
}

// addTrackedWallet parses "address" or "address:label" and inserts it.
func addTrackedWallet(ctx context.Context, wallets storage.TrackedWalletStore, arg string) error {
	address, label := arg, ""
	if i := strings.IndexByte(arg, ':'); i >= 0 {
		address, label = arg[:i], arg[i+1:]
	}
	return wallets.Insert(ctx, &domain.TrackedWallet{
		Address: address,
		Label:   label,
		Active:  true,
		AddedAt: time.Now().UnixMilli(),
	})
}
