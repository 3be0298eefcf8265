// Package tracker drives the fetch -> classify -> store loop over the
// tracked wallet list.
package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"solana-whale-watch/internal/classifier"
	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/logger"
	"solana-whale-watch/internal/observability"
	"solana-whale-watch/internal/provider"
	"solana-whale-watch/internal/storage"
)

// Source abstracts the transaction provider so tests can substitute a fake.
type Source interface {
	GetTransaction(ctx context.Context, signature string) (*domain.RawTransaction, error)
	GetWalletTransactions(ctx context.Context, wallet string, opts provider.HistoryOpts) ([]*domain.RawTransaction, error)
}

// Tracker polls tracked wallets, classifies their transactions and persists
// the outcomes.
type Tracker struct {
	source     Source
	classifier *classifier.Classifier

	wallets  storage.TrackedWalletStore
	records  storage.SwapRecordStore
	erasures storage.ErasureStatStore

	interval     time.Duration
	historyLimit int

	log zerolog.Logger

	// nowMillis is swapped out in tests
	nowMillis func() int64
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithPollInterval sets the wallet poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(t *Tracker) { t.interval = d }
}

// WithHistoryLimit caps how many transactions are fetched per wallet poll.
func WithHistoryLimit(n int) Option {
	return func(t *Tracker) { t.historyLimit = n }
}

// WithLogger sets the tracker logger.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// New creates a Tracker.
func New(
	source Source,
	cls *classifier.Classifier,
	wallets storage.TrackedWalletStore,
	records storage.SwapRecordStore,
	erasures storage.ErasureStatStore,
	opts ...Option,
) *Tracker {
	t := &Tracker{
		source:       source,
		classifier:   cls,
		wallets:      wallets,
		records:      records,
		erasures:     erasures,
		interval:     30 * time.Second,
		historyLimit: 25,
		log:          zerolog.Nop(),
		nowMillis:    func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run polls all active wallets on the configured interval until the context
// is cancelled. The first poll happens immediately.
func (t *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.PollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.PollOnce(ctx)
		}
	}
}

// RunStream consumes live notifications until the channel closes or the
// context is cancelled. Used alongside Run when a WS endpoint is configured.
func (t *Tracker) RunStream(ctx context.Context, notifications <-chan provider.Notification) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			observability.DefaultMetrics.NotificationsSeen.Inc()
			t.handleNotification(ctx, n)
		}
	}
}

// PollOnce fetches and processes recent transactions for every active wallet.
func (t *Tracker) PollOnce(ctx context.Context) {
	wallets, err := t.wallets.List(ctx, true)
	if err != nil {
		t.log.Error().Err(err).Msg("list tracked wallets")
		observability.DefaultMetrics.WalletPollErrors.WithLabelValues("list_wallets").Inc()
		return
	}
	observability.DefaultMetrics.TrackedWallets.Set(float64(len(wallets)))

	for _, w := range wallets {
		if ctx.Err() != nil {
			return
		}
		t.pollWallet(ctx, w.Address)
	}

	observability.DefaultMetrics.LastSuccessfulPoll.SetToCurrentTime()
}

func (t *Tracker) pollWallet(ctx context.Context, wallet string) {
	log := logger.WithWallet(t.log, wallet)

	start := time.Now()
	txs, err := t.source.GetWalletTransactions(ctx, wallet, provider.HistoryOpts{Limit: t.historyLimit})
	observability.RecordProviderCall("wallet_transactions", time.Since(start).Seconds(), err)
	if err != nil {
		log.Error().Err(err).Msg("fetch wallet transactions")
		observability.DefaultMetrics.WalletPollErrors.WithLabelValues("fetch_history").Inc()
		return
	}

	for _, tx := range txs {
		if err := t.Process(ctx, wallet, tx); err != nil {
			log.Error().Err(err).Str("signature", tx.Signature).Msg("process transaction")
			observability.DefaultMetrics.WalletPollErrors.WithLabelValues("process").Inc()
		}
	}
}

func (t *Tracker) handleNotification(ctx context.Context, n provider.Notification) {
	log := logger.WithSignature(logger.WithWallet(t.log, n.Wallet), n.Signature)

	start := time.Now()
	tx, err := t.source.GetTransaction(ctx, n.Signature)
	observability.RecordProviderCall("transaction", time.Since(start).Seconds(), err)
	if err != nil {
		log.Error().Err(err).Msg("fetch notified transaction")
		observability.DefaultMetrics.WalletPollErrors.WithLabelValues("fetch_transaction").Inc()
		return
	}
	if tx == nil {
		log.Debug().Msg("notified transaction not found")
		return
	}

	if err := t.Process(ctx, n.Wallet, tx); err != nil {
		log.Error().Err(err).Msg("process notified transaction")
		observability.DefaultMetrics.WalletPollErrors.WithLabelValues("process").Inc()
	}
}

// Process classifies one transaction and persists the outcome. Signatures
// already recorded are skipped.
func (t *Tracker) Process(ctx context.Context, wallet string, tx *domain.RawTransaction) error {
	existing, err := t.records.GetBySignature(ctx, tx.Signature)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		observability.DefaultMetrics.DuplicatesSkipped.Inc()
		return nil
	}

	outcome := t.classifier.Classify(tx)
	observability.RecordClassification()

	now := t.nowMillis()

	switch result := outcome.(type) {
	case *domain.ClassifiedSwap:
		if err := t.records.Insert(ctx, domain.RecordFromSwap(result, now)); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				observability.DefaultMetrics.DuplicatesSkipped.Inc()
				return nil
			}
			return err
		}
		observability.RecordSwap(string(result.Direction), string(result.Confidence))
		t.log.Info().
			Str("signature", result.Signature).
			Str("swapper", result.Swapper).
			Str("direction", string(result.Direction)).
			Str("confidence", string(result.Confidence)).
			Msg("swap recorded")

	case *domain.SplitSwapPair:
		pair := []*domain.SwapRecord{
			domain.RecordFromSwap(result.SellRecord, now),
			domain.RecordFromSwap(result.BuyRecord, now),
		}
		if err := t.records.InsertBulk(ctx, pair); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				observability.DefaultMetrics.DuplicatesSkipped.Inc()
				return nil
			}
			return err
		}
		observability.RecordSplitSwap()
		observability.RecordSwap(string(result.SellRecord.Direction), string(result.SellRecord.Confidence))
		observability.RecordSwap(string(result.BuyRecord.Direction), string(result.BuyRecord.Confidence))
		t.log.Info().
			Str("signature", result.SellRecord.Signature).
			Str("swapper", result.SellRecord.Swapper).
			Msg("split swap recorded")

	case *domain.ErasureResult:
		stat := &domain.ErasureStat{
			Signature: result.Signature,
			Wallet:    wallet,
			Reason:    string(result.Reason),
			Timestamp: now,
		}
		if err := t.erasures.Insert(ctx, stat); err != nil {
			return err
		}
		observability.RecordErasure(string(result.Reason))
		t.log.Debug().
			Str("signature", result.Signature).
			Str("reason", string(result.Reason)).
			Msg("transaction erased")
	}

	return nil
}
