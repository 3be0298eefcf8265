package storage

import (
	"context"

	"solana-whale-watch/internal/domain"
)

// TrackedWalletStore provides access to the tracked wallet list.
type TrackedWalletStore interface {
	// Insert adds a wallet. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, w *domain.TrackedWallet) error

	// GetByAddress retrieves a wallet. Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, address string) (*domain.TrackedWallet, error)

	// List retrieves wallets ordered by address. When activeOnly is set,
	// inactive wallets are skipped.
	List(ctx context.Context, activeOnly bool) ([]*domain.TrackedWallet, error)

	// SetActive flips tracking for a wallet. Returns ErrNotFound if not exists.
	SetActive(ctx context.Context, address string, active bool) error
}

// SwapRecordStore provides access to classified swap records, keyed by
// (signature, direction).
type SwapRecordStore interface {
	// Insert adds a record. Returns ErrDuplicateKey if (signature,
	// direction) exists.
	Insert(ctx context.Context, r *domain.SwapRecord) error

	// InsertBulk adds multiple records atomically. Fails entire batch on
	// any duplicate.
	InsertBulk(ctx context.Context, records []*domain.SwapRecord) error

	// GetBySignature retrieves the record(s) for a signature (two for a
	// split pair), ordered by direction.
	GetBySignature(ctx context.Context, signature string) ([]*domain.SwapRecord, error)

	// GetBySwapper retrieves up to limit records for a swapper, newest
	// first. limit <= 0 means no limit.
	GetBySwapper(ctx context.Context, swapper string, limit int) ([]*domain.SwapRecord, error)

	// GetByTimeRange retrieves records for a swapper within [start, end]
	// (inclusive, Unix seconds), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, swapper string, start, end int64) ([]*domain.SwapRecord, error)
}

// ErasureStatStore records erasure decisions for rate monitoring.
type ErasureStatStore interface {
	// Insert records one erasure. Duplicates are allowed; erasures are a
	// statistic, not a keyed entity.
	Insert(ctx context.Context, e *domain.ErasureStat) error

	// CountsByReason aggregates erasures within [start, end] (inclusive,
	// Unix milliseconds) per reason code.
	CountsByReason(ctx context.Context, start, end int64) (map[string]int64, error)
}
