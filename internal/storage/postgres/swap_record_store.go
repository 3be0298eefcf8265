package postgres

import (
	"context"
	"fmt"

	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/storage"
)

// SwapRecordStore implements storage.SwapRecordStore using PostgreSQL.
type SwapRecordStore struct {
	pool *Pool
}

// NewSwapRecordStore creates a new SwapRecordStore.
func NewSwapRecordStore(pool *Pool) *SwapRecordStore {
	return &SwapRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SwapRecordStore = (*SwapRecordStore)(nil)

const swapRecordColumns = `
	signature, direction, timestamp, swapper,
	quote_mint, quote_symbol, quote_decimals,
	base_mint, base_symbol, base_decimals,
	base_amount, base_amount_raw,
	swap_input_amount, swap_output_amount,
	total_wallet_cost, net_wallet_received,
	tx_fee_lamports, tx_fee_quote, platform_fee_quote, priority_fee_quote,
	confidence, protocol, swapper_identification_method,
	classification_source, quote_valuation, intermediate_assets_collapsed,
	created_at
`

const insertSwapRecordQuery = `
	INSERT INTO swap_records (` + swapRecordColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
	        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
`

func swapRecordArgs(r *domain.SwapRecord) []interface{} {
	return []interface{}{
		r.Signature, r.Direction, r.Timestamp, r.Swapper,
		r.QuoteMint, r.QuoteSymbol, r.QuoteDecimals,
		r.BaseMint, r.BaseSymbol, r.BaseDecimals,
		r.BaseAmount, r.BaseAmountRaw,
		r.SwapInputAmount, r.SwapOutputAmount,
		r.TotalWalletCost, r.NetWalletReceived,
		r.TxFeeLamports, r.TxFeeQuote, r.PlatformFeeQuote, r.PriorityFeeQuote,
		r.Confidence, r.Protocol, r.SwapperIdentificationMethod,
		r.ClassificationSource, r.QuoteValuation, r.IntermediateAssetsCollapsed,
		r.CreatedAt,
	}
}

// scanSwapRecord scans one row into a SwapRecord.
func scanSwapRecord(row interface{ Scan(...interface{}) error }) (*domain.SwapRecord, error) {
	var r domain.SwapRecord
	err := row.Scan(
		&r.Signature, &r.Direction, &r.Timestamp, &r.Swapper,
		&r.QuoteMint, &r.QuoteSymbol, &r.QuoteDecimals,
		&r.BaseMint, &r.BaseSymbol, &r.BaseDecimals,
		&r.BaseAmount, &r.BaseAmountRaw,
		&r.SwapInputAmount, &r.SwapOutputAmount,
		&r.TotalWalletCost, &r.NetWalletReceived,
		&r.TxFeeLamports, &r.TxFeeQuote, &r.PlatformFeeQuote, &r.PriorityFeeQuote,
		&r.Confidence, &r.Protocol, &r.SwapperIdentificationMethod,
		&r.ClassificationSource, &r.QuoteValuation, &r.IntermediateAssetsCollapsed,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Insert adds a record. Returns ErrDuplicateKey if (signature, direction)
// exists.
func (s *SwapRecordStore) Insert(ctx context.Context, r *domain.SwapRecord) error {
	_, err := s.pool.Exec(ctx, insertSwapRecordQuery, swapRecordArgs(r)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert swap record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any
// duplicate.
func (s *SwapRecordStore) InsertBulk(ctx context.Context, records []*domain.SwapRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		if _, err := tx.Exec(ctx, insertSwapRecordQuery, swapRecordArgs(r)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert swap record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBySignature retrieves the record(s) for a signature, ordered by
// direction.
func (s *SwapRecordStore) GetBySignature(ctx context.Context, signature string) ([]*domain.SwapRecord, error) {
	query := `
		SELECT ` + swapRecordColumns + `
		FROM swap_records
		WHERE signature = $1
		ORDER BY direction
	`
	return s.queryRecords(ctx, query, signature)
}

// GetBySwapper retrieves up to limit records for a swapper, newest first.
func (s *SwapRecordStore) GetBySwapper(ctx context.Context, swapper string, limit int) ([]*domain.SwapRecord, error) {
	query := `
		SELECT ` + swapRecordColumns + `
		FROM swap_records
		WHERE swapper = $1
		ORDER BY timestamp DESC, direction
	`
	if limit > 0 {
		return s.queryRecords(ctx, query+` LIMIT $2`, swapper, limit)
	}
	return s.queryRecords(ctx, query, swapper)
}

// GetByTimeRange retrieves records for a swapper within [start, end]
// inclusive, ordered by timestamp ASC.
func (s *SwapRecordStore) GetByTimeRange(ctx context.Context, swapper string, start, end int64) ([]*domain.SwapRecord, error) {
	query := `
		SELECT ` + swapRecordColumns + `
		FROM swap_records
		WHERE swapper = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC, direction
	`
	return s.queryRecords(ctx, query, swapper, start, end)
}

func (s *SwapRecordStore) queryRecords(ctx context.Context, query string, args ...interface{}) ([]*domain.SwapRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query swap records: %w", err)
	}
	defer rows.Close()

	var records []*domain.SwapRecord
	for rows.Next() {
		r, err := scanSwapRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swap record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap records: %w", err)
	}
	return records, nil
}
