package clickhouse

import (
	"context"
	"fmt"

	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/storage"
)

// SwapRecordStore implements storage.SwapRecordStore using ClickHouse.
// Intended for the analytics path; the postgres store remains the system
// of record for the tracker.
type SwapRecordStore struct {
	conn *Conn
}

// NewSwapRecordStore creates a new SwapRecordStore.
func NewSwapRecordStore(conn *Conn) *SwapRecordStore {
	return &SwapRecordStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SwapRecordStore = (*SwapRecordStore)(nil)

const swapRecordInsertColumns = `
	signature, direction, timestamp, swapper,
	quote_mint, quote_symbol, quote_decimals,
	base_mint, base_symbol, base_decimals,
	base_amount, base_amount_raw, swap_input_amount, swap_output_amount,
	total_wallet_cost, net_wallet_received,
	tx_fee_lamports, tx_fee_quote, platform_fee_quote, priority_fee_quote,
	confidence, protocol, swapper_identification_method,
	classification_source, quote_valuation, intermediate_assets_collapsed,
	created_at
`

// Insert adds a record. Returns ErrDuplicateKey if (signature, direction)
// exists.
func (s *SwapRecordStore) Insert(ctx context.Context, r *domain.SwapRecord) error {
	return s.InsertBulk(ctx, []*domain.SwapRecord{r})
}

// InsertBulk adds multiple records. Fails entire batch on any duplicate.
// ClickHouse MergeTree doesn't enforce uniqueness, so duplicates are
// detected with explicit checks before the batch insert.
func (s *SwapRecordStore) InsertBulk(ctx context.Context, records []*domain.SwapRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		signature string
		direction string
	}
	seen := make(map[key]struct{})
	for _, r := range records {
		k := key{r.Signature, r.Direction}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, r := range records {
		exists, err := s.exists(ctx, r.Signature, r.Direction)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO swap_records (`+swapRecordInsertColumns+`)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			r.Signature, r.Direction, r.Timestamp, r.Swapper,
			r.QuoteMint, r.QuoteSymbol, uint8(r.QuoteDecimals),
			r.BaseMint, r.BaseSymbol, uint8(r.BaseDecimals),
			r.BaseAmount, r.BaseAmountRaw, r.SwapInputAmount, r.SwapOutputAmount,
			r.TotalWalletCost, r.NetWalletReceived,
			r.TxFeeLamports, r.TxFeeQuote, r.PlatformFeeQuote, r.PriorityFeeQuote,
			r.Confidence, r.Protocol, r.SwapperIdentificationMethod,
			r.ClassificationSource, r.QuoteValuation, r.IntermediateAssetsCollapsed,
			uint64(r.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySignature retrieves the record(s) for a signature, ordered by
// direction.
func (s *SwapRecordStore) GetBySignature(ctx context.Context, signature string) ([]*domain.SwapRecord, error) {
	query := `
		SELECT ` + swapRecordInsertColumns + `
		FROM swap_records
		WHERE signature = ?
		ORDER BY direction ASC
	`

	rows, err := s.conn.Query(ctx, query, signature)
	if err != nil {
		return nil, fmt.Errorf("query by signature: %w", err)
	}
	defer rows.Close()

	return scanSwapRecords(rows)
}

// GetBySwapper retrieves up to limit records for a swapper, newest first.
func (s *SwapRecordStore) GetBySwapper(ctx context.Context, swapper string, limit int) ([]*domain.SwapRecord, error) {
	query := `
		SELECT ` + swapRecordInsertColumns + `
		FROM swap_records
		WHERE swapper = ?
		ORDER BY timestamp DESC, signature DESC, direction ASC
	`
	args := []any{swapper}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, uint64(limit))
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query by swapper: %w", err)
	}
	defer rows.Close()

	return scanSwapRecords(rows)
}

// GetByTimeRange retrieves records for a swapper within [start, end]
// (inclusive), ordered by timestamp ASC.
func (s *SwapRecordStore) GetByTimeRange(ctx context.Context, swapper string, start, end int64) ([]*domain.SwapRecord, error) {
	query := `
		SELECT ` + swapRecordInsertColumns + `
		FROM swap_records
		WHERE swapper = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC, signature ASC, direction ASC
	`

	rows, err := s.conn.Query(ctx, query, swapper, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanSwapRecords(rows)
}

// exists checks if a record with the given key exists.
func (s *SwapRecordStore) exists(ctx context.Context, signature, direction string) (bool, error) {
	query := `
		SELECT count(*) FROM swap_records
		WHERE signature = ? AND direction = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, signature, direction).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanSwapRecords scans multiple rows.
func scanSwapRecords(rows chRows) ([]*domain.SwapRecord, error) {
	var records []*domain.SwapRecord

	for rows.Next() {
		var r domain.SwapRecord
		var quoteDecimals, baseDecimals uint8
		var createdAt uint64

		err := rows.Scan(
			&r.Signature, &r.Direction, &r.Timestamp, &r.Swapper,
			&r.QuoteMint, &r.QuoteSymbol, &quoteDecimals,
			&r.BaseMint, &r.BaseSymbol, &baseDecimals,
			&r.BaseAmount, &r.BaseAmountRaw, &r.SwapInputAmount, &r.SwapOutputAmount,
			&r.TotalWalletCost, &r.NetWalletReceived,
			&r.TxFeeLamports, &r.TxFeeQuote, &r.PlatformFeeQuote, &r.PriorityFeeQuote,
			&r.Confidence, &r.Protocol, &r.SwapperIdentificationMethod,
			&r.ClassificationSource, &r.QuoteValuation, &r.IntermediateAssetsCollapsed,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan swap record row: %w", err)
		}

		r.QuoteDecimals = int(quoteDecimals)
		r.BaseDecimals = int(baseDecimals)
		r.CreatedAt = int64(createdAt)
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap record rows: %w", err)
	}

	return records, nil
}
