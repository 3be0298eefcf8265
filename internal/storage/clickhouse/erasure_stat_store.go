package clickhouse

import (
	"context"
	"fmt"

	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/storage"
)

// ErasureStatStore implements storage.ErasureStatStore using ClickHouse.
type ErasureStatStore struct {
	conn *Conn
}

// NewErasureStatStore creates a new ErasureStatStore.
func NewErasureStatStore(conn *Conn) *ErasureStatStore {
	return &ErasureStatStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ErasureStatStore = (*ErasureStatStore)(nil)

// Insert records one erasure. Duplicates are allowed.
func (s *ErasureStatStore) Insert(ctx context.Context, e *domain.ErasureStat) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO erasure_stats (signature, wallet, reason, timestamp)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	if err := batch.Append(e.Signature, e.Wallet, e.Reason, uint64(e.Timestamp)); err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// CountsByReason aggregates erasures within [start, end] per reason code.
func (s *ErasureStatStore) CountsByReason(ctx context.Context, start, end int64) (map[string]int64, error) {
	query := `
		SELECT reason, count(*) AS total
		FROM erasure_stats
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY reason
	`

	rows, err := s.conn.Query(ctx, query, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query erasure counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var reason string
		var total uint64
		if err := rows.Scan(&reason, &total); err != nil {
			return nil, fmt.Errorf("scan erasure count row: %w", err)
		}
		counts[reason] = int64(total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate erasure count rows: %w", err)
	}

	return counts, nil
}
