package postgres

import (
	"context"
	"fmt"

	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/storage"
)

// ErasureStatStore implements storage.ErasureStatStore using PostgreSQL.
type ErasureStatStore struct {
	pool *Pool
}

// NewErasureStatStore creates a new ErasureStatStore.
func NewErasureStatStore(pool *Pool) *ErasureStatStore {
	return &ErasureStatStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ErasureStatStore = (*ErasureStatStore)(nil)

// Insert records one erasure. Duplicates are allowed.
func (s *ErasureStatStore) Insert(ctx context.Context, e *domain.ErasureStat) error {
	query := `
		INSERT INTO erasure_stats (signature, wallet, reason, timestamp)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, e.Signature, e.Wallet, e.Reason, e.Timestamp)
	if err != nil {
		return fmt.Errorf("insert erasure stat: %w", err)
	}

	return nil
}

// CountsByReason aggregates erasures within [start, end] per reason code.
func (s *ErasureStatStore) CountsByReason(ctx context.Context, start, end int64) (map[string]int64, error) {
	query := `
		SELECT reason, COUNT(*) AS total
		FROM erasure_stats
		WHERE timestamp >= $1 AND timestamp <= $2
		GROUP BY reason
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query erasure counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var reason string
		var total int64
		if err := rows.Scan(&reason, &total); err != nil {
			return nil, fmt.Errorf("scan erasure count row: %w", err)
		}
		counts[reason] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate erasure count rows: %w", err)
	}

	return counts, nil
}
