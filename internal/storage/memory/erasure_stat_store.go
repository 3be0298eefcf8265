package memory

import (
	"context"
	"sync"

	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/storage"
)

// ErasureStatStore is an in-memory implementation of storage.ErasureStatStore.
type ErasureStatStore struct {
	mu   sync.RWMutex
	data []*domain.ErasureStat
}

// NewErasureStatStore creates a new in-memory erasure stat store.
func NewErasureStatStore() *ErasureStatStore {
	return &ErasureStatStore{}
}

// Compile-time interface check.
var _ storage.ErasureStatStore = (*ErasureStatStore)(nil)

// Insert records one erasure. Duplicates are allowed.
func (s *ErasureStatStore) Insert(_ context.Context, e *domain.ErasureStat) error {
	if e == nil || e.Signature == "" || e.Reason == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	statCopy := *e
	s.data = append(s.data, &statCopy)
	return nil
}

// CountsByReason aggregates erasures within [start, end] per reason code.
func (s *ErasureStatStore) CountsByReason(_ context.Context, start, end int64) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, e := range s.data {
		if e.Timestamp >= start && e.Timestamp <= end {
			counts[e.Reason]++
		}
	}

	return counts, nil
}
