package memory

import (
	"context"
	"sort"
	"sync"

	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/storage"
)

type recordKey struct {
	signature string
	direction string
}

// SwapRecordStore is an in-memory implementation of storage.SwapRecordStore.
type SwapRecordStore struct {
	mu   sync.RWMutex
	data map[recordKey]*domain.SwapRecord
}

// NewSwapRecordStore creates a new in-memory swap record store.
func NewSwapRecordStore() *SwapRecordStore {
	return &SwapRecordStore{
		data: make(map[recordKey]*domain.SwapRecord),
	}
}

// Compile-time interface check.
var _ storage.SwapRecordStore = (*SwapRecordStore)(nil)

// Insert adds a record. Returns ErrDuplicateKey if (signature, direction)
// exists.
func (s *SwapRecordStore) Insert(_ context.Context, r *domain.SwapRecord) error {
	if r == nil || r.Signature == "" || r.Direction == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(r)
}

// InsertBulk adds multiple records atomically. Fails entire batch on any
// duplicate, leaving the store unchanged.
func (s *SwapRecordStore) InsertBulk(_ context.Context, records []*domain.SwapRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before writing anything
	seen := make(map[recordKey]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.Signature == "" || r.Direction == "" {
			return storage.ErrInvalidInput
		}
		k := recordKey{r.Signature, r.Direction}
		if _, dup := seen[k]; dup {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, r := range records {
		if err := s.insertLocked(r); err != nil {
			return err
		}
	}
	return nil
}

func (s *SwapRecordStore) insertLocked(r *domain.SwapRecord) error {
	k := recordKey{r.Signature, r.Direction}
	if _, exists := s.data[k]; exists {
		return storage.ErrDuplicateKey
	}

	recordCopy := *r
	s.data[k] = &recordCopy
	return nil
}

// GetBySignature retrieves the record(s) for a signature, ordered by
// direction.
func (s *SwapRecordStore) GetBySignature(_ context.Context, signature string) ([]*domain.SwapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SwapRecord
	for k, r := range s.data {
		if k.signature == signature {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Direction < result[j].Direction
	})

	return result, nil
}

// GetBySwapper retrieves up to limit records for a swapper, newest first.
func (s *SwapRecordStore) GetBySwapper(_ context.Context, swapper string, limit int) ([]*domain.SwapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SwapRecord
	for _, r := range s.data {
		if r.Swapper == swapper {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp > result[j].Timestamp
		}
		if result[i].Signature != result[j].Signature {
			return result[i].Signature > result[j].Signature
		}
		return result[i].Direction < result[j].Direction
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// GetByTimeRange retrieves records for a swapper within [start, end]
// (inclusive), ordered by timestamp ASC.
func (s *SwapRecordStore) GetByTimeRange(_ context.Context, swapper string, start, end int64) ([]*domain.SwapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SwapRecord
	for _, r := range s.data {
		if r.Swapper == swapper && r.Timestamp >= start && r.Timestamp <= end {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		if result[i].Signature != result[j].Signature {
			return result[i].Signature < result[j].Signature
		}
		return result[i].Direction < result[j].Direction
	})

	return result, nil
}
