package storage

import (
	"context"

	"github.com/rs/zerolog"

	"solana-whale-watch/internal/domain"
)

// MirroredSwapRecordStore writes records to a primary store and
// best-effort mirrors them to a secondary one (typically the analytics
// database). Reads always hit the primary; mirror failures are logged
// and do not fail the write.
type MirroredSwapRecordStore struct {
	primary SwapRecordStore
	mirror  SwapRecordStore
	log     zerolog.Logger
}

// NewMirroredSwapRecordStore creates a mirrored store.
func NewMirroredSwapRecordStore(primary, mirror SwapRecordStore, log zerolog.Logger) *MirroredSwapRecordStore {
	return &MirroredSwapRecordStore{primary: primary, mirror: mirror, log: log}
}

// Compile-time interface check.
var _ SwapRecordStore = (*MirroredSwapRecordStore)(nil)

// Insert adds a record to both stores.
func (s *MirroredSwapRecordStore) Insert(ctx context.Context, r *domain.SwapRecord) error {
	if err := s.primary.Insert(ctx, r); err != nil {
		return err
	}
	if err := s.mirror.Insert(ctx, r); err != nil {
		s.log.Warn().Err(err).Str("signature", r.Signature).Msg("mirror insert failed")
	}
	return nil
}

// InsertBulk adds records to both stores.
func (s *MirroredSwapRecordStore) InsertBulk(ctx context.Context, records []*domain.SwapRecord) error {
	if err := s.primary.InsertBulk(ctx, records); err != nil {
		return err
	}
	if err := s.mirror.InsertBulk(ctx, records); err != nil {
		s.log.Warn().Err(err).Int("records", len(records)).Msg("mirror bulk insert failed")
	}
	return nil
}

// GetBySignature reads from the primary store.
func (s *MirroredSwapRecordStore) GetBySignature(ctx context.Context, signature string) ([]*domain.SwapRecord, error) {
	return s.primary.GetBySignature(ctx, signature)
}

// GetBySwapper reads from the primary store.
func (s *MirroredSwapRecordStore) GetBySwapper(ctx context.Context, swapper string, limit int) ([]*domain.SwapRecord, error) {
	return s.primary.GetBySwapper(ctx, swapper, limit)
}

// GetByTimeRange reads from the primary store.
func (s *MirroredSwapRecordStore) GetByTimeRange(ctx context.Context, swapper string, start, end int64) ([]*domain.SwapRecord, error) {
	return s.primary.GetByTimeRange(ctx, swapper, start, end)
}
