package postgres

import (
	"context"
	"fmt"

	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/storage"
)

// WalletStore implements storage.TrackedWalletStore using PostgreSQL.
type WalletStore struct {
	pool *Pool
}

// NewWalletStore creates a new WalletStore.
func NewWalletStore(pool *Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TrackedWalletStore = (*WalletStore)(nil)

// Insert adds a wallet. Returns ErrDuplicateKey if the address exists.
func (s *WalletStore) Insert(ctx context.Context, w *domain.TrackedWallet) error {
	query := `
		INSERT INTO tracked_wallets (address, label, active, added_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, w.Address, w.Label, w.Active, w.AddedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert tracked wallet: %w", err)
	}
	return nil
}

// GetByAddress retrieves a wallet. Returns ErrNotFound if not exists.
func (s *WalletStore) GetByAddress(ctx context.Context, address string) (*domain.TrackedWallet, error) {
	query := `
		SELECT address, label, active, added_at
		FROM tracked_wallets
		WHERE address = $1
	`

	var w domain.TrackedWallet
	err := s.pool.QueryRow(ctx, query, address).Scan(&w.Address, &w.Label, &w.Active, &w.AddedAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get tracked wallet: %w", err)
	}
	return &w, nil
}

// List retrieves wallets ordered by address.
func (s *WalletStore) List(ctx context.Context, activeOnly bool) ([]*domain.TrackedWallet, error) {
	query := `
		SELECT address, label, active, added_at
		FROM tracked_wallets
	`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY address`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tracked wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*domain.TrackedWallet
	for rows.Next() {
		var w domain.TrackedWallet
		if err := rows.Scan(&w.Address, &w.Label, &w.Active, &w.AddedAt); err != nil {
			return nil, fmt.Errorf("scan tracked wallet: %w", err)
		}
		wallets = append(wallets, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracked wallets: %w", err)
	}
	return wallets, nil
}

// SetActive flips tracking for a wallet. Returns ErrNotFound if not exists.
func (s *WalletStore) SetActive(ctx context.Context, address string, active bool) error {
	query := `
		UPDATE tracked_wallets SET active = $2 WHERE address = $1
	`

	tag, err := s.pool.Exec(ctx, query, address, active)
	if err != nil {
		return fmt.Errorf("set tracked wallet active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
