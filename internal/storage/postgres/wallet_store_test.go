package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/storage"
)

func TestWalletStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)
	ctx := context.Background()

	wallet := &domain.TrackedWallet{
		Address: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		Label:   "whale-1",
		Active:  true,
		AddedAt: 1700000000000,
	}

	err := store.Insert(ctx, wallet)
	require.NoError(t, err)

	retrieved, err := store.GetByAddress(ctx, wallet.Address)
	require.NoError(t, err)

	assert.Equal(t, wallet.Address, retrieved.Address)
	assert.Equal(t, wallet.Label, retrieved.Label)
	assert.True(t, retrieved.Active)
	assert.Equal(t, wallet.AddedAt, retrieved.AddedAt)
}

func TestWalletStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)
	ctx := context.Background()

	wallet := &domain.TrackedWallet{
		Address: "DupAddress111",
		Active:  true,
		AddedAt: 1700000000000,
	}

	err := store.Insert(ctx, wallet)
	require.NoError(t, err)

	err = store.Insert(ctx, wallet)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestWalletStore_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)
	ctx := context.Background()

	_, err := store.GetByAddress(ctx, "nonexistent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWalletStore_ListAndSetActive(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)
	ctx := context.Background()

	wallets := []*domain.TrackedWallet{
		{Address: "AddressB", Label: "b", Active: true, AddedAt: 1},
		{Address: "AddressA", Label: "a", Active: true, AddedAt: 2},
		{Address: "AddressC", Label: "c", Active: false, AddedAt: 3},
	}
	for _, w := range wallets {
		require.NoError(t, store.Insert(ctx, w))
	}

	all, err := store.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Ordered by address
	assert.Equal(t, "AddressA", all[0].Address)
	assert.Equal(t, "AddressB", all[1].Address)
	assert.Equal(t, "AddressC", all[2].Address)

	active, err := store.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)

	// Deactivate and re-check
	require.NoError(t, store.SetActive(ctx, "AddressA", false))
	active, err = store.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "AddressB", active[0].Address)

	// SetActive on a missing wallet
	err = store.SetActive(ctx, "nonexistent", true)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
