package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/storage"
)

func TestWalletStore_InsertAndGet(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()

	w := &domain.TrackedWallet{
		Address: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		Label:   "whale-1",
		Active:  true,
		AddedAt: 1704067200000,
	}

	err := store.Insert(ctx, w)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByAddress(ctx, w.Address)
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}

	if got.Label != w.Label {
		t.Errorf("Label mismatch: got %s, want %s", got.Label, w.Label)
	}
	if !got.Active {
		t.Errorf("Expected wallet to be active")
	}
}

func TestWalletStore_DuplicateKey(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()

	w := &domain.TrackedWallet{Address: "addr1", Active: true, AddedAt: 1}

	if err := store.Insert(ctx, w); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, w)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestWalletStore_NotFound(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()

	_, err := store.GetByAddress(ctx, "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	err = store.SetActive(ctx, "nonexistent", false)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound from SetActive, got %v", err)
	}
}

func TestWalletStore_ListActiveOnly(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()

	wallets := []*domain.TrackedWallet{
		{Address: "b-active", Active: true, AddedAt: 1},
		{Address: "a-inactive", Active: false, AddedAt: 2},
		{Address: "c-active", Active: true, AddedAt: 3},
	}
	for _, w := range wallets {
		if err := store.Insert(ctx, w); err != nil {
			t.Fatalf("Insert %s failed: %v", w.Address, err)
		}
	}

	all, err := store.List(ctx, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 wallets, got %d", len(all))
	}
	// Ordered by address
	if all[0].Address != "a-inactive" || all[2].Address != "c-active" {
		t.Errorf("Unexpected ordering: %s, %s, %s", all[0].Address, all[1].Address, all[2].Address)
	}

	active, err := store.List(ctx, true)
	if err != nil {
		t.Fatalf("List active failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("Expected 2 active wallets, got %d", len(active))
	}
	for _, w := range active {
		if !w.Active {
			t.Errorf("Inactive wallet %s in active list", w.Address)
		}
	}
}

func TestWalletStore_SetActive(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()

	w := &domain.TrackedWallet{Address: "addr1", Active: true, AddedAt: 1}
	if err := store.Insert(ctx, w); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.SetActive(ctx, "addr1", false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	got, err := store.GetByAddress(ctx, "addr1")
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if got.Active {
		t.Errorf("Expected wallet to be inactive")
	}
}

func TestWalletStore_CopyIsolation(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()

	w := &domain.TrackedWallet{Address: "addr1", Label: "original", Active: true, AddedAt: 1}
	if err := store.Insert(ctx, w); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Mutating the inserted struct must not affect the store
	w.Label = "mutated"

	got, err := store.GetByAddress(ctx, "addr1")
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if got.Label != "original" {
		t.Errorf("Store leaked external mutation: got %s", got.Label)
	}

	// Mutating the returned struct must not affect the store
	got.Label = "mutated-again"
	got2, _ := store.GetByAddress(ctx, "addr1")
	if got2.Label != "original" {
		t.Errorf("Store leaked returned-copy mutation: got %s", got2.Label)
	}
}

func TestWalletStore_ConcurrentAccess(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := &domain.TrackedWallet{
				Address: fmt.Sprintf("addr-%d", i),
				Active:  i%2 == 0,
				AddedAt: int64(i),
			}
			if err := store.Insert(ctx, w); err != nil {
				t.Errorf("Insert failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	all, err := store.List(ctx, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 50 {
		t.Errorf("Expected 50 wallets, got %d", len(all))
	}
}
