package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-whale-watch/internal/classifier"
	"solana-whale-watch/internal/coreassets"
	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/provider"
	"solana-whale-watch/internal/storage/memory"
)

const (
	testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	testMint   = "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R" // arbitrary non-core mint
)

// fakeSource serves canned transactions.
type fakeSource struct {
	byWallet    map[string][]*domain.RawTransaction
	bySignature map[string]*domain.RawTransaction
}

func (f *fakeSource) GetTransaction(_ context.Context, signature string) (*domain.RawTransaction, error) {
	return f.bySignature[signature], nil
}

func (f *fakeSource) GetWalletTransactions(_ context.Context, wallet string, _ provider.HistoryOpts) ([]*domain.RawTransaction, error) {
	return f.byWallet[wallet], nil
}

// buyTransaction is a plain SOL -> token buy for the test wallet.
func buyTransaction(signature string, timestamp int64) *domain.RawTransaction {
	return &domain.RawTransaction{
		Signature: signature,
		Timestamp: timestamp,
		Status:    domain.StatusSuccess,
		Fee:       5000,
		FeePayer:  testWallet,
		Signers:   []string{testWallet},
		TokenBalanceChanges: []domain.TokenBalanceChange{
			{Owner: testWallet, Mint: coreassets.NativeSOL, Decimals: 9, ChangeAmount: -1_500_000_000, Symbol: "SOL"},
			{Owner: testWallet, Mint: testMint, Decimals: 6, ChangeAmount: 100_000_000, Symbol: "TOKEN"},
		},
	}
}

func failedTransaction(signature string) *domain.RawTransaction {
	tx := buyTransaction(signature, 1700000000)
	tx.Status = domain.StatusFailed
	return tx
}

func newTestTracker(source Source) (*Tracker, *memory.WalletStore, *memory.SwapRecordStore, *memory.ErasureStatStore) {
	wallets := memory.NewWalletStore()
	records := memory.NewSwapRecordStore()
	erasures := memory.NewErasureStatStore()

	cls := classifier.New(coreassets.Default())
	tr := New(source, cls, wallets, records, erasures)
	tr.nowMillis = func() int64 { return 1700000099000 }

	return tr, wallets, records, erasures
}

func TestTracker_PollOnceRecordsSwap(t *testing.T) {
	source := &fakeSource{
		byWallet: map[string][]*domain.RawTransaction{
			testWallet: {buyTransaction("SigBuy1", 1700000000)},
		},
	}
	tr, wallets, records, _ := newTestTracker(source)
	ctx := context.Background()

	require.NoError(t, wallets.Insert(ctx, &domain.TrackedWallet{Address: testWallet, Active: true, AddedAt: 1}))

	tr.PollOnce(ctx)

	got, err := records.GetBySignature(ctx, "SigBuy1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BUY", got[0].Direction)
	assert.Equal(t, testWallet, got[0].Swapper)
	assert.Equal(t, coreassets.NativeSOL, got[0].QuoteMint)
	assert.Equal(t, testMint, got[0].BaseMint)
	assert.Equal(t, int64(1700000099000), got[0].CreatedAt)
}

func TestTracker_PollOnceSkipsInactiveWallets(t *testing.T) {
	source := &fakeSource{
		byWallet: map[string][]*domain.RawTransaction{
			testWallet: {buyTransaction("SigBuy1", 1700000000)},
		},
	}
	tr, wallets, records, _ := newTestTracker(source)
	ctx := context.Background()

	require.NoError(t, wallets.Insert(ctx, &domain.TrackedWallet{Address: testWallet, Active: false, AddedAt: 1}))

	tr.PollOnce(ctx)

	got, err := records.GetBySignature(ctx, "SigBuy1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTracker_ProcessSkipsDuplicates(t *testing.T) {
	source := &fakeSource{}
	tr, _, records, _ := newTestTracker(source)
	ctx := context.Background()

	tx := buyTransaction("SigBuy1", 1700000000)
	require.NoError(t, tr.Process(ctx, testWallet, tx))
	require.NoError(t, tr.Process(ctx, testWallet, tx))

	got, err := records.GetBySignature(ctx, "SigBuy1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestTracker_ProcessRecordsErasure(t *testing.T) {
	source := &fakeSource{}
	tr, _, records, erasures := newTestTracker(source)
	ctx := context.Background()

	require.NoError(t, tr.Process(ctx, testWallet, failedTransaction("SigFail1")))

	got, err := records.GetBySignature(ctx, "SigFail1")
	require.NoError(t, err)
	assert.Empty(t, got)

	counts, err := erasures.CountsByReason(ctx, 0, 1800000000000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["transaction_failed"])
}

func TestTracker_ProcessRecordsSplitPair(t *testing.T) {
	source := &fakeSource{}
	tr, _, records, _ := newTestTracker(source)
	ctx := context.Background()

	// Non-core to non-core swap: both legs must be stored
	otherMint := "9n4nbM75f5Ui33ZbPYXn59EwSgE8CGsHtAeTH5YFeJ9E"
	tx := &domain.RawTransaction{
		Signature: "SigSplit1",
		Timestamp: 1700000000,
		Status:    domain.StatusSuccess,
		Fee:       5000,
		FeePayer:  testWallet,
		Signers:   []string{testWallet},
		TokenBalanceChanges: []domain.TokenBalanceChange{
			{Owner: testWallet, Mint: testMint, Decimals: 6, ChangeAmount: -50_000_000, Symbol: "AAA"},
			{Owner: testWallet, Mint: otherMint, Decimals: 6, ChangeAmount: 75_000_000, Symbol: "BBB"},
		},
	}
	require.NoError(t, tr.Process(ctx, testWallet, tx))

	got, err := records.GetBySignature(ctx, "SigSplit1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "BUY", got[0].Direction)
	assert.Equal(t, "SELL", got[1].Direction)
}

func TestTracker_RunStreamHandlesNotification(t *testing.T) {
	tx := buyTransaction("SigStream1", 1700000000)
	source := &fakeSource{
		bySignature: map[string]*domain.RawTransaction{"SigStream1": tx},
	}
	tr, _, records, _ := newTestTracker(source)
	ctx := context.Background()

	notifications := make(chan provider.Notification, 1)
	notifications <- provider.Notification{Signature: "SigStream1", Wallet: testWallet, Timestamp: 1700000000}
	close(notifications)

	err := tr.RunStream(ctx, notifications)
	require.NoError(t, err)

	got, err := records.GetBySignature(ctx, "SigStream1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
