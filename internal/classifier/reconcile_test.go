package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-whale-watch/internal/coreassets"
	"solana-whale-watch/internal/domain"
)

func solTransfer(sender, receiver string, lamports int64) domain.Action {
	return domain.Action{
		Type: domain.ActionSolTransfer,
		Info: domain.ActionInfo{Sender: sender, Receiver: receiver, AmountRaw: lamports},
	}
}

func tokenTransfer(sender, receiver, mint string, decimals int, amount int64) domain.Action {
	return domain.Action{
		Type: domain.ActionTokenTransfer,
		Info: domain.ActionInfo{Sender: sender, Receiver: receiver, Mint: mint, Decimals: decimals, AmountRaw: amount},
	}
}

func TestAggregateDeltas_SumsPerOwnerMint(t *testing.T) {
	// Several token accounts for the same (owner, mint) pair are partial
	// views of one movement and must net together.
	book := aggregateDeltas([]domain.TokenBalanceChange{
		change(wallet, tokenMintA, 6, -300_000_000, "AAA"),
		change(wallet, tokenMintA, 6, 100_000_000, "AAA"),
		change(wallet, coreassets.NativeSOL, 9, 1_000_000_000, "SOL"),
	})

	deltas := book.nonDust(wallet, DefaultDustEpsilon)
	require.Len(t, deltas, 2)
	// Sorted by mint: tokenMintA starts with '4', SOL mint with 'S'
	assert.Equal(t, int64(-200_000_000), deltas[0].RawDelta)
	assert.InDelta(t, -200.0, deltas[0].NormalizedDelta, 1e-12)
	assert.Equal(t, int64(1_000_000_000), deltas[1].RawDelta)
}

func TestAggregateDeltas_SkipsBlankEntries(t *testing.T) {
	book := aggregateDeltas([]domain.TokenBalanceChange{
		{Owner: "", Mint: tokenMintA, Decimals: 6, ChangeAmount: 1_000_000},
		{Owner: wallet, Mint: "", Decimals: 6, ChangeAmount: 1_000_000},
	})

	assert.Zero(t, book.nonDustCount(DefaultDustEpsilon))
}

func TestReconcileActions_NoDoubleCounting(t *testing.T) {
	// The provider reported one economic movement twice: as a balance
	// change and as a SOL transfer action. The balance change wins and the
	// delta stays -1 SOL, not -2.
	book := aggregateDeltas([]domain.TokenBalanceChange{
		change(wallet, coreassets.NativeSOL, 9, -1_000_000_000, "SOL"),
	})
	reconcileActions(book, []domain.Action{
		solTransfer(wallet, otherWallet, 1_000_000_000),
	})

	deltas := book.nonDust(wallet, DefaultDustEpsilon)
	require.Len(t, deltas, 1)
	assert.Equal(t, int64(-1_000_000_000), deltas[0].RawDelta)
}

func TestReconcileActions_FillsGaps(t *testing.T) {
	// The balance changes only saw the SOL side; the token side arrives
	// via a transfer action and is booked for both parties.
	book := aggregateDeltas([]domain.TokenBalanceChange{
		change(wallet, coreassets.NativeSOL, 9, -1_000_000_000, "SOL"),
	})
	reconcileActions(book, []domain.Action{
		tokenTransfer(otherWallet, wallet, tokenMintA, 6, 50_000_000),
	})

	deltas := book.nonDust(wallet, DefaultDustEpsilon)
	require.Len(t, deltas, 2)
	assert.Equal(t, tokenMintA, deltas[0].Mint)
	assert.Equal(t, int64(50_000_000), deltas[0].RawDelta)
	assert.InDelta(t, 50.0, deltas[0].NormalizedDelta, 1e-12)

	sent := book.nonDust(otherWallet, DefaultDustEpsilon)
	require.Len(t, sent, 1)
	assert.Equal(t, int64(-50_000_000), sent[0].RawDelta)
}

func TestReconcileActions_GapTransfersSumAmongThemselves(t *testing.T) {
	// Two transfer actions for a mint the balance changes never saw are
	// together the only source for it.
	book := aggregateDeltas(nil)
	reconcileActions(book, []domain.Action{
		tokenTransfer(otherWallet, wallet, tokenMintA, 6, 30_000_000),
		tokenTransfer(otherWallet, wallet, tokenMintA, 6, 20_000_000),
	})

	deltas := book.nonDust(wallet, DefaultDustEpsilon)
	require.Len(t, deltas, 1)
	assert.Equal(t, int64(50_000_000), deltas[0].RawDelta)
}

func TestReconcileActions_IgnoresSelfTransfer(t *testing.T) {
	book := aggregateDeltas(nil)
	reconcileActions(book, []domain.Action{
		tokenTransfer(wallet, wallet, tokenMintA, 6, 50_000_000),
	})

	assert.Zero(t, book.nonDustCount(DefaultDustEpsilon))
}

func TestReconcileActions_IgnoresNonPositiveAmounts(t *testing.T) {
	book := aggregateDeltas(nil)
	reconcileActions(book, []domain.Action{
		tokenTransfer(otherWallet, wallet, tokenMintA, 6, 0),
		tokenTransfer(otherWallet, wallet, tokenMintA, 6, -5),
	})

	assert.Zero(t, book.nonDustCount(DefaultDustEpsilon))
}

func TestReconcileActions_SolTransferBooksNativeMint(t *testing.T) {
	// SOL transfers carry no mint; they net against wrapped SOL entries.
	book := aggregateDeltas(nil)
	reconcileActions(book, []domain.Action{
		solTransfer(otherWallet, wallet, 2_000_000_000),
	})

	deltas := book.nonDust(wallet, DefaultDustEpsilon)
	require.Len(t, deltas, 1)
	assert.Equal(t, coreassets.NativeSOL, deltas[0].Mint)
	assert.Equal(t, 9, deltas[0].Decimals)
	assert.InDelta(t, 2.0, deltas[0].NormalizedDelta, 1e-12)
}

func TestReconcileActions_SwapActionsNeverFolded(t *testing.T) {
	// SWAP action quantities are hints; they never create deltas.
	book := aggregateDeltas(nil)
	reconcileActions(book, []domain.Action{{
		Type: domain.ActionSwap,
		Info: domain.ActionInfo{
			Swapper: wallet,
			TokensSwapped: &domain.TokensSwapped{
				In:  domain.SwapLeg{Mint: coreassets.NativeSOL, Decimals: 9, AmountRaw: 1_000_000_000},
				Out: domain.SwapLeg{Mint: tokenMintA, Decimals: 6, AmountRaw: 50_000_000},
			},
		},
	}})

	assert.Zero(t, book.nonDustCount(DefaultDustEpsilon))
}

func TestClassify_DuplicatedMovementEndToEnd(t *testing.T) {
	// Full pipeline version of the double-report case: the classified
	// input amount reflects the single movement.
	c := newClassifier()

	tx := solBuyTx()
	tx.Actions = append(tx.Actions, solTransfer(wallet, otherWallet, 1_000_000_000))

	swap := requireSwap(t, c.Classify(tx))
	assert.InDelta(t, 1.0, swap.Amounts.SwapInputAmount, 1e-12)
}
