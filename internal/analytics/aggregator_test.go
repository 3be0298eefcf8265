package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/storage/memory"
)

func seedRecords(t *testing.T, store *memory.SwapRecordStore, records []*domain.SwapRecord) {
	t.Helper()
	require.NoError(t, store.InsertBulk(context.Background(), records))
}

func TestComputeWalletAggregate(t *testing.T) {
	store := memory.NewSwapRecordStore()
	agg := NewAggregator(store)
	ctx := context.Background()

	seedRecords(t, store, []*domain.SwapRecord{
		{
			Signature: "Sig1", Direction: "BUY", Timestamp: 1000, Swapper: "W1",
			BaseMint: "MintA", BaseSymbol: "AAA", BaseAmount: 100,
			TotalWalletCost: 1.5, TxFeeQuote: 0.0001,
			Confidence: "HIGH", Protocol: "RAYDIUM",
			ClassificationSource: "balance_delta",
		},
		{
			Signature: "Sig2", Direction: "BUY", Timestamp: 2000, Swapper: "W1",
			BaseMint: "MintB", BaseSymbol: "BBB", BaseAmount: 40,
			TotalWalletCost: 3.0, TxFeeQuote: 0.0001, PriorityFeeQuote: 0.0002,
			Confidence: "MAX", Protocol: "JUPITER",
			ClassificationSource: "balance_delta",
		},
		{
			Signature: "Sig3", Direction: "SELL", Timestamp: 3000, Swapper: "W1",
			BaseMint: "MintA", BaseSymbol: "AAA", BaseAmount: 60,
			NetWalletReceived: 1.2, TxFeeQuote: 0.0001,
			Confidence: "HIGH", Protocol: "RAYDIUM",
			ClassificationSource: "balance_delta",
		},
		// Outside the window
		{
			Signature: "Sig4", Direction: "BUY", Timestamp: 9000, Swapper: "W1",
			BaseMint: "MintA", BaseAmount: 10, TotalWalletCost: 0.5,
			Confidence: "LOW", Protocol: "UNKNOWN",
			ClassificationSource: "balance_delta",
		},
		// Other wallet
		{
			Signature: "Sig5", Direction: "BUY", Timestamp: 1500, Swapper: "W2",
			BaseMint: "MintA", BaseAmount: 5, TotalWalletCost: 0.1,
			Confidence: "HIGH", Protocol: "RAYDIUM",
			ClassificationSource: "balance_delta",
		},
	})

	got, err := agg.ComputeWalletAggregate(ctx, "W1", 0, 5000)
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalSwaps)
	assert.Equal(t, 2, got.Buys)
	assert.Equal(t, 1, got.Sells)
	assert.Equal(t, 0, got.SplitLegs)

	assert.InDelta(t, 4.5, got.TotalQuoteSpent, 1e-9)
	assert.InDelta(t, 1.2, got.TotalQuoteReceived, 1e-9)
	assert.InDelta(t, 0.0005, got.TotalFeesQuote, 1e-9)

	assert.Equal(t, 2, got.ConfidenceCounts["HIGH"])
	assert.Equal(t, 1, got.ConfidenceCounts["MAX"])
	assert.Equal(t, 2, got.ProtocolCounts["RAYDIUM"])

	// Net position: bought 100 MintA, sold 60
	assert.InDelta(t, 40, got.NetBaseByMint["MintA"], 1e-9)
	assert.InDelta(t, 40, got.NetBaseByMint["MintB"], 1e-9)

	// Largest buy volume first
	require.Len(t, got.TopBuyMints, 2)
	assert.Equal(t, "MintB", got.TopBuyMints[0].Mint)
	assert.InDelta(t, 3.0, got.TopBuyMints[0].QuoteSpent, 1e-9)
	assert.Equal(t, "MintA", got.TopBuyMints[1].Mint)
}

func TestComputeWalletAggregate_SplitLegsCounted(t *testing.T) {
	store := memory.NewSwapRecordStore()
	agg := NewAggregator(store)
	ctx := context.Background()

	seedRecords(t, store, []*domain.SwapRecord{
		{
			Signature: "Sig1", Direction: "SELL", Timestamp: 1000, Swapper: "W1",
			BaseMint: "MintA", BaseAmount: 50,
			Confidence: "MEDIUM", Protocol: "UNKNOWN",
			ClassificationSource: "balance_delta_split_sell",
		},
		{
			Signature: "Sig1", Direction: "BUY", Timestamp: 1000, Swapper: "W1",
			BaseMint: "MintB", BaseAmount: 75,
			Confidence: "MEDIUM", Protocol: "UNKNOWN",
			ClassificationSource: "balance_delta_split_buy",
		},
	})

	got, err := agg.ComputeWalletAggregate(ctx, "W1", 0, 5000)
	require.NoError(t, err)

	assert.Equal(t, 2, got.TotalSwaps)
	assert.Equal(t, 2, got.SplitLegs)
}

func TestComputeWalletAggregate_NoSwaps(t *testing.T) {
	store := memory.NewSwapRecordStore()
	agg := NewAggregator(store)

	_, err := agg.ComputeWalletAggregate(context.Background(), "W1", 0, 5000)
	assert.ErrorIs(t, err, ErrNoSwaps)
}
