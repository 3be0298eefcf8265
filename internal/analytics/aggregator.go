// Package analytics computes per-wallet trading aggregates from stored
// swap records.
package analytics

import (
	"context"
	"errors"
	"sort"

	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/storage"
)

// ErrNoSwaps is returned when no records are available for aggregation.
var ErrNoSwaps = errors.New("no swap records available for aggregation")

// WalletAggregate summarizes a wallet's swaps over a time window.
type WalletAggregate struct {
	Wallet string
	Start  int64
	End    int64

	TotalSwaps int
	Buys       int
	Sells      int
	SplitLegs  int

	// Quote-denominated volume
	TotalQuoteSpent    float64 // sum of buy wallet costs
	TotalQuoteReceived float64 // sum of sell net proceeds
	TotalFeesQuote     float64

	// Distributions
	ConfidenceCounts map[string]int
	ProtocolCounts   map[string]int

	// Net base amount per mint over the window; positive means the
	// wallet accumulated the token
	NetBaseByMint map[string]float64

	// Mints ordered by total buy cost, largest first
	TopBuyMints []MintVolume
}

// MintVolume is a mint with its total quote spent buying it.
type MintVolume struct {
	Mint       string
	Symbol     string
	QuoteSpent float64
}

// Aggregator computes wallet aggregates from swap records.
type Aggregator struct {
	records storage.SwapRecordStore
}

// NewAggregator creates a new analytics aggregator.
func NewAggregator(records storage.SwapRecordStore) *Aggregator {
	return &Aggregator{records: records}
}

// ComputeWalletAggregate loads a wallet's records within [start, end] and
// computes its aggregate. Returns ErrNoSwaps if the window is empty.
func (a *Aggregator) ComputeWalletAggregate(ctx context.Context, wallet string, start, end int64) (*WalletAggregate, error) {
	records, err := a.records.GetByTimeRange(ctx, wallet, start, end)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoSwaps
	}

	return computeFromRecords(wallet, start, end, records), nil
}

// computeFromRecords calculates all aggregate fields from a record slice.
func computeFromRecords(wallet string, start, end int64, records []*domain.SwapRecord) *WalletAggregate {
	agg := &WalletAggregate{
		Wallet:           wallet,
		Start:            start,
		End:              end,
		TotalSwaps:       len(records),
		ConfidenceCounts: make(map[string]int),
		ProtocolCounts:   make(map[string]int),
		NetBaseByMint:    make(map[string]float64),
	}

	buyCost := make(map[string]float64)
	symbols := make(map[string]string)

	for _, r := range records {
		agg.ConfidenceCounts[r.Confidence]++
		agg.ProtocolCounts[r.Protocol]++
		agg.TotalFeesQuote += r.TxFeeQuote + r.PlatformFeeQuote + r.PriorityFeeQuote

		if r.ClassificationSource != string(domain.SourceBalanceDelta) {
			agg.SplitLegs++
		}

		symbols[r.BaseMint] = r.BaseSymbol

		switch r.Direction {
		case string(domain.DirectionBuy):
			agg.Buys++
			agg.TotalQuoteSpent += r.TotalWalletCost
			agg.NetBaseByMint[r.BaseMint] += r.BaseAmount
			buyCost[r.BaseMint] += r.TotalWalletCost
		case string(domain.DirectionSell):
			agg.Sells++
			agg.TotalQuoteReceived += r.NetWalletReceived
			agg.NetBaseByMint[r.BaseMint] -= r.BaseAmount
		}
	}

	// Rank mints by buy volume, ties broken by mint for determinism
	for mint, spent := range buyCost {
		agg.TopBuyMints = append(agg.TopBuyMints, MintVolume{
			Mint:       mint,
			Symbol:     symbols[mint],
			QuoteSpent: spent,
		})
	}
	sort.Slice(agg.TopBuyMints, func(i, j int) bool {
		if agg.TopBuyMints[i].QuoteSpent != agg.TopBuyMints[j].QuoteSpent {
			return agg.TopBuyMints[i].QuoteSpent > agg.TopBuyMints[j].QuoteSpent
		}
		return agg.TopBuyMints[i].Mint < agg.TopBuyMints[j].Mint
	})

	return agg
}
