package classifier

import (
	"math"

	"solana-whale-watch/internal/domain"
)

// computeAmounts assembles the numeric result for a swap with an observed
// core leg. Base amounts come straight from the observed delta; the
// quote-side magnitude is adjusted by fees, but only fees denominated in
// the quote asset itself — nothing is ever converted across assets.
func (c *Classifier) computeAmounts(tx *domain.RawTransaction, direction domain.Direction, roles roleAssignment) domain.SwapAmounts {
	amounts := domain.SwapAmounts{
		BaseAmount:    math.Abs(roles.base.NormalizedDelta),
		BaseAmountRaw: absInt64(roles.base.RawDelta),
		Fees:          c.feeBreakdown(tx, roles.quote.Mint),
	}

	quoteMagnitude := math.Abs(roles.quote.NormalizedDelta)
	feesQuote := amounts.Fees.TransactionFeeQuote + amounts.Fees.PlatformFeeQuote + amounts.Fees.PriorityFeeQuote

	switch direction {
	case domain.DirectionBuy:
		amounts.SwapInputAmount = quoteMagnitude
		amounts.TotalWalletCost = quoteMagnitude + feesQuote
	case domain.DirectionSell:
		amounts.SwapOutputAmount = quoteMagnitude
		net := quoteMagnitude - feesQuote
		if net < 0 {
			// Fees exceeding the observed output means an upstream
			// accounting mistake, not a market condition. Surface it loudly
			// before flooring.
			c.log.Error().
				Str("signature", tx.Signature).
				Str("quote_mint", roles.quote.Mint).
				Float64("swap_output", quoteMagnitude).
				Float64("fees_quote", feesQuote).
				Float64("net_pre_floor", net).
				Msg("negative net wallet received; flooring to zero")
			net = 0
		}
		amounts.NetWalletReceived = net
	}

	return amounts
}

// feeBreakdown itemizes fees in quote terms. The network transaction fee
// and priority fee are lamport-denominated, so they count only when the
// quote asset is SOL. A platform fee reported by a SWAP action counts
// only when it is charged in the quote mint.
func (c *Classifier) feeBreakdown(tx *domain.RawTransaction, quoteMint string) domain.FeeBreakdown {
	fees := domain.FeeBreakdown{
		TransactionFeeLamports: tx.Fee,
	}
	if c.registry.IsSOL(quoteMint) {
		fees.TransactionFeeQuote = normalize(tx.Fee, solDecimals)
		fees.PriorityFeeQuote = normalize(tx.PriorityFee, solDecimals)
	}
	if action := swapAction(tx.Actions); action != nil {
		if pf := action.Info.PlatformFee; pf != nil && pf.Mint == quoteMint {
			fees.PlatformFeeQuote = normalize(pf.AmountRaw, pf.Decimals)
		}
	}
	return fees
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
