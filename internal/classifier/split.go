package classifier

import (
	"math"

	"solana-whale-watch/internal/coreassets"
	"solana-whale-watch/internal/domain"
)

// synthesizeSplit handles non-core to non-core swaps. Economically the
// transaction is "A -> implicit core -> B" even though no core leg was
// observed, so it is re-expressed as two canonical legs sharing the
// signature: a SELL of the disposed asset and a BUY of the acquired one.
//
// Invariant: the base amount of each leg is the raw observed delta,
// exactly. The quote side has no observed valuation and none is
// fabricated — both legs carry the implicit core reference asset with
// QuoteValuation marked unavailable, and quote-side amounts stay zero.
func (c *Classifier) synthesizeSplit(ctx classificationContext, roles roleAssignment) domain.Outcome {
	confidence := c.grade(ctx, roles, true)

	sell := c.splitLeg(ctx, roles.negative, domain.DirectionSell, domain.SourceSplitSell, confidence)
	buy := c.splitLeg(ctx, roles.positive, domain.DirectionBuy, domain.SourceSplitBuy, confidence)

	return &domain.SplitSwapPair{
		SellRecord: sell,
		BuyRecord:  buy,
	}
}

// splitLeg builds one synthetic leg around an observed base delta.
func (c *Classifier) splitLeg(ctx classificationContext, base *domain.AssetDelta, direction domain.Direction, source string, confidence domain.Confidence) *domain.ClassifiedSwap {
	return &domain.ClassifiedSwap{
		Signature:  ctx.tx.Signature,
		Timestamp:  ctx.tx.Timestamp,
		Swapper:    ctx.swapper,
		Direction:  direction,
		QuoteAsset: implicitQuoteAsset(),
		BaseAsset:  assetOf(base, c.registry),
		Amounts: domain.SwapAmounts{
			BaseAmount:    math.Abs(base.NormalizedDelta),
			BaseAmountRaw: absInt64(base.RawDelta),
			// Lamport fee is recorded for completeness; no quote-side fee
			// math is possible without an observed quote leg.
			Fees: domain.FeeBreakdown{TransactionFeeLamports: ctx.tx.Fee},
		},
		Confidence:                  confidence,
		Protocol:                    ctx.protocol,
		SwapperIdentificationMethod: ctx.method,
		ClassificationSource:        source,
		QuoteValuation:              domain.ValuationUnavailable,
		IntermediateAssetsCollapsed: ctx.collapsed,
	}
}

// implicitQuoteAsset is the reference asset attached to split legs: the
// canonical core asset the route implicitly passed through.
func implicitQuoteAsset() domain.Asset {
	return domain.Asset{
		Mint:     coreassets.NativeSOL,
		Symbol:   "SOL",
		Decimals: solDecimals,
	}
}
