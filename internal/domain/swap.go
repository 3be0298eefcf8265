package domain

// Direction of a classified swap, always derived from the sign of the
// base-asset delta.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Confidence grades how well the evidence for a classification agrees.
type Confidence string

const (
	// ConfidenceMax: balance deltas and an explicit SWAP action agree.
	ConfidenceMax Confidence = "MAX"
	// ConfidenceHigh: clean delta pair and the fee payer is the swapper.
	ConfidenceHigh Confidence = "HIGH"
	// ConfidenceMedium: swapper via fallback heuristic, or split synthesis.
	ConfidenceMedium Confidence = "MEDIUM"
	// ConfidenceLow: multi-hop collapse was required, or an
	// action/balance disagreement was resolved by balance authority.
	ConfidenceLow Confidence = "LOW"
)

// How the controlling account was resolved.
const (
	SwapperFromSwapAction = "swap_action"
	SwapperFromFeePayer   = "fee_payer"
	SwapperFromSigner     = "first_signer"
	SwapperFromSoleOwner  = "sole_delta_owner"
)

// Classification sources. Split legs are distinguished by suffix so that
// two records sharing a signature remain unique on (signature, direction)
// and traceable to the synthesis path.
const (
	SourceBalanceDelta = "balance_delta"
	SourceSplitSell    = "balance_delta_split_sell"
	SourceSplitBuy     = "balance_delta_split_buy"
)

// Quote-side valuation provenance. Split legs have no observed core leg,
// so their quote valuation is unavailable rather than estimated.
const (
	ValuationObserved    = "observed"
	ValuationUnavailable = "unavailable"
)

// Asset identifies one side of a swap.
type Asset struct {
	Mint     string `json:"mint"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals int    `json:"decimals"`
}

// FeeBreakdown itemizes the fees folded into wallet cost / net received.
// Only fees denominated in the quote asset are folded in; fees in other
// assets are reported as zero here, never converted.
type FeeBreakdown struct {
	TransactionFeeLamports int64   `json:"transaction_fee_lamports"`
	TransactionFeeQuote    float64 `json:"transaction_fee_quote"`
	PlatformFeeQuote       float64 `json:"platform_fee_quote"`
	PriorityFeeQuote       float64 `json:"priority_fee_quote"`
}

// SwapAmounts carries the numeric result of classification. BaseAmountRaw
// is the exact observed delta in raw units; normalized values use the
// asset's decimals. SwapInputAmount/TotalWalletCost are set for BUY,
// SwapOutputAmount/NetWalletReceived for SELL.
type SwapAmounts struct {
	BaseAmount        float64      `json:"base_amount"`
	BaseAmountRaw     int64        `json:"base_amount_raw"`
	SwapInputAmount   float64      `json:"swap_input_amount,omitempty"`
	SwapOutputAmount  float64      `json:"swap_output_amount,omitempty"`
	TotalWalletCost   float64      `json:"total_wallet_cost,omitempty"`
	NetWalletReceived float64      `json:"net_wallet_received,omitempty"`
	Fees              FeeBreakdown `json:"fee_breakdown"`
}

// ClassifiedSwap is the terminal success value for one transaction (or one
// leg of a split pair). Immutable once produced.
type ClassifiedSwap struct {
	Signature string    `json:"signature"`
	Timestamp int64     `json:"timestamp"`
	Swapper   string    `json:"swapper"`
	Direction Direction `json:"direction"`

	QuoteAsset Asset       `json:"quote_asset"`
	BaseAsset  Asset       `json:"base_asset"`
	Amounts    SwapAmounts `json:"amounts"`

	Confidence                  Confidence `json:"confidence"`
	Protocol                    string     `json:"protocol,omitempty"`
	SwapperIdentificationMethod string     `json:"swapper_identification_method"`
	ClassificationSource        string     `json:"classification_source"`
	QuoteValuation              string     `json:"quote_valuation"`

	// IntermediateAssetsCollapsed lists mints dropped during multi-hop
	// route collapse, empty for direct swaps.
	IntermediateAssetsCollapsed []string `json:"intermediate_assets_collapsed,omitempty"`
}

// SplitSwapPair re-expresses a non-core to non-core swap as two canonical
// legs sharing the signature.
type SplitSwapPair struct {
	SellRecord *ClassifiedSwap `json:"sell_record"`
	BuyRecord  *ClassifiedSwap `json:"buy_record"`
}
