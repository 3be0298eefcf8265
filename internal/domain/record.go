package domain

import "strings"

// TrackedWallet is a whale/influencer account whose swaps are tracked.
type TrackedWallet struct {
	Address string // base58 wallet address
	Label   string // human-readable name
	Active  bool   // inactive wallets are kept but not polled
	AddedAt int64  // Unix timestamp in milliseconds
}

// SwapRecord is the persisted, flattened form of a ClassifiedSwap.
// Records are keyed by (signature, direction): a split pair stores two
// rows sharing the signature.
type SwapRecord struct {
	Signature string
	Direction string
	Timestamp int64
	Swapper   string

	QuoteMint     string
	QuoteSymbol   string
	QuoteDecimals int
	BaseMint      string
	BaseSymbol    string
	BaseDecimals  int

	BaseAmount        float64
	BaseAmountRaw     int64
	SwapInputAmount   float64
	SwapOutputAmount  float64
	TotalWalletCost   float64
	NetWalletReceived float64

	TxFeeLamports    int64
	TxFeeQuote       float64
	PlatformFeeQuote float64
	PriorityFeeQuote float64

	Confidence                  string
	Protocol                    string
	SwapperIdentificationMethod string
	ClassificationSource        string
	QuoteValuation              string
	IntermediateAssetsCollapsed string // comma-joined mint list

	CreatedAt int64 // Unix timestamp in milliseconds
}

// RecordFromSwap flattens a classified swap into its storage row.
func RecordFromSwap(s *ClassifiedSwap, createdAt int64) *SwapRecord {
	return &SwapRecord{
		Signature: s.Signature,
		Direction: string(s.Direction),
		Timestamp: s.Timestamp,
		Swapper:   s.Swapper,

		QuoteMint:     s.QuoteAsset.Mint,
		QuoteSymbol:   s.QuoteAsset.Symbol,
		QuoteDecimals: s.QuoteAsset.Decimals,
		BaseMint:      s.BaseAsset.Mint,
		BaseSymbol:    s.BaseAsset.Symbol,
		BaseDecimals:  s.BaseAsset.Decimals,

		BaseAmount:        s.Amounts.BaseAmount,
		BaseAmountRaw:     s.Amounts.BaseAmountRaw,
		SwapInputAmount:   s.Amounts.SwapInputAmount,
		SwapOutputAmount:  s.Amounts.SwapOutputAmount,
		TotalWalletCost:   s.Amounts.TotalWalletCost,
		NetWalletReceived: s.Amounts.NetWalletReceived,

		TxFeeLamports:    s.Amounts.Fees.TransactionFeeLamports,
		TxFeeQuote:       s.Amounts.Fees.TransactionFeeQuote,
		PlatformFeeQuote: s.Amounts.Fees.PlatformFeeQuote,
		PriorityFeeQuote: s.Amounts.Fees.PriorityFeeQuote,

		Confidence:                  string(s.Confidence),
		Protocol:                    s.Protocol,
		SwapperIdentificationMethod: s.SwapperIdentificationMethod,
		ClassificationSource:        s.ClassificationSource,
		QuoteValuation:              s.QuoteValuation,
		IntermediateAssetsCollapsed: strings.Join(s.IntermediateAssetsCollapsed, ","),

		CreatedAt: createdAt,
	}
}

// ErasureStat is one recorded erasure decision, kept for rate monitoring.
type ErasureStat struct {
	Signature string
	Wallet    string
	Reason    string
	Timestamp int64 // Unix timestamp in milliseconds
}
