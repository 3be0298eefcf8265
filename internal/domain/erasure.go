package domain

// ErasureReason is the terminal decision that a transaction is not a
// reportable swap. Reasons are checked in a fixed order and exactly one is
// ever returned per transaction.
type ErasureReason string

const (
	// EraseTransactionFailed: on-chain status is not Success.
	EraseTransactionFailed ErasureReason = "transaction_failed"
	// EraseInvalidInput: missing fee payer/signers, malformed addresses,
	// or missing decimals.
	EraseInvalidInput ErasureReason = "invalid_input"
	// EraseInvalidAssetCount: the swapper does not end up with exactly
	// two non-dust deltas.
	EraseInvalidAssetCount ErasureReason = "invalid_asset_count"
	// EraseSwapperIdentificationFailed: no candidate account appears in a
	// non-dust delta.
	EraseSwapperIdentificationFailed ErasureReason = "swapper_identification_failed"
	// EraseBothPositiveAirdrop: both deltas positive; airdrop, not a swap.
	EraseBothPositiveAirdrop ErasureReason = "both_positive_airdrop"
	// EraseBothNegativeBurn: both deltas negative; burn/payment, not a swap.
	EraseBothNegativeBurn ErasureReason = "both_negative_burn"
	// EraseCoreToCoreSuppressed: both mints are core assets; suppressed to
	// avoid stable/SOL arbitrage noise.
	EraseCoreToCoreSuppressed ErasureReason = "core_to_core_suppressed"
)

// ErasureResult is the terminal failure value. Erasure is the expected,
// high-frequency outcome: most raw transactions are plain transfers,
// failures, or airdrops, not swaps.
type ErasureResult struct {
	Signature string            `json:"signature"`
	Reason    ErasureReason     `json:"reason"`
	DebugInfo map[string]string `json:"debug_info,omitempty"`
}
