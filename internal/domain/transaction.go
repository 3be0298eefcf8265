package domain

// Transaction status values reported by the indexing provider.
const (
	StatusSuccess = "Success"
	StatusFailed  = "Failed"
)

// RawTransaction is the typed view of one parsed transaction as delivered
// by the indexing provider. It is immutable input: the classifier never
// mutates it and never reads anything outside of it.
type RawTransaction struct {
	Signature           string               `json:"signature"`
	Timestamp           int64                `json:"timestamp"` // Unix seconds
	Status              string               `json:"status"`
	Fee                 int64                `json:"fee"`                    // lamports
	PriorityFee         int64                `json:"priority_fee,omitempty"` // lamports
	FeePayer            string               `json:"fee_payer"`
	Signers             []string             `json:"signers"`
	Protocol            *ProtocolHint        `json:"protocol,omitempty"`
	TokenBalanceChanges []TokenBalanceChange `json:"token_balance_changes"`
	Actions             []Action             `json:"actions"`
}

// ProtocolHint names the program the provider attributed the transaction to.
type ProtocolHint struct {
	Name string `json:"name"`
}

// TokenBalanceChange is one pre/post balance movement for an (owner, mint)
// token account. A transaction may carry several entries for the same
// (owner, mint) pair; they must be summed, never read individually.
type TokenBalanceChange struct {
	Owner        string `json:"owner"`
	Mint         string `json:"mint"`
	Decimals     int    `json:"decimals"`
	ChangeAmount int64  `json:"change_amount"` // signed, raw units
	PreBalance   int64  `json:"pre_balance"`
	PostBalance  int64  `json:"post_balance"`
	Symbol       string `json:"symbol,omitempty"`
}

// Action types emitted by the provider. Anything else is carried through
// as-is and ignored by the classifier.
const (
	ActionSwap          = "SWAP"
	ActionTokenTransfer = "TOKEN_TRANSFER"
	ActionSolTransfer   = "SOL_TRANSFER"
)

// Action is one semantic operation the provider decoded from the
// transaction. The Info payload is type-specific; fields irrelevant to the
// action type are left at their zero values.
type Action struct {
	Type string     `json:"type"`
	Info ActionInfo `json:"info"`
}

// ActionInfo carries the type-specific fields of an Action.
//
// SWAP: Swapper plus TokensSwapped. The embedded quantities are treated as
// hints only; balance changes stay authoritative for amounts.
// TOKEN_TRANSFER: Sender, Receiver, Mint, Decimals, AmountRaw.
// SOL_TRANSFER: Sender, Receiver, AmountRaw in lamports (Mint empty).
type ActionInfo struct {
	Swapper       string         `json:"swapper,omitempty"`
	Sender        string         `json:"sender,omitempty"`
	Receiver      string         `json:"receiver,omitempty"`
	Mint          string         `json:"token_address,omitempty"`
	Decimals      int            `json:"decimals,omitempty"`
	AmountRaw     int64          `json:"amount_raw,omitempty"`
	TokensSwapped *TokensSwapped `json:"tokens_swapped,omitempty"`
	// PlatformFee is the venue fee a SWAP action reports, when it does.
	PlatformFee *SwapLeg `json:"platform_fee,omitempty"`
}

// TokensSwapped is the in/out pair a SWAP action reports.
type TokensSwapped struct {
	In  SwapLeg `json:"in"`
	Out SwapLeg `json:"out"`
}

// SwapLeg is one side of a SWAP action's reported movement.
type SwapLeg struct {
	Mint      string `json:"token_address"`
	Symbol    string `json:"symbol,omitempty"`
	Decimals  int    `json:"decimals"`
	AmountRaw int64  `json:"amount_raw"`
}

// IsTransfer reports whether the action moves tokens or SOL directly.
func (a Action) IsTransfer() bool {
	return a.Type == ActionTokenTransfer || a.Type == ActionSolTransfer
}

// AssetDelta is the net movement of one mint for one owner within a single
// transaction. Invariant: it equals the sum of every contributing source
// for that mint, each source counted exactly once.
type AssetDelta struct {
	Mint            string
	Decimals        int
	Symbol          string
	RawDelta        int64
	NormalizedDelta float64
}
