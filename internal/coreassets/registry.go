// Package coreassets holds the fixed allow-list of quote-eligible
// "liquidity" assets. The registry is configuration, not logic: it is
// built once and injected wherever core-membership is tested, never
// re-declared per module.
package coreassets

// NativeSOL is the wrapped SOL mint. The provider reports native SOL
// movements under the same mint, so one entry covers SOL and WSOL.
const NativeSOL = "So11111111111111111111111111111111111111112"

// Well-known core mints.
const (
	USDC    = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDT    = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
	MSOL    = "mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So"
	StSOL   = "7dHbWXmci3dT8UFYWYZweBLXgycu7Y3iL6trKn1Y7ARj"
	JitoSOL = "J1toso1uCk3RLmjorhTtrVwY9HJ7X8V9yYac6Y7kGCPn"
	BSOL    = "bSo13r4TkiE4KumL71LsHTPpL2euBYLFx6h9HP3piy1"
)

// Tier groups core assets by the unit they effectively denominate in.
// A swap between two core assets of the same tier is arbitrage noise
// (stable-for-stable, SOL-for-staked-SOL) and gets suppressed; across
// tiers it is a real trade and the SOL-tier asset prices it.
type Tier int

const (
	// TierSOL covers native SOL/WSOL and liquid-staking derivatives.
	TierSOL Tier = iota + 1
	// TierStable covers major USD stablecoins.
	TierStable
)

// CoreAsset is one allow-list entry.
type CoreAsset struct {
	Symbol string
	Tier   Tier
}

// Registry answers core-membership queries over an immutable mint set.
type Registry struct {
	mints map[string]CoreAsset
}

// NewRegistry builds a registry from mint -> asset entries.
func NewRegistry(assets map[string]CoreAsset) *Registry {
	m := make(map[string]CoreAsset, len(assets))
	for mint, asset := range assets {
		m[mint] = asset
	}
	return &Registry{mints: m}
}

// Default returns the production allow-list: native SOL/WSOL, major
// liquid-staking derivatives, and major stablecoins.
func Default() *Registry {
	return NewRegistry(map[string]CoreAsset{
		NativeSOL: {Symbol: "SOL", Tier: TierSOL},
		MSOL:      {Symbol: "mSOL", Tier: TierSOL},
		StSOL:     {Symbol: "stSOL", Tier: TierSOL},
		JitoSOL:   {Symbol: "jitoSOL", Tier: TierSOL},
		BSOL:      {Symbol: "bSOL", Tier: TierSOL},
		USDC:      {Symbol: "USDC", Tier: TierStable},
		USDT:      {Symbol: "USDT", Tier: TierStable},
	})
}

// IsCore reports whether mint is a member of the allow-list.
func (r *Registry) IsCore(mint string) bool {
	_, ok := r.mints[mint]
	return ok
}

// Tier returns the tier for a core mint; ok is false for non-core mints.
func (r *Registry) Tier(mint string) (Tier, bool) {
	asset, ok := r.mints[mint]
	return asset.Tier, ok
}

// Symbol returns the registry symbol for a core mint, or "" for non-core.
func (r *Registry) Symbol(mint string) string {
	return r.mints[mint].Symbol
}

// IsSOL reports whether mint is native SOL/WSOL. The network transaction
// fee is quote-denominated only in this case.
func (r *Registry) IsSOL(mint string) bool {
	return mint == NativeSOL
}

// Size returns the number of mints in the registry.
func (r *Registry) Size() int {
	return len(r.mints)
}
