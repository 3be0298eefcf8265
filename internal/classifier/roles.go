package classifier

import (
	"math"
	"sort"

	"solana-whale-watch/internal/coreassets"
	"solana-whale-watch/internal/domain"
)

// roleAssignment maps the two moved assets onto economic roles. When
// exactly one mint is core, it is the quote (the liquidity reference) and
// the other is the base. The degenerate cases are flagged instead.
type roleAssignment struct {
	quote       *domain.AssetDelta
	base        *domain.AssetDelta
	bothCore    bool
	neitherCore bool

	// negative/positive are the disposed and acquired deltas; set for the
	// neitherCore case where quote/base are per-leg.
	negative *domain.AssetDelta
	positive *domain.AssetDelta
}

// assignRoles classifies a valid opposite-sign delta pair.
func assignRoles(deltas []*domain.AssetDelta, registry *coreassets.Registry) roleAssignment {
	a, b := deltas[0], deltas[1]

	neg, pos := a, b
	if neg.RawDelta > 0 {
		neg, pos = b, a
	}

	aCore, bCore := registry.IsCore(a.Mint), registry.IsCore(b.Mint)
	switch {
	case aCore && bCore:
		// Two core assets are a real trade only across tiers (e.g. SOL
		// for USDC); within a tier it is arbitrage noise. Across tiers
		// the SOL-tier asset prices the trade.
		aTier, _ := registry.Tier(a.Mint)
		bTier, _ := registry.Tier(b.Mint)
		if aTier == bTier {
			return roleAssignment{bothCore: true, negative: neg, positive: pos}
		}
		if aTier == coreassets.TierSOL {
			return roleAssignment{quote: a, base: b, negative: neg, positive: pos}
		}
		return roleAssignment{quote: b, base: a, negative: neg, positive: pos}
	case !aCore && !bCore:
		return roleAssignment{neitherCore: true, negative: neg, positive: pos}
	case aCore:
		return roleAssignment{quote: a, base: b, negative: neg, positive: pos}
	default:
		return roleAssignment{quote: b, base: a, negative: neg, positive: pos}
	}
}

// collapseRoute reduces a multi-hop routing trace (more than two non-dust
// deltas) to its first and last legs. Intermediate hops net to ~0 across
// the route; those mints are dropped and reported so the record shows the
// collapse happened. Returns ok=false when dropping residues still leaves
// more than two legs, in which case the route cannot be resolved into a
// single economic swap.
func collapseRoute(deltas []*domain.AssetDelta, eps float64) (kept []*domain.AssetDelta, collapsed []string, ok bool) {
	tolerance := eps * routeResidueFactor
	for _, d := range deltas {
		if math.Abs(d.NormalizedDelta) < tolerance {
			collapsed = append(collapsed, d.Mint)
			continue
		}
		kept = append(kept, d)
	}
	sort.Strings(collapsed)
	if len(kept) != 2 {
		return kept, collapsed, false
	}
	return kept, collapsed, true
}
