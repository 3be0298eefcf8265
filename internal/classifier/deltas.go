package classifier

import (
	"math"
	"sort"

	"solana-whale-watch/internal/domain"
)

// deltaBook holds the net per-owner, per-mint balance movements of one
// transaction, plus the set of mints the balance changes themselves
// reported. The latter is what keeps transfer actions from double
// counting: an action may only create a delta for a mint the balance
// changes never mentioned for that owner.
type deltaBook struct {
	byOwner map[string]map[string]*domain.AssetDelta
	// observed marks (owner, mint) pairs sourced from balance changes.
	observed map[string]map[string]bool
}

func newDeltaBook() *deltaBook {
	return &deltaBook{
		byOwner:  make(map[string]map[string]*domain.AssetDelta),
		observed: make(map[string]map[string]bool),
	}
}

// aggregateDeltas nets all token balance changes per (owner, mint).
// Duplicate entries for the same pair are summed; they are partial views
// of one movement across token accounts, never independent facts.
func aggregateDeltas(changes []domain.TokenBalanceChange) *deltaBook {
	book := newDeltaBook()
	for _, ch := range changes {
		if ch.Owner == "" || ch.Mint == "" {
			continue
		}
		d := book.upsert(ch.Owner, ch.Mint, ch.Decimals, ch.Symbol)
		d.RawDelta += ch.ChangeAmount
		d.NormalizedDelta = normalize(d.RawDelta, d.Decimals)
		book.markObserved(ch.Owner, ch.Mint)
	}
	return book
}

// upsert returns the delta entry for (owner, mint), creating it if absent.
func (b *deltaBook) upsert(owner, mint string, decimals int, symbol string) *domain.AssetDelta {
	mints, ok := b.byOwner[owner]
	if !ok {
		mints = make(map[string]*domain.AssetDelta)
		b.byOwner[owner] = mints
	}
	d, ok := mints[mint]
	if !ok {
		d = &domain.AssetDelta{Mint: mint, Decimals: decimals, Symbol: symbol}
		mints[mint] = d
	}
	if d.Symbol == "" {
		d.Symbol = symbol
	}
	return d
}

func (b *deltaBook) markObserved(owner, mint string) {
	set, ok := b.observed[owner]
	if !ok {
		set = make(map[string]bool)
		b.observed[owner] = set
	}
	set[mint] = true
}

// hasObserved reports whether balance changes produced a delta for
// (owner, mint).
func (b *deltaBook) hasObserved(owner, mint string) bool {
	return b.observed[owner][mint]
}

// nonDust returns owner's deltas with normalized magnitude at or above
// eps, sorted by mint for deterministic downstream behavior.
func (b *deltaBook) nonDust(owner string, eps float64) []*domain.AssetDelta {
	var out []*domain.AssetDelta
	for _, d := range b.byOwner[owner] {
		if !isDust(d, eps) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mint < out[j].Mint })
	return out
}

// nonDustCount counts non-dust deltas across all owners.
func (b *deltaBook) nonDustCount(eps float64) int {
	n := 0
	for _, mints := range b.byOwner {
		for _, d := range mints {
			if !isDust(d, eps) {
				n++
			}
		}
	}
	return n
}

// owners returns all owners holding at least one non-dust delta, sorted.
func (b *deltaBook) owners(eps float64) []string {
	var out []string
	for owner, mints := range b.byOwner {
		for _, d := range mints {
			if !isDust(d, eps) {
				out = append(out, owner)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// isDust reports whether a delta is too small to be an economic movement.
func isDust(d *domain.AssetDelta, eps float64) bool {
	return math.Abs(d.NormalizedDelta) < eps
}

// normalize converts a raw integer amount into native units.
func normalize(raw int64, decimals int) float64 {
	if decimals <= 0 {
		return float64(raw)
	}
	return float64(raw) / math.Pow10(decimals)
}
