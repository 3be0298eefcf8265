// Package classifier turns raw provider transactions into canonical swap
// records. Classification is a pure, synchronous, stateless function: each
// call allocates its own intermediates and reads only the injected
// core-asset registry, so any number of goroutines may classify
// concurrently with zero synchronization.
package classifier

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"solana-whale-watch/internal/coreassets"
	"solana-whale-watch/internal/domain"
	"solana-whale-watch/internal/protocol"
)

// DefaultDustEpsilon is the normalized-unit threshold below which a delta
// is treated as noise rather than an economic movement.
const DefaultDustEpsilon = 1e-6

// routeResidueFactor scales the dust epsilon into the tolerance used when
// deciding that an intermediate routing hop "nets to ~0". Routers leave
// single-lamport residues, so exact zero is too strict.
const routeResidueFactor = 100

// Classifier classifies raw transactions. Construct once and share.
type Classifier struct {
	registry    *coreassets.Registry
	dustEpsilon float64
	log         zerolog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithDustEpsilon overrides the dust threshold (normalized units).
func WithDustEpsilon(eps float64) Option {
	return func(c *Classifier) {
		if eps > 0 {
			c.dustEpsilon = eps
		}
	}
}

// WithLogger sets the logger used for programmer-error alarms. The
// classifier never logs on the expected path.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Classifier) {
		c.log = log
	}
}

// New creates a Classifier around the injected core-asset registry.
func New(registry *coreassets.Registry, opts ...Option) *Classifier {
	c := &Classifier{
		registry:    registry,
		dustEpsilon: DefaultDustEpsilon,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify decides whether tx is an actual swap by the controlling
// account and, if so, assembles the canonical record(s). All failure is
// data: exactly one erasure reason is returned for non-swaps, following
// the ordered decision table
//
//	transaction_failed -> invalid_input -> invalid_asset_count ->
//	swapper_identification_failed -> both_positive_airdrop /
//	both_negative_burn -> core_to_core_suppressed -> classification.
func (c *Classifier) Classify(tx *domain.RawTransaction) domain.Outcome {
	if tx == nil {
		return &domain.ErasureResult{
			Reason:    domain.EraseInvalidInput,
			DebugInfo: map[string]string{"error": "nil transaction"},
		}
	}

	if tx.Status != domain.StatusSuccess {
		return erase(tx, domain.EraseTransactionFailed, map[string]string{
			"status": tx.Status,
		})
	}

	if reason := validateInput(tx); reason != nil {
		return erase(tx, domain.EraseInvalidInput, reason)
	}

	// Net every (owner, mint) movement, then let transfer actions fill
	// gaps for mints the balance changes missed. Balance changes stay
	// authoritative throughout.
	book := aggregateDeltas(tx.TokenBalanceChanges)
	reconcileActions(book, tx.Actions)

	if book.nonDustCount(c.dustEpsilon) == 0 {
		return erase(tx, domain.EraseInvalidAssetCount, map[string]string{
			"non_dust_deltas": "0",
			"dust_epsilon":    strconv.FormatFloat(c.dustEpsilon, 'g', -1, 64),
		})
	}

	swapper, method := identifySwapper(tx, book, c.dustEpsilon)
	if swapper == "" {
		return erase(tx, domain.EraseSwapperIdentificationFailed, map[string]string{
			"candidates": fmt.Sprint(swapperCandidates(tx, book, c.dustEpsilon)),
		})
	}

	deltas := book.nonDust(swapper, c.dustEpsilon)
	var collapsed []string
	if len(deltas) > 2 {
		var ok bool
		deltas, collapsed, ok = collapseRoute(deltas, c.dustEpsilon)
		if !ok {
			return erase(tx, domain.EraseInvalidAssetCount, map[string]string{
				"swapper":         swapper,
				"non_dust_deltas": strconv.Itoa(len(deltas) + len(collapsed)),
				"route_collapse":  "unresolvable",
			})
		}
	}
	if len(deltas) != 2 {
		return erase(tx, domain.EraseInvalidAssetCount, map[string]string{
			"swapper":         swapper,
			"non_dust_deltas": strconv.Itoa(len(deltas)),
		})
	}

	if deltas[0].RawDelta > 0 && deltas[1].RawDelta > 0 {
		return erase(tx, domain.EraseBothPositiveAirdrop, deltaDebug(swapper, deltas))
	}
	if deltas[0].RawDelta < 0 && deltas[1].RawDelta < 0 {
		return erase(tx, domain.EraseBothNegativeBurn, deltaDebug(swapper, deltas))
	}

	roles := assignRoles(deltas, c.registry)
	if roles.bothCore {
		return erase(tx, domain.EraseCoreToCoreSuppressed, deltaDebug(swapper, deltas))
	}

	ctx := classificationContext{
		tx:        tx,
		swapper:   swapper,
		method:    method,
		collapsed: collapsed,
		protocol:  protocolName(tx),
	}

	if roles.neitherCore {
		return c.synthesizeSplit(ctx, roles)
	}
	return c.buildSwap(ctx, roles)
}

// classificationContext carries the facts shared by the final assembly
// stages.
type classificationContext struct {
	tx        *domain.RawTransaction
	swapper   string
	method    string
	collapsed []string
	protocol  string
}

// buildSwap assembles the single-record outcome for a swap with an
// observed core leg.
func (c *Classifier) buildSwap(ctx classificationContext, roles roleAssignment) domain.Outcome {
	direction := domain.DirectionBuy
	if roles.base.RawDelta < 0 {
		direction = domain.DirectionSell
	}

	confidence := c.grade(ctx, roles, false)

	swap := &domain.ClassifiedSwap{
		Signature:                   ctx.tx.Signature,
		Timestamp:                   ctx.tx.Timestamp,
		Swapper:                     ctx.swapper,
		Direction:                   direction,
		QuoteAsset:                  assetOf(roles.quote, c.registry),
		BaseAsset:                   assetOf(roles.base, c.registry),
		Confidence:                  confidence,
		Protocol:                    ctx.protocol,
		SwapperIdentificationMethod: ctx.method,
		ClassificationSource:        domain.SourceBalanceDelta,
		QuoteValuation:              domain.ValuationObserved,
		IntermediateAssetsCollapsed: ctx.collapsed,
	}
	swap.Amounts = c.computeAmounts(ctx.tx, direction, roles)
	return swap
}

// protocolName resolves the display protocol from the provider hint.
func protocolName(tx *domain.RawTransaction) string {
	if tx.Protocol != nil {
		return protocol.Normalize(tx.Protocol.Name)
	}
	return protocol.Normalize("")
}

// assetOf builds the output asset view for a delta, preferring the
// registry symbol for core mints over whatever the provider reported.
func assetOf(d *domain.AssetDelta, registry *coreassets.Registry) domain.Asset {
	symbol := d.Symbol
	if s := registry.Symbol(d.Mint); s != "" {
		symbol = s
	}
	return domain.Asset{
		Mint:     d.Mint,
		Symbol:   symbol,
		Decimals: d.Decimals,
	}
}

// erase builds the terminal failure value for tx.
func erase(tx *domain.RawTransaction, reason domain.ErasureReason, debug map[string]string) *domain.ErasureResult {
	return &domain.ErasureResult{
		Signature: tx.Signature,
		Reason:    reason,
		DebugInfo: debug,
	}
}

// deltaDebug summarizes a delta pair for erasure debug info.
func deltaDebug(swapper string, deltas []*domain.AssetDelta) map[string]string {
	debug := map[string]string{"swapper": swapper}
	for i, d := range deltas {
		key := "delta_" + strconv.Itoa(i)
		debug[key] = fmt.Sprintf("%s=%d", d.Mint, d.RawDelta)
	}
	return debug
}
