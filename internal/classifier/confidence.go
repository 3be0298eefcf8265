package classifier

import "solana-whale-watch/internal/domain"

// grade assigns the confidence level for a classification.
//
// Ladder, high to low: MAX when the balance deltas and an explicit SWAP
// action agree on the moved mints; HIGH when the delta pair is clean and
// the fee payer is the swapper; MEDIUM when the swapper came from a
// fallback heuristic or the record is a split leg. On top of the ladder,
// caps: multi-hop collapse or a SWAP action that disagrees with the
// deltas force LOW, split synthesis forces at most MEDIUM.
func (c *Classifier) grade(ctx classificationContext, roles roleAssignment, split bool) domain.Confidence {
	action := swapAction(ctx.tx.Actions)

	level := domain.ConfidenceMedium
	switch {
	case action != nil && actionAgreesWithDeltas(action, roles):
		level = domain.ConfidenceMax
	case ctx.swapper == ctx.tx.FeePayer:
		level = domain.ConfidenceHigh
	}

	if split {
		level = minConfidence(level, domain.ConfidenceMedium)
	}
	if len(ctx.collapsed) > 0 {
		level = minConfidence(level, domain.ConfidenceLow)
	}
	if action != nil && !actionAgreesWithDeltas(action, roles) {
		// Balance authority resolved a disagreement.
		level = minConfidence(level, domain.ConfidenceLow)
	}
	return level
}

// actionAgreesWithDeltas reports whether the SWAP action's reported in/out
// mints match the observed disposed/acquired deltas. Amounts are not
// compared; the action's quantities are untrusted by design.
func actionAgreesWithDeltas(action *domain.Action, roles roleAssignment) bool {
	ts := action.Info.TokensSwapped
	if ts == nil || roles.negative == nil || roles.positive == nil {
		return false
	}
	return ts.In.Mint == roles.negative.Mint && ts.Out.Mint == roles.positive.Mint
}

// confidenceRank orders confidence levels for capping.
var confidenceRank = map[domain.Confidence]int{
	domain.ConfidenceLow:    0,
	domain.ConfidenceMedium: 1,
	domain.ConfidenceHigh:   2,
	domain.ConfidenceMax:    3,
}

func minConfidence(a, b domain.Confidence) domain.Confidence {
	if confidenceRank[a] <= confidenceRank[b] {
		return a
	}
	return b
}
