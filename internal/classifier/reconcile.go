package classifier

import (
	"solana-whale-watch/internal/coreassets"
	"solana-whale-watch/internal/domain"
)

// solDecimals is the lamport precision of native SOL.
const solDecimals = 9

// reconcileActions merges transfer-type actions into the delta book
// without double counting. Some protocols report one economic movement
// both as a balance-change entry and as a transfer action for the same
// (owner, mint); summing both doubles the amount. The rule is therefore
// authoritative-source, not summation: balance changes win, and a
// transfer action contributes only to a mint the balance changes never
// reported for that owner.
//
// SWAP actions are never folded in here. Their embedded quantities are
// used downstream as role/protocol hints only.
func reconcileActions(book *deltaBook, actions []domain.Action) {
	for _, action := range actions {
		if !action.IsTransfer() {
			continue
		}
		mint, decimals := transferMint(action)
		if mint == "" || action.Info.AmountRaw <= 0 {
			continue
		}
		if action.Info.Sender == action.Info.Receiver {
			// Self-transfer nets to zero.
			continue
		}
		applyTransfer(book, action.Info.Sender, mint, decimals, -action.Info.AmountRaw)
		applyTransfer(book, action.Info.Receiver, mint, decimals, action.Info.AmountRaw)
	}
}

// applyTransfer adds a transfer contribution for (owner, mint) unless the
// balance changes already observed that pair. Multiple gap-filling
// transfers for the same unobserved mint sum among themselves; they are
// together the only source for it.
func applyTransfer(book *deltaBook, owner, mint string, decimals int, rawAmount int64) {
	if owner == "" {
		return
	}
	if book.hasObserved(owner, mint) {
		return
	}
	d := book.upsert(owner, mint, decimals, "")
	d.RawDelta += rawAmount
	d.NormalizedDelta = normalize(d.RawDelta, d.Decimals)
}

// transferMint resolves the asset a transfer action moves. SOL transfers
// carry no mint; they are booked under the native SOL mint so wrapped and
// native movements net against each other.
func transferMint(action domain.Action) (string, int) {
	switch action.Type {
	case domain.ActionSolTransfer:
		return coreassets.NativeSOL, solDecimals
	case domain.ActionTokenTransfer:
		return action.Info.Mint, action.Info.Decimals
	default:
		return "", 0
	}
}

// swapAction returns the first SWAP action, if any.
func swapAction(actions []domain.Action) *domain.Action {
	for i := range actions {
		if actions[i].Type == domain.ActionSwap {
			return &actions[i]
		}
	}
	return nil
}
