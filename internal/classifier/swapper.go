package classifier

import (
	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"solana-whale-watch/internal/domain"
)

// identifySwapper resolves the account economically responsible for the
// swap. Candidates are tried in fixed priority order; the first one that
// also appears in a non-dust delta wins. The decision is terminal: there
// is no retry, and callers report swapper_identification_failed when ""
// is returned.
func identifySwapper(tx *domain.RawTransaction, book *deltaBook, eps float64) (swapper, method string) {
	for _, cand := range orderedCandidates(tx, book, eps) {
		if len(book.nonDust(cand.address, eps)) > 0 {
			return cand.address, cand.method
		}
	}
	return "", ""
}

type swapperCandidate struct {
	address string
	method  string
}

// orderedCandidates builds the priority list: explicit swapper on a SWAP
// action, fee payer, first signer, then the sole distinct owner across
// all non-dust deltas if that owner is unique and an actual wallet.
func orderedCandidates(tx *domain.RawTransaction, book *deltaBook, eps float64) []swapperCandidate {
	var out []swapperCandidate
	seen := make(map[string]bool)
	add := func(address, method string) {
		if address == "" || seen[address] {
			return
		}
		seen[address] = true
		out = append(out, swapperCandidate{address: address, method: method})
	}

	if action := swapAction(tx.Actions); action != nil {
		add(action.Info.Swapper, domain.SwapperFromSwapAction)
	}
	add(tx.FeePayer, domain.SwapperFromFeePayer)
	if len(tx.Signers) > 0 {
		add(tx.Signers[0], domain.SwapperFromSigner)
	}

	// Sole-owner fallback. Pool vaults and other program-derived accounts
	// also own token accounts, so the owner must be an on-curve wallet to
	// qualify.
	if owners := book.owners(eps); len(owners) == 1 && isWalletAddress(owners[0]) {
		add(owners[0], domain.SwapperFromSoleOwner)
	}

	return out
}

// swapperCandidates lists candidate addresses for erasure debug info.
func swapperCandidates(tx *domain.RawTransaction, book *deltaBook, eps float64) []string {
	cands := orderedCandidates(tx, book, eps)
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.address)
	}
	return out
}

// isValidAddress reports whether s decodes as a 32-byte base58 key.
func isValidAddress(s string) bool {
	decoded, err := base58.Decode(s)
	return err == nil && len(decoded) == 32
}

// isWalletAddress reports whether s is a plausible user wallet: a valid
// key that lies on the ed25519 curve. Program-derived addresses are
// deliberately constructed off-curve.
func isWalletAddress(s string) bool {
	decoded, err := base58.Decode(s)
	if err != nil || len(decoded) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(decoded)
	return err == nil
}

// validateInput checks the structural preconditions that make a
// transaction classifiable at all. A nil return means valid; otherwise
// the debug map for an invalid_input erasure is returned.
func validateInput(tx *domain.RawTransaction) map[string]string {
	if tx.Signature == "" {
		return map[string]string{"field": "signature", "error": "empty"}
	}
	if tx.FeePayer == "" {
		return map[string]string{"field": "fee_payer", "error": "empty"}
	}
	if !isValidAddress(tx.FeePayer) {
		return map[string]string{"field": "fee_payer", "error": "not a valid address", "value": tx.FeePayer}
	}
	if len(tx.Signers) == 0 {
		return map[string]string{"field": "signers", "error": "empty"}
	}
	for _, ch := range tx.TokenBalanceChanges {
		if ch.Mint == "" {
			continue
		}
		if ch.Decimals < 0 || ch.Decimals > 18 {
			return map[string]string{
				"field": "token_balance_changes.decimals",
				"mint":  ch.Mint,
				"error": "missing or out of range",
			}
		}
	}
	return nil
}
