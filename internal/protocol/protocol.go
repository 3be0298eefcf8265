// Package protocol normalizes provider protocol hints and known DEX
// program IDs to the display names stored on classified swaps.
package protocol

import "strings"

// Known DEX program IDs.
const (
	RaydiumAMMV4  = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	PumpFun       = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	Jupiter       = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	Orca          = "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP"
	OrcaWhirlpool = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"
)

// programNames maps program IDs to display names.
var programNames = map[string]string{
	RaydiumAMMV4:  "Raydium",
	PumpFun:       "PumpFun",
	Jupiter:       "Jupiter",
	Orca:          "Orca",
	OrcaWhirlpool: "OrcaWhirlpool",
}

// Normalize maps a provider protocol hint to a canonical display name.
// A hint may be a program ID, a known name in any casing, or something
// the provider invented; unknown hints pass through trimmed so nothing
// is lost, and an empty hint yields "UNKNOWN".
func Normalize(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "UNKNOWN"
	}
	if name, ok := programNames[hint]; ok {
		return name
	}
	for _, name := range programNames {
		if strings.EqualFold(hint, name) {
			return name
		}
	}
	return hint
}
