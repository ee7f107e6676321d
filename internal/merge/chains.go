package merge

import "github.com/pezkuwi/wallet-config/internal/chain"

// Chains combines an overlay set and a base set into one list. Overlay
// records come first so they appear at the top of the wallet's network
// list; base records follow in their source order, minus any whose
// chainId the overlay already claimed.
func Chains(base, overlay chain.Set) chain.Set {
	seen := make(map[string]struct{}, len(overlay))
	for _, r := range overlay {
		seen[r.ChainID] = struct{}{}
	}

	merged := make(chain.Set, 0, len(overlay)+len(base))
	merged = append(merged, overlay...)
	for _, r := range base {
		if _, ok := seen[r.ChainID]; ok {
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
