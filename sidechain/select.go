package sidechain

import (
	"bytes"
	"sort"
)

// Stateless ordering and filtering primitives for bundle construction.
// Bundle assembly takes a fee-ordered, unspent-filtered prefix of
// requests; status reporting takes the most recent bundle. The sorts
// reorder their slice in place; the caller owns any locking if the
// backing collection is shared.

// SortWithdrawalsByFee orders wts by mainchain fee, highest first, so
// the best-paying requests are considered first for bundle inclusion.
// Equal fees fall back to ascending identity-hash bytes: bundle
// construction is consensus-relevant, so every node must produce the
// same order regardless of input permutation.
func SortWithdrawalsByFee(wts []WithdrawalRequest) {
	sort.Slice(wts, func(i, j int) bool {
		if wts[i].MainchainFee != wts[j].MainchainFee {
			return wts[i].MainchainFee > wts[j].MainchainFee
		}
		hi, hj := wts[i].Hash(), wts[j].Hash()
		return bytes.Compare(hi[:], hj[:]) < 0
	})
}

// SortBundlesByHeight orders bundles by observed mainchain height, most
// recent first, with the same ascending-hash tie-break for a total
// order.
func SortBundlesByHeight(bundles []WithdrawalBundle) {
	sort.Slice(bundles, func(i, j int) bool {
		if bundles[i].Height != bundles[j].Height {
			return bundles[i].Height > bundles[j].Height
		}
		hi, hj := bundles[i].Hash(), bundles[j].Hash()
		return bytes.Compare(hi[:], hj[:]) < 0
	})
}

// FilterUnspentWithdrawals returns the requests still marked Unspent,
// preserving their relative order. The input slice is not modified.
func FilterUnspentWithdrawals(wts []WithdrawalRequest) []WithdrawalRequest {
	out := make([]WithdrawalRequest, 0, len(wts))
	for _, wt := range wts {
		if wt.Status == WithdrawalUnspent {
			out = append(out, wt)
		}
	}
	return out
}
