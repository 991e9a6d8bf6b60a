package revshare

import (
	"fmt"

	"github.com/bitfsorg/mediapay-go/ledger"
)

// FeeDenominator turns a distributor fee into a fraction of the sale.
const FeeDenominator = 100

// TotalCost returns minutes * pricePerMinute, failing on overflow.
func TotalCost(minutes, pricePerMinute uint64) (uint64, error) {
	total, ok := ledger.CheckedMul(minutes, pricePerMinute)
	if !ok {
		return 0, fmt.Errorf("%w: %d minutes at %d per minute", ErrAmountOverflow, minutes, pricePerMinute)
	}
	return total, nil
}

// SplitSale divides total between distributor and author.
//
// The distributor share is total * (fee / 100) with the fee ratio truncated
// first, so any fee below 100 yields a zero distributor share. This matches
// the deployed program's arithmetic; records written under it must settle
// the same way. The author receives the remainder.
func SplitSale(total, distributorFee uint64) (Split, error) {
	ratio := distributorFee / FeeDenominator
	distributor, ok := ledger.CheckedMul(total, ratio)
	if !ok {
		return Split{}, fmt.Errorf("%w: distributor share of %d at fee %d", ErrAmountOverflow, total, distributorFee)
	}
	author, ok := ledger.CheckedSub(total, distributor)
	if !ok {
		// Fees above 100 are not rejected when media is registered.
		return Split{}, fmt.Errorf("%w: distributor share %d exceeds total %d", ErrAmountOverflow, distributor, total)
	}
	return Split{Total: total, Distributor: distributor, Author: author}, nil
}
