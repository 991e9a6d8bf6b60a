package revshare

import "errors"

var (
	// ErrAmountOverflow indicates a price, cost or share does not fit in u64.
	ErrAmountOverflow = errors.New("revshare: amount overflow")

	// ErrShareConservationViolation indicates the split does not add up to the total.
	ErrShareConservationViolation = errors.New("revshare: share conservation violated")
)
