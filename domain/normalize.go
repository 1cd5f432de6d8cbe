package domain

import (
	"fmt"
	"math"
	"math/bits"

	"custody-ledger/shared"
)

// maxPow10 is the largest n for which 10^n fits in a uint64.
const maxPow10 = 19

var pow10Table = func() [maxPow10 + 1]uint64 {
	var t [maxPow10 + 1]uint64
	t[0] = 1
	for i := 1; i <= maxPow10; i++ {
		t[i] = t[i-1] * 10
	}
	return t
}()

// Normalize rescales a fixed-point base-unit amount from one precision to
// another. Narrowing truncates toward zero (designed precision loss, never
// rounds up); widening that would overflow 64 bits is a detected error, not
// a silent wraparound. Pure function.
func Normalize(amount uint64, fromPrecision, toPrecision uint32) (uint64, error) {
	switch {
	case fromPrecision == toPrecision:
		return amount, nil
	case fromPrecision > toPrecision:
		delta := fromPrecision - toPrecision
		if delta > maxPow10 {
			// Dividing any uint64 by more than 10^19 truncates to zero.
			return 0, nil
		}
		return amount / pow10Table[delta], nil
	default:
		if amount == 0 {
			return 0, nil
		}
		delta := toPrecision - fromPrecision
		if delta > maxPow10 {
			return 0, fmt.Errorf("%w: widening %d by %d digits", ErrAmountOverflow, amount, delta)
		}
		factor := pow10Table[delta]
		if amount > math.MaxUint64/factor {
			return 0, fmt.Errorf("%w: %d * 10^%d exceeds 64 bits", ErrAmountOverflow, amount, delta)
		}
		return amount * factor, nil
	}
}

// accountingUnit returns one whole unit at accounting precision, i.e. the
// divisor for price multiplications.
func accountingUnit() uint64 {
	return pow10Table[shared.AccountingPrecision]
}

// mulDiv computes a*b/den with a 128-bit intermediate so valuation math
// cannot wrap. A quotient exceeding 64 bits is a detected error.
func mulDiv(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, NewDomainError("division by zero")
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= den {
		return 0, fmt.Errorf("%w: %d * %d / %d exceeds 64 bits", ErrAmountOverflow, a, b, den)
	}
	quo, _ := bits.Div64(hi, lo, den)
	return quo, nil
}

// checkedAdd fails instead of wrapping.
func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d exceeds 64 bits", ErrAmountOverflow, a, b)
	}
	return sum, nil
}

// checkedSub fails rather than producing a negative (wrapped) balance.
func checkedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, fmt.Errorf("%w: %d - %d is negative", ErrInsufficientBalance, a, b)
	}
	return a - b, nil
}

// saturatingSub floors at zero. Used only for the audit-oriented running
// value total, where prices may have moved between deposit and withdrawal.
func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
