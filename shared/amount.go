package shared

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// AmountFromDecimal converts a human-readable decimal amount into base units
// at the given precision. Negative amounts, amounts with more fractional
// digits than the precision allows, and amounts that do not fit in 64 bits
// are rejected. Used only at the system boundary; all internal arithmetic
// operates on base units.
func AmountFromDecimal(d decimal.Decimal, precision uint32) (uint64, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("amount cannot be negative: %s", d.String())
	}
	scaled := d.Shift(int32(precision))
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than %d fractional digits", d.String(), precision)
	}
	bi := scaled.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("amount %s does not fit in 64 bits at precision %d", d.String(), precision)
	}
	return bi.Uint64(), nil
}

// AmountToDecimal renders base units at the given precision as a decimal.
func AmountToDecimal(amount uint64, precision uint32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(precision))
}
