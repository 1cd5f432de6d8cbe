package domain

import (
	"errors"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Run("SamePrecisionIsIdentity", func(t *testing.T) {
		got, err := Normalize(123_456, 6, 6)
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if got != 123_456 {
			t.Errorf("expected 123456, got %d", got)
		}
	})

	t.Run("NarrowingTruncatesTowardZero", func(t *testing.T) {
		// 1.234567 at precision 6, narrowed to precision 2, is 1.23.
		got, err := Normalize(1_234_567, 6, 2)
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if got != 123 {
			t.Errorf("expected 123, got %d", got)
		}
	})

	t.Run("NarrowingNeverRoundsUp", func(t *testing.T) {
		got, err := Normalize(1_999_999, 6, 0)
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if got != 1 {
			t.Errorf("expected 1, got %d", got)
		}
	})

	t.Run("WideningScalesUp", func(t *testing.T) {
		got, err := Normalize(123, 2, 6)
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if got != 1_230_000 {
			t.Errorf("expected 1230000, got %d", got)
		}
	})

	t.Run("WideningOverflowIsDetected", func(t *testing.T) {
		_, err := Normalize(math.MaxUint64, 0, 2)
		if !errors.Is(err, ErrAmountOverflow) {
			t.Errorf("expected ErrAmountOverflow, got %v", err)
		}
	})

	t.Run("ZeroWidensToZeroAtAnyDelta", func(t *testing.T) {
		got, err := Normalize(0, 0, 40)
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("ExtremeNarrowingTruncatesToZero", func(t *testing.T) {
		got, err := Normalize(math.MaxUint64, 40, 0)
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("ExtremeWideningOfNonZeroFails", func(t *testing.T) {
		_, err := Normalize(1, 0, 40)
		if !errors.Is(err, ErrAmountOverflow) {
			t.Errorf("expected ErrAmountOverflow, got %v", err)
		}
	})
}

func TestMulDiv(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		got, err := mulDiv(400, 200, 100)
		if err != nil {
			t.Fatalf("mulDiv failed: %v", err)
		}
		if got != 800 {
			t.Errorf("expected 800, got %d", got)
		}
	})

	t.Run("IntermediateExceeds64Bits", func(t *testing.T) {
		// a*b wraps a plain uint64 multiply but the quotient still fits.
		got, err := mulDiv(math.MaxUint64, 1_000, 1_000)
		if err != nil {
			t.Fatalf("mulDiv failed: %v", err)
		}
		if got != math.MaxUint64 {
			t.Errorf("expected MaxUint64, got %d", got)
		}
	})

	t.Run("QuotientOverflow", func(t *testing.T) {
		_, err := mulDiv(math.MaxUint64, 1_000, 10)
		if !errors.Is(err, ErrAmountOverflow) {
			t.Errorf("expected ErrAmountOverflow, got %v", err)
		}
	})

	t.Run("DivisionByZero", func(t *testing.T) {
		if _, err := mulDiv(1, 1, 0); err == nil {
			t.Error("expected error for zero denominator")
		}
	})

	t.Run("TruncatesTowardZero", func(t *testing.T) {
		got, err := mulDiv(7, 1, 2)
		if err != nil {
			t.Fatalf("mulDiv failed: %v", err)
		}
		if got != 3 {
			t.Errorf("expected 3, got %d", got)
		}
	})
}

func TestCheckedArithmetic(t *testing.T) {
	t.Run("AddOverflow", func(t *testing.T) {
		if _, err := checkedAdd(math.MaxUint64, 1); !errors.Is(err, ErrAmountOverflow) {
			t.Errorf("expected ErrAmountOverflow, got %v", err)
		}
		got, err := checkedAdd(math.MaxUint64-1, 1)
		if err != nil {
			t.Fatalf("checkedAdd failed: %v", err)
		}
		if got != math.MaxUint64 {
			t.Errorf("expected MaxUint64, got %d", got)
		}
	})

	t.Run("SubUnderflow", func(t *testing.T) {
		if _, err := checkedSub(1, 2); !errors.Is(err, ErrInsufficientBalance) {
			t.Errorf("expected ErrInsufficientBalance, got %v", err)
		}
		got, err := checkedSub(2, 2)
		if err != nil {
			t.Fatalf("checkedSub failed: %v", err)
		}
		if got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("SaturatingSubFloorsAtZero", func(t *testing.T) {
		if got := saturatingSub(1, 2); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
		if got := saturatingSub(5, 2); got != 3 {
			t.Errorf("expected 3, got %d", got)
		}
	})
}
