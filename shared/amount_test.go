package shared_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"custody-ledger/shared"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAmountFromDecimal(t *testing.T) {
	t.Run("WholeAndFractional", func(t *testing.T) {
		cases := []struct {
			in        string
			precision uint32
			want      uint64
		}{
			{"0", 8, 0},
			{"1", 8, 100_000_000},
			{"1.5", 6, 1_500_000},
			{"0.000001", 6, 1},
			{"400", 6, 400_000_000},
			{"12.34", 2, 1234},
			{"7", 0, 7},
		}
		for _, c := range cases {
			got, err := shared.AmountFromDecimal(dec(c.in), c.precision)
			if err != nil {
				t.Errorf("%s at precision %d: %v", c.in, c.precision, err)
				continue
			}
			if got != c.want {
				t.Errorf("%s at precision %d: expected %d, got %d", c.in, c.precision, c.want, got)
			}
		}
	})

	t.Run("NegativeRejected", func(t *testing.T) {
		if _, err := shared.AmountFromDecimal(dec("-1"), 8); err == nil {
			t.Error("expected error for negative amount")
		}
	})

	t.Run("ExcessFractionalDigitsRejected", func(t *testing.T) {
		_, err := shared.AmountFromDecimal(dec("1.234"), 2)
		if err == nil {
			t.Fatal("expected error for sub-precision amount")
		}
		if !strings.Contains(err.Error(), "fractional digits") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("OverflowRejected", func(t *testing.T) {
		// MaxUint64 is about 1.8e19; this is far beyond it at precision 8.
		if _, err := shared.AmountFromDecimal(dec("999999999999999999999"), 8); err == nil {
			t.Error("expected error for amount exceeding 64 bits")
		}
	})
}

func TestAmountToDecimal(t *testing.T) {
	cases := []struct {
		in        uint64
		precision uint32
		want      string
	}{
		{0, 8, "0"},
		{100_000_000, 8, "1"},
		{1_500_000, 6, "1.5"},
		{1, 6, "0.000001"},
		{1234, 2, "12.34"},
	}
	for _, c := range cases {
		got := shared.AmountToDecimal(c.in, c.precision)
		if !got.Equal(dec(c.want)) {
			t.Errorf("%d at precision %d: expected %s, got %s", c.in, c.precision, c.want, got)
		}
	}
}

func TestAmountRoundTrip(t *testing.T) {
	for _, s := range []string{"0.00000001", "1", "42.5", "123456.789"} {
		base, err := shared.AmountFromDecimal(dec(s), 8)
		if err != nil {
			t.Fatalf("AmountFromDecimal(%s) failed: %v", s, err)
		}
		back := shared.AmountToDecimal(base, 8)
		if !back.Equal(dec(s)) {
			t.Errorf("round trip of %s produced %s", s, back)
		}
	}
}
