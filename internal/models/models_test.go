package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewItemPriceUnitConversion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cents int64
		want  string
	}{
		{9099, "90.99"},
		{100, "1"},
		{1, "0.01"},
		{250000, "2500"},
		{0, "0"},
	}

	for _, tc := range cases {
		record := NewItemPrice(42, tc.cents)
		if record.PriceCents != tc.cents {
			t.Errorf("cents %d: price_cents mangled to %d", tc.cents, record.PriceCents)
		}
		if !record.Price.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("cents %d: expected price %s, got %s", tc.cents, tc.want, record.Price)
		}
		// The invariant the read side depends on: price == price_cents/100.
		if !record.Price.Mul(decimal.NewFromInt(100)).Equal(decimal.NewFromInt(tc.cents)) {
			t.Errorf("cents %d: price*100 != price_cents (%s)", tc.cents, record.Price)
		}
	}
}

func TestNewItemPriceDefaults(t *testing.T) {
	t.Parallel()

	record := NewItemPrice(7, 1234)
	if record.ItemID != 7 {
		t.Fatalf("expected item id 7, got %d", record.ItemID)
	}
	if record.Source != PriceSourceCSFloat {
		t.Fatalf("expected source %q, got %q", PriceSourceCSFloat, record.Source)
	}
}
