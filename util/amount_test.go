package util

import (
	"math"
	"testing"
)

func TestNewAmount(t *testing.T) {
	tests := []struct {
		amount   float64
		valid    bool
		expected Amount
	}{
		{amount: 0, valid: true, expected: 0},
		{amount: 1, valid: true, expected: AtomsPerCoin},
		{amount: 0.00000001, valid: true, expected: 1},
		{amount: math.NaN(), valid: false},
		{amount: math.Inf(1), valid: false},
	}

	for _, test := range tests {
		got, err := NewAmount(test.amount)
		if test.valid && err != nil {
			t.Errorf("NewAmount(%v) unexpected error: %v", test.amount, err)
			continue
		}
		if !test.valid {
			if err == nil {
				t.Errorf("NewAmount(%v) expected an error", test.amount)
			}
			continue
		}
		if got != test.expected {
			t.Errorf("NewAmount(%v) = %v, want %v", test.amount, got, test.expected)
		}
	}
}

func TestAmountToCoinRoundTrip(t *testing.T) {
	amount := Amount(123456789)
	coins := amount.ToCoin()
	roundTripped, err := NewAmount(coins)
	if err != nil {
		t.Fatalf("NewAmount: %v", err)
	}
	if roundTripped != amount {
		t.Errorf("round trip mismatch: got %v, want %v", roundTripped, amount)
	}
}
