package backtest

import (
	"math"
	"testing"
)

func TestCostConfig_Cost(t *testing.T) {
	costs := DefaultCostConfig()

	// 10 contracts at price 100: 10*(0.85+1.50) + 10*100*0.0005 = 23.5 + 0.5
	got := costs.Cost(10, 100)
	if math.Abs(got-24.0) > 1e-9 {
		t.Errorf("expected 24.0, got %v", got)
	}
}

func TestCostConfig_ZeroContracts(t *testing.T) {
	costs := DefaultCostConfig()
	if got := costs.Cost(0, 100); got != 0 {
		t.Errorf("zero contracts must cost nothing, got %v", got)
	}
}

func TestCostConfig_NonFinitePropagates(t *testing.T) {
	costs := DefaultCostConfig()
	got := costs.Cost(1, math.NaN())
	if !math.IsNaN(got) {
		t.Errorf("non-finite input should propagate, got %v", got)
	}
}

func TestSizer_Contracts(t *testing.T) {
	s := Sizer{RiskFactor: 0.002}

	// 100000 * 0.002 / (2 * 10) = 10 contracts.
	if got := s.Contracts(100000, 2, 10); got != 10 {
		t.Errorf("expected 10 contracts, got %v", got)
	}

	// 100000 * 0.002 / (3 * 10) = 6.67 -> floored to 6.
	if got := s.Contracts(100000, 3, 10); got != 6 {
		t.Errorf("expected 6 contracts, got %v", got)
	}
}

func TestSizer_ZeroOnBadInputs(t *testing.T) {
	s := Sizer{RiskFactor: 0.002}

	if got := s.Contracts(100000, 0, 10); got != 0 {
		t.Errorf("zero ATR must size to 0, got %v", got)
	}
	if got := s.Contracts(100000, -1, 10); got != 0 {
		t.Errorf("negative ATR must size to 0, got %v", got)
	}
	if got := s.Contracts(100000, 2, 0); got != 0 {
		t.Errorf("zero point value must size to 0, got %v", got)
	}
}

func TestSizer_FloorsNeverRoundsUp(t *testing.T) {
	s := Sizer{RiskFactor: 0.002}

	// 10000 * 0.002 / (3 * 10) = 0.67 -> 0 in whole-contract mode.
	if got := s.Contracts(10000, 3, 10); got != 0 {
		t.Errorf("sub-1 size must floor to 0, got %v", got)
	}
}

func TestSizer_Fractional(t *testing.T) {
	s := Sizer{RiskFactor: 0.002, Fractional: true}

	got := s.Contracts(10000, 3, 10)
	want := 10000 * 0.002 / 30.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected fractional %v, got %v", want, got)
	}
}

func TestSizer_MonotoneInATR(t *testing.T) {
	s := Sizer{RiskFactor: 0.002}

	prev := math.Inf(1)
	for atr := 0.5; atr <= 10; atr += 0.5 {
		got := s.Contracts(500000, atr, 10)
		if got > prev {
			t.Fatalf("size must not increase with ATR: %v -> %v at atr=%v", prev, got, atr)
		}
		prev = got
	}
}
