package idhash

import (
	"testing"

	"trendlab/internal/domain"
)

func TestComputeTradeID(t *testing.T) {
	entry := domain.Day(2020, 3, 2)
	exit := domain.Day(2020, 6, 15)

	got := ComputeTradeID("Gold", 1, 3, entry, exit)
	if len(got) != 64 {
		t.Errorf("ComputeTradeID() length = %d, want 64", len(got))
	}

	// Same inputs should produce the same output.
	got2 := ComputeTradeID("Gold", 1, 3, entry, exit)
	if got != got2 {
		t.Errorf("ComputeTradeID() not deterministic: %s != %s", got, got2)
	}
}

func TestComputeTradeID_DifferentInputs(t *testing.T) {
	entry := domain.Day(2020, 3, 2)
	exit := domain.Day(2020, 6, 15)
	base := ComputeTradeID("Gold", 1, 3, entry, exit)

	variants := []string{
		ComputeTradeID("Copper", 1, 3, entry, exit),
		ComputeTradeID("Gold", -1, 3, entry, exit),
		ComputeTradeID("Gold", 1, 4, entry, exit),
		ComputeTradeID("Gold", 1, 3, domain.Day(2020, 3, 3), exit),
		ComputeTradeID("Gold", 1, 3, entry, domain.Day(2020, 6, 16)),
	}

	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d: expected different trade_id", i)
		}
	}
}

func TestComputeTradeID_FractionalContracts(t *testing.T) {
	entry := domain.Day(2021, 1, 4)
	exit := domain.Day(2021, 2, 1)

	whole := ComputeTradeID("SP500", 1, 2, entry, exit)
	frac := ComputeTradeID("SP500", 1, 2.5, entry, exit)
	if whole == frac {
		t.Errorf("fractional contracts must change the trade_id")
	}
}

func TestComputeRunID(t *testing.T) {
	start := domain.Day(2015, 1, 2)

	got := ComputeRunID("breakout_100_50", "starter", start, 500000)
	if len(got) != 64 {
		t.Errorf("ComputeRunID() length = %d, want 64", len(got))
	}

	got2 := ComputeRunID("breakout_100_50", "starter", start, 500000)
	if got != got2 {
		t.Errorf("ComputeRunID() not deterministic")
	}

	other := ComputeRunID("ma_crossover_50_100", "starter", start, 500000)
	if got == other {
		t.Errorf("different strategy must change the run_id")
	}
}
