package indicators

import "trendlab/internal/domain"

// DonchianChannels holds the entry and exit channel bounds per bar.
// Entry bounds use the longer window (breakout signals); exit bounds use the
// shorter window (position exits). NaN during warm-up.
type DonchianChannels struct {
	EntryHigh []float64
	EntryLow  []float64
	ExitHigh  []float64
	ExitLow   []float64
}

// Donchian computes channel bounds over the trailing entryPeriod/exitPeriod
// windows of highs and lows.
func Donchian(bars []domain.DailyBar, entryPeriod, exitPeriod int) DonchianChannels {
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
	}

	return DonchianChannels{
		EntryHigh: RollingMax(highs, entryPeriod),
		EntryLow:  RollingMin(lows, entryPeriod),
		ExitHigh:  RollingMax(highs, exitPeriod),
		ExitLow:   RollingMin(lows, exitPeriod),
	}
}
