package indicators

import (
	"math"

	"trendlab/internal/domain"
)

// ATR smoothing methods.
const (
	MethodEMA = "ema"
	MethodSMA = "sma"
)

// TrueRange computes the Kaufman true range per bar:
// TR = max(High−Low, |High−prevClose|, |Low−prevClose|).
// The first bar has no previous close and uses High−Low alone.
func TrueRange(bars []domain.DailyBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		tr := b.High - b.Low
		if i > 0 {
			prevClose := bars[i-1].Close
			tr = math.Max(tr, math.Abs(b.High-prevClose))
			tr = math.Max(tr, math.Abs(b.Low-prevClose))
		}
		out[i] = tr
	}
	return out
}

// ATR computes the average true range over the given period. Method is
// MethodEMA (default smoothing) or MethodSMA; SMA leaves a NaN warm-up
// prefix of period−1 bars.
func ATR(bars []domain.DailyBar, period int, method string) []float64 {
	tr := TrueRange(bars)
	if method == MethodSMA {
		return SMA(tr, period)
	}
	return EMA(tr, period)
}

// ATRPct expresses ATR as a percentage of the close, comparable across
// instruments with different price levels.
func ATRPct(bars []domain.DailyBar, period int, method string) []float64 {
	atr := ATR(bars, period, method)
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = atr[i] / b.Close * 100
	}
	return out
}
