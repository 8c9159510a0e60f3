// Package indicators computes the technical columns the strategies read:
// moving averages, ATR, Donchian channels, annualized volatility and the
// EWMAC forecast. All kernels are pure functions over price slices; values
// that cannot be computed yet (warm-up) are NaN, and Enrich converts NaN to
// nil pointers on the bar records.
package indicators

import "math"

// EMA computes an exponential moving average with alpha = 2/(span+1),
// seeded from the first value (recursive form, no adjust).
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 || span <= 0 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// SMA computes a simple moving average. The first window-1 entries are NaN.
func SMA(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 0 {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// RollingMax computes the maximum over a trailing window.
// The first window-1 entries are NaN.
func RollingMax(values []float64, window int) []float64 {
	return rollingExtreme(values, window, func(a, b float64) bool { return a > b })
}

// RollingMin computes the minimum over a trailing window.
// The first window-1 entries are NaN.
func RollingMin(values []float64, window int) []float64 {
	return rollingExtreme(values, window, func(a, b float64) bool { return a < b })
}

func rollingExtreme(values []float64, window int, better func(a, b float64) bool) []float64 {
	out := make([]float64, len(values))
	if window <= 0 {
		return out
	}

	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		best := values[i-window+1]
		for j := i - window + 2; j <= i; j++ {
			if better(values[j], best) {
				best = values[j]
			}
		}
		out[i] = best
	}
	return out
}
