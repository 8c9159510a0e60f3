package indicators

import "math"

// LogReturns computes per-step logarithmic returns. The first entry is NaN.
func LogReturns(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Log(values[i] / values[i-1])
	}
	return out
}

// AnnualizedVolatility computes a rolling annualized volatility: sample
// standard deviation of log returns over the window, scaled by
// sqrt(tradingDays). NaN until the window fills.
func AnnualizedVolatility(closes []float64, window, tradingDays int) []float64 {
	returns := LogReturns(closes)
	out := make([]float64, len(closes))
	scale := math.Sqrt(float64(tradingDays))

	for i := range closes {
		// Window of returns ending at i; returns[0] is NaN so the first
		// full window ends at index window.
		if i < window {
			out[i] = math.NaN()
			continue
		}
		out[i] = sampleStd(returns[i-window+1:i+1]) * scale
	}
	return out
}

// ExponentialVolatility computes an exponentially weighted annualized
// volatility of log returns with the given span (reactive variant, span 36
// per Carver). NaN until at least two returns exist.
func ExponentialVolatility(closes []float64, span, tradingDays int) []float64 {
	returns := LogReturns(closes)
	std := EWMStd(returns, span)
	scale := math.Sqrt(float64(tradingDays))

	out := make([]float64, len(closes))
	for i := range out {
		out[i] = std[i] * scale
	}
	return out
}

// EWMStd computes the exponentially weighted standard deviation with
// alpha = 2/(span+1) and bias correction. NaN entries in the input are
// skipped; output is NaN until two observations have been seen.
func EWMStd(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	alpha := 2.0 / (float64(span) + 1.0)
	decay := 1 - alpha

	var sw, sw2, swx, swx2 float64
	seen := 0
	for i, v := range values {
		if math.IsNaN(v) {
			if seen < 2 {
				out[i] = math.NaN()
			} else {
				out[i] = out[i-1]
			}
			continue
		}

		sw = 1 + decay*sw
		sw2 = 1 + decay*decay*sw2
		swx = v + decay*swx
		swx2 = v*v + decay*swx2
		seen++

		if seen < 2 {
			out[i] = math.NaN()
			continue
		}

		mean := swx / sw
		biased := swx2/sw - mean*mean
		if biased < 0 {
			biased = 0 // float rounding
		}
		correction := sw * sw / (sw*sw - sw2)
		out[i] = math.Sqrt(biased * correction)
	}
	return out
}

// sampleStd computes the n−1 denominator standard deviation, ignoring NaNs.
func sampleStd(values []float64) float64 {
	n := 0
	sum := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n < 2 {
		return math.NaN()
	}

	mean := sum / float64(n)
	sumSq := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}
