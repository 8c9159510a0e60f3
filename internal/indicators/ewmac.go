package indicators

import (
	"math"
	"sort"
)

// ForecastCap bounds the EWMAC forecast to ±20 (Carver).
const ForecastCap = 20.0

// forecastScalars maps (fast, slow) speed pairs to the Carver forecast
// scalars that normalize average absolute forecast to ~10.
var forecastScalars = map[[2]int]float64{
	{2, 8}:     10.6,
	{4, 16}:    7.5,
	{8, 32}:    5.3,
	{16, 64}:   3.75,
	{32, 128}:  2.65,
	{64, 256}:  1.87,
}

// EWMACForecast computes the exponentially weighted moving average crossover
// forecast: (EMA(fast) − EMA(slow)) normalized by the exponential price
// volatility (span volSpan), scaled by the speed pair's forecast scalar and
// capped to ±ForecastCap. NaN during the volatility warm-up.
func EWMACForecast(closes []float64, fast, slow, volSpan int) []float64 {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)
	priceVol := EWMStd(closes, volSpan)
	scalar := forecastScalar(fast, slow)

	out := make([]float64, len(closes))
	for i := range closes {
		raw := emaFast[i] - emaSlow[i]
		scaled := raw / priceVol[i] * scalar
		out[i] = clampForecast(scaled)
	}
	return out
}

// CombinedForecast averages EWMAC forecasts across speed pairs with the
// given weights (equal weights when nil), re-capping the result.
func CombinedForecast(closes []float64, pairs [][2]int, weights map[[2]int]float64, volSpan int) []float64 {
	if len(pairs) == 0 {
		pairs = [][2]int{{8, 32}, {16, 64}, {32, 128}}
	}
	if weights == nil {
		w := 1.0 / float64(len(pairs))
		weights = make(map[[2]int]float64, len(pairs))
		for _, p := range pairs {
			weights[p] = w
		}
	}

	out := make([]float64, len(closes))
	for _, p := range pairs {
		fc := EWMACForecast(closes, p[0], p[1], volSpan)
		w := weights[p]
		for i := range out {
			out[i] += fc[i] * w
		}
	}
	for i := range out {
		out[i] = clampForecast(out[i])
	}
	return out
}

func clampForecast(v float64) float64 {
	if v > ForecastCap {
		return ForecastCap
	}
	if v < -ForecastCap {
		return -ForecastCap
	}
	return v // NaN passes through
}

// forecastScalar returns the table scalar for a known speed pair, or a
// log-linear interpolation over the fast periods for unknown pairs.
func forecastScalar(fast, slow int) float64 {
	if s, ok := forecastScalars[[2]int{fast, slow}]; ok {
		return s
	}

	type entry struct {
		logFast   float64
		logScalar float64
	}
	var known []entry
	for pair, s := range forecastScalars {
		known = append(known, entry{math.Log(float64(pair[0])), math.Log(s)})
	}
	sort.Slice(known, func(i, j int) bool { return known[i].logFast < known[j].logFast })

	x := math.Log(float64(fast))
	if x <= known[0].logFast {
		return math.Exp(known[0].logScalar)
	}
	if x >= known[len(known)-1].logFast {
		return math.Exp(known[len(known)-1].logScalar)
	}
	for i := 1; i < len(known); i++ {
		if x <= known[i].logFast {
			x0, y0 := known[i-1].logFast, known[i-1].logScalar
			x1, y1 := known[i].logFast, known[i].logScalar
			y := y0 + (y1-y0)*(x-x0)/(x1-x0)
			return math.Exp(y)
		}
	}
	return math.Exp(known[len(known)-1].logScalar)
}
