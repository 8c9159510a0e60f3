package indicators

import (
	"math"

	"trendlab/internal/domain"
)

// Params selects the indicator windows stamped onto bars by Enrich.
type Params struct {
	EMAFastPeriod    int
	EMASlowPeriod    int
	ATRPeriod        int
	EntryPeriod      int
	ExitPeriod       int
	VolatilityWindow int
	EWMACVolSpan     int
	TradingDays      int
}

// DefaultParams returns the standard windows: EMA 50/100, ATR 20, Donchian
// 100/50, volatility 256, EWMAC price vol span 36, 256 trading days per year.
func DefaultParams() Params {
	return Params{
		EMAFastPeriod:    50,
		EMASlowPeriod:    100,
		ATRPeriod:        20,
		EntryPeriod:      100,
		ExitPeriod:       50,
		VolatilityWindow: 256,
		EWMACVolSpan:     36,
		TradingDays:      256,
	}
}

// Enrich computes every indicator column over the bars and stamps the results
// in place. Warm-up NaNs become nil pointers so downstream consumers can
// distinguish "not yet computable" without NaN checks. Bars must be in
// ascending date order.
func Enrich(bars []domain.DailyBar, p Params) {
	if len(bars) == 0 {
		return
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	emaFast := EMA(closes, p.EMAFastPeriod)
	emaSlow := EMA(closes, p.EMASlowPeriod)
	atr := ATR(bars, p.ATRPeriod, MethodEMA)
	atrPct := ATRPct(bars, p.ATRPeriod, MethodEMA)
	channels := Donchian(bars, p.EntryPeriod, p.ExitPeriod)
	annVol := AnnualizedVolatility(closes, p.VolatilityWindow, p.TradingDays)
	expVol := ExponentialVolatility(closes, p.EWMACVolSpan, p.TradingDays)
	ewmac := EWMACForecast(closes, 16, 64, p.EWMACVolSpan)

	for i := range bars {
		bars[i].EMAFast = ptrOrNil(emaFast[i])
		bars[i].EMASlow = ptrOrNil(emaSlow[i])
		bars[i].ATR = ptrOrNil(atr[i])
		bars[i].ATRPct = ptrOrNil(atrPct[i])
		bars[i].EntryHigh = ptrOrNil(channels.EntryHigh[i])
		bars[i].EntryLow = ptrOrNil(channels.EntryLow[i])
		bars[i].ExitHigh = ptrOrNil(channels.ExitHigh[i])
		bars[i].ExitLow = ptrOrNil(channels.ExitLow[i])
		bars[i].AnnVol = ptrOrNil(annVol[i])
		bars[i].ExpVol = ptrOrNil(expVol[i])
		bars[i].EWMAC = ptrOrNil(ewmac[i])
	}
}

func ptrOrNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
