package backtest

import "math"

// Sizer converts capital and volatility into a contract quantity. Sizing
// targets a constant expected daily dollar move per position:
// contracts = capital × riskFactor / (ATR × pointValue), so volatile
// instruments get fewer contracts and quiet ones more.
type Sizer struct {
	// RiskFactor is the fraction of capital risked per daily ATR move.
	RiskFactor float64
	// Fractional allows fractional contracts (CFD mode). Whole-contract
	// mode floors toward zero, never up.
	Fractional bool
}

// Contracts computes the position size. Returns 0 when ATR or point value
// is not positive (warm-up or bad config) or when the floored size is 0;
// a zero result means "do not open", not an error.
func (s Sizer) Contracts(capital, atr, pointValue float64) float64 {
	if atr <= 0 || pointValue <= 0 {
		return 0
	}

	raw := capital * s.RiskFactor / (atr * pointValue)
	if s.Fractional {
		if raw < 0 {
			return 0
		}
		return raw
	}

	floored := math.Floor(raw)
	if floored <= 0 {
		return 0
	}
	return floored
}
