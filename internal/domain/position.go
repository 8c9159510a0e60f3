package domain

import "time"

// Direction constants for positions and signals.
const (
	Long  = 1
	Short = -1
	Flat  = 0
)

// Position is an open exposure in one instrument. At most one Position per
// instrument exists at any time.
type Position struct {
	Instrument string
	Direction  int     // Long or Short
	Contracts  float64 // whole number in contract mode, fractional in CFD mode
	EntryPrice float64
	EntryDate  time.Time
	PointValue float64
	EntryATR   float64 // ATR frozen at open, basis for stop distances

	// Trailing references, updated after each day's High/Low is known.
	// PeakPrice never decreases once set; TroughPrice never increases.
	PeakPrice   float64 // best price seen since open (longs)
	TroughPrice float64 // worst price seen since open (shorts)
}

// UnrealizedPnL values the position at the given price.
func (p *Position) UnrealizedPnL(price float64) float64 {
	return (price - p.EntryPrice) * float64(p.Direction) * p.Contracts * p.PointValue
}
