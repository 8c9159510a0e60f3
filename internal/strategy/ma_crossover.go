package strategy

import (
	"fmt"
	"time"

	"trendlab/internal/domain"
)

// MACrossoverStrategy is the always-in-market baseline: long while the fast
// EMA is above the slow EMA, short otherwise. Flat only during warm-up.
type MACrossoverStrategy struct {
	FastPeriod int
	SlowPeriod int
}

// NewMACrossoverStrategy creates a new MACrossoverStrategy.
func NewMACrossoverStrategy(fastPeriod, slowPeriod int) *MACrossoverStrategy {
	return &MACrossoverStrategy{
		FastPeriod: fastPeriod,
		SlowPeriod: slowPeriod,
	}
}

// ID returns the strategy identifier including parameters.
func (s *MACrossoverStrategy) ID() string {
	return fmt.Sprintf("ma_crossover_%d_%d", s.FastPeriod, s.SlowPeriod)
}

// BaseType returns the canonical base strategy type.
func (s *MACrossoverStrategy) BaseType() string {
	return domain.StrategyTypeMACrossover
}

// Evaluate goes long when the fast EMA is above the slow EMA, short when it
// is below. Missing EMA columns (warm-up) return Flat.
func (s *MACrossoverStrategy) Evaluate(_ time.Time, bar domain.DailyBar, _ string, _ PositionView) int {
	if bar.EMAFast == nil || bar.EMASlow == nil {
		return domain.Flat
	}

	if *bar.EMAFast > *bar.EMASlow {
		return domain.Long
	}
	return domain.Short
}

// Ensure MACrossoverStrategy implements Strategy
var _ Strategy = (*MACrossoverStrategy)(nil)
