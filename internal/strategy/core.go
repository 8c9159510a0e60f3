package strategy

import (
	"fmt"
	"time"

	"trendlab/internal/domain"
)

// CoreStrategy combines the breakout entry with a trend filter: enter long
// on a new entry-period high only while the fast EMA is above the slow EMA,
// mirror for shorts. Exits trigger on the exit channel or when the trend
// filter flips. New entries are taken from flat only.
type CoreStrategy struct {
	FastPeriod  int
	SlowPeriod  int
	EntryPeriod int
	ExitPeriod  int
}

// NewCoreStrategy creates a new CoreStrategy.
func NewCoreStrategy(fastPeriod, slowPeriod, entryPeriod, exitPeriod int) *CoreStrategy {
	return &CoreStrategy{
		FastPeriod:  fastPeriod,
		SlowPeriod:  slowPeriod,
		EntryPeriod: entryPeriod,
		ExitPeriod:  exitPeriod,
	}
}

// ID returns the strategy identifier including parameters.
func (s *CoreStrategy) ID() string {
	return fmt.Sprintf("core_%d_%d_%d_%d", s.FastPeriod, s.SlowPeriod, s.EntryPeriod, s.ExitPeriod)
}

// BaseType returns the canonical base strategy type.
func (s *CoreStrategy) BaseType() string {
	return domain.StrategyTypeCore
}

// Evaluate applies exits first (channel or trend flip), then entries from
// flat, then holds. Missing indicator columns (warm-up) return Flat.
func (s *CoreStrategy) Evaluate(_ time.Time, bar domain.DailyBar, instrument string, positions PositionView) int {
	if bar.EMAFast == nil || bar.EMASlow == nil ||
		bar.EntryHigh == nil || bar.EntryLow == nil ||
		bar.ExitHigh == nil || bar.ExitLow == nil {
		return domain.Flat
	}

	trendBullish := *bar.EMAFast > *bar.EMASlow
	current := positions.Direction(instrument)

	// Exits first
	if current == domain.Long && (bar.Close <= *bar.ExitLow || !trendBullish) {
		return domain.Flat
	}
	if current == domain.Short && (bar.Close >= *bar.ExitHigh || trendBullish) {
		return domain.Flat
	}

	// Entries only from flat
	if current == domain.Flat {
		if bar.Close >= *bar.EntryHigh && trendBullish {
			return domain.Long
		}
		if bar.Close <= *bar.EntryLow && !trendBullish {
			return domain.Short
		}
	}

	// Hold existing position
	return current
}

// Ensure CoreStrategy implements Strategy
var _ Strategy = (*CoreStrategy)(nil)
