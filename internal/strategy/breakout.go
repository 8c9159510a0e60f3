package strategy

import (
	"fmt"
	"time"

	"trendlab/internal/domain"
)

// BreakoutStrategy trades Donchian channel breakouts: enter long on a new
// entry-period high, enter short on a new entry-period low, exit on the
// opposite exit-period extreme. Exit rules run before entry rules.
type BreakoutStrategy struct {
	EntryPeriod int
	ExitPeriod  int
}

// NewBreakoutStrategy creates a new BreakoutStrategy.
func NewBreakoutStrategy(entryPeriod, exitPeriod int) *BreakoutStrategy {
	return &BreakoutStrategy{
		EntryPeriod: entryPeriod,
		ExitPeriod:  exitPeriod,
	}
}

// ID returns the strategy identifier including parameters.
func (s *BreakoutStrategy) ID() string {
	return fmt.Sprintf("breakout_%d_%d", s.EntryPeriod, s.ExitPeriod)
}

// BaseType returns the canonical base strategy type.
func (s *BreakoutStrategy) BaseType() string {
	return domain.StrategyTypeBreakout
}

// Evaluate applies exits first, then entries, then holds the current
// direction. Missing channel columns (warm-up) return Flat.
func (s *BreakoutStrategy) Evaluate(_ time.Time, bar domain.DailyBar, instrument string, positions PositionView) int {
	if bar.EntryHigh == nil || bar.EntryLow == nil || bar.ExitHigh == nil || bar.ExitLow == nil {
		return domain.Flat
	}

	current := positions.Direction(instrument)

	// Exits first
	if current == domain.Long && bar.Close <= *bar.ExitLow {
		return domain.Flat
	}
	if current == domain.Short && bar.Close >= *bar.ExitHigh {
		return domain.Flat
	}

	// Entries
	if bar.Close >= *bar.EntryHigh {
		return domain.Long
	}
	if bar.Close <= *bar.EntryLow {
		return domain.Short
	}

	// Hold existing position
	return current
}

// Ensure BreakoutStrategy implements Strategy
var _ Strategy = (*BreakoutStrategy)(nil)
