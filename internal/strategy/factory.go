package strategy

import (
	"errors"

	"trendlab/internal/config"
	"trendlab/internal/domain"
)

// Factory errors
var (
	ErrUnknownStrategyType = errors.New("unknown strategy type")
	ErrInvalidPeriod       = errors.New("strategy period must be positive")
)

// FromConfig creates a Strategy from domain.StrategyConfig. Nil parameters
// fall back to the documented defaults (EMA 50/100, Donchian 100/50).
func FromConfig(cfg domain.StrategyConfig) (Strategy, error) {
	fast, err := periodOrDefault(cfg.FastPeriod, config.EMAFastPeriod)
	if err != nil {
		return nil, err
	}
	slow, err := periodOrDefault(cfg.SlowPeriod, config.EMASlowPeriod)
	if err != nil {
		return nil, err
	}
	entry, err := periodOrDefault(cfg.EntryPeriod, config.EntryChannelPeriod)
	if err != nil {
		return nil, err
	}
	exit, err := periodOrDefault(cfg.ExitPeriod, config.ExitChannelPeriod)
	if err != nil {
		return nil, err
	}

	switch cfg.StrategyType {
	case domain.StrategyTypeMACrossover:
		return NewMACrossoverStrategy(fast, slow), nil
	case domain.StrategyTypeBreakout:
		return NewBreakoutStrategy(entry, exit), nil
	case domain.StrategyTypeCore:
		return NewCoreStrategy(fast, slow, entry, exit), nil
	default:
		return nil, ErrUnknownStrategyType
	}
}

// Catalog returns the bundled strategies with default parameters, keyed by
// their short names.
func Catalog() map[string]Strategy {
	return map[string]Strategy{
		"ma_crossover": NewMACrossoverStrategy(config.EMAFastPeriod, config.EMASlowPeriod),
		"breakout":     NewBreakoutStrategy(config.EntryChannelPeriod, config.ExitChannelPeriod),
		"core":         NewCoreStrategy(config.EMAFastPeriod, config.EMASlowPeriod, config.EntryChannelPeriod, config.ExitChannelPeriod),
	}
}

func periodOrDefault(p *int, def int) (int, error) {
	if p == nil {
		return def, nil
	}
	if *p <= 0 {
		return 0, ErrInvalidPeriod
	}
	return *p, nil
}
