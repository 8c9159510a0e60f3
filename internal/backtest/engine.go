// Package backtest runs the day-by-day simulation: it walks the unioned
// trading calendar, turns strategy signals into fills at the next day's open,
// sizes positions off ATR, charges costs and accumulates the equity history.
// Decisions made with day-J data never execute at day-J prices.
package backtest

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"trendlab/internal/domain"
	"trendlab/internal/idhash"
	"trendlab/internal/lookup"
	"trendlab/internal/strategy"
)

// Pre-run validation errors.
var (
	ErrNoData            = errors.New("no price data")
	ErrInvalidCapital    = errors.New("initial capital must be positive")
	ErrInvalidRiskFactor = errors.New("risk factor must be positive")
	ErrUnknownInstrument = errors.New("instrument missing from configuration")
	ErrInvalidPointValue = errors.New("instrument point value must be positive")
)

// Config holds one run's parameters. Runs are independent: two engines with
// separate Configs share nothing.
type Config struct {
	InitialCapital float64
	RiskFactor     float64
	// Fractional allows fractional contracts (CFD mode).
	Fractional bool
	// Costs defaults to DefaultCostConfig when zero.
	Costs CostConfig
	// Universe labels the instrument set in the run id. Default "custom".
	Universe string
}

// Result is the finished run: the equity trajectory, the closed-trade ledger
// and the remaining cash capital.
type Result struct {
	RunID        string
	StrategyID   string
	EquityCurve  []domain.EquityPoint
	Trades       []domain.Trade
	FinalCapital float64
	// OpenPositions are positions still open at the end of the series.
	OpenPositions []domain.Position
}

// Engine owns the state of one simulation run: cash capital, open positions,
// closed trades and the equity history. Single-threaded, single-pass.
type Engine struct {
	cfg   Config
	sizer Sizer

	capital   float64
	names     []string // sorted instrument names, fixes iteration order
	positions map[string]*domain.Position
	trades    []domain.Trade
	equity    []domain.EquityPoint

	runID      string
	strategyID string
}

// New validates the configuration and builds an engine. A zero Costs config
// is replaced with DefaultCostConfig.
func New(cfg Config) (*Engine, error) {
	if cfg.InitialCapital <= 0 {
		return nil, ErrInvalidCapital
	}
	if cfg.RiskFactor <= 0 {
		return nil, ErrInvalidRiskFactor
	}
	if cfg.Costs == (CostConfig{}) {
		cfg.Costs = DefaultCostConfig()
	}
	if cfg.Universe == "" {
		cfg.Universe = "custom"
	}

	return &Engine{
		cfg:       cfg,
		sizer:     Sizer{RiskFactor: cfg.RiskFactor, Fractional: cfg.Fractional},
		capital:   cfg.InitialCapital,
		positions: make(map[string]*domain.Position),
	}, nil
}

// Run simulates the strategy over the given per-instrument bar series.
// Bars must be enriched with the indicator columns the strategy reads and
// sorted by ascending date. Configuration problems fail before the first
// simulated day; per-day anomalies (warm-up, end of series, missing rows)
// are absorbed silently.
func (e *Engine) Run(data map[string][]domain.DailyBar, strat strategy.Strategy, instruments map[string]domain.Instrument) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}

	names := make([]string, 0, len(data))
	calendars := make(map[string]*lookup.Calendar, len(data))
	for name, bars := range data {
		inst, ok := instruments[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownInstrument, name)
		}
		if inst.PointValue <= 0 {
			return nil, fmt.Errorf("%w: %s (%g)", ErrInvalidPointValue, name, inst.PointValue)
		}
		names = append(names, name)
		calendars[name] = lookup.NewCalendar(bars)
	}
	sort.Strings(names)
	e.names = names

	dates := lookup.UnionDates(calendars)
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: empty calendar", ErrNoData)
	}

	e.strategyID = strat.ID()
	e.runID = idhash.ComputeRunID(e.strategyID, e.cfg.Universe, dates[0], e.cfg.InitialCapital)
	view := positionView{positions: e.positions}

	for _, date := range dates {
		// 1. Mark open positions to market before any decision is made, so
		// the recorded equity never anticipates the same day's trading.
		unrealized := e.markToMarket(date, calendars)
		e.equity = append(e.equity, domain.EquityPoint{Date: date, Equity: e.capital + unrealized})

		// 2-4. Evaluate signals and execute transitions at the next open.
		for _, name := range names {
			cal := calendars[name]
			bar, err := cal.BarOn(date)
			if err != nil {
				continue
			}

			signal := strat.Evaluate(date, bar, name, view)

			currentDir := domain.Flat
			if pos, ok := e.positions[name]; ok {
				currentDir = pos.Direction
			}
			if signal == currentDir {
				continue
			}

			// Execution at the next trading day's open in this
			// instrument's own calendar. Past the end of the series the
			// opportunity lapses.
			next, err := cal.Next(date)
			if err != nil {
				continue
			}

			if _, ok := e.positions[name]; ok {
				e.closePosition(name, next.Open, next.Date)
			}
			if signal != domain.Flat {
				atr := 0.0
				if bar.ATR != nil {
					atr = *bar.ATR
				}
				e.openPosition(name, signal, next.Open, next.Date, atr, instruments[name])
			}
		}

		// 5. Update trailing references now that the day's range is known.
		e.updateTrailing(date, calendars)
	}

	// 6. Re-mark at the final date and overwrite the last equity point so a
	// trailing open position is not reported stale.
	last := len(e.equity) - 1
	e.equity[last].Equity = e.capital + e.markToMarket(dates[len(dates)-1], calendars)

	open := make([]domain.Position, 0, len(e.positions))
	for _, name := range names {
		if pos, ok := e.positions[name]; ok {
			open = append(open, *pos)
		}
	}

	return &Result{
		RunID:         e.runID,
		StrategyID:    e.strategyID,
		EquityCurve:   e.equity,
		Trades:        e.trades,
		FinalCapital:  e.capital,
		OpenPositions: open,
	}, nil
}

// openPosition sizes and opens a new position, charging the entry cost to
// capital. A non-positive size means no position is taken.
func (e *Engine) openPosition(name string, direction int, price float64, date time.Time, atr float64, inst domain.Instrument) {
	contracts := e.sizer.Contracts(e.capital, atr, inst.PointValue)
	if contracts <= 0 {
		return
	}

	e.capital -= e.cfg.Costs.Cost(contracts, price)

	pos := &domain.Position{
		Instrument: name,
		Direction:  direction,
		Contracts:  contracts,
		EntryPrice: price,
		EntryDate:  date,
		PointValue: inst.PointValue,
		EntryATR:   atr,
	}
	if direction == domain.Long {
		pos.PeakPrice = price
	} else {
		pos.TroughPrice = price
	}
	e.positions[name] = pos
}

// closePosition realizes the position at the given price and appends the
// Trade. The entry cost was charged at open; only the exit cost is deducted
// from the net P&L here.
func (e *Engine) closePosition(name string, price float64, date time.Time) {
	pos, ok := e.positions[name]
	if !ok {
		return
	}
	delete(e.positions, name)

	gross := pos.UnrealizedPnL(price)
	exitCost := e.cfg.Costs.Cost(pos.Contracts, price)
	entryCost := e.cfg.Costs.Cost(pos.Contracts, pos.EntryPrice)
	totalCosts := entryCost + exitCost
	net := gross - exitCost

	e.capital += gross - exitCost

	// Percentage P&L against an approximation of equity at entry time,
	// reconstructed from the post-close capital.
	entryEquity := e.capital - net + totalCosts
	pnlPct := 0.0
	if entryEquity > 0 {
		pnlPct = net / entryEquity
	}

	holdingDays := int(date.Sub(pos.EntryDate).Hours() / 24)

	e.trades = append(e.trades, domain.Trade{
		TradeID:     idhash.ComputeTradeID(name, pos.Direction, pos.Contracts, pos.EntryDate, date),
		RunID:       e.runID,
		StrategyID:  e.strategyID,
		Instrument:  name,
		Direction:   pos.Direction,
		Contracts:   pos.Contracts,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   price,
		EntryDate:   pos.EntryDate,
		ExitDate:    date,
		NetPnL:      net,
		PnLPct:      pnlPct,
		GrossPnL:    gross,
		Costs:       totalCosts,
		HoldingDays: holdingDays,
	})
}

// markToMarket sums unrealized P&L over open positions with data on the
// date. Positions without a row that day are skipped. Summation follows the
// sorted name order so identical runs record identical equity.
func (e *Engine) markToMarket(date time.Time, calendars map[string]*lookup.Calendar) float64 {
	unrealized := 0.0
	for _, name := range e.names {
		pos, ok := e.positions[name]
		if !ok {
			continue
		}
		bar, err := calendars[name].BarOn(date)
		if err != nil {
			continue
		}
		unrealized += pos.UnrealizedPnL(bar.Close)
	}
	return unrealized
}

// updateTrailing advances peak/trough references using the day's High/Low.
// Peak never decreases, trough never increases.
func (e *Engine) updateTrailing(date time.Time, calendars map[string]*lookup.Calendar) {
	for _, name := range e.names {
		pos, ok := e.positions[name]
		if !ok {
			continue
		}
		bar, err := calendars[name].BarOn(date)
		if err != nil {
			continue
		}
		if pos.Direction == domain.Long {
			if bar.High > pos.PeakPrice {
				pos.PeakPrice = bar.High
			}
		} else {
			if bar.Low < pos.TroughPrice {
				pos.TroughPrice = bar.Low
			}
		}
	}
}

// positionView gives strategies read-only access to open positions.
type positionView struct {
	positions map[string]*domain.Position
}

func (v positionView) Direction(instrument string) int {
	if pos, ok := v.positions[instrument]; ok {
		return pos.Direction
	}
	return domain.Flat
}

func (v positionView) Get(instrument string) (domain.Position, bool) {
	pos, ok := v.positions[instrument]
	if !ok {
		return domain.Position{}, false
	}
	return *pos, true
}

// Ensure positionView implements strategy.PositionView
var _ strategy.PositionView = positionView{}
