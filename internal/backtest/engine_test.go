package backtest

import (
	"errors"
	"math"
	"testing"
	"time"

	"trendlab/internal/domain"
	"trendlab/internal/lookup"
	"trendlab/internal/strategy"
)

var testInstrument = domain.Instrument{
	Name:       "Gold",
	Ticker:     "GC=F",
	Sector:     "Metals",
	PointValue: 10,
	Currency:   "USD",
}

func f(v float64) *float64 { return &v }

// seriesBars builds consecutive daily bars with the given opens. Close is
// open + 1, High/Low bracket both, ATR fixed at 2.
func seriesBars(start time.Time, opens ...float64) []domain.DailyBar {
	bars := make([]domain.DailyBar, len(opens))
	for i, o := range opens {
		bars[i] = domain.DailyBar{
			Date:  start.AddDate(0, 0, i),
			Open:  o,
			High:  o + 2,
			Low:   o - 1,
			Close: o + 1,
			ATR:   f(2),
		}
	}
	return bars
}

// signalsByDay replays a fixed signal sequence indexed by date offset.
func signalsByDay(start time.Time, signals []int) strategy.Strategy {
	return strategy.Func{
		Name: "scripted",
		Fn: func(date time.Time, _ domain.DailyBar, _ string, _ strategy.PositionView) int {
			i := int(date.Sub(start).Hours() / 24)
			if i < 0 || i >= len(signals) {
				return domain.Flat
			}
			return signals[i]
		},
	}
}

func mustEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{InitialCapital: 0, RiskFactor: 0.002}); !errors.Is(err, ErrInvalidCapital) {
		t.Errorf("expected ErrInvalidCapital, got %v", err)
	}
	if _, err := New(Config{InitialCapital: 100000, RiskFactor: 0}); !errors.Is(err, ErrInvalidRiskFactor) {
		t.Errorf("expected ErrInvalidRiskFactor, got %v", err)
	}
}

func TestRun_NoData(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 100000, RiskFactor: 0.002})
	_, err := e.Run(nil, signalsByDay(time.Time{}, nil), nil)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestRun_UnknownInstrument(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 100000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)
	data := map[string][]domain.DailyBar{"Mystery": seriesBars(start, 100)}

	_, err := e.Run(data, signalsByDay(start, nil), map[string]domain.Instrument{})
	if !errors.Is(err, ErrUnknownInstrument) {
		t.Errorf("expected ErrUnknownInstrument, got %v", err)
	}
}

func TestRun_InvalidPointValue(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 100000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)
	data := map[string][]domain.DailyBar{"Gold": seriesBars(start, 100)}
	bad := map[string]domain.Instrument{"Gold": {Name: "Gold", PointValue: 0}}

	_, err := e.Run(data, signalsByDay(start, nil), bad)
	if !errors.Is(err, ErrInvalidPointValue) {
		t.Errorf("expected ErrInvalidPointValue, got %v", err)
	}
}

func TestRun_FlatInstrument(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 100000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)
	data := map[string][]domain.DailyBar{"Gold": seriesBars(start, 100, 101, 102, 103, 104)}
	insts := map[string]domain.Instrument{"Gold": testInstrument}

	res, err := e.Run(data, signalsByDay(start, []int{0, 0, 0, 0, 0}), insts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Trades) != 0 {
		t.Errorf("expected 0 trades, got %d", len(res.Trades))
	}
	if res.FinalCapital != 100000 {
		t.Errorf("expected unchanged capital, got %v", res.FinalCapital)
	}
	for _, p := range res.EquityCurve {
		if p.Equity != 100000 {
			t.Errorf("%s: expected equity 100000, got %v", p.Date.Format("2006-01-02"), p.Equity)
		}
	}
}

func TestRun_SingleRoundTrip(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 100000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)
	opens := []float64{100, 100, 100, 100, 105, 110}
	data := map[string][]domain.DailyBar{"Gold": seriesBars(start, opens...)}
	insts := map[string]domain.Instrument{"Gold": testInstrument}

	// +1 signalled on day 3 (index 2) executes at day 4's open; reversion
	// to 0 on day 5 executes at day 6's open.
	res, err := e.Run(data, signalsByDay(start, []int{0, 0, 1, 1, 0, 0}), insts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(res.Trades))
	}
	trade := res.Trades[0]

	if trade.EntryPrice != 100 {
		t.Errorf("entry must fill at day 4 open (100), got %v", trade.EntryPrice)
	}
	if trade.ExitPrice != 110 {
		t.Errorf("exit must fill at day 6 open (110), got %v", trade.ExitPrice)
	}
	if !trade.EntryDate.Equal(start.AddDate(0, 0, 3)) {
		t.Errorf("entry date must be day 4, got %v", trade.EntryDate)
	}
	if !trade.ExitDate.Equal(start.AddDate(0, 0, 5)) {
		t.Errorf("exit date must be day 6, got %v", trade.ExitDate)
	}
	if trade.HoldingDays != 2 {
		t.Errorf("expected 2 calendar holding days, got %d", trade.HoldingDays)
	}

	// Sizing: 100000 * 0.002 / (2 * 10) = 10 contracts.
	if trade.Contracts != 10 {
		t.Fatalf("expected 10 contracts, got %v", trade.Contracts)
	}

	// gross = (110-100) * 10 * 10 = 1000
	if math.Abs(trade.GrossPnL-1000) > 1e-9 {
		t.Errorf("expected gross 1000, got %v", trade.GrossPnL)
	}

	exitCost := e.cfg.Costs.Cost(trade.Contracts, trade.ExitPrice)
	if math.Abs(trade.NetPnL-(trade.GrossPnL-exitCost)) > 1e-9 {
		t.Errorf("net must equal gross minus exit cost: %v vs %v", trade.NetPnL, trade.GrossPnL-exitCost)
	}

	if len(trade.TradeID) != 64 {
		t.Errorf("expected 64-char trade id, got %q", trade.TradeID)
	}
	if trade.StrategyID != "scripted" {
		t.Errorf("unexpected strategy id: %s", trade.StrategyID)
	}
}

func TestRun_NoLookAhead(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 100000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)
	// Signal day open is 50, next day open is 70. A look-ahead bug would
	// fill at 50 or at the signal day's close (51). The exit signal on day 4
	// needs a day 5 to fill on, otherwise it lapses at the end of the series.
	opens := []float64{50, 50, 70, 70, 70}
	data := map[string][]domain.DailyBar{"Gold": seriesBars(start, opens...)}
	insts := map[string]domain.Instrument{"Gold": testInstrument}

	res, err := e.Run(data, signalsByDay(start, []int{0, 1, 1, 0, 0}), insts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(res.Trades))
	}
	if res.Trades[0].EntryPrice != 70 {
		t.Errorf("fill must come from the day after the signal, got %v", res.Trades[0].EntryPrice)
	}
	if !res.Trades[0].EntryDate.After(start.AddDate(0, 0, 1)) {
		t.Errorf("entry date must be strictly after the signal date")
	}
}

func TestRun_EndOfSeriesLapses(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 100000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)
	data := map[string][]domain.DailyBar{"Gold": seriesBars(start, 100, 101, 102)}
	insts := map[string]domain.Instrument{"Gold": testInstrument}

	// Signal on the final day has no next open; nothing executes.
	res, err := e.Run(data, signalsByDay(start, []int{0, 0, 1}), insts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Trades) != 0 || len(res.OpenPositions) != 0 {
		t.Errorf("end-of-series signal must lapse: %d trades, %d open", len(res.Trades), len(res.OpenPositions))
	}
	if res.FinalCapital != 100000 {
		t.Errorf("capital must be unchanged, got %v", res.FinalCapital)
	}
}

func TestRun_WarmupATRSkipsEntry(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 100000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)
	bars := seriesBars(start, 100, 100, 100, 100)
	for i := range bars {
		bars[i].ATR = nil // warm-up: no ATR yet
	}
	data := map[string][]domain.DailyBar{"Gold": bars}
	insts := map[string]domain.Instrument{"Gold": testInstrument}

	res, err := e.Run(data, signalsByDay(start, []int{1, 1, 1, 1}), insts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Trades) != 0 || len(res.OpenPositions) != 0 {
		t.Errorf("missing ATR must size to zero and skip the entry")
	}
}

func TestRun_ReversalClosesBeforeReopening(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 500000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)
	opens := []float64{100, 100, 100, 100, 100, 100}
	data := map[string][]domain.DailyBar{"Gold": seriesBars(start, opens...)}
	insts := map[string]domain.Instrument{"Gold": testInstrument}

	// Long, then straight to short, then flat.
	res, err := e.Run(data, signalsByDay(start, []int{1, 1, -1, -1, 0, 0}), insts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Trades) != 2 {
		t.Fatalf("expected 2 trades (long then short), got %d", len(res.Trades))
	}
	if res.Trades[0].Direction != domain.Long || res.Trades[1].Direction != domain.Short {
		t.Errorf("unexpected directions: %d, %d", res.Trades[0].Direction, res.Trades[1].Direction)
	}
	// At most one open position per instrument: consecutive trades on the
	// same instrument never overlap.
	if res.Trades[1].EntryDate.Before(res.Trades[0].ExitDate) {
		t.Errorf("second trade opened before the first closed")
	}
	// The reversal closes and reopens at the same fill.
	if !res.Trades[1].EntryDate.Equal(res.Trades[0].ExitDate) {
		t.Errorf("reversal must close and reopen on the same execution date")
	}
}

func TestRun_CapitalConservation(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 200000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)
	opens := []float64{100, 102, 98, 105, 103, 99, 104, 101, 100, 102}
	data := map[string][]domain.DailyBar{"Gold": seriesBars(start, opens...)}
	insts := map[string]domain.Instrument{"Gold": testInstrument}

	res, err := e.Run(data, signalsByDay(start, []int{1, 1, -1, -1, 1, 0, 0, -1, -1, 0}), insts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Trades) == 0 {
		t.Fatalf("expected trades")
	}

	// Replay the ledger against the initial capital.
	capital := 200000.0
	for _, tr := range res.Trades {
		exitCost := e.cfg.Costs.Cost(tr.Contracts, tr.ExitPrice)
		entryCost := tr.Costs - exitCost
		capital -= entryCost
		capital += tr.NetPnL
	}
	// Entry costs of still-open positions were charged but not yet realized.
	for _, pos := range res.OpenPositions {
		capital -= e.cfg.Costs.Cost(pos.Contracts, pos.EntryPrice)
	}

	if math.Abs(capital-res.FinalCapital) > 1e-6 {
		t.Errorf("ledger replay gives %v, engine reports %v", capital, res.FinalCapital)
	}
}

func TestRun_EquityMarkedBeforeDecisions(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 100000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)
	opens := []float64{100, 100, 100, 120, 120}
	data := map[string][]domain.DailyBar{"Gold": seriesBars(start, opens...)}
	insts := map[string]domain.Instrument{"Gold": testInstrument}

	res, err := e.Run(data, signalsByDay(start, []int{1, 1, 1, 1, 1}), insts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Entry fills at day 2 open (100, cost charged). Day 2's equity point
	// was recorded before the day-1 execution settled into equity via the
	// day-2 close mark: capital after entry cost + unrealized at close 101.
	entryCost := e.cfg.Costs.Cost(10, 100)
	wantDay2 := 100000 - entryCost + (101-100)*10*10
	if math.Abs(res.EquityCurve[1].Equity-wantDay2) > 1e-9 {
		t.Errorf("day 2 equity: expected %v, got %v", wantDay2, res.EquityCurve[1].Equity)
	}

	// Final re-mark: last equity point reflects the final close (121).
	wantLast := 100000 - entryCost + (121-100)*10*10
	lastEq := res.EquityCurve[len(res.EquityCurve)-1].Equity
	if math.Abs(lastEq-wantLast) > 1e-9 {
		t.Errorf("final equity: expected %v, got %v", wantLast, lastEq)
	}
}

func TestRun_TrailingReferences(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 100000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)
	opens := []float64{100, 100, 130, 90, 95}
	data := map[string][]domain.DailyBar{"Gold": seriesBars(start, opens...)}
	insts := map[string]domain.Instrument{"Gold": testInstrument}

	res, err := e.Run(data, signalsByDay(start, []int{1, 1, 1, 1, 1}), insts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.OpenPositions) != 1 {
		t.Fatalf("expected 1 open position, got %d", len(res.OpenPositions))
	}
	// Highs are open+2; the best high seen since entry is 132 on day 3 and
	// the peak must not decay when price falls afterwards.
	if res.OpenPositions[0].PeakPrice != 132 {
		t.Errorf("expected peak 132, got %v", res.OpenPositions[0].PeakPrice)
	}
}

func TestRun_InstrumentOwnCalendar(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 200000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)

	// Gold trades every day; Copper skips day 2. A Copper signal on day 1
	// must fill at Copper's next bar (day 3), not the global next day.
	gold := seriesBars(start, 100, 100, 100, 100)
	copper := []domain.DailyBar{
		{Date: start, Open: 50, High: 52, Low: 49, Close: 51, ATR: f(2)},
		{Date: start.AddDate(0, 0, 2), Open: 60, High: 62, Low: 59, Close: 61, ATR: f(2)},
		{Date: start.AddDate(0, 0, 3), Open: 61, High: 63, Low: 60, Close: 62, ATR: f(2)},
	}
	data := map[string][]domain.DailyBar{"Gold": gold, "Copper": copper}
	insts := map[string]domain.Instrument{
		"Gold":   testInstrument,
		"Copper": {Name: "Copper", PointValue: 10, Currency: "USD"},
	}

	strat := strategy.Func{
		Name: "copper_only",
		Fn: func(date time.Time, _ domain.DailyBar, instrument string, _ strategy.PositionView) int {
			if instrument == "Copper" {
				return domain.Long
			}
			return domain.Flat
		},
	}

	res, err := e.Run(data, strat, insts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.OpenPositions) != 1 {
		t.Fatalf("expected 1 open position, got %d", len(res.OpenPositions))
	}
	pos := res.OpenPositions[0]
	if pos.Instrument != "Copper" {
		t.Fatalf("expected Copper position, got %s", pos.Instrument)
	}
	if pos.EntryPrice != 60 || !pos.EntryDate.Equal(start.AddDate(0, 0, 2)) {
		t.Errorf("entry must fill at Copper's own next bar: price %v date %v", pos.EntryPrice, pos.EntryDate)
	}
}

func TestMarkToMarket_StableSummation(t *testing.T) {
	e := mustEngine(t, Config{InitialCapital: 100000, RiskFactor: 0.002})
	start := domain.Day(2020, 1, 1)

	// Three open positions with unrealized P&L 0.1, 0.2 and 0.3. Summed in
	// map order the float result flips in the last bits between calls.
	names := []string{"Copper", "Gold", "Wheat"}
	calendars := make(map[string]*lookup.Calendar, len(names))
	for i, name := range names {
		mark := 100 + 0.1*float64(i+1)
		calendars[name] = lookup.NewCalendar([]domain.DailyBar{
			{Date: start, Open: 100, High: mark + 1, Low: 99, Close: mark},
		})
		e.positions[name] = &domain.Position{
			Instrument: name,
			Direction:  domain.Long,
			Contracts:  1,
			EntryPrice: 100,
			EntryDate:  start,
			PointValue: 1,
		}
	}
	e.names = names

	first := e.markToMarket(start, calendars)
	for i := 0; i < 2000; i++ {
		if got := e.markToMarket(start, calendars); got != first {
			t.Fatalf("iteration %d: sum %v differs from first call %v", i, got, first)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	start := domain.Day(2020, 1, 1)
	opens := []float64{100, 102, 98, 105, 103, 99, 104, 101}
	insts := map[string]domain.Instrument{
		"Gold":   testInstrument,
		"Copper": {Name: "Copper", PointValue: 25, Currency: "USD"},
	}
	strat := signalsByDay(start, []int{1, 1, -1, -1, 1, 1, 0, 0})

	run := func() *Result {
		e := mustEngine(t, Config{InitialCapital: 300000, RiskFactor: 0.002})
		data := map[string][]domain.DailyBar{
			"Gold":   seriesBars(start, opens...),
			"Copper": seriesBars(start, opens...),
		}
		res, err := e.Run(data, strat, insts)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return res
	}

	a, b := run(), run()
	if a.RunID != b.RunID {
		t.Errorf("run ids differ: %s vs %s", a.RunID, b.RunID)
	}
	if a.FinalCapital != b.FinalCapital {
		t.Errorf("final capital differs: %v vs %v", a.FinalCapital, b.FinalCapital)
	}
	if len(a.Trades) != len(b.Trades) {
		t.Fatalf("trade counts differ: %d vs %d", len(a.Trades), len(b.Trades))
	}
	for i := range a.Trades {
		if a.Trades[i].TradeID != b.Trades[i].TradeID {
			t.Errorf("trade %d ids differ", i)
		}
	}
}
