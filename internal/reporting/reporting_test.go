package reporting

import (
	"math"
	"strings"
	"testing"

	"trendlab/internal/domain"
)

func sampleMetrics() domain.BacktestMetrics {
	return domain.BacktestMetrics{
		TotalReturnPct:          85.2,
		CAGRPct:                 12.4,
		BestMonthPct:            8.1,
		WorstMonthPct:           -6.3,
		PctProfitableMonths:     58.0,
		AnnualizedVolPct:        18.5,
		MaxDrawdownPct:          -31.2,
		MaxDrawdownDurationDays: 412,
		SharpeRatio:             0.67,
		SortinoRatio:            0.41,
		CalmarRatio:             0.40,
		TotalTrades:             142,
		WinningTrades:           55,
		LosingTrades:            87,
		WinRatePct:              38.7,
		AvgWinPct:               2.4,
		AvgLossPct:              -1.1,
		ProfitFactor:            1.35,
		PayoffRatio:             2.18,
		SampleErrorPct:          8.4,
		AvgTradeDurationDays:    47,
		MonthlyReturns: []domain.MonthlyReturn{
			{Year: 2020, Month: 1, Return: 0.021},
			{Year: 2020, Month: 2, Return: -0.013},
		},
	}
}

func TestRenderText_Sections(t *testing.T) {
	out := RenderText(sampleMetrics(), "core")

	for _, want := range []string{"RESULTS: core", "RETURN", "RISK", "RATIOS", "TRADES", "VALIDATION"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing section %q", want)
		}
	}
	if !strings.Contains(out, "No red flags detected") {
		t.Errorf("clean metrics should report no red flags:\n%s", out)
	}
	if !strings.Contains(out, "412 days") {
		t.Errorf("missing drawdown duration")
	}
}

func TestRenderText_InfiniteRatios(t *testing.T) {
	m := sampleMetrics()
	m.ProfitFactor = math.Inf(1)
	m.PayoffRatio = math.Inf(1)

	out := RenderText(m, "lucky")
	if !strings.Contains(out, "inf") {
		t.Errorf("infinite ratios should render as inf:\n%s", out)
	}
}

func TestRedFlags(t *testing.T) {
	m := sampleMetrics()
	if flags := RedFlags(m); len(flags) != 0 {
		t.Fatalf("expected no flags, got %v", flags)
	}

	m.CAGRPct = 45
	m.SharpeRatio = 2.5
	m.MaxDrawdownPct = -4
	m.TotalTrades = 12

	flags := RedFlags(m)
	if len(flags) != 4 {
		t.Fatalf("expected 4 flags, got %d: %v", len(flags), flags)
	}
}

func TestRedFlags_NoTradesSkipsDrawdownFlag(t *testing.T) {
	var m domain.BacktestMetrics // zero record: no trades, no drawdown

	flags := RedFlags(m)
	for _, f := range flags {
		if strings.Contains(f, "drawdown") {
			t.Errorf("drawdown flag should not fire without trades: %v", flags)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown(sampleMetrics(), "breakout")

	if !strings.Contains(out, "# Backtest Report: breakout") {
		t.Errorf("missing title")
	}
	if !strings.Contains(out, "| CAGR | 12.40% |") {
		t.Errorf("missing CAGR row:\n%s", out)
	}
	if !strings.Contains(out, "| 2020-01 | +2.10% |") {
		t.Errorf("missing monthly row:\n%s", out)
	}
	if !strings.Contains(out, "No red flags detected") {
		t.Errorf("missing validation outcome")
	}
}

func TestRenderTradesCSV(t *testing.T) {
	trades := []domain.Trade{
		{
			TradeID:     "abc123",
			RunID:       "run1",
			StrategyID:  "core_50_100_100_50",
			Instrument:  "Gold",
			Direction:   domain.Long,
			Contracts:   3,
			EntryPrice:  1800.5,
			ExitPrice:   1850.25,
			EntryDate:   domain.Day(2020, 3, 2),
			ExitDate:    domain.Day(2020, 4, 15),
			NetPnL:      1485.2,
			PnLPct:      0.0148,
			GrossPnL:    1492.5,
			Costs:       14.6,
			HoldingDays: 44,
		},
	}

	out := RenderTradesCSV(trades)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "trade_id,run_id,strategy_id,instrument") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Gold,1,3") {
		t.Errorf("unexpected row: %s", lines[1])
	}
	if !strings.Contains(lines[1], "2020-03-02,2020-04-15") {
		t.Errorf("dates must be ISO formatted: %s", lines[1])
	}
}

func TestRenderMetricsCSV(t *testing.T) {
	out := RenderMetricsCSV(sampleMetrics(), "core")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "core,") {
		t.Errorf("row must start with the run name: %s", lines[1])
	}

	header := strings.Split(lines[0], ",")
	row := strings.Split(lines[1], ",")
	if len(header) != len(row) {
		t.Errorf("header has %d columns, row has %d", len(header), len(row))
	}
}

func TestRenderEquityCSV(t *testing.T) {
	equity := []domain.EquityPoint{
		{Date: domain.Day(2020, 1, 2), Equity: 100000},
		{Date: domain.Day(2020, 1, 3), Equity: 100500.5},
	}

	out := RenderEquityCSV(equity)
	if !strings.Contains(out, "2020-01-03,100500.50") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
