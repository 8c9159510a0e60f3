package reporting

import (
	"fmt"
	"strings"

	"trendlab/internal/domain"
)

// RenderTradesCSV renders the trade ledger as CSV string.
func RenderTradesCSV(trades []domain.Trade) string {
	var sb strings.Builder

	sb.WriteString("trade_id,run_id,strategy_id,instrument,direction,contracts,")
	sb.WriteString("entry_price,exit_price,entry_date,exit_date,")
	sb.WriteString("net_pnl,pnl_pct,gross_pnl,costs,holding_days\n")

	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%g,%.6f,%.6f,%s,%s,%.6f,%.6f,%.6f,%.6f,%d\n",
			t.TradeID,
			t.RunID,
			t.StrategyID,
			t.Instrument,
			t.Direction,
			t.Contracts,
			t.EntryPrice,
			t.ExitPrice,
			t.EntryDate.Format("2006-01-02"),
			t.ExitDate.Format("2006-01-02"),
			t.NetPnL,
			t.PnLPct,
			t.GrossPnL,
			t.Costs,
			t.HoldingDays,
		))
	}

	return sb.String()
}

// RenderMetricsCSV renders one metrics record as a single CSV row with a
// header, suitable for concatenating runs into a comparison sheet.
func RenderMetricsCSV(m domain.BacktestMetrics, name string) string {
	var sb strings.Builder

	sb.WriteString("name,total_return_pct,cagr_pct,annualized_vol_pct,max_drawdown_pct,")
	sb.WriteString("max_drawdown_duration_days,sharpe,sortino,calmar,total_trades,")
	sb.WriteString("win_rate_pct,avg_win_pct,avg_loss_pct,profit_factor,payoff_ratio,")
	sb.WriteString("sample_error_pct,avg_trade_duration_days\n")

	sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f,%.6f,%.6f,%d,%.6f,%.6f,%.6f,%d,%.6f,%.6f,%.6f,%s,%s,%.6f,%.6f\n",
		name,
		m.TotalReturnPct,
		m.CAGRPct,
		m.AnnualizedVolPct,
		m.MaxDrawdownPct,
		m.MaxDrawdownDurationDays,
		m.SharpeRatio,
		m.SortinoRatio,
		m.CalmarRatio,
		m.TotalTrades,
		m.WinRatePct,
		m.AvgWinPct,
		m.AvgLossPct,
		ratio(m.ProfitFactor),
		ratio(m.PayoffRatio),
		m.SampleErrorPct,
		m.AvgTradeDurationDays,
	))

	return sb.String()
}

// RenderEquityCSV renders the equity curve as CSV string.
func RenderEquityCSV(equity []domain.EquityPoint) string {
	var sb strings.Builder

	sb.WriteString("date,equity\n")
	for _, p := range equity {
		sb.WriteString(fmt.Sprintf("%s,%.2f\n", p.Date.Format("2006-01-02"), p.Equity))
	}

	return sb.String()
}
