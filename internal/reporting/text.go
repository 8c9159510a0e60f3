// Package reporting renders backtest results for humans and spreadsheets.
// Renderers consume the metrics record read-only and never feed anything
// back into the simulation.
package reporting

import (
	"fmt"
	"math"
	"strings"

	"trendlab/internal/domain"
)

// RenderText renders the metrics record as a sectioned plain-text summary
// with a sanity-check section flagging results too good to trust.
func RenderText(m domain.BacktestMetrics, name string) string {
	var sb strings.Builder

	rule := strings.Repeat("=", 60)
	sep := strings.Repeat("-", 40)

	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("RESULTS: %s\n", name))
	sb.WriteString(rule + "\n\n")

	sb.WriteString("  RETURN\n")
	sb.WriteString("  " + sep + "\n")
	sb.WriteString(fmt.Sprintf("  Total return        : %10.1f%%\n", m.TotalReturnPct))
	sb.WriteString(fmt.Sprintf("  CAGR                : %10.2f%%\n", m.CAGRPct))
	sb.WriteString(fmt.Sprintf("  Best month          : %+10.2f%%\n", m.BestMonthPct))
	sb.WriteString(fmt.Sprintf("  Worst month         : %+10.2f%%\n", m.WorstMonthPct))
	sb.WriteString(fmt.Sprintf("  Profitable months   : %10.1f%%\n", m.PctProfitableMonths))
	sb.WriteString("\n")

	sb.WriteString("  RISK\n")
	sb.WriteString("  " + sep + "\n")
	sb.WriteString(fmt.Sprintf("  Annualized vol      : %10.2f%%\n", m.AnnualizedVolPct))
	sb.WriteString(fmt.Sprintf("  Max drawdown        : %10.2f%%\n", m.MaxDrawdownPct))
	sb.WriteString(fmt.Sprintf("  Max DD duration     : %10d days\n", m.MaxDrawdownDurationDays))
	sb.WriteString("\n")

	sb.WriteString("  RATIOS\n")
	sb.WriteString("  " + sep + "\n")
	sb.WriteString(fmt.Sprintf("  Sharpe (rf 0%%)      : %10.3f\n", m.SharpeRatio))
	sb.WriteString(fmt.Sprintf("  Sortino             : %10.3f\n", m.SortinoRatio))
	sb.WriteString(fmt.Sprintf("  Calmar              : %10.3f\n", m.CalmarRatio))
	sb.WriteString("\n")

	sb.WriteString("  TRADES\n")
	sb.WriteString("  " + sep + "\n")
	sb.WriteString(fmt.Sprintf("  Total               : %10d\n", m.TotalTrades))
	sb.WriteString(fmt.Sprintf("  Winners             : %10d (%.1f%%)\n", m.WinningTrades, m.WinRatePct))
	sb.WriteString(fmt.Sprintf("  Losers              : %10d (%.1f%%)\n", m.LosingTrades, 100-m.WinRatePct))
	sb.WriteString(fmt.Sprintf("  Avg win             : %+10.2f%%\n", m.AvgWinPct))
	sb.WriteString(fmt.Sprintf("  Avg loss            : %+10.2f%%\n", m.AvgLossPct))
	sb.WriteString(fmt.Sprintf("  Profit factor       : %10s\n", ratio(m.ProfitFactor)))
	sb.WriteString(fmt.Sprintf("  Payoff ratio        : %10s\n", ratio(m.PayoffRatio)))
	sb.WriteString(fmt.Sprintf("  Avg trade duration  : %10.0f days\n", m.AvgTradeDurationDays))
	sb.WriteString(fmt.Sprintf("  Sample error        : %10.1f%%\n", m.SampleErrorPct))
	sb.WriteString("\n")

	sb.WriteString("  VALIDATION\n")
	sb.WriteString("  " + sep + "\n")
	flags := RedFlags(m)
	if len(flags) == 0 {
		sb.WriteString("  No red flags detected\n")
	} else {
		for _, f := range flags {
			sb.WriteString("  FLAG: " + f + "\n")
		}
	}
	// Rule of thumb: a realistic max drawdown runs about 3x the CAGR.
	sb.WriteString(fmt.Sprintf("  Expected DD (~3xCAGR): %+.1f%% (actual: %+.1f%%)\n",
		-3*m.CAGRPct, m.MaxDrawdownPct))
	sb.WriteString(rule + "\n")

	return sb.String()
}

// RedFlags returns the sanity-check warnings for a metrics record. Results
// clearing every threshold are usually overfit or mispriced, not brilliant.
func RedFlags(m domain.BacktestMetrics) []string {
	var flags []string

	if m.CAGRPct > 30 {
		flags = append(flags, fmt.Sprintf("CAGR %.1f%% > 30%% - likely overfit", m.CAGRPct))
	}
	if m.SharpeRatio > 2.0 {
		flags = append(flags, fmt.Sprintf("Sharpe %.2f > 2.0 - suspicious", m.SharpeRatio))
	}
	if m.MaxDrawdownPct > -10 && m.TotalTrades > 0 {
		flags = append(flags, fmt.Sprintf("max drawdown %.1f%% > -10%% - unrealistically shallow", m.MaxDrawdownPct))
	}
	if m.TotalTrades < 30 {
		flags = append(flags, fmt.Sprintf("%d trades < 30 - statistically insufficient", m.TotalTrades))
	}

	return flags
}

// ratio formats a ratio statistic, rendering +Inf as "inf".
func ratio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}
