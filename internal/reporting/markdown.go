package reporting

import (
	"fmt"
	"strings"

	"trendlab/internal/domain"
)

// RenderMarkdown renders the metrics record as a Markdown report: a summary
// table, the monthly return table and the validation section.
func RenderMarkdown(m domain.BacktestMetrics, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Backtest Report: %s\n\n", name))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total return | %.1f%% |\n", m.TotalReturnPct))
	sb.WriteString(fmt.Sprintf("| CAGR | %.2f%% |\n", m.CAGRPct))
	sb.WriteString(fmt.Sprintf("| Annualized vol | %.2f%% |\n", m.AnnualizedVolPct))
	sb.WriteString(fmt.Sprintf("| Max drawdown | %.2f%% |\n", m.MaxDrawdownPct))
	sb.WriteString(fmt.Sprintf("| Max DD duration | %d days |\n", m.MaxDrawdownDurationDays))
	sb.WriteString(fmt.Sprintf("| Sharpe | %.3f |\n", m.SharpeRatio))
	sb.WriteString(fmt.Sprintf("| Sortino | %.3f |\n", m.SortinoRatio))
	sb.WriteString(fmt.Sprintf("| Calmar | %.3f |\n", m.CalmarRatio))
	sb.WriteString(fmt.Sprintf("| Trades | %d |\n", m.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Win rate | %.1f%% |\n", m.WinRatePct))
	sb.WriteString(fmt.Sprintf("| Profit factor | %s |\n", ratio(m.ProfitFactor)))
	sb.WriteString(fmt.Sprintf("| Payoff ratio | %s |\n", ratio(m.PayoffRatio)))
	sb.WriteString(fmt.Sprintf("| Avg trade duration | %.0f days |\n", m.AvgTradeDurationDays))
	sb.WriteString("\n")

	if len(m.MonthlyReturns) > 0 {
		sb.WriteString("## Monthly Returns\n\n")
		sb.WriteString("| Month | Return |\n")
		sb.WriteString("|-------|--------|\n")
		for _, mr := range m.MonthlyReturns {
			sb.WriteString(fmt.Sprintf("| %04d-%02d | %+.2f%% |\n", mr.Year, int(mr.Month), mr.Return*100))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Validation\n\n")
	flags := RedFlags(m)
	if len(flags) == 0 {
		sb.WriteString("No red flags detected.\n")
	} else {
		for _, f := range flags {
			sb.WriteString(fmt.Sprintf("- %s\n", f))
		}
	}

	return sb.String()
}
