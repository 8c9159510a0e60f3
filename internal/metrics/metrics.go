// Package metrics derives the performance statistics from a finished run:
// return and risk figures, ratio statistics, drawdown analysis and the
// trade-quality numbers. Pure functions of the equity curve and the trade
// ledger; degenerate inputs resolve to conventional sentinel values instead
// of errors.
package metrics

import (
	"math"

	"trendlab/internal/domain"
)

// Config holds the annualization parameters.
type Config struct {
	// TradingDaysPerYear is the annualization base (Carver uses 256,
	// US equities convention is 252).
	TradingDaysPerYear int
	// RiskFreeRate is the annual risk-free rate for the Sharpe excess
	// return. 0 gives the simplified Sharpe.
	RiskFreeRate float64
}

// DefaultConfig returns 256 trading days and a zero risk-free rate.
func DefaultConfig() Config {
	return Config{TradingDaysPerYear: 256, RiskFreeRate: 0}
}

// Compute derives the full statistics record from an equity curve and the
// closed-trade ledger. The equity curve must be date-ordered. An empty curve
// yields a zero-valued record.
func Compute(equity []domain.EquityPoint, trades []domain.Trade, cfg Config) domain.BacktestMetrics {
	var m domain.BacktestMetrics
	if cfg.TradingDaysPerYear <= 0 {
		cfg.TradingDaysPerYear = 256
	}
	if len(equity) == 0 {
		m.SampleErrorPct = 100
		return m
	}

	returns := dailyReturns(equity)
	nYears := float64(len(returns)) / float64(cfg.TradingDaysPerYear)

	first := equity[0].Equity
	last := equity[len(equity)-1].Equity

	// Total return and CAGR. A non-positive endpoint means the account was
	// wiped out: CAGR is -100% by convention.
	if first != 0 {
		m.TotalReturnPct = (last/first - 1) * 100
	}
	cagr := -1.0
	if nYears > 0 && first > 0 && last > 0 {
		cagr = math.Pow(last/first, 1/nYears) - 1
	}
	m.CAGRPct = cagr * 100

	// Annualized volatility and Sharpe.
	annFactor := math.Sqrt(float64(cfg.TradingDaysPerYear))
	std := sampleStd(returns)
	m.AnnualizedVolPct = std * annFactor * 100

	if std > 0 {
		excess := mean(returns) - cfg.RiskFreeRate/float64(cfg.TradingDaysPerYear)
		m.SharpeRatio = excess / std * annFactor
	}

	// Sortino: CAGR over annualized downside deviation.
	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	downsideStd := sampleStd(downside) * annFactor
	if downsideStd > 0 {
		m.SortinoRatio = cagr / downsideStd
	}

	// Drawdown series, maximum and duration.
	m.DrawdownSeries = Drawdowns(equity)
	maxDD := 0.0
	for _, d := range m.DrawdownSeries {
		if d.Drawdown < maxDD {
			maxDD = d.Drawdown
		}
	}
	m.MaxDrawdownPct = maxDD * 100
	m.MaxDrawdownDurationDays = MaxDrawdownDuration(m.DrawdownSeries)

	if maxDD != 0 {
		m.CalmarRatio = cagr / math.Abs(maxDD)
	}

	// Calendar-month aggregation.
	m.MonthlyReturns = MonthlyReturns(equity)
	if len(m.MonthlyReturns) > 0 {
		best := math.Inf(-1)
		worst := math.Inf(1)
		profitable := 0
		for _, mr := range m.MonthlyReturns {
			if mr.Return > best {
				best = mr.Return
			}
			if mr.Return < worst {
				worst = mr.Return
			}
			if mr.Return > 0 {
				profitable++
			}
		}
		m.BestMonthPct = best * 100
		m.WorstMonthPct = worst * 100
		m.PctProfitableMonths = float64(profitable) / float64(len(m.MonthlyReturns)) * 100
	}

	m.EquityCurve = equity
	fillTradeStats(&m, trades)
	return m
}

// fillTradeStats computes the ledger statistics. Zero-P&L trades count as
// losses.
func fillTradeStats(m *domain.BacktestMetrics, trades []domain.Trade) {
	m.TotalTrades = len(trades)
	if len(trades) == 0 {
		m.SampleErrorPct = 100
		return
	}

	var grossProfit, grossLoss float64
	var winPctSum, lossPctSum float64
	var winPcts, lossPcts int
	var durationSum float64

	for _, t := range trades {
		if t.NetPnL > 0 {
			m.WinningTrades++
			grossProfit += t.NetPnL
		} else {
			m.LosingTrades++
			grossLoss += math.Abs(t.NetPnL)
		}
		if t.PnLPct > 0 {
			winPctSum += t.PnLPct
			winPcts++
		} else {
			lossPctSum += t.PnLPct
			lossPcts++
		}
		durationSum += float64(t.HoldingDays)
	}

	m.WinRatePct = float64(m.WinningTrades) / float64(m.TotalTrades) * 100

	if winPcts > 0 {
		m.AvgWinPct = winPctSum / float64(winPcts) * 100
	}
	if lossPcts > 0 {
		m.AvgLossPct = lossPctSum / float64(lossPcts) * 100
	}

	if grossLoss > 0 {
		m.ProfitFactor = grossProfit / grossLoss
	} else {
		m.ProfitFactor = math.Inf(1)
	}

	if m.AvgLossPct != 0 {
		m.PayoffRatio = math.Abs(m.AvgWinPct / m.AvgLossPct)
	} else {
		m.PayoffRatio = math.Inf(1)
	}

	m.SampleErrorPct = 100 / math.Sqrt(float64(m.TotalTrades))
	m.AvgTradeDurationDays = durationSum / float64(m.TotalTrades)
}

// Drawdowns computes the percentage decline from the running peak for each
// equity observation.
func Drawdowns(equity []domain.EquityPoint) []domain.DrawdownPoint {
	out := make([]domain.DrawdownPoint, len(equity))
	peak := math.Inf(-1)
	for i, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		dd := 0.0
		if peak != 0 {
			dd = (p.Equity - peak) / peak
		}
		out[i] = domain.DrawdownPoint{Date: p.Date, Drawdown: dd}
	}
	return out
}

// MaxDrawdownDuration returns the longest contiguous run of strictly
// negative drawdown, measured in calendar days between the run's first and
// last date. A day at or above the peak ends the current run; a run still
// open at the end of the series counts.
func MaxDrawdownDuration(drawdowns []domain.DrawdownPoint) int {
	maxDuration := 0
	runStart := -1

	endRun := func(lastIdx int) {
		if runStart < 0 {
			return
		}
		days := int(drawdowns[lastIdx].Date.Sub(drawdowns[runStart].Date).Hours() / 24)
		if days > maxDuration {
			maxDuration = days
		}
		runStart = -1
	}

	for i, d := range drawdowns {
		if d.Drawdown < 0 {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		endRun(i - 1)
	}
	endRun(len(drawdowns) - 1)

	return maxDuration
}

// MonthlyReturns compounds daily returns within each observed calendar
// month.
func MonthlyReturns(equity []domain.EquityPoint) []domain.MonthlyReturn {
	if len(equity) < 2 {
		return nil
	}

	var out []domain.MonthlyReturn
	curYear, curMonth := equity[1].Date.Year(), equity[1].Date.Month()
	compound := 1.0

	flush := func() {
		out = append(out, domain.MonthlyReturn{Year: curYear, Month: curMonth, Return: compound - 1})
	}

	for i := 1; i < len(equity); i++ {
		y, mo := equity[i].Date.Year(), equity[i].Date.Month()
		if y != curYear || mo != curMonth {
			flush()
			curYear, curMonth = y, mo
			compound = 1.0
		}
		if equity[i-1].Equity != 0 {
			compound *= equity[i].Equity / equity[i-1].Equity
		}
	}
	flush()

	return out
}

func dailyReturns(equity []domain.EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1].Equity == 0 {
			continue
		}
		out = append(out, equity[i].Equity/equity[i-1].Equity-1)
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd computes the n-1 denominator standard deviation. Fewer than two
// observations give 0.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
