package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"trendlab/internal/backtest"
	"trendlab/internal/config"
	"trendlab/internal/domain"
	"trendlab/internal/indicators"
	"trendlab/internal/marketdata"
	"trendlab/internal/metrics"
	"trendlab/internal/observability"
	"trendlab/internal/reporting"
	"trendlab/internal/storage"
	chstore "trendlab/internal/storage/clickhouse"
	"trendlab/internal/storage/memory"
	pgstore "trendlab/internal/storage/postgres"
	"trendlab/internal/strategy"
)

func main() {
	// Parse flags
	strategyType := flag.String("strategy", "", "Strategy: MA_CROSSOVER, BREAKOUT, CORE (required)")
	fastPeriod := flag.Int("fast-period", 0, "Fast EMA period (0 = default 50)")
	slowPeriod := flag.Int("slow-period", 0, "Slow EMA period (0 = default 100)")
	entryPeriod := flag.Int("entry-period", 0, "Donchian entry period (0 = default 100)")
	exitPeriod := flag.Int("exit-period", 0, "Donchian exit period (0 = default 50)")

	// Run parameters
	capital := flag.Float64("capital", 1000000, "Initial capital")
	riskFactor := flag.Float64("risk-factor", config.DefaultRiskFactor, "Risk factor per position")
	carver := flag.Bool("carver-risk", false, "Derive risk factor from universe size (Carver tables)")
	fractional := flag.Bool("fractional", false, "Allow fractional contracts (CFD mode)")
	universeName := flag.String("universe", "full", "Universe: full, starter, micro")

	// Data
	dataDir := flag.String("data-dir", "", "Directory of per-instrument CSV price files")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")
	persistResult := flag.Bool("persist", false, "Persist trades and equity curve to storage")

	flag.Parse()

	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	if *strategyType == "" {
		logger.Fatal("--strategy is required")
	}
	if *dataDir == "" && *clickhouseDSN == "" {
		logger.Fatal("either --data-dir or --clickhouse-dsn is required for price data")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	universe := pickUniverse(*universeName)
	if universe == nil {
		logger.Fatalf("Invalid universe: %s. Must be full, starter, or micro", *universeName)
	}
	instruments := config.UniverseMap(universe)

	rf := *riskFactor
	if *carver {
		rf = config.CarverRiskFactor(len(universe))
	}

	// Build strategy
	strat, err := strategy.FromConfig(buildStrategyConfig(
		*strategyType, *fastPeriod, *slowPeriod, *entryPeriod, *exitPeriod,
	))
	if err != nil {
		logger.Fatalf("build strategy: %v", err)
	}

	// Persistence stores
	var tradeStore storage.TradeStore
	var equityStore storage.EquityCurveStore
	var chConn *chstore.Conn
	if *clickhouseDSN != "" {
		chConn, err = chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer chConn.Close()
	}
	if *persistResult {
		if *useMemory {
			tradeStore = memory.NewTradeStore()
			equityStore = memory.NewEquityCurveStore()
		} else {
			if *postgresDSN == "" {
				logger.Fatal("--postgres-dsn is required for --persist (trades)")
			}
			if chConn == nil {
				logger.Fatal("--clickhouse-dsn is required for --persist (equity curve)")
			}
			pool, err := pgstore.NewPool(ctx, *postgresDSN)
			if err != nil {
				logger.Fatalf("connect to postgres: %v", err)
			}
			defer pool.Close()
			tradeStore = pgstore.NewTradeStore(pool)
			equityStore = chstore.NewEquityCurveStore(chConn)
		}
	}

	// Load price data
	var data map[string][]domain.DailyBar
	if *dataDir != "" {
		data, err = loadFromCSVDir(*dataDir, universe, logger)
	} else {
		data, err = loadFromClickhouse(ctx, chConn, universe)
	}
	if err != nil {
		logger.Fatalf("load price data: %v", err)
	}
	if len(data) == 0 {
		logger.Fatal("no price series loaded for the selected universe")
	}

	// Enrich with indicators
	params := indicators.DefaultParams()
	for name := range data {
		indicators.Enrich(data[name], params)
	}

	engine, err := backtest.New(backtest.Config{
		InitialCapital: *capital,
		RiskFactor:     rf,
		Fractional:     *fractional,
		Universe:       *universeName,
	})
	if err != nil {
		logger.Fatalf("configure engine: %v", err)
	}

	logger.Printf("Running backtest: strategy=%s universe=%s instruments=%d capital=%.0f",
		strat.ID(), *universeName, len(data), *capital)

	started := time.Now()
	result, err := engine.Run(data, strat, instruments)
	if err != nil {
		observability.RecordRun(strat.ID(), "error", time.Since(started).Seconds(), 0, 0, 0)
		logger.Fatalf("backtest failed: %v", err)
	}
	observability.RecordRun(strat.ID(), "ok", time.Since(started).Seconds(),
		len(result.EquityCurve), len(result.Trades), len(result.OpenPositions))

	m := metrics.Compute(result.EquityCurve, result.Trades, metrics.DefaultConfig())

	// Persist
	if *persistResult {
		if tradeStore != nil && len(result.Trades) > 0 {
			trades := make([]*domain.Trade, len(result.Trades))
			for i := range result.Trades {
				trades[i] = &result.Trades[i]
			}
			insertStart := time.Now()
			err := tradeStore.InsertBulk(ctx, trades)
			observability.RecordStoreQuery("trades", "insert_bulk", time.Since(insertStart).Seconds(), err)
			if err != nil {
				logger.Fatalf("persist trades: %v", err)
			}
		}
		if equityStore != nil {
			points := make([]*domain.EquityPoint, len(result.EquityCurve))
			for i := range result.EquityCurve {
				points[i] = &result.EquityCurve[i]
			}
			insertStart := time.Now()
			err := equityStore.InsertBulk(ctx, result.RunID, points)
			observability.RecordStoreQuery("equity_curve", "insert_bulk", time.Since(insertStart).Seconds(), err)
			if err != nil {
				logger.Fatalf("persist equity curve: %v", err)
			}
		}
		logger.Printf("Persisted run %s: %d trades, %d equity points",
			result.RunID, len(result.Trades), len(result.EquityCurve))
	}

	// Output
	if *outputJSON {
		out := runOutput{
			RunID:         result.RunID,
			StrategyID:    result.StrategyID,
			FinalCapital:  result.FinalCapital,
			OpenPositions: len(result.OpenPositions),
			Metrics:       m,
		}
		encoded, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(encoded))
	} else {
		fmt.Printf("Run ID: %s\n", result.RunID)
		fmt.Print(reporting.RenderText(m, result.StrategyID))
	}
}

// runOutput is the JSON shape of one finished run.
type runOutput struct {
	RunID         string                 `json:"run_id"`
	StrategyID    string                 `json:"strategy_id"`
	FinalCapital  float64                `json:"final_capital"`
	OpenPositions int                    `json:"open_positions"`
	Metrics       domain.BacktestMetrics `json:"metrics"`
}

// pickUniverse resolves the universe flag. Nil means unknown name.
func pickUniverse(name string) []domain.Instrument {
	switch strings.ToLower(name) {
	case "full":
		return config.Universe
	case "starter":
		return config.StarterUniverse()
	case "micro":
		return config.MicroUniverse()
	default:
		return nil
	}
}

// buildStrategyConfig creates a StrategyConfig from CLI flags. Zero periods
// stay nil so the factory applies its defaults.
func buildStrategyConfig(strategyType string, fast, slow, entry, exit int) domain.StrategyConfig {
	cfg := domain.StrategyConfig{
		StrategyType: strings.ToUpper(strategyType),
	}
	if fast > 0 {
		cfg.FastPeriod = &fast
	}
	if slow > 0 {
		cfg.SlowPeriod = &slow
	}
	if entry > 0 {
		cfg.EntryPeriod = &entry
	}
	if exit > 0 {
		cfg.ExitPeriod = &exit
	}
	return cfg
}

// loadFromCSVDir loads every universe instrument whose CSV file exists in dir.
// Files are named by the slugged instrument name, e.g. crude_oil.csv.
func loadFromCSVDir(dir string, universe []domain.Instrument, logger *log.Logger) (map[string][]domain.DailyBar, error) {
	data := make(map[string][]domain.DailyBar)
	for _, inst := range universe {
		path := filepath.Join(dir, slug(inst.Name)+".csv")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		bars, err := marketdata.LoadCSV(path)
		if err != nil {
			return nil, err
		}
		series := make([]domain.DailyBar, len(bars))
		for i, b := range bars {
			series[i] = *b
		}
		data[inst.Name] = series
		logger.Printf("Loaded %s: %d bars", inst.Name, len(series))
	}
	return data, nil
}

// loadFromClickhouse loads universe price series from ClickHouse.
func loadFromClickhouse(ctx context.Context, conn *chstore.Conn, universe []domain.Instrument) (map[string][]domain.DailyBar, error) {
	priceStore := chstore.NewDailyPriceStore(conn)
	data := make(map[string][]domain.DailyBar)
	for _, inst := range universe {
		bars, err := priceStore.GetByInstrument(ctx, inst.Name)
		if err != nil {
			return nil, err
		}
		if len(bars) == 0 {
			continue
		}
		series := make([]domain.DailyBar, len(bars))
		for i, b := range bars {
			series[i] = *b
		}
		data[inst.Name] = series
	}
	return data, nil
}

// slug lowercases a name and replaces non-alphanumerics with underscores.
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
