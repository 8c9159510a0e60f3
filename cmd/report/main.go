package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"trendlab/internal/domain"
	"trendlab/internal/metrics"
	"trendlab/internal/reporting"
	chstore "trendlab/internal/storage/clickhouse"
	pgstore "trendlab/internal/storage/postgres"
)

func main() {
	runID := flag.String("run-id", "", "Run ID to report on (required)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (required)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (required)")
	format := flag.String("format", "text", "Output format: text, markdown, csv")

	flag.Parse()

	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	if *runID == "" {
		logger.Fatal("--run-id is required")
	}
	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}
	if *clickhouseDSN == "" {
		logger.Fatal("--clickhouse-dsn is required")
	}
	if *format != "text" && *format != "markdown" && *format != "csv" {
		logger.Fatalf("Invalid format: %s. Must be text, markdown, or csv", *format)
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	conn, err := chstore.NewConn(ctx, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("connect to clickhouse: %v", err)
	}
	defer conn.Close()

	tradePtrs, err := pgstore.NewTradeStore(pool).GetByRunID(ctx, *runID)
	if err != nil {
		logger.Fatalf("load trades: %v", err)
	}
	pointPtrs, err := chstore.NewEquityCurveStore(conn).GetByRunID(ctx, *runID)
	if err != nil {
		logger.Fatalf("load equity curve: %v", err)
	}
	if len(pointPtrs) == 0 {
		logger.Fatalf("no equity curve persisted for run %s", *runID)
	}

	trades := make([]domain.Trade, len(tradePtrs))
	for i, t := range tradePtrs {
		trades[i] = *t
	}
	equity := make([]domain.EquityPoint, len(pointPtrs))
	for i, p := range pointPtrs {
		equity[i] = *p
	}

	name := *runID
	if len(trades) > 0 {
		name = trades[0].StrategyID
	}

	m := metrics.Compute(equity, trades, metrics.DefaultConfig())

	switch *format {
	case "text":
		fmt.Print(reporting.RenderText(m, name))
	case "markdown":
		fmt.Print(reporting.RenderMarkdown(m, name))
	case "csv":
		fmt.Print(reporting.RenderMetricsCSV(m, name))
		fmt.Println()
		fmt.Print(reporting.RenderTradesCSV(trades))
	}
}
