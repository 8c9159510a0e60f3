package migrations

import "embed"

// PostgresFS embeds the relational schema: instruments, trades, quality_log.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds the timeseries schema: daily_prices, equity_curve.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
