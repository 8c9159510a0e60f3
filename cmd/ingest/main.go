package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"trendlab/internal/config"
	"trendlab/internal/domain"
	"trendlab/internal/marketdata"
	"trendlab/internal/observability"
	"trendlab/internal/quality"
	"trendlab/internal/storage"
	chstore "trendlab/internal/storage/clickhouse"
	"trendlab/internal/storage/memory"
	"trendlab/internal/storage/migrations"
	pgstore "trendlab/internal/storage/postgres"
)

func main() {
	dataDir := flag.String("data-dir", "", "Directory of per-instrument CSV price files (required)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (dry run)")
	migrate := flag.Bool("migrate", false, "Apply migrations before ingesting")

	flag.Parse()

	logger := log.New(os.Stderr, "[ingest] ", log.LstdFlags)

	if *dataDir == "" {
		logger.Fatal("--data-dir is required")
	}

	ctx := context.Background()

	// Stores
	var instrumentStore storage.InstrumentStore = memory.NewInstrumentStore()
	var priceStore storage.DailyPriceStore = memory.NewDailyPriceStore()
	var qualityStore storage.QualityLogStore = memory.NewQualityLogStore()

	if !*useMemory {
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required when not using --use-memory (instruments, quality log)")
		}
		if *clickhouseDSN == "" {
			logger.Fatal("--clickhouse-dsn is required when not using --use-memory (daily prices)")
		}

		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		if *migrate {
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				logger.Fatalf("postgres migrations: %v", err)
			}
		}

		var conn *chstore.Conn
		if *migrate {
			conn, err = migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
			if err != nil {
				logger.Fatalf("clickhouse migrations: %v", err)
			}
		} else {
			conn, err = chstore.NewConn(ctx, *clickhouseDSN)
			if err != nil {
				logger.Fatalf("connect to clickhouse: %v", err)
			}
		}
		defer conn.Close()

		instrumentStore = pgstore.NewInstrumentStore(pool)
		qualityStore = pgstore.NewQualityLogStore(pool)
		priceStore = chstore.NewDailyPriceStore(conn)
	}

	instruments := instrumentsBySlug(config.Universe)
	qualityCfg := quality.DefaultConfig()

	files, err := filepath.Glob(filepath.Join(*dataDir, "*.csv"))
	if err != nil {
		logger.Fatalf("scan data dir: %v", err)
	}
	if len(files) == 0 {
		logger.Fatalf("no CSV files in %s", *dataDir)
	}

	var ingested, skipped, errored int
	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), ".csv")
		inst, ok := instruments[name]
		if !ok {
			logger.Printf("Skipping %s: not in universe", name)
			skipped++
			continue
		}

		barPtrs, err := marketdata.LoadCSV(path)
		if err != nil {
			logger.Printf("Load %s failed: %v", path, err)
			observability.RecordIngestionError()
			errored++
			continue
		}

		bars := make([]domain.DailyBar, len(barPtrs))
		for i, b := range barPtrs {
			bars[i] = *b
		}

		// Quality checks run on the raw series. Findings are logged, rows
		// are never deleted.
		issues := quality.Validate(inst.Name, bars, qualityCfg)
		for _, issue := range issues {
			observability.RecordQualityIssue(issue.CheckType, issue.Severity)
		}
		if len(issues) > 0 {
			issuePtrs := make([]*domain.QualityIssue, len(issues))
			for i := range issues {
				issuePtrs[i] = &issues[i]
			}
			if err := qualityStore.InsertBulk(ctx, issuePtrs); err != nil {
				logger.Printf("Log quality issues for %s failed: %v", inst.Name, err)
			}
			logger.Printf("%s: %d quality issues (errors: %v)",
				inst.Name, len(issues), quality.HasErrors(issues))
		}

		if err := instrumentStore.Insert(ctx, &inst); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			logger.Printf("Insert instrument %s failed: %v", inst.Name, err)
			observability.RecordIngestionError()
			errored++
			continue
		}

		if err := priceStore.InsertBulk(ctx, inst.Name, barPtrs); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				logger.Printf("Skipping %s: prices already ingested", inst.Name)
				skipped++
				continue
			}
			logger.Printf("Insert prices for %s failed: %v", inst.Name, err)
			observability.RecordIngestionError()
			errored++
			continue
		}

		observability.RecordBarsIngested(len(bars))
		logger.Printf("Ingested %s: %d bars", inst.Name, len(bars))
		ingested++
	}

	logger.Printf("Done: %d ingested, %d skipped, %d errors", ingested, skipped, errored)
	if errored > 0 {
		os.Exit(1)
	}
}

// instrumentsBySlug indexes the universe by slugged name, the naming scheme
// of the CSV files.
func instrumentsBySlug(universe []domain.Instrument) map[string]domain.Instrument {
	m := make(map[string]domain.Instrument, len(universe))
	for _, inst := range universe {
		m[slug(inst.Name)] = inst
	}
	return m
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
