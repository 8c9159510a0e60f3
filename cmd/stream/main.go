package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"trendlab/internal/config"
	"trendlab/internal/domain"
	"trendlab/internal/marketdata"
	"trendlab/internal/observability"
	"trendlab/internal/storage"
	chstore "trendlab/internal/storage/clickhouse"
	"trendlab/internal/storage/memory"
)

func main() {
	endpoint := flag.String("endpoint", "", "Websocket feed endpoint (required)")
	tickerList := flag.String("tickers", "", "Comma-separated tickers to subscribe (default: full universe)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (dry run)")
	metricsAddr := flag.String("metrics-addr", "", "Address for /metrics endpoint (e.g. :9100)")

	flag.Parse()

	logger := log.New(os.Stderr, "[stream] ", log.LstdFlags)

	if *endpoint == "" {
		logger.Fatal("--endpoint is required")
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

	var priceStore storage.DailyPriceStore = memory.NewDailyPriceStore()
	if !*useMemory {
		if *clickhouseDSN == "" {
			logger.Fatal("--clickhouse-dsn is required when not using --use-memory")
		}
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()
		priceStore = chstore.NewDailyPriceStore(conn)
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			logger.Printf("Serving metrics on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Printf("metrics server: %v", err)
			}
		}()
	}

	// Feed ingestion writes bars under instrument names, so resolve tickers
	// back to universe instruments.
	byTicker := make(map[string]domain.Instrument, len(config.Universe))
	for _, inst := range config.Universe {
		byTicker[inst.Ticker] = inst
	}

	var tickers []string
	if *tickerList != "" {
		for _, t := range strings.Split(*tickerList, ",") {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := byTicker[t]; !ok {
				logger.Fatalf("unknown ticker %s", t)
			}
			tickers = append(tickers, t)
		}
	} else {
		for _, inst := range config.Universe {
			tickers = append(tickers, inst.Ticker)
		}
	}

	client, err := marketdata.NewFeedClient(ctx, *endpoint, nil)
	if err != nil {
		logger.Fatalf("connect feed: %v", err)
	}
	defer client.Close()

	for _, t := range tickers {
		if err := client.Subscribe(ctx, t); err != nil {
			logger.Fatalf("subscribe %s: %v", t, err)
		}
	}
	logger.Printf("Streaming %d tickers from %s", len(tickers), *endpoint)

	for {
		select {
		case <-ctx.Done():
			logger.Print("Shutting down")
			return
		case msg, ok := <-client.Bars():
			if !ok {
				logger.Print("Feed closed")
				return
			}
			observability.RecordFeedBar()

			inst, ok := byTicker[msg.Ticker]
			if !ok {
				logger.Printf("Bar for unknown ticker %s dropped", msg.Ticker)
				continue
			}

			bar := msg.Bar
			err := priceStore.InsertBulk(ctx, inst.Name, []*domain.DailyBar{&bar})
			switch {
			case errors.Is(err, storage.ErrDuplicateKey):
				logger.Printf("%s %s already stored", inst.Name, bar.Date.Format("2006-01-02"))
			case err != nil:
				logger.Printf("Store %s bar failed: %v", inst.Name, err)
			default:
				logger.Printf("%s %s close=%.4f", inst.Name, bar.Date.Format("2006-01-02"), bar.Close)
			}
		}
	}
}
