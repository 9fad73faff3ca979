package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"price_feed/internal/app"
	"price_feed/internal/infra"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	configPath := infra.DefaultConfigPath
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start the feed and wait for the first quote
	if err := bootstrap.Start(ctx); err != nil {
		slog.Error("❌ Price feed failed to start", slog.Any("error", err))
		bootstrap.Stop()
		os.Exit(1)
	}
	defer bootstrap.Stop()

	// 5. Initial query output
	svc := bootstrap.Service
	watch := bootstrap.Config.Startup.WatchInstrument
	if q, ok := svc.GetLatestPrice(watch); ok {
		fmt.Printf("Latest %s: %s\n", watch, q)
	} else {
		fmt.Printf("Latest %s: no quote yet\n", watch)
	}

	fmt.Println("Snapshot:")
	for _, q := range svc.GetAllQuotes() {
		fmt.Printf("  %s mid=%s\n", q, q.MidPrice().StringFixed(5))
	}

	slog.InfoContext(ctx, "✨ Price feed fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal or a bounded feed to finish
	select {
	case <-ctx.Done():
		slog.Info("👋 Shutting down gracefully...")
	case <-bootstrap.Done():
		snap := bootstrap.Metrics.Snapshot()
		slog.Info("🏁 Feed finished",
			slog.Uint64("batches", snap.BatchesProcessed),
			slog.Uint64("lines", snap.LinesProcessed),
			slog.Uint64("rejected", snap.ErrorsTotal),
			slog.Int("instruments", len(svc.GetLatestPriceFeedSnapshot())),
		)
		reportRejects(bootstrap)
	}
}

// reportRejects prints the journal summary after a bounded run.
func reportRejects(b *app.Bootstrap) {
	total, recent, err := b.RejectReport(5)
	if err != nil {
		slog.Error("Failed to read reject journal", slog.Any("error", err))
		return
	}
	if total == 0 {
		return
	}
	fmt.Printf("Rejected lines: %d (latest %d)\n", total, len(recent))
	for _, r := range recent {
		fmt.Printf("  %s %q: %s\n", r.CreatedAt.Format(time.RFC3339), r.Line, r.Reason)
	}
}
