package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"price_feed/internal/domain"
	"price_feed/internal/engine"
	"price_feed/internal/feed"
	"price_feed/internal/infra"
	"price_feed/internal/infra/storage"
	"price_feed/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config     *infra.Config
	Logger     *slog.Logger
	Journal    domain.RejectRepository // nil when the reject journal is disabled
	Metrics    *infra.Metrics
	Store      *service.SnapshotStore
	Service    *service.PriceService
	Subscriber *engine.Subscriber

	cancel context.CancelFunc
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads the config at path and sets up core infrastructure.
// A missing file falls back to the built-in defaults.
func (b *Bootstrap) Initialize(path string) error {
	slog.Info("🚀 Bootstrapping Price Feed...")

	cfg, err := infra.LoadConfig(path)
	if errors.Is(err, domain.ErrConfigNotFound) {
		slog.Warn("Config file not found, using defaults", slog.String("path", path))
		cfg = infra.DefaultConfig()
		err = cfg.ApplyEnv()
	}
	if err != nil {
		return err
	}

	return b.InitializeWith(cfg)
}

// InitializeWith validates cfg and sets up logging, the reject journal and
// the query side.
func (b *Bootstrap) InitializeWith(cfg *infra.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	b.Config = cfg

	// 1. Setup Logger
	b.Logger = infra.NewLogger(cfg)
	slog.SetDefault(b.Logger)

	// 2. Reject journal (optional)
	if cfg.Storage.JournalPath != "" {
		journal, err := storage.NewStorage(cfg.Storage.JournalPath)
		if err != nil {
			return err
		}
		b.Journal = journal
		b.Logger.Info("✅ Reject journal initialized", slog.String("path", cfg.Storage.JournalPath))
	}

	// 3. Store and query facade
	b.Metrics = infra.NewMetrics()
	b.Store = service.NewSnapshotStore()
	b.Service = service.NewPriceService(b.Store)

	return nil
}

// Start launches the subscriber in the background and blocks until the
// first quote is available or the startup timeout elapses.
func (b *Bootstrap) Start(ctx context.Context) error {
	if b.Config == nil {
		return errors.New("bootstrap not initialized")
	}
	if b.Subscriber != nil {
		return errors.New("bootstrap already started")
	}
	cfg := b.Config

	var margin domain.MarginSource
	if cfg.Margin.Fixed > 0 {
		margin = feed.FixedMargin(cfg.Margin.Fixed)
	} else {
		margin = feed.NewRandomMargin(nil, cfg.Margin.Default)
	}

	opts := engine.Options{
		Logger:        b.Logger,
		Metrics:       b.Metrics,
		BatchInterval: time.Duration(cfg.Feed.BatchIntervalMS) * time.Millisecond,
	}
	if b.Journal != nil {
		opts.Rejects = b.Journal
	}

	gen := feed.NewGenerator(nil, nil)
	b.Subscriber = engine.NewSubscriber(gen.Batches(cfg.Feed.BatchLimit), feed.NewLineParser(), margin, b.Store, opts)

	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	go func() {
		if err := b.Subscriber.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			b.Logger.Error("Subscriber stopped", slog.Any("error", err))
		}
	}()
	b.Logger.Info("✅ Subscriber started", slog.Int("batch_limit", cfg.Feed.BatchLimit))

	timeout := time.Duration(cfg.Startup.ReadyTimeoutMS) * time.Millisecond
	if err := b.Subscriber.WaitReady(ctx, timeout); err != nil {
		return fmt.Errorf("price feed startup: %w", err)
	}
	b.Logger.Info("✅ Price feed ready", slog.Int("instruments", b.Store.Len()))
	return nil
}

// RejectReport returns the total number of journaled rejects and up to
// limit of the most recent ones. Both are zero when the journal is disabled.
func (b *Bootstrap) RejectReport(limit int) (int64, []domain.RejectedLine, error) {
	if b.Journal == nil {
		return 0, nil, nil
	}
	total, err := b.Journal.CountRejectedLines()
	if err != nil {
		return 0, nil, fmt.Errorf("count rejects: %w", err)
	}
	recent, err := b.Journal.RecentRejectedLines(limit)
	if err != nil {
		return 0, nil, fmt.Errorf("recent rejects: %w", err)
	}
	return total, recent, nil
}

// Done is closed once the subscriber has stopped. Nil before Start.
func (b *Bootstrap) Done() <-chan struct{} {
	if b.Subscriber == nil {
		return nil
	}
	return b.Subscriber.Done()
}

// Stop cancels ingestion, waits for the subscriber and closes the journal.
func (b *Bootstrap) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	if b.Subscriber != nil {
		<-b.Subscriber.Done()
	}
	if b.Journal != nil {
		if err := b.Journal.Close(); err != nil {
			b.Logger.Error("Failed to close reject journal", slog.Any("error", err))
		}
		b.Journal = nil
	}
}
