package engine

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"price_feed/internal/domain"
	"price_feed/internal/feed"
	"price_feed/internal/infra"
	"price_feed/internal/service"
)

// ErrAlreadyRunning is returned by Run when called a second time.
var ErrAlreadyRunning = errors.New("subscriber already running")

// Options configures the optional collaborators of a Subscriber.
type Options struct {
	Logger        *slog.Logger
	Metrics       *infra.Metrics
	Rejects       domain.RejectSink // nil: rejects are only logged and counted
	BatchInterval time.Duration     // pause between batches, 0 = drain as fast as possible
}

// Subscriber drains feed batches, margins every parsed quote and writes it
// into the snapshot store. It is the store's only writer.
type Subscriber struct {
	batches iter.Seq[string]
	parser  domain.QuoteParser
	margin  domain.MarginSource
	store   *service.SnapshotStore

	logger   *slog.Logger
	metrics  *infra.Metrics
	rejects  domain.RejectSink
	interval time.Duration

	running   atomic.Bool
	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}
}

// NewSubscriber creates a new subscriber instance.
func NewSubscriber(batches iter.Seq[string], parser domain.QuoteParser, margin domain.MarginSource, store *service.SnapshotStore, opts Options) *Subscriber {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = infra.NewMetrics()
	}
	return &Subscriber{
		batches:  batches,
		parser:   parser,
		margin:   margin,
		store:    store,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		rejects:  opts.Rejects,
		interval: opts.BatchInterval,
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Ready is closed after the first quote has been written to the store.
func (s *Subscriber) Ready() <-chan struct{} {
	return s.ready
}

// Done is closed when Run returns.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Metrics returns the counters updated by this subscriber.
func (s *Subscriber) Metrics() *infra.Metrics {
	return s.metrics
}

// Run drains the feed until the sequence ends (nil) or ctx is cancelled
// (ctx.Err()). It must be called once, typically in its own goroutine.
func (s *Subscriber) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.done)

	s.logger.Info("Subscriber started")

	var pace <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		pace = ticker.C
	}

	for batch := range s.batches {
		if err := ctx.Err(); err != nil {
			s.logger.Info("Subscriber stopping...")
			return err
		}

		s.processBatch(batch)

		if pace != nil {
			select {
			case <-ctx.Done():
				s.logger.Info("Subscriber stopping...")
				return ctx.Err()
			case <-pace:
			}
		}
	}

	snap := s.metrics.Snapshot()
	s.logger.Info("Feed exhausted",
		slog.Uint64("batches", snap.BatchesProcessed),
		slog.Uint64("lines", snap.LinesProcessed),
		slog.Uint64("rejected", snap.ErrorsTotal),
	)
	return nil
}

// WaitReady blocks until the first quote is stored, ctx ends, the feed ends
// without a quote, or timeout elapses.
func (s *Subscriber) WaitReady(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.ready:
		return nil
	case <-s.done:
		select {
		case <-s.ready:
			return nil
		default:
			return fmt.Errorf("%w: feed ended without a quote", domain.ErrNotReady)
		}
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w after %s", domain.ErrNotReady, timeout)
	}
}

func (s *Subscriber) processBatch(batch string) {
	s.metrics.RecordBatch()

	for line := range strings.SplitSeq(batch, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.processLine(line)
	}
}

// processLine ingests a single line. Failures stay local to the line.
func (s *Subscriber) processLine(line string) {
	defer func() {
		if r := recover(); r != nil {
			s.reject(line, fmt.Errorf("panic: %v", r))
		}
	}()

	start := time.Now()

	q, err := s.parser.Parse(line)
	if err != nil {
		s.reject(line, err)
		return
	}

	priced := feed.ApplyMargin(q, s.margin.NextMargin())
	s.store.Put(priced.Instrument, priced)

	s.metrics.RecordLine(time.Since(start).Nanoseconds())
	s.readyOnce.Do(func() { close(s.ready) })

	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		s.logger.Debug("Quote updated",
			slog.String("instrument", priced.Instrument),
			slog.String("bid", q.Bid.String()),
			slog.String("ask", q.Ask.String()),
			slog.String("margined_bid", priced.Bid.String()),
			slog.String("margined_ask", priced.Ask.String()),
			slog.String("mid", priced.MidPrice().String()),
		)
	}
}

func (s *Subscriber) reject(line string, reason error) {
	s.metrics.RecordError()
	s.logger.Warn("Rejected feed line",
		slog.String("kind", rejectKind(reason)),
		slog.String("line", line),
		slog.Any("error", reason),
	)

	if s.rejects == nil {
		return
	}
	if err := s.rejects.RecordRejectedLine(line, reason); err != nil {
		s.logger.Error("Failed to journal rejected line", slog.Any("error", err))
	}
}

// rejectKind separates malformed input from failures inside line handling.
func rejectKind(reason error) string {
	if domain.IsFormatError(reason) {
		return "format"
	}
	return "internal"
}
