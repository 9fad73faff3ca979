package feed

import (
	"iter"
	"strings"

	"price_feed/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxBatchLines is the upper bound of lines per generated batch.
	MaxBatchLines = 5

	minBid       = 1.0
	bidRange     = 2.0   // bid in [1, 3)
	maxSpreadInc = 0.005 // ask - bid in [0, 0.005)
)

// Instruments is the fixed universe of pairs the generator quotes.
var Instruments = []string{"EUR/USD", "GBP/USD", "USD/JPY", "USD/CHF", "AUD/USD", "NZD/USD"}

// Generator synthesizes batches of raw quote lines in the feed wire format.
// It keeps one batch of look-ahead so Next never waits on synthesis of the
// batch it returns. A Generator is forward-only and must have a single consumer.
type Generator struct {
	rand  Rand
	clock Clock

	pending    string
	hasPending bool
}

// NewGenerator creates a Generator. Nil arguments fall back to SystemRand/SystemClock.
func NewGenerator(rnd Rand, clock Clock) *Generator {
	if rnd == nil {
		rnd = SystemRand{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Generator{
		rand:  rnd,
		clock: clock,
	}
}

// Next returns the next batch: one or more newline-terminated lines.
func (g *Generator) Next() string {
	batch := g.pending
	if !g.hasPending {
		batch = g.generateBatch()
	}

	// Refill the look-ahead slot
	g.pending = g.generateBatch()
	g.hasPending = true

	return batch
}

// Batches returns a lazy sequence over Next. limit <= 0 means unbounded.
func (g *Generator) Batches(limit int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; limit <= 0 || i < limit; i++ {
			if !yield(g.Next()) {
				return
			}
		}
	}
}

func (g *Generator) generateBatch() string {
	lines := g.rand.IntN(MaxBatchLines) + 1

	var b strings.Builder
	for range lines {
		b.WriteString(g.generateLine())
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Generator) generateLine() string {
	instrument := Instruments[g.rand.IntN(len(Instruments))]
	bid := g.rand.Float64()*bidRange + minBid
	ask := bid + g.rand.Float64()*maxSpreadInc

	q := domain.Quote{
		ID:         uuid.New(),
		Instrument: instrument,
		Bid:        decimal.NewFromFloat(bid),
		Ask:        decimal.NewFromFloat(ask),
		Timestamp:  g.clock.Now().UnixMilli(),
	}
	return q.Line()
}
