package feed

import (
	"price_feed/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMargin replaces a random draw of exactly zero.
const DefaultMargin = 0.1

// RandomMargin draws a margin uniformly in [0, 1). A zero draw is replaced by
// the default fraction so a quote always leaves with a widened spread.
type RandomMargin struct {
	rand            Rand
	defaultFraction float64
}

// NewRandomMargin creates a RandomMargin. A nil rnd uses SystemRand.
func NewRandomMargin(rnd Rand, defaultFraction float64) *RandomMargin {
	if rnd == nil {
		rnd = SystemRand{}
	}
	return &RandomMargin{
		rand:            rnd,
		defaultFraction: defaultFraction,
	}
}

// NextMargin returns the margin for the next quote.
func (m *RandomMargin) NextMargin() float64 {
	fraction := m.rand.Float64()
	if fraction == 0 {
		return m.defaultFraction
	}
	return fraction
}

// FixedMargin always returns the same fraction.
type FixedMargin float64

func (f FixedMargin) NextMargin() float64 { return float64(f) }

// ApplyMargin widens the spread of q by fraction on each side and returns a
// new Quote with a fresh ID. Results are not clamped: a bid may go negative.
func ApplyMargin(q domain.Quote, fraction float64) domain.Quote {
	m := decimal.NewFromFloat(fraction)
	return domain.Quote{
		ID:         uuid.New(),
		Instrument: q.Instrument,
		Bid:        q.Bid.Sub(m),
		Ask:        q.Ask.Add(m),
		Timestamp:  q.Timestamp,
	}
}

var (
	_ domain.MarginSource = (*RandomMargin)(nil)
	_ domain.MarginSource = FixedMargin(0)
)
