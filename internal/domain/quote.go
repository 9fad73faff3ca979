package domain

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceDecimals is the number of fractional digits used on the wire.
const PriceDecimals = 4

var instrumentPattern = regexp.MustCompile(`^[A-Z]{3}/[A-Z]{3}$`)

// Quote is a bid/ask pair for one instrument at one point in time.
// Quotes are values: margin and parsing always produce a new Quote.
type Quote struct {
	ID         uuid.UUID       `json:"id"`
	Instrument string          `json:"instrument"` // e.g. "EUR/USD"
	Bid        decimal.Decimal `json:"bid"`
	Ask        decimal.Decimal `json:"ask"`
	Timestamp  int64           `json:"timestamp"` // Unix millis
}

// Spread returns Ask - Bid.
func (q Quote) Spread() decimal.Decimal {
	return q.Ask.Sub(q.Bid)
}

// MidPrice returns (Bid + Ask) / 2.
func (q Quote) MidPrice() decimal.Decimal {
	return q.Bid.Add(q.Ask).Div(decimal.NewFromInt(2))
}

// Line renders the quote in the feed wire format:
// id,instrument,bid,ask,timestamp
func (q Quote) Line() string {
	return fmt.Sprintf("%s,%s,%s,%s,%d",
		q.ID,
		q.Instrument,
		q.Bid.StringFixed(PriceDecimals),
		q.Ask.StringFixed(PriceDecimals),
		q.Timestamp,
	)
}

// String is used by the CLI and log output.
func (q Quote) String() string {
	return fmt.Sprintf("Quote{id=%s, instrument=%s, bid=%s, ask=%s, timestamp=%d}",
		q.ID, q.Instrument, q.Bid, q.Ask, q.Timestamp)
}

// IsValidInstrument reports whether name looks like a currency pair (BASE/QUOTE).
func IsValidInstrument(name string) bool {
	return instrumentPattern.MatchString(name)
}
