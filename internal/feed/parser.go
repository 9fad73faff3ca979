package feed

import (
	"errors"
	"strconv"
	"strings"

	"price_feed/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// Delimiter separates fields of a raw line.
	Delimiter = ","

	fieldCount     = 5
	canonicalIDLen = 36
	idIndex        = 0
	nameIndex      = 1
	bidIndex       = 2
	askIndex       = 3
	timestampIndex = 4
)

var (
	errEmptyInstrument = errors.New("empty instrument")
	errNonCanonicalID  = errors.New("id must be in canonical 8-4-4-4-12 form")
)

// LineParser parses lines of the form id,instrument,bid,ask,timestamp.
type LineParser struct{}

// NewLineParser creates a new LineParser
func NewLineParser() *LineParser {
	return &LineParser{}
}

// Parse converts one raw line into a Quote. Any malformed field yields a
// *domain.FormatError and a zero Quote.
func (p *LineParser) Parse(line string) (domain.Quote, error) {
	fields := strings.Split(strings.TrimSpace(line), Delimiter)
	if len(fields) != fieldCount {
		return domain.Quote{}, &domain.FormatError{Line: line}
	}

	if len(fields[idIndex]) != canonicalIDLen {
		return domain.Quote{}, &domain.FormatError{Line: line, Field: "id", Err: errNonCanonicalID}
	}
	id, err := uuid.Parse(fields[idIndex])
	if err != nil {
		return domain.Quote{}, &domain.FormatError{Line: line, Field: "id", Err: err}
	}

	name := fields[nameIndex]
	if name == "" {
		return domain.Quote{}, &domain.FormatError{Line: line, Field: "instrument", Err: errEmptyInstrument}
	}

	bid, err := decimal.NewFromString(fields[bidIndex])
	if err != nil {
		return domain.Quote{}, &domain.FormatError{Line: line, Field: "bid", Err: err}
	}

	ask, err := decimal.NewFromString(fields[askIndex])
	if err != nil {
		return domain.Quote{}, &domain.FormatError{Line: line, Field: "ask", Err: err}
	}

	ts, err := strconv.ParseInt(fields[timestampIndex], 10, 64)
	if err != nil {
		return domain.Quote{}, &domain.FormatError{Line: line, Field: "timestamp", Err: err}
	}

	return domain.Quote{
		ID:         id,
		Instrument: name,
		Bid:        bid,
		Ask:        ask,
		Timestamp:  ts,
	}, nil
}

var _ domain.QuoteParser = (*LineParser)(nil)
