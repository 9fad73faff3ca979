package domain

import "io"

// QuoteParser turns one raw feed line into a Quote.
// Implementations must fail atomically with a *FormatError.
type QuoteParser interface {
	Parse(line string) (Quote, error)
}

// MarginSource supplies the margin fraction applied to each quote.
type MarginSource interface {
	NextMargin() float64
}

// RejectSink receives lines the subscriber could not ingest.
type RejectSink interface {
	RecordRejectedLine(line string, reason error) error
}

// RejectRepository defines read access to recorded rejects
type RejectRepository interface {
	RejectSink
	io.Closer
	CountRejectedLines() (int64, error)
	RecentRejectedLines(limit int) ([]RejectedLine, error)
}
