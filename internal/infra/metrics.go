package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability of the ingestion path.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	batchesProcessed atomic.Uint64
	linesProcessed   atomic.Uint64
	errorsTotal      atomic.Uint64

	// Latency tracking (per successfully ingested line)
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	lastUpdateUnixMilli atomic.Int64
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordBatch records a batch pulled from the feed.
func (m *Metrics) RecordBatch() {
	m.batchesProcessed.Add(1)
}

// RecordLine records a line written to the snapshot with its processing latency.
func (m *Metrics) RecordLine(latencyNs int64) {
	m.linesProcessed.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
	m.lastUpdateUnixMilli.Store(time.Now().UnixMilli())
}

// RecordError records a rejected line.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	BatchesProcessed uint64
	LinesProcessed   uint64
	ErrorsTotal      uint64
	AvgLatencyNs     int64
	LastUpdate       time.Time
	Timestamp        time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	var lastUpdate time.Time
	if ms := m.lastUpdateUnixMilli.Load(); ms > 0 {
		lastUpdate = time.UnixMilli(ms)
	}

	return MetricsSnapshot{
		BatchesProcessed: m.batchesProcessed.Load(),
		LinesProcessed:   m.linesProcessed.Load(),
		ErrorsTotal:      m.errorsTotal.Load(),
		AvgLatencyNs:     avgLatency,
		LastUpdate:       lastUpdate,
		Timestamp:        time.Now(),
	}
}
