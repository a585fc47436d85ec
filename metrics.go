package posehash

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLookup is called after each batched lookup with the number of
	// pairs and the number that were found in the table.
	RecordLookup(pairs, hits int, duration time.Duration, err error)

	// RecordInsert is called after each batched insert.
	RecordInsert(pairs int, duration time.Duration, err error)

	// RecordCommit is called after each commit with the snapshot size.
	RecordCommit(bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLookup(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordInsert(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordCommit(int, time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	LookupCount      atomic.Int64
	LookupPairs      atomic.Int64
	LookupHits       atomic.Int64
	LookupErrors     atomic.Int64
	LookupTotalNanos atomic.Int64
	InsertCount      atomic.Int64
	InsertPairs      atomic.Int64
	InsertErrors     atomic.Int64
	CommitCount      atomic.Int64
	CommitBytes      atomic.Int64
	CommitErrors     atomic.Int64
	CommitTotalNanos atomic.Int64
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(pairs, hits int, duration time.Duration, err error) {
	b.LookupCount.Add(1)
	b.LookupTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LookupErrors.Add(1)
		return
	}
	b.LookupPairs.Add(int64(pairs))
	b.LookupHits.Add(int64(hits))
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(pairs int, _ time.Duration, err error) {
	b.InsertCount.Add(1)
	if err != nil {
		b.InsertErrors.Add(1)
		return
	}
	b.InsertPairs.Add(int64(pairs))
}

// RecordCommit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCommit(bytes int, duration time.Duration, err error) {
	b.CommitCount.Add(1)
	b.CommitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CommitErrors.Add(1)
		return
	}
	b.CommitBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LookupCount:    b.LookupCount.Load(),
		LookupPairs:    b.LookupPairs.Load(),
		LookupHits:     b.LookupHits.Load(),
		LookupErrors:   b.LookupErrors.Load(),
		LookupAvgNanos: avg(b.LookupTotalNanos.Load(), b.LookupCount.Load()),
		InsertCount:    b.InsertCount.Load(),
		InsertPairs:    b.InsertPairs.Load(),
		InsertErrors:   b.InsertErrors.Load(),
		CommitCount:    b.CommitCount.Load(),
		CommitBytes:    b.CommitBytes.Load(),
		CommitErrors:   b.CommitErrors.Load(),
		CommitAvgNanos: avg(b.CommitTotalNanos.Load(), b.CommitCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LookupCount    int64
	LookupPairs    int64
	LookupHits     int64
	LookupErrors   int64
	LookupAvgNanos int64
	InsertCount    int64
	InsertPairs    int64
	InsertErrors   int64
	CommitCount    int64
	CommitBytes    int64
	CommitErrors   int64
	CommitAvgNanos int64
}
