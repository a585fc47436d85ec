package posehash

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/posehash/blobstore"
)

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}

	m.RecordLookup(10, 4, 2*time.Millisecond, nil)
	m.RecordLookup(5, 0, 4*time.Millisecond, errors.New("boom"))
	m.RecordInsert(7, time.Millisecond, nil)
	m.RecordInsert(3, time.Millisecond, errors.New("boom"))
	m.RecordCommit(1024, time.Second, nil)

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.LookupCount)
	assert.Equal(t, int64(10), stats.LookupPairs)
	assert.Equal(t, int64(4), stats.LookupHits)
	assert.Equal(t, int64(1), stats.LookupErrors)
	assert.Equal(t, int64(3*time.Millisecond), stats.LookupAvgNanos)
	assert.Equal(t, int64(2), stats.InsertCount)
	assert.Equal(t, int64(7), stats.InsertPairs)
	assert.Equal(t, int64(1), stats.InsertErrors)
	assert.Equal(t, int64(1), stats.CommitCount)
	assert.Equal(t, int64(1024), stats.CommitBytes)
	assert.Equal(t, int64(time.Second), stats.CommitAvgNanos)

	assert.Zero(t, (&BasicMetricsCollector{}).GetStats().CommitAvgNanos)
}

func TestTableMetrics(t *testing.T) {
	ctx := t.Context()
	f := newFixture(7)
	m := &BasicMetricsCollector{}

	tbl, err := Open(ctx, blobstore.NewMemoryStore(), "t", WithParams(testParams), WithMetricsCollector(m))
	require.NoError(t, err)
	defer tbl.Close()

	_, err = tbl.Lookup(ctx, f.pairs, f.xs1, f.xs2, 0)
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(ctx, f.pairs, f.xs1, f.xs2, f.values))
	_, err = tbl.Lookup(ctx, f.pairs, f.xs1, f.xs2, 0)
	require.NoError(t, err)

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.LookupCount)
	assert.Equal(t, int64(2*len(f.pairs)), stats.LookupPairs)
	assert.Equal(t, int64(len(f.pairs)), stats.LookupHits)
	assert.Equal(t, int64(1), stats.InsertCount)
}

func TestTableLogging(t *testing.T) {
	ctx := t.Context()
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tbl, err := Open(ctx, blobstore.NewMemoryStore(), "logged", WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, tbl.Commit(ctx))
	require.NoError(t, tbl.Close())

	var msgs []string
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte{'\n'}) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec))
		if rec["table"] == "logged" {
			msgs = append(msgs, rec["msg"].(string))
		}
	}
	assert.Contains(t, msgs, "table opened")
	assert.Contains(t, msgs, "commit completed")
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, nil)).WithTable("a")

	l.LogInsert(context.Background(), 3, errors.New("bad pair"))
	assert.Contains(t, buf.String(), "insert failed")
	assert.Contains(t, buf.String(), "table=a")
	assert.Contains(t, buf.String(), "pairs=3")

	buf.Reset()
	l.LogLookup(context.Background(), 3, 1, nil)
	assert.Empty(t, buf.String(), "debug records are filtered at info level")

	assert.NotNil(t, NewJSONLogger(slog.LevelWarn))
	assert.NotNil(t, NewTextLogger(slog.LevelWarn))
	assert.NotNil(t, NewLogger(nil))
	NoopLogger().LogCommit(context.Background(), 1, 0, 0, nil)
}
