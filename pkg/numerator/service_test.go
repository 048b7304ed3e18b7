package numerator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqRow struct {
	val int64
	err error
}

func (r *seqRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = r.val
		}
	}
	return nil
}

// fakeSequences emulates the sys_sequences upsert: one counter per key.
// Strict calls pass (prefix, year); cached range reservations pass
// (key, increment int64).
type fakeSequences struct {
	mu       sync.Mutex
	counters map[string]int64
	queries  int
}

func newFakeSequences() *fakeSequences {
	return &fakeSequences{counters: make(map[string]int64)}
}

func (f *fakeSequences) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++

	key := fmt.Sprint(args[0])
	increment := int64(1)
	if len(args) == 2 {
		if v, ok := args[1].(int64); ok {
			increment = v
		} else {
			// (prefix, year) schema
			key = fmt.Sprintf("%s/%v", key, args[1])
		}
	}

	f.counters[key] += increment
	return &seqRow{val: f.counters[key]}
}

func (f *fakeSequences) value(key string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters[key]
}

var march2026 = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

func TestGetNextNumberRequestSeries(t *testing.T) {
	svc := New(newFakeSequences())
	cfg := DefaultConfig("REQ")

	num, err := svc.GetNextNumber(context.Background(), cfg, nil, march2026)
	require.NoError(t, err)
	assert.Equal(t, "REQ-2026-00001", num)

	num, err = svc.GetNextNumber(context.Background(), cfg, nil, march2026)
	require.NoError(t, err)
	assert.Equal(t, "REQ-2026-00002", num)
}

func TestGetNextNumberResetsPerYear(t *testing.T) {
	svc := New(newFakeSequences())
	cfg := DefaultConfig("REQ")

	for i := 0; i < 3; i++ {
		_, err := svc.GetNextNumber(context.Background(), cfg, nil, march2026)
		require.NoError(t, err)
	}

	// A new year starts a new sequence.
	nextYear := march2026.AddDate(1, 0, 0)
	num, err := svc.GetNextNumber(context.Background(), cfg, nil, nextYear)
	require.NoError(t, err)
	assert.Equal(t, "REQ-2027-00001", num)
}

func TestGetNextNumberCachedReservesRanges(t *testing.T) {
	seqs := newFakeSequences()
	svc := New(seqs)
	cfg := DefaultConfig("REQ")
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	// First call reserves 1..10 in one round trip.
	num, err := svc.GetNextNumber(context.Background(), cfg, opts, march2026)
	require.NoError(t, err)
	assert.Equal(t, "REQ-2026-00001", num)
	assert.Equal(t, int64(10), seqs.value("REQ_2026"))

	// Subsequent numbers come from memory.
	num, err = svc.GetNextNumber(context.Background(), cfg, opts, march2026)
	require.NoError(t, err)
	assert.Equal(t, "REQ-2026-00002", num)
	assert.Equal(t, int64(10), seqs.value("REQ_2026"))

	// Exhaust the range; the next number forces a fresh reservation.
	for i := 0; i < 8; i++ {
		_, err := svc.GetNextNumber(context.Background(), cfg, opts, march2026)
		require.NoError(t, err)
	}
	num, err = svc.GetNextNumber(context.Background(), cfg, opts, march2026)
	require.NoError(t, err)
	assert.Equal(t, "REQ-2026-00011", num)
	assert.Equal(t, int64(20), seqs.value("REQ_2026"))
}

func TestSetNextNumberInvalidatesCachedRange(t *testing.T) {
	seqs := newFakeSequences()
	svc := New(seqs)
	cfg := DefaultConfig("REQ")
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	_, err := svc.GetNextNumber(context.Background(), cfg, opts, march2026)
	require.NoError(t, err)
	queriesBefore := seqs.queries

	require.NoError(t, svc.SetNextNumber(context.Background(), cfg, march2026, 100))

	// The stale in-memory range is gone: the next number goes back to the
	// database instead of handing out 2.
	_, err = svc.GetNextNumber(context.Background(), cfg, opts, march2026)
	require.NoError(t, err)
	assert.Greater(t, seqs.queries, queriesBefore+1)
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, int64(42), ParseNumber("REQ-2026-00042"))
	assert.Equal(t, int64(7), ParseNumber("REQ-00007"))
	assert.Equal(t, int64(-1), ParseNumber("not-a-number"))
}
