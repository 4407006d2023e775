package hailstone_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numbatlabs/hailstone"
)

func TestNewEngineValidation(t *testing.T) {
	t.Parallel()

	_, err := hailstone.NewEngine(0)
	require.ErrorIs(t, err, hailstone.ErrInvalidMaxLength)

	_, err = hailstone.NewEngine(100, hailstone.WithCacheSize(1))
	require.ErrorIs(t, err, hailstone.ErrInvalidCacheSize)

	_, err = hailstone.NewEngine(100, hailstone.WithWorkers(0))
	require.ErrorIs(t, err, hailstone.ErrInvalidWorkers)

	_, err = hailstone.NewEngine(100, hailstone.WithWorkers(-3))
	require.ErrorIs(t, err, hailstone.ErrInvalidWorkers)
}

func TestEngineAccessors(t *testing.T) {
	t.Parallel()

	engine, err := hailstone.NewEngine(500,
		hailstone.WithCacheSize(1<<10),
		hailstone.WithWorkers(3),
	)
	require.NoError(t, err)

	assert.EqualValues(t, 500, engine.MaxLength())
	assert.EqualValues(t, 1<<10, engine.CacheSize())
	assert.Equal(t, 3, engine.Workers())
}

// TestEngineLengthMatchesUncached verifies that the cache changes the
// cost of a lookup, never the answer.
func TestEngineLengthMatchesUncached(t *testing.T) {
	t.Parallel()

	// A small cache forces the stepper through both the cached tail
	// and the fallback loop.
	engine, err := hailstone.NewEngine(2000, hailstone.WithCacheSize(1<<12))
	require.NoError(t, err)

	for start := uint64(1); start <= 50000; start++ {
		want, wantOK := hailstone.SequenceLength(start, 2000)
		got, ok := engine.Length(start)

		require.Equal(t, wantOK, ok, "start %d", start)
		require.Equal(t, want, got, "start %d", start)
	}
}

func TestEngineLengthTinyCache(t *testing.T) {
	t.Parallel()

	engine, err := hailstone.NewEngine(2000, hailstone.WithCacheSize(2))
	require.NoError(t, err)

	for start := uint64(1); start <= 2000; start++ {
		want, _ := hailstone.SequenceLength(start, 2000)
		got, _ := engine.Length(start)
		require.Equal(t, want, got, "start %d", start)
	}
}

func TestEngineLengthBelowCeiling(t *testing.T) {
	t.Parallel()

	// With a ceiling of 100, starts whose sequences are longer must
	// come back with ok=false and a count beyond the ceiling.
	engine, err := hailstone.NewEngine(100, hailstone.WithCacheSize(1<<10))
	require.NoError(t, err)

	length, ok := engine.Length(27) // true length 112
	require.False(t, ok)
	require.Greater(t, length, uint64(100))

	length, ok = engine.Length(6) // true length 9
	require.True(t, ok)
	require.EqualValues(t, 9, length)
}

func TestScanValidation(t *testing.T) {
	t.Parallel()

	engine, err := hailstone.NewEngine(100, hailstone.WithCacheSize(1<<10))
	require.NoError(t, err)

	_, err = engine.Scan(0, 10, 5)
	require.ErrorIs(t, err, hailstone.ErrInvalidLower)

	_, err = engine.Scan(10, 9, 5)
	require.ErrorIs(t, err, hailstone.ErrInvalidRange)

	_, err = engine.Scan(1, 10, 0)
	require.ErrorIs(t, err, hailstone.ErrInvalidBucketSize)
}

func TestScanBoundaryScenario(t *testing.T) {
	t.Parallel()

	// Single-element range: 1 has length 1, landing in bucket 0.
	hist, err := hailstone.Scan(1, 1, 10, 5, hailstone.WithCacheSize(1<<10))
	require.NoError(t, err)

	require.Equal(t, []uint64{1, 0}, hist.Buckets)
	require.Zero(t, hist.Overflow)
	require.EqualValues(t, 1, hist.Total())
}

func TestScanOverflowScenario(t *testing.T) {
	t.Parallel()

	// Only 1 itself has length 1; all 99 other values overflow.
	hist, err := hailstone.Scan(1, 100, 1, 1, hailstone.WithCacheSize(1<<10))
	require.NoError(t, err)

	require.Equal(t, []uint64{1}, hist.Buckets)
	require.EqualValues(t, 99, hist.Overflow)
}

func TestScanKnownValue27(t *testing.T) {
	t.Parallel()

	hist, err := hailstone.Scan(27, 27, 200, 10, hailstone.WithCacheSize(1<<10))
	require.NoError(t, err)

	require.Zero(t, hist.Overflow)

	// Length 112 belongs in the bucket covering 111-120.
	for i, count := range hist.Buckets {
		if i == 11 {
			require.EqualValues(t, 1, count)
			continue
		}

		require.Zero(t, count, "bucket %d", i)
	}
}

func TestScanConservation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		lower, upper, maxLength, bucketSize uint64
	}{
		{1, 1000, 300, 25},
		{5, 9, 100, 7},
		{100, 5000, 50, 50},
		{999, 999, 10, 3},
		{1, 2, 1, 1},
	}

	for _, tc := range cases {
		hist, err := hailstone.Scan(tc.lower, tc.upper, tc.maxLength, tc.bucketSize,
			hailstone.WithCacheSize(1<<10))
		require.NoError(t, err)

		require.Equal(t, tc.upper-tc.lower+1, hist.Total(),
			"range %d-%d", tc.lower, tc.upper)
	}
}

// TestScanMatchesNaive compares a full scan against a histogram built
// one value at a time with the oracle stepper.
func TestScanMatchesNaive(t *testing.T) {
	t.Parallel()

	const (
		lower      = 1
		upper      = 2000
		maxLength  = 300
		bucketSize = 25
	)

	want, err := hailstone.NewHistogram(maxLength, bucketSize)
	require.NoError(t, err)

	for start := uint64(lower); start <= upper; start++ {
		length, _ := naiveLength(start, maxLength)
		want.Observe(length)
	}

	hist, err := hailstone.Scan(lower, upper, maxLength, bucketSize,
		hailstone.WithCacheSize(1<<10))
	require.NoError(t, err)

	require.Equal(t, want.Buckets, hist.Buckets)
	require.Equal(t, want.Overflow, hist.Overflow)
}

// TestScanSingleElementManyWorkers is the regression test for the
// historical over-partitioning bug: tiny ranges under a large worker
// count must match the single-worker result exactly.
func TestScanSingleElementManyWorkers(t *testing.T) {
	t.Parallel()

	for _, value := range []uint64{1, 2, 27, 64, 1000} {
		serial, err := hailstone.Scan(value, value, 200, 10,
			hailstone.WithCacheSize(1<<10), hailstone.WithWorkers(1))
		require.NoError(t, err)

		parallel, err := hailstone.Scan(value, value, 200, 10,
			hailstone.WithCacheSize(1<<10), hailstone.WithWorkers(8))
		require.NoError(t, err)

		require.Equal(t, serial.Buckets, parallel.Buckets, "value %d", value)
		require.Equal(t, serial.Overflow, parallel.Overflow, "value %d", value)
	}
}

// TestScanChunkingIndependence verifies that any partition of a range
// into sub-scans merges to the whole-range result, in any order.
func TestScanChunkingIndependence(t *testing.T) {
	t.Parallel()

	engine, err := hailstone.NewEngine(300, hailstone.WithCacheSize(1<<10))
	require.NoError(t, err)

	full, err := engine.Scan(1, 2000, 25)
	require.NoError(t, err)

	parts := [][2]uint64{{1, 700}, {701, 1300}, {1301, 2000}}

	partials := make([]*hailstone.Histogram, len(parts))
	for i, p := range parts {
		partials[i], err = engine.Scan(p[0], p[1], 25)
		require.NoError(t, err)
	}

	forward, err := hailstone.NewHistogram(300, 25)
	require.NoError(t, err)
	for _, p := range partials {
		require.NoError(t, forward.Merge(p))
	}

	backward, err := hailstone.NewHistogram(300, 25)
	require.NoError(t, err)
	for i := len(partials) - 1; i >= 0; i-- {
		require.NoError(t, backward.Merge(partials[i]))
	}

	require.Equal(t, full.Buckets, forward.Buckets)
	require.Equal(t, full.Overflow, forward.Overflow)
	require.Equal(t, forward.Buckets, backward.Buckets)
	require.Equal(t, forward.Overflow, backward.Overflow)
}

func TestScanWorkerCountInvariance(t *testing.T) {
	t.Parallel()

	var reference *hailstone.Histogram

	for _, workers := range []int{1, 2, 3, 8, 32} {
		hist, err := hailstone.Scan(1, 5000, 300, 25,
			hailstone.WithCacheSize(1<<10), hailstone.WithWorkers(workers))
		require.NoError(t, err)

		if reference == nil {
			reference = hist
			continue
		}

		require.Equal(t, reference.Buckets, hist.Buckets, "workers=%d", workers)
		require.Equal(t, reference.Overflow, hist.Overflow, "workers=%d", workers)
	}
}

// TestEngineConcurrentUse exercises one engine from many goroutines;
// the engine is read-only after construction, so results must be
// identical and race-free.
func TestEngineConcurrentUse(t *testing.T) {
	t.Parallel()

	engine, err := hailstone.NewEngine(300, hailstone.WithCacheSize(1<<12))
	require.NoError(t, err)

	want, err := engine.Scan(1, 10000, 25)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			hist, err := engine.Scan(1, 10000, 25)
			assert.NoError(t, err)
			assert.Equal(t, want.Buckets, hist.Buckets)
			assert.Equal(t, want.Overflow, hist.Overflow)
		}()
	}
	wg.Wait()
}

func TestScanConvenience(t *testing.T) {
	t.Parallel()

	_, err := hailstone.Scan(1, 10, 0, 5)
	require.ErrorIs(t, err, hailstone.ErrInvalidMaxLength)

	hist, err := hailstone.Scan(1, 10, 100, 10, hailstone.WithCacheSize(1<<10))
	require.NoError(t, err)
	require.EqualValues(t, 10, hist.Total())
	require.Positive(t, hist.Elapsed)
}

func BenchmarkEngineLength(b *testing.B) {
	engine, err := hailstone.NewEngine(1000)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		engine.Length(837799)
	}
}

func BenchmarkScan(b *testing.B) {
	engine, err := hailstone.NewEngine(500)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := engine.Scan(1, 1_000_000, 50); err != nil {
			b.Fatal(err)
		}
	}
}
