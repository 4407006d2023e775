package hailstone

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Engine computes hailstone sequence lengths against a fixed ceiling,
// backed by a trailing-zero lookup table and a precomputed length
// cache. Both are fully built before NewEngine returns and never
// written afterward, so a single Engine is safe for concurrent use
// without locking.
type Engine struct {
	table     *trailingZeroTable
	cache     []uint64
	maxLength uint64
	workers   int
}

// NewEngine creates an Engine whose cache is populated for the given
// length ceiling. Construction blocks until the cache fill completes;
// with the default cache size this computes roughly a million
// sequence lengths, spread across the configured workers.
func NewEngine(maxLength uint64, opts ...Option) (*Engine, error) {
	if maxLength == 0 {
		return nil, ErrInvalidMaxLength
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		table:     newTrailingZeroTable(),
		cache:     make([]uint64, cfg.cacheSize),
		maxLength: maxLength,
		workers:   cfg.workers,
	}

	populateCache(e.table, e.cache, maxLength, cfg.workers)

	return e, nil
}

// MaxLength returns the classification ceiling the engine was built for.
func (e *Engine) MaxLength() uint64 {
	return e.maxLength
}

// CacheSize returns the number of length cache entries.
func (e *Engine) CacheSize() uint64 {
	return uint64(len(e.cache))
}

// Workers returns the configured worker count.
func (e *Engine) Workers() int {
	return e.workers
}

// Scan computes the sequence length of every value in the inclusive
// range [lower, upper] and returns the merged histogram. The range is
// split into contiguous sub-ranges, one per worker; each worker
// accumulates into its own histogram and the partials are merged
// after all workers finish. The worker count is clamped to the range
// size, so a single-element range always reduces to one worker.
func (e *Engine) Scan(lower, upper, bucketSize uint64) (*Histogram, error) {
	if lower == 0 {
		return nil, ErrInvalidLower
	}

	if upper < lower {
		return nil, fmt.Errorf("%w: lower (%d), upper (%d)", ErrInvalidRange, lower, upper)
	}

	if bucketSize == 0 {
		return nil, ErrInvalidBucketSize
	}

	start := time.Now()

	count := upper - lower + 1

	workers := e.workers
	if uint64(workers) > count {
		workers = int(count)
	}

	// Ceil division without the count+workers-1 form, which can wrap
	// for ranges spanning nearly the whole uint64 domain.
	chunk := count / uint64(workers)
	if count%uint64(workers) != 0 {
		chunk++
	}

	locals := make([]*Histogram, 0, workers)

	var g errgroup.Group

	for w := 0; w < workers; w++ {
		// Offsets into the range stay below count, so lo and hi never
		// wrap even for bounds near the top of the uint64 domain.
		offset := uint64(w) * chunk
		if offset >= count {
			// Ceil division can leave trailing workers without any
			// values on tiny ranges.
			break
		}

		lo := lower + offset
		hi := upper
		if remaining := count - offset; remaining > chunk {
			hi = lo + chunk - 1
		}

		h := newHistogram(e.maxLength, bucketSize)
		locals = append(locals, h)

		g.Go(func() error {
			e.scanRange(h, lo, hi, lower, upper)
			return nil
		})
	}

	_ = g.Wait()

	result := locals[0]
	for _, h := range locals[1:] {
		// Layouts are identical by construction.
		_ = result.Merge(h)
	}

	result.Elapsed = time.Since(start)

	return result, nil
}

// scanRange accumulates lengths for the worker's sub-range [lo, hi]
// of the overall scan [lower, upper].
//
// A value is counted by the worker owning its generator: the first
// element of its halving chain that is at least lower. Generators are
// the odd values plus the even values whose half lies below lower;
// every value in [lower, upper] descends from exactly one generator,
// for any chunking of the range. Having computed a generator's
// length, the worker derives all its in-range doublings at one extra
// step each instead of recomputing them.
func (e *Engine) scanRange(h *Histogram, lo, hi, lower, upper uint64) {
	for i := lo; ; i++ {
		if i&1 == 1 || i>>1 < lower {
			length, _ := e.Length(i)

			for v := i; ; {
				h.Observe(length)

				if v > upper>>1 {
					break
				}

				v <<= 1
				length++
			}
		}

		if i == hi {
			break
		}
	}
}

// Scan is a one-shot convenience that builds an Engine for maxLength
// and scans [lower, upper] with it. Callers performing repeated scans
// should build the Engine once (or use EnginePool) to amortize the
// cache fill.
func Scan(lower, upper, maxLength, bucketSize uint64, opts ...Option) (*Histogram, error) {
	e, err := NewEngine(maxLength, opts...)
	if err != nil {
		return nil, err
	}

	return e.Scan(lower, upper, bucketSize)
}
