package hailstone

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrInvalidMaxLength is returned when maxLength is 0.
	ErrInvalidMaxLength = errors.New("maxLength must be greater than 0")

	// ErrInvalidBucketSize is returned when bucketSize is 0.
	ErrInvalidBucketSize = errors.New("bucketSize must be greater than 0")

	// ErrInvalidCacheSize is returned when cacheSize is less than 2.
	ErrInvalidCacheSize = errors.New("cacheSize must be at least 2")

	// ErrInvalidWorkers is returned when workers is not positive.
	ErrInvalidWorkers = errors.New("workers must be greater than 0")

	// ErrInvalidLower is returned when the scan lower bound is 0.
	ErrInvalidLower = errors.New("lower must be greater than 0")

	// ErrInvalidRange is returned when upper is less than lower.
	ErrInvalidRange = errors.New("upper must not be less than lower")
)

const (
	// DefaultCacheSize is the default number of length cache entries (2^20).
	DefaultCacheSize = 1 << 20

	// MaxPossibleLength bounds the longest hailstone sequence for any
	// starting value below 2^32. The true maximum is 1137; a little
	// headroom is left for fixed-size result arrays.
	MaxPossibleLength = 1140
)

// Option is a function that configures an Engine.
type Option func(*config) error

// config holds the configuration for an Engine.
type config struct {
	cacheSize uint64
	workers   int
}

func defaultConfig() *config {
	return &config{
		cacheSize: DefaultCacheSize,
		workers:   runtime.GOMAXPROCS(0),
	}
}

// validate checks that the configuration is valid.
func (c *config) validate() error {
	if c.cacheSize < 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidCacheSize, c.cacheSize)
	}

	if c.workers <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.workers)
	}

	return nil
}

// WithCacheSize sets the number of length cache entries. Starting
// values below this bound resolve with a single lookup once the
// cache is built. Larger caches shortcut more of the scan at the
// cost of memory (8 bytes per entry) and fill time. The size does
// not need to be a power of two.
func WithCacheSize(size uint64) Option {
	return func(c *config) error {
		if size < 2 {
			return fmt.Errorf("%w: got %d", ErrInvalidCacheSize, size)
		}

		c.cacheSize = size

		return nil
	}
}

// WithWorkers sets the number of concurrent workers used for both the
// cache fill and the range scan. Defaults to runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidWorkers, n)
		}

		c.workers = n

		return nil
	}
}
