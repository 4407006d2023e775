package hailstone

import (
	"fmt"
	"time"
)

// Histogram aggregates hailstone sequence lengths into fixed-width
// buckets. Bucket i covers lengths i*BucketSize+1 through
// (i+1)*BucketSize, clamped to MaxLength; lengths beyond MaxLength
// are counted in Overflow.
type Histogram struct {
	Buckets    []uint64 // One counter per bucket
	Overflow   uint64   // Count of lengths greater than MaxLength
	MaxLength  uint64   // Classification ceiling
	BucketSize uint64   // Width of each bucket

	// Elapsed is the wall-clock duration of the scan that produced
	// this histogram, covering the scan phase only. Zero for
	// histograms built by hand.
	Elapsed time.Duration
}

// NewHistogram returns an empty histogram with ceil(maxLength /
// bucketSize) zeroed buckets.
func NewHistogram(maxLength, bucketSize uint64) (*Histogram, error) {
	if maxLength == 0 {
		return nil, ErrInvalidMaxLength
	}

	if bucketSize == 0 {
		return nil, ErrInvalidBucketSize
	}

	return newHistogram(maxLength, bucketSize), nil
}

// newHistogram skips validation; callers have already checked the
// parameters.
func newHistogram(maxLength, bucketSize uint64) *Histogram {
	n := maxLength / bucketSize
	if maxLength%bucketSize != 0 {
		n++
	}

	return &Histogram{
		Buckets:    make([]uint64, n),
		MaxLength:  maxLength,
		BucketSize: bucketSize,
	}
}

// Observe records one sequence of the given length. Lengths beyond
// MaxLength count as overflow; the exact amount of the excess is
// irrelevant, so truncated lengths classify correctly.
func (h *Histogram) Observe(length uint64) {
	if length > h.MaxLength {
		h.Overflow++
		return
	}

	h.Buckets[(length-1)/h.BucketSize]++
}

// Bounds returns the inclusive range of lengths covered by bucket i.
func (h *Histogram) Bounds(i int) (lo, hi uint64) {
	lo = uint64(i)*h.BucketSize + 1
	hi = uint64(i+1) * h.BucketSize

	if hi > h.MaxLength {
		hi = h.MaxLength
	}

	return lo, hi
}

// Total returns the sum of all bucket counts plus the overflow count.
// For a histogram produced by a scan of [lower, upper] this equals
// upper - lower + 1.
func (h *Histogram) Total() uint64 {
	total := h.Overflow
	for _, count := range h.Buckets {
		total += count
	}

	return total
}

// Merge adds other's counts into h elementwise. Merging is commutative
// and associative, so partial histograms from any partition of a range
// combine into the same result in any order.
//
// Both histograms must share the same MaxLength and BucketSize.
func (h *Histogram) Merge(other *Histogram) error {
	if h.MaxLength != other.MaxLength || h.BucketSize != other.BucketSize {
		return fmt.Errorf("histogram layouts differ: %d/%d vs %d/%d",
			h.MaxLength, h.BucketSize, other.MaxLength, other.BucketSize)
	}

	for i, count := range other.Buckets {
		h.Buckets[i] += count
	}
	h.Overflow += other.Overflow

	return nil
}
