package hailstone

import "sync"

// sharedTable serves the standalone SequenceLength entry point.
// Engines build and own their table in NewEngine.
var sharedTable = sync.OnceValue(newTrailingZeroTable)

// SequenceLength returns the number of elements in the hailstone
// sequence starting at start and ending at 1, counting both
// endpoints: SequenceLength(1, m) is 1 for any m >= 1.
//
// Stepping stops as soon as the running length exceeds maxLength. In
// that case ok is false and the returned length is a truncated count
// that is greater than maxLength but not necessarily the true length.
//
// start must be at least 1.
func SequenceLength(start, maxLength uint64) (length uint64, ok bool) {
	return sequenceLength(sharedTable(), start, maxLength)
}

func sequenceLength(t *trailingZeroTable, start, maxLength uint64) (uint64, bool) {
	val := start
	length := t.count(val)
	val >>= length

	for length <= maxLength && val != 1 {
		// 3v+1 via shift-add. The result is even, so the lookup that
		// follows always strips at least one bit.
		val = (val << 1) + val + 1
		length++

		n := t.count(val)
		val >>= n
		length += n
	}

	length++ // the terminal 1

	return length, length <= maxLength
}

// Length returns the hailstone sequence length of start, consulting
// the engine's precomputed cache as soon as the value being stepped
// drops below the cache bound. The result is identical to
// SequenceLength(start, e.MaxLength()); only the cost differs.
//
// start must be at least 1. Safe for concurrent use.
func (e *Engine) Length(start uint64) (length uint64, ok bool) {
	t := e.table
	cacheLen := uint64(len(e.cache))
	maxLength := e.maxLength

	val := start
	length = t.count(val)
	val >>= length

	for length <= maxLength && val >= cacheLen {
		val = (val << 1) + val + 1
		length++

		n := t.count(val)
		val >>= n
		length += n
	}

	// val is odd here, so the cache entry exists even when the loop
	// never ran. Skip the lookup once the ceiling is already crossed;
	// overflow is overflow regardless of the exact tail.
	if length <= maxLength {
		length += e.cache[val]
	}

	return length, length <= maxLength
}
