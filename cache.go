package hailstone

import "golang.org/x/sync/errgroup"

// populateCache fills cache entries 1..len(cache)-1 with sequence
// lengths. Every positive integer is an odd number times a power of
// two and length(2v) = length(v)+1, so the fill computes full lengths
// for odd indices only and derives each in-bounds doubling at one
// extra step. Entry 0 is unused and stays 0.
//
// Lengths beyond maxLength are stored truncated; they are still
// greater than maxLength, which is all any reader compares against.
//
// The odd indices are striped across workers. Each odd index owns a
// disjoint set of cache slots, so the workers never write the same
// entry. Wait establishes the barrier between the fill and the first
// read: callers must not hand the cache to any reader before
// populateCache returns.
func populateCache(t *trailingZeroTable, cache []uint64, maxLength uint64, workers int) {
	size := uint64(len(cache))
	if size < 2 {
		return
	}

	span := size - 1 // indices 1..size-1
	stripe := span / uint64(workers)
	if span%uint64(workers) != 0 {
		stripe++
	}

	var g errgroup.Group

	for w := 0; w < workers; w++ {
		lo := 1 + uint64(w)*stripe
		if lo >= size {
			break
		}

		hi := lo + stripe
		if hi > size {
			hi = size
		}

		g.Go(func() error {
			for i := lo | 1; i < hi; i += 2 {
				length, _ := sequenceLength(t, i, maxLength)
				for v := i; v < size; v <<= 1 {
					cache[v] = length
					length++
				}
			}

			return nil
		})
	}

	// Workers cannot fail; Wait is the completion barrier.
	_ = g.Wait()
}
