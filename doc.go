// Package hailstone computes the lengths of hailstone (Collatz)
// sequences and aggregates them into fixed-width histograms.
//
// # Overview
//
// The hailstone sequence of a positive integer n is produced by
// repeatedly applying n/2 when n is even and 3n+1 when n is odd; the
// sequence is conjectured to always reach 1. The sequence length is
// the number of elements visited, counting both the starting value
// and the terminal 1, so the length of 1 is 1.
//
// This implementation offers:
//   - Bit-trick stepping: runs of halving steps collapse into a single
//     shift via a precomputed trailing-zero lookup table
//   - A length cache: sequence lengths for all small starting values
//     are precomputed once, short-circuiting most of a scan
//   - Parallel reduction: scan ranges are partitioned across workers
//     whose local histograms merge deterministically
//
// # Quick Start
//
// One-shot scan of a range:
//
//	hist, _ := hailstone.Scan(1, 1_000_000, 500, 50)
//	for i, count := range hist.Buckets {
//	    lo, hi := hist.Bounds(i)
//	    fmt.Printf("%d-%d: %d\n", lo, hi, count)
//	}
//	fmt.Printf("%d+: %d\n", hist.MaxLength+1, hist.Overflow)
//
// Reusing the precomputed cache across scans:
//
//	engine, _ := hailstone.NewEngine(500)
//	hist1, _ := engine.Scan(1, 1_000_000, 50)
//	hist2, _ := engine.Scan(1_000_001, 2_000_000, 50)
//
// # Algorithm
//
// The stepper strips all trailing zero bits of the current value in
// one step, replacing a run of halvings with a single shift. The
// trailing-zero count comes from a 256-entry table consulted one
// 8-bit window at a time. After the 3n+1 step the result is always
// even, so every iteration of the loop ends in a shift.
//
// Because length(2v) = length(v) + 1, the cache builder only computes
// lengths for odd indices and derives every power-of-two multiple by
// repeated doubling at one extra step each. The range scan applies
// the same trick: each value is counted by the worker owning its
// generator (the odd values, plus the even values whose half lies
// below the scan's lower bound), which then derives all in-range
// doublings for free.
//
// Computation stops the instant the running length crosses the
// configured ceiling; such values are classified as overflow without
// computing their true length.
//
// # Thread Safety
//
// An Engine is immutable once NewEngine returns: the lookup table and
// the length cache are fully built before any reader can exist, and
// are never written afterward. A single Engine may therefore serve
// concurrent Length and Scan calls without locking. For repeated
// scans with identical parameters, EnginePool recycles engines and
// their caches.
//
// # Limits
//
// All arithmetic is unsigned 64-bit with no overflow detection. The
// longest sequence for any start below 2^32 has 1137 elements
// (MaxPossibleLength leaves a little headroom); starts up to roughly
// 10^10 are known to stay within 64 bits. Beyond that the math wraps
// silently.
package hailstone
