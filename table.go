package hailstone

const (
	// tableBits is the lookup window width. 8 bits keeps the table at
	// 256 entries and resolves most values in one or two lookups.
	tableBits = 8
	tableSize = 1 << tableBits
	tableMask = tableSize - 1
)

// trailingZeroTable maps an 8-bit window of a value to the number of
// trailing zero bits within that window. Entry 0 holds the window
// width itself: no set bit was observed, so the caller must shift the
// value and consult the next window.
type trailingZeroTable [tableSize]uint8

func newTrailingZeroTable() *trailingZeroTable {
	var t trailingZeroTable

	t[0] = tableBits
	for i := 1; i < tableSize; i++ {
		n := uint8(0)
		for v := i; v&1 == 0; v >>= 1 {
			n++
		}
		t[i] = n
	}

	return &t
}

// count returns the number of trailing zero bits of v, consuming
// successive 8-bit windows until a set bit is found. v must not be 0.
func (t *trailingZeroTable) count(v uint64) uint64 {
	var n uint64

	for {
		z := t[v&tableMask]
		n += uint64(z)

		if z < tableBits {
			return n
		}

		v >>= tableBits
	}
}
