package arena

import (
	"github.com/wippyai/arcboot"
	"github.com/wippyai/arcboot/errors"
)

// DefaultWords is the default region size: 1 MiB of 64-bit words.
const DefaultWords = (1 << 20) / 8

var _ arcboot.Region = (*Arena)(nil)

// Arena is a fixed-size bump allocator over 64-bit words.
type Arena struct {
	words []uint64
	next  int
}

// New creates an arena of exactly n words. Non-positive sizes use DefaultWords.
func New(n int) *Arena {
	if n <= 0 {
		n = DefaultWords
	}
	return &Arena{words: make([]uint64, n)}
}

// Alloc returns the next n zeroed words. The returned slice has its capacity
// clipped to n so appends can never spill into neighbouring allocations.
func (a *Arena) Alloc(n int) ([]uint64, error) {
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseRuntime, "negative allocation size")
	}
	if n > len(a.words)-a.next {
		return nil, errors.New(errors.PhaseRuntime, errors.KindTooLarge).
			Detail("arena exhausted: want %d words, %d of %d free", n, len(a.words)-a.next, len(a.words)).
			Value(n).
			Build()
	}
	region := a.words[a.next : a.next+n : a.next+n]
	clear(region)
	a.next += n
	return region, nil
}

// Reset releases every allocation. Previously returned slices must not be used.
func (a *Arena) Reset() {
	a.next = 0
}

// Cap returns the region size in words.
func (a *Arena) Cap() int { return len(a.words) }

// Used returns the number of allocated words.
func (a *Arena) Used() int { return a.next }

// Free returns the number of words still available.
func (a *Arena) Free() int { return len(a.words) - a.next }
