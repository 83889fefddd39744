package arcboot

// Allocator hands out 64-bit words from a fixed host memory region.
// Regions are never resized; a request that does not fit fails.
type Allocator interface {
	Alloc(words int) ([]uint64, error)
	Reset()
}

// AllocSizer provides the capacity and usage of an allocator in words.
type AllocSizer interface {
	Cap() int
	Used() int
}

// Region is a fixed allocator that reports its size. The interpreter carves
// its operand stack out of a Region.
type Region interface {
	Allocator
	AllocSizer
}
