package pool

import "sync"

// SlicePool is a typed pool of reusable slices, used to cut allocations in
// hot recursive paths (notably the binary-XML evaluator, which borrows a
// template-value array for every template instance it visits, and the byte
// scratch space used while formatting values).
//
// Unlike a plain sync.Pool, SlicePool resizes the borrowed slice to exactly
// the requested length and zeroes a reused backing array before returning
// it, so callers never have to deal with stale elements from a previous
// borrow.
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool creates a new SlicePool for slices of T.
func NewSlicePool[T any]() *SlicePool[T] {
	return &SlicePool[T]{
		pool: sync.Pool{
			New: func() any { s := make([]T, 0); return &s },
		},
	}
}

// Get retrieves a slice of the exact requested length from the pool.
//
// The caller must call the returned cleanup function (typically via defer)
// to return the backing array to the pool.
func (p *SlicePool[T]) Get(size int) ([]T, func()) {
	ptr, _ := p.pool.Get().(*[]T)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]T, size)
	} else {
		slice = slice[:size]
		clear(slice)
	}
	*ptr = slice

	return slice, func() { p.pool.Put(ptr) }
}

// byteSlicePool backs GetByteSlice: scratch space for short-lived byte
// conversions made while formatting values for rendering.
var byteSlicePool = NewSlicePool[byte]()

// GetByteSlice retrieves a []byte of the given length from the shared pool.
func GetByteSlice(size int) ([]byte, func()) {
	return byteSlicePool.Get(size)
}
