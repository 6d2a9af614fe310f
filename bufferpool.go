package asock

import (
	"sync"
)

const (
	minBufferSize = 32        // smallest pooled size class.
	maxBufferSize = 64 * 1024 // largest pooled size class; bigger buffers are not pooled.
)

// bufferPool hands out receive scratch buffers in power-of-two size classes.
type bufferPool struct {
	classes []*sync.Pool
}

var globalBufferPool = newBufferPool()

func newBufferPool() *bufferPool {
	bp := &bufferPool{}

	for size := minBufferSize; size <= maxBufferSize; size <<= 1 {
		size := size
		bp.classes = append(bp.classes, &sync.Pool{
			New: func() any {
				b := make([]byte, size)
				return &b
			},
		})
	}

	return bp
}

// classFor returns the index of the smallest class holding size bytes, or -1.
func classFor(size int) int {
	if size > maxBufferSize {
		return -1
	}

	idx := 0
	for classSize := minBufferSize; classSize < size; classSize <<= 1 {
		idx++
	}

	return idx
}

// get returns a buffer of exactly size bytes backed by a pooled array.
func (bp *bufferPool) get(size int) []byte {
	idx := classFor(size)
	if idx < 0 {
		return make([]byte, size)
	}

	b := bp.classes[idx].Get().(*[]byte)

	return (*b)[:size]
}

// put returns buf to the class matching its capacity.
func (bp *bufferPool) put(buf []byte) {
	c := cap(buf)
	idx := classFor(c)
	if idx < 0 || minBufferSize<<uint(idx) != c {
		return // not one of ours.
	}

	buf = buf[:c]
	bp.classes[idx].Put(&buf)
}
