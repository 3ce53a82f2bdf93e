// Package pool provides sync.Pool backed buffers for the PTY read loop and
// the snapshot exporter. Both paths run at output rate, so reusing their
// buffers keeps allocation off the hot path.
package pool

import "sync"

// ReadBufferSize is the size of a single PTY read.
const ReadBufferSize = 64 * 1024

var byteSlicePool = sync.Pool{
	New: func() any {
		buf := make([]byte, ReadBufferSize)
		return &buf
	},
}

// GetByteSlice returns a read buffer of ReadBufferSize bytes.
func GetByteSlice() *[]byte {
	return byteSlicePool.Get().(*[]byte)
}

// PutByteSlice returns a read buffer to the pool. Buffers that were
// resliced to another length are restored before reuse.
func PutByteSlice(buf *[]byte) {
	if buf == nil || cap(*buf) < ReadBufferSize {
		return
	}
	*buf = (*buf)[:ReadBufferSize]
	byteSlicePool.Put(buf)
}

var batchPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, ReadBufferSize)
		return &buf
	},
}

// GetBatch returns an empty, growable buffer used to coalesce several
// reads into one parser batch.
func GetBatch() *[]byte {
	buf := batchPool.Get().(*[]byte)
	*buf = (*buf)[:0]
	return buf
}

// PutBatch returns a batch buffer. Buffers that grew past maxRetained are
// dropped so one large burst does not pin memory forever.
func PutBatch(buf *[]byte, maxRetained int) {
	if buf == nil || cap(*buf) > maxRetained {
		return
	}
	batchPool.Put(buf)
}

// Slice pools reusable slices of a single element type. It is used for
// snapshot cell arrays, whose length follows the grid size.
type Slice[T any] struct {
	p sync.Pool
}

// Get returns a slice of length n. Contents are unspecified.
func (s *Slice[T]) Get(n int) []T {
	if v, ok := s.p.Get().(*[]T); ok && cap(*v) >= n {
		return (*v)[:n]
	}
	return make([]T, n)
}

// Put hands a slice back for reuse.
func (s *Slice[T]) Put(buf []T) {
	if cap(buf) == 0 {
		return
	}
	buf = buf[:0]
	s.p.Put(&buf)
}
