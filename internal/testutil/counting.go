package testutil

import (
	"bytes"
	"io"
	"sync/atomic"
)

// CountingSource is an in-memory bundle source that counts storage
// accesses, so tests can assert that a cached lookup performs no I/O.
type CountingSource struct {
	r      io.ReaderAt
	size   int64
	reads  atomic.Int64
	bytes  atomic.Int64
	closes atomic.Int64

	// FailAfter, when positive, makes every read after the first FailAfter
	// reads return io.ErrUnexpectedEOF.
	FailAfter int64
}

// NewCountingSource wraps img.
func NewCountingSource(img []byte) *CountingSource {
	return &CountingSource{r: bytes.NewReader(img), size: int64(len(img))}
}

func (c *CountingSource) ReadAt(p []byte, off int64) (int, error) {
	n := c.reads.Add(1)
	if c.FailAfter > 0 && n > c.FailAfter {
		return 0, io.ErrUnexpectedEOF
	}
	got, err := c.r.ReadAt(p, off)
	c.bytes.Add(int64(got))
	return got, err
}

func (c *CountingSource) Close() error {
	c.closes.Add(1)
	return nil
}

// Size reports the image length.
func (c *CountingSource) Size() int64 { return c.size }

// Reads returns the number of ReadAt calls so far.
func (c *CountingSource) Reads() int64 { return c.reads.Load() }

// BytesRead returns the number of bytes returned so far.
func (c *CountingSource) BytesRead() int64 { return c.bytes.Load() }

// Closes returns the number of Close calls so far.
func (c *CountingSource) Closes() int64 { return c.closes.Load() }
