package alloc

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/joshuapare/glyphkit/internal/format"
	"github.com/joshuapare/glyphkit/internal/mmfile"
)

// block is the installed backing memory. It is published once through an
// atomic pointer so Allocate never observes a half-initialized region.
type block struct {
	mem      []byte
	released bool
}

// Region is a bump allocator over a fixed memory block.
//
// Invariants:
//   - 0 <= cursor <= len(mem), cursor only grows and stays 4-byte aligned
//   - the block is installed at most once
type Region struct {
	blk    atomic.Pointer[block]
	cursor atomic.Int64

	relMu   sync.Mutex
	release func() error
}

// New returns a Region without backing memory. Call SetRegion before Allocate.
func New() *Region {
	return &Region{}
}

// NewBacked reserves size bytes of anonymous memory and installs them.
func NewBacked(size int) (*Region, error) {
	mem, release, err := mmfile.Anon(size)
	if err != nil {
		return nil, err
	}
	r := New()
	r.SetRegion(mem)
	r.release = release
	return r, nil
}

// SetRegion installs mem as the backing block. Only the first call has any
// effect; it reports whether mem was accepted. Later calls are ignored so a
// region can never be replaced while allocations still point into it.
func (r *Region) SetRegion(mem []byte) bool {
	if len(mem) == 0 {
		return false
	}
	// cap the slice so appends by an owner can never spill past the block
	return r.blk.CompareAndSwap(nil, &block{mem: mem[:len(mem):len(mem)]})
}

// Ready reports whether a block has been installed and not released.
func (r *Region) Ready() bool {
	b := r.blk.Load()
	return b != nil && !b.released
}

// Capacity returns the size of the installed block, or 0.
func (r *Region) Capacity() int {
	b := r.blk.Load()
	if b == nil {
		return 0
	}
	return len(b.mem)
}

// UsedBytes returns the number of bytes handed out so far.
func (r *Region) UsedBytes() int {
	return int(r.cursor.Load())
}

// Remaining returns the bytes still available.
func (r *Region) Remaining() int {
	return r.Capacity() - r.UsedBytes()
}

// Allocate returns size bytes from the region. The size is rounded up to the
// 4-byte allocation unit; the returned slice has len size and cap equal to
// the rounded size. A request that does not fit fails with ErrNoSpace and
// leaves the cursor untouched.
func (r *Region) Allocate(size int) ([]byte, error) {
	return r.allocate(size, format.RegionAlignment)
}

func (r *Region) allocate(size, align int) ([]byte, error) {
	b := r.blk.Load()
	switch {
	case b == nil:
		return nil, ErrNoRegion
	case b.released:
		return nil, ErrReleased
	case size <= 0:
		return nil, fmt.Errorf("request %d bytes: %w", size, ErrBadSize)
	case size > len(b.mem):
		return nil, fmt.Errorf("request %d bytes, capacity %d: %w", size, len(b.mem), ErrNoSpace)
	}
	need := format.Align4(size)
	for {
		cur := r.cursor.Load()
		start := int64(format.AlignTo(int(cur), align))
		end := start + int64(need)
		if end > int64(len(b.mem)) {
			return nil, fmt.Errorf("request %d bytes, %d of %d used: %w", need, cur, len(b.mem), ErrNoSpace)
		}
		if r.cursor.CompareAndSwap(cur, end) {
			return b.mem[start : start+int64(size) : end], nil
		}
	}
}

// Release unmaps memory obtained by NewBacked. Every slice handed out by the
// region becomes invalid; it is meant for engine teardown only. For regions
// installed with SetRegion it only marks the region unusable.
func (r *Region) Release() error {
	r.relMu.Lock()
	defer r.relMu.Unlock()

	b := r.blk.Load()
	if b == nil || b.released {
		return nil
	}
	r.blk.Store(&block{released: true})
	if r.release == nil {
		return nil
	}
	err := r.release()
	r.release = nil
	return err
}
