package alloc

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/glyphkit/internal/format"
)

func addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

func newTestRegion(t *testing.T, size int) *Region {
	t.Helper()
	r := New()
	require.True(t, r.SetRegion(make([]byte, size)), "first SetRegion must be accepted")
	return r
}

// TestRegion_Monotonic checks that allocations are increasing, disjoint and
// accounted with their aligned sizes.
func TestRegion_Monotonic(t *testing.T) {
	r := newTestRegion(t, 1024)

	sizes := []int{1, 7, 4, 13, 32, 3}
	var prevEnd uintptr
	want := 0
	for i, size := range sizes {
		b, err := r.Allocate(size)
		require.NoError(t, err, "Allocate(%d)", size)
		require.Len(t, b, size)
		assert.Equal(t, format.Align4(size), cap(b), "cap should be the aligned size")

		start := addr(b)
		if i > 0 {
			assert.GreaterOrEqual(t, start, prevEnd, "allocation %d overlaps previous", i)
		}
		prevEnd = start + uintptr(cap(b))
		want += format.Align4(size)
	}
	assert.Equal(t, want, r.UsedBytes())
	assert.Equal(t, 1024-want, r.Remaining())
}

// TestRegion_ExhaustionLeavesCursor checks a failing request does not move the cursor.
func TestRegion_ExhaustionLeavesCursor(t *testing.T) {
	r := newTestRegion(t, 64)

	_, err := r.Allocate(60)
	require.NoError(t, err)
	used := r.UsedBytes()

	_, err = r.Allocate(5) // aligns to 8, only 4 left
	require.ErrorIs(t, err, ErrNoSpace)
	assert.Equal(t, used, r.UsedBytes(), "cursor must not move on failure")

	b, err := r.Allocate(4)
	require.NoError(t, err, "exactly the remaining bytes should still fit")
	assert.Len(t, b, 4)
	assert.Equal(t, 0, r.Remaining())

	_, err = r.Allocate(1 << 20)
	require.ErrorIs(t, err, ErrNoSpace)
}

// TestRegion_SetOnce checks that the first region wins.
func TestRegion_SetOnce(t *testing.T) {
	first := make([]byte, 32)
	r := New()
	assert.False(t, r.Ready())

	_, err := r.Allocate(4)
	require.ErrorIs(t, err, ErrNoRegion)

	require.True(t, r.SetRegion(first))
	assert.False(t, r.SetRegion(make([]byte, 4096)), "second SetRegion must be ignored")
	assert.Equal(t, 32, r.Capacity())

	b, err := r.Allocate(4)
	require.NoError(t, err)
	assert.Equal(t, addr(first), addr(b), "allocation must come from the first region")

	assert.False(t, New().SetRegion(nil), "empty regions are refused")
}

// TestRegion_BadSize rejects zero and negative requests.
func TestRegion_BadSize(t *testing.T) {
	r := newTestRegion(t, 32)
	_, err := r.Allocate(0)
	require.ErrorIs(t, err, ErrBadSize)
	_, err = r.Allocate(-8)
	require.ErrorIs(t, err, ErrBadSize)
	assert.Zero(t, r.UsedBytes())
}

// TestRegion_ConcurrentAllocate checks that racing callers get disjoint ranges.
func TestRegion_ConcurrentAllocate(t *testing.T) {
	const workers, perWorker, size = 8, 64, 12
	r := newTestRegion(t, workers*perWorker*size)

	var mu sync.Mutex
	seen := make(map[uintptr]bool)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				b, err := r.Allocate(size)
				if err != nil {
					t.Errorf("Allocate: %v", err)
					return
				}
				mu.Lock()
				seen[addr(b)] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker, "every allocation must be distinct")
	assert.Equal(t, workers*perWorker*size, r.UsedBytes())
	_, err := r.Allocate(1)
	require.ErrorIs(t, err, ErrNoSpace)
}

// TestRegion_Release checks that a released region refuses new requests.
func TestRegion_Release(t *testing.T) {
	r, err := NewBacked(4096)
	require.NoError(t, err)
	require.True(t, r.Ready())

	_, err = r.Allocate(128)
	require.NoError(t, err)

	require.NoError(t, r.Release())
	require.NoError(t, r.Release(), "second Release is a no-op")
	assert.False(t, r.Ready())

	_, err = r.Allocate(4)
	require.ErrorIs(t, err, ErrReleased)
}
