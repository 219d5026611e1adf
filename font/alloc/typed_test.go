package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/glyphkit/internal/format"
)

type sample struct {
	A uint32
	B uint16
	C [3]uint8
}

// TestMake_ZeroesElements checks typed views are zeroed even over dirty memory.
func TestMake_ZeroesElements(t *testing.T) {
	mem := make([]byte, 256)
	for i := range mem {
		mem[i] = 0xFF
	}
	r := New()
	require.True(t, r.SetRegion(mem))

	nodes, err := Make[format.RadixNode](r, 4)
	require.NoError(t, err)
	require.Len(t, nodes, 4)
	for i := range nodes {
		assert.Equal(t, format.RadixNode{}, nodes[i])
	}
	assert.Equal(t, 4*format.RadixNodeSize, r.UsedBytes())

	nodes[3][15] = 7
	assert.Equal(t, byte(7), mem[4*format.RadixNodeSize-2], "view must alias region memory")
}

// TestMake_Alignment checks the element alignment is honored.
func TestMake_Alignment(t *testing.T) {
	r := newTestRegion(t, 256)
	_, err := r.Allocate(2) // cursor at 4
	require.NoError(t, err)

	s, err := Make[sample](r, 3)
	require.NoError(t, err)
	assert.Zero(t, uintptr(unsafe.Pointer(&s[0]))%unsafe.Alignof(s[0]))
}

// TestMake_RejectsPointerTypes checks types the GC would need to scan are refused.
func TestMake_RejectsPointerTypes(t *testing.T) {
	r := newTestRegion(t, 256)

	_, err := Make[*int](r, 1)
	require.ErrorIs(t, err, ErrPointerType)
	_, err = Make[struct{ S string }](r, 1)
	require.ErrorIs(t, err, ErrPointerType)
	_, err = Make[[]byte](r, 1)
	require.ErrorIs(t, err, ErrPointerType)
	assert.Zero(t, r.UsedBytes())
}

// TestMake_Errors covers bad counts and exhaustion.
func TestMake_Errors(t *testing.T) {
	r := newTestRegion(t, 64)

	_, err := Make[uint32](r, 0)
	require.ErrorIs(t, err, ErrBadSize)

	_, err = Make[format.RadixNode](r, 3)
	require.ErrorIs(t, err, ErrNoSpace)
	assert.Zero(t, r.UsedBytes())
}
