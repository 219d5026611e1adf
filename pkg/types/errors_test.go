package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("lookup U+0041: %w", &Error{Kind: ErrKindNotFound, Msg: "glyph absent"})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrFormat)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindNotFound, kind)
}

func TestError_MessageIncludesCause(t *testing.T) {
	cause := errors.New("short read")
	err := &Error{Kind: ErrKindIO, Msg: "read glyph node", Err: cause}

	assert.Equal(t, "read glyph node: short read", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrIO)
}

func TestError_LifecycleKindsDiffer(t *testing.T) {
	assert.NotErrorIs(t, ErrNotReady, ErrClosed)
	assert.NotErrorIs(t, ErrClosed, ErrNotReady)

	closed := fmt.Errorf("resolve: %w", ErrClosed)
	kind, ok := KindOf(closed)
	require.True(t, ok)
	assert.Equal(t, ErrKindClosed, kind)
	assert.Equal(t, "closed", kind.String())
	assert.Equal(t, "not ready", ErrKindNotReady.String())
}

func TestKindOf_PlainError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestGlyphNode_BitmapSize(t *testing.T) {
	assert.Equal(t, 8, GlyphNode{DataOff: 0, KernOff: 8}.BitmapSize())
	assert.Equal(t, 0, GlyphNode{DataOff: 8, KernOff: 8}.BitmapSize())
	assert.Equal(t, 0, GlyphNode{DataOff: 9, KernOff: 8}.BitmapSize())
}

func TestDiagnosticReport_Summary(t *testing.T) {
	var r DiagnosticReport
	r.Add(Diagnostic{Severity: SevError, Offset: 0x40, Structure: "NODE"})
	r.Add(Diagnostic{Severity: SevWarning, Offset: 0x20, Structure: "RADIX"})
	r.Finalize()

	assert.True(t, r.HasErrors())
	assert.Equal(t, 1, r.Summary.Errors)
	assert.Equal(t, 1, r.Summary.Warnings)
	assert.Equal(t, int64(0x20), r.Diagnostics[0].Offset)
}
