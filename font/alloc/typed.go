package alloc

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/joshuapare/glyphkit/internal/buf"
	"github.com/joshuapare/glyphkit/internal/format"
)

// Make carves a zeroed []T of length n out of r.
//
// T must not contain Go pointers: the region may live outside the Go heap,
// where the garbage collector does not look. Such types are rejected with
// ErrPointerType.
func Make[T any](r *Region, n int) ([]T, error) {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil || hasPointers(typ) {
		return nil, fmt.Errorf("make %v: %w", typ, ErrPointerType)
	}
	size := int(unsafe.Sizeof(zero))
	if n <= 0 || size == 0 {
		return nil, fmt.Errorf("make %d x %v: %w", n, typ, ErrBadSize)
	}
	total, ok := buf.Size(n, size)
	if !ok {
		return nil, fmt.Errorf("make %d x %v: %w", n, typ, ErrBadSize)
	}
	align := max(int(unsafe.Alignof(zero)), format.RegionAlignment)
	b, err := r.allocate(total, align)
	if err != nil {
		return nil, fmt.Errorf("make %d x %v: %w", n, typ, err)
	}
	p := unsafe.Pointer(unsafe.SliceData(b))
	if uintptr(p)%uintptr(align) != 0 {
		return nil, fmt.Errorf("make %v at %p: %w", typ, p, ErrMisaligned)
	}
	s := unsafe.Slice((*T)(p), n)
	clear(s)
	return s, nil
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
