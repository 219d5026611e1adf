package alloc

import "errors"

var (
	// ErrNoSpace indicates the request does not fit in the remaining capacity.
	ErrNoSpace = errors.New("alloc: no space left in region")

	// ErrNoRegion indicates Allocate was called before SetRegion.
	ErrNoRegion = errors.New("alloc: region not set")

	// ErrBadSize indicates a zero, negative or overflowing request.
	ErrBadSize = errors.New("alloc: invalid allocation size")

	// ErrMisaligned indicates the region base cannot satisfy a type's alignment.
	ErrMisaligned = errors.New("alloc: region base misaligned for type")

	// ErrPointerType indicates Make was asked for an element type holding Go pointers.
	ErrPointerType = errors.New("alloc: element type contains pointers")

	// ErrReleased indicates the region's backing memory was released.
	ErrReleased = errors.New("alloc: region released")
)
