// Package alloc provides the region allocator that backs every long-lived
// array of the glyph engine.
//
// # Overview
//
// A Region is a bump allocator over one fixed, caller-supplied block of
// memory. It is set exactly once and never grows:
//
//   - SetRegion(mem): accepted once, later calls are ignored
//   - Allocate(size): rounds size up to 4 bytes and bumps the cursor
//   - UsedBytes(): bytes handed out so far
//
// There is no Free. Once a byte range has been handed out it stays owned by
// its caller until the whole region is torn down, so memory use is monotonic
// and predictable. Callers that need reclaimable memory must not use a Region.
//
// # Typed Views
//
// Make returns a []T carved from the region for pointer-free element types:
//
//	nodes, err := alloc.Make[format.RadixNode](region, count)
//	if err != nil {
//	    return err // wraps ErrNoSpace when the region is exhausted
//	}
//
// The elements are zeroed before they are returned.
//
// # Backing Memory
//
// NewBacked reserves an anonymous mapping outside the Go heap (falling back
// to a heap buffer where mmap is unavailable) and installs it as the region.
// Release unmaps it at engine shutdown.
//
// # Thread Safety
//
// Allocate advances the cursor with a compare-and-swap loop, so concurrent
// callers receive disjoint ranges. The memory handed out is not synchronized;
// its owner is responsible for that.
package alloc
