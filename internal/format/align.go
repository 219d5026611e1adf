package format

// RegionAlignment is the allocation unit of the region allocator.
const RegionAlignment = 4

// RegionAlignmentMask is RegionAlignment - 1.
const RegionAlignmentMask = RegionAlignment - 1

// Align4 returns n aligned up to the next 4-byte boundary.
//
// Example:
//
//	Align4(1) = 4
//	Align4(4) = 4
//	Align4(5) = 8
func Align4(n int) int {
	return (n + RegionAlignmentMask) &^ RegionAlignmentMask
}

// AlignTo returns n aligned up to a, which must be a power of two.
func AlignTo(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}
