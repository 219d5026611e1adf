package glyphcache

// Ring is a bucket's eviction cursor: the index of the next slot to
// overwrite. It only moves forward, wrapping at NodeHashNR, so a bucket
// evicts its entries strictly in insertion order.
type Ring uint8

// Next returns the slot to overwrite and advances the cursor.
func (r *Ring) Next() int {
	i := int(*r) % NodeHashNR
	*r = Ring((i + 1) % NodeHashNR)
	return i
}

// Peek returns the slot Next would return without advancing.
func (r Ring) Peek() int { return int(r) % NodeHashNR }
