package writer

// MemWriter captures bundle bytes in memory.
type MemWriter struct {
	Buf []byte
}

// WriteBundle stores a copy of buf.
func (w *MemWriter) WriteBundle(buf []byte) error {
	w.Buf = append(w.Buf[:0], buf...)
	return nil
}
