// Package types defines the public data types and error taxonomy shared by
// the glyph engine packages.
//
// The record types mirror the on-disk bundle structures field for field, but
// they are plain Go values: decoding and encoding happen in internal/format,
// never by casting file bytes.
//
// Design goals:
//   - Small, copyable records (GlyphNode is 28 bytes on disk and in memory
//     holds no pointers, so it can live in arena-backed arrays).
//   - Typed errors with stable categories (format/capacity/io/not-found/...).
//   - Paranoid bounds checking; never panic on malformed input.
//
// This package has no dependencies beyond the standard library.
package types
