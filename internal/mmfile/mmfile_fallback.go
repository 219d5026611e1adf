//go:build !unix

// Package mmfile provides platform-specific helpers for mapping bundle files
// and reserving the engine's fixed memory region.
package mmfile

import (
	"fmt"
	"os"
)

// Map reads the entire file when mmap is not available.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}

// Anon allocates a zeroed heap buffer when anonymous mappings are not available.
func Anon(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmfile: invalid region size %d", size)
	}
	return make([]byte, size), func() error { return nil }, nil
}
