package main

import (
	"fmt"

	"github.com/joshuapare/glyphkit/font/alloc"
	"github.com/joshuapare/glyphkit/font/bundle"
	"github.com/joshuapare/glyphkit/internal/logging"
)

// inspectRegionSize backs the radix tables of a single inspected bundle.
const inspectRegionSize = 16 << 20

// openBundle opens one bundle for inspection with its own region. The
// returned close func releases both.
func openBundle(path string, offset int64) (*bundle.Bundle, func(), error) {
	region, err := alloc.NewBacked(inspectRegionSize)
	if err != nil {
		return nil, nil, fmt.Errorf("allocate region: %w", err)
	}
	printVerbose("Opening bundle: %s (offset %d)\n", path, offset)
	b, err := bundle.Open(path, offset, region, bundle.Options{Logger: logging.L})
	if err != nil {
		_ = region.Release()
		return nil, nil, fmt.Errorf("open bundle: %w", err)
	}
	return b, func() {
		_ = b.Close()
		_ = region.Release()
	}, nil
}
