// Package fontengine is the entry point for applications: an explicitly
// constructed Engine owns the region, the glyph cache and the font set, and
// is torn down once with Close.
//
// Typical use:
//
//	cfg, err := fontengine.LoadConfig("fonts.toml")
//	if err != nil {
//	    return err
//	}
//	eng, err := fontengine.New(cfg.Options())
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	node, err := eng.ResolveFallback('中')
package fontengine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joshuapare/glyphkit/font/alloc"
	"github.com/joshuapare/glyphkit/font/bundle"
	"github.com/joshuapare/glyphkit/font/fontset"
	"github.com/joshuapare/glyphkit/font/glyphcache"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// DefaultRegionSize is used when Options names neither Region nor RegionSize.
const DefaultRegionSize = 1 << 20

// Options configures New.
type Options struct {
	// Region is caller memory to carve the arena from. It must stay valid
	// and untouched until Close. When nil an anonymous mapping of RegionSize
	// bytes is used.
	Region []byte

	// RegionSize sizes the anonymous mapping.
	// Default: DefaultRegionSize
	RegionSize int

	// Mapped registers bundles through read-only memory mappings.
	Mapped bool

	// Bundles are registered in order during New.
	Bundles []BundleConfig

	// Fallback is the font search list used by ResolveFallback and Measure
	// when the requested font lacks a glyph.
	Fallback []types.FontID

	// Logger receives engine events. Default: discard
	Logger *slog.Logger
}

// Engine is one font engine instance.
type Engine struct {
	region   *alloc.Region
	owned    bool // region was mapped by New
	cache    *glyphcache.Cache
	set      *fontset.Manager
	fallback []types.FontID
	log      *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// New builds the region, initializes the cache and registers opts.Bundles.
// Any failure tears down what was built and returns the error.
func New(opts Options) (*Engine, error) {
	log := opts.Logger
	if log == nil {
		log = fontset.DefaultOptions().Logger
	}

	region, owned, err := newRegion(opts)
	if err != nil {
		return nil, err
	}

	cache := glyphcache.New()
	if err := cache.Init(region); err != nil {
		if owned {
			_ = region.Release()
		}
		return nil, err
	}

	e := &Engine{
		region:   region,
		owned:    owned,
		cache:    cache,
		set:      fontset.New(region, cache, &fontset.Options{Mapped: opts.Mapped, Logger: log}),
		fallback: append([]types.FontID(nil), opts.Fallback...),
		log:      log,
	}
	for _, b := range opts.Bundles {
		if err := e.set.RegisterBundle(b.Path, b.Offset); err != nil {
			_ = e.Close()
			return nil, fmt.Errorf("register %s: %w", b.Path, err)
		}
	}
	log.Info("font engine ready",
		"bundles", len(opts.Bundles),
		"regionUsed", region.UsedBytes(),
		"regionTotal", region.Capacity())
	return e, nil
}

func newRegion(opts Options) (*alloc.Region, bool, error) {
	if opts.Region != nil {
		r := alloc.New()
		r.SetRegion(opts.Region)
		if !r.Ready() {
			return nil, false, &types.Error{Kind: types.ErrKindCapacity, Msg: "caller region is empty"}
		}
		return r, false, nil
	}
	size := opts.RegionSize
	if size == 0 {
		size = DefaultRegionSize
	}
	r, err := alloc.NewBacked(size)
	if err != nil {
		return nil, false, &types.Error{Kind: types.ErrKindCapacity, Msg: fmt.Sprintf("map %d byte region", size), Err: err}
	}
	return r, true, nil
}

// Close closes every bundle and, when New mapped the region, unmaps it.
// Slices previously returned by the engine stay valid; nodes are copies.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		err := e.set.Close()
		if e.owned {
			err = errors.Join(err, e.region.Release())
		}
		e.closeErr = err
		e.log.Info("font engine closed")
	})
	return e.closeErr
}

// RegisterBundle appends a bundle to the fallback order at run time.
func (e *Engine) RegisterBundle(path string, start int64) error {
	return e.set.RegisterBundle(path, start)
}

// RegisterSource appends an already opened bundle source.
func (e *Engine) RegisterSource(name string, src bundle.Source, start int64) error {
	return e.set.RegisterSource(name, src, start)
}

// ResolveGlyph returns the node for unicode in fontID.
func (e *Engine) ResolveGlyph(unicode uint32, fontID types.FontID) (types.GlyphNode, error) {
	return e.set.ResolveGlyph(unicode, fontID)
}

// GetBitmap returns the bitmap for unicode in fontID.
func (e *Engine) GetBitmap(unicode uint32, fontID types.FontID) ([]byte, error) {
	return e.set.GetBitmap(unicode, fontID)
}

// ReadBitmap copies the bitmap for unicode in fontID into dst.
func (e *Engine) ReadBitmap(unicode uint32, fontID types.FontID, dst []byte) (int, error) {
	return e.set.ReadBitmap(unicode, fontID, dst)
}

// GetFontHeight returns the line height of fontID.
func (e *Engine) GetFontHeight(fontID types.FontID) (uint16, error) {
	return e.set.GetFontHeight(fontID)
}

// GetFontHeader returns the header of fontID.
func (e *Engine) GetFontHeader(fontID types.FontID) (types.FontHeader, error) {
	return e.set.GetFontHeader(fontID)
}

// GetFontVersion returns the version string of the bundle at path. start is
// only used when path is not registered.
func (e *Engine) GetFontVersion(path string, start int64) (string, error) {
	return e.set.GetFontVersion(path, start)
}

// Bundles lists registered bundles in fallback order.
func (e *Engine) Bundles() []fontset.BundleInfo { return e.set.Bundles() }

// Stats reports bundle count, cache traffic and region use.
func (e *Engine) Stats() fontset.Stats { return e.set.Stats() }

// Fallback returns the configured fallback font list.
func (e *Engine) Fallback() []types.FontID {
	return append([]types.FontID(nil), e.fallback...)
}

// ResolveFallback tries each font of fontIDs in order, or the configured
// fallback list when none are given, and returns the first hit.
func (e *Engine) ResolveFallback(unicode uint32, fontIDs ...types.FontID) (types.GlyphNode, error) {
	if len(fontIDs) == 0 {
		fontIDs = e.fallback
	}
	for _, id := range fontIDs {
		node, err := e.set.ResolveGlyph(unicode, id)
		if err == nil {
			return node, nil
		}
		if !errors.Is(err, types.ErrNotFound) {
			return types.GlyphNode{}, err
		}
	}
	return types.GlyphNode{}, &types.Error{
		Kind: types.ErrKindNotFound,
		Msg:  fmt.Sprintf("U+%04X not in fonts %v", unicode, fontIDs),
	}
}

// searchList returns fontID followed by the fallback fonts other than fontID.
func (e *Engine) searchList(fontID types.FontID) []types.FontID {
	ids := make([]types.FontID, 0, len(e.fallback)+1)
	ids = append(ids, fontID)
	for _, id := range e.fallback {
		if id != fontID {
			ids = append(ids, id)
		}
	}
	return ids
}
