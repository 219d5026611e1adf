// Package fontset owns the ordered list of registered glyph bundles and
// answers glyph queries through the shared glyph cache.
//
// Registration order is the fallback order: on a cache miss the bundles are
// asked in the order they were registered and the first hit wins. The hit is
// cached together with the index of the bundle that produced it, so a later
// bitmap read goes back to that exact bundle even when another bundle reuses
// the same numeric font id.
//
// Concurrency: one mutex serializes every public method, including the file
// reads done on a cache miss. Methods never call each other while holding
// the lock; shared work lives in unexported helpers that assume it is held.
package fontset

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/joshuapare/glyphkit/font/alloc"
	"github.com/joshuapare/glyphkit/font/bundle"
	"github.com/joshuapare/glyphkit/font/glyphcache"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// MaxBundles is the number of bundles a Manager can hold; cache entries
// store the bundle index as a uint16.
const MaxBundles = math.MaxUint16

// Manager is the font set manager.
type Manager struct {
	mu      sync.Mutex
	region  *alloc.Region
	cache   *glyphcache.Cache
	bundles []*bundle.Bundle
	mapped  bool
	log     *slog.Logger
	closed  bool
}

// BundleInfo describes one registered bundle.
type BundleInfo struct {
	Index   int
	Name    string
	Path    string
	Version string
	Fonts   []types.FontMeta
}

// Stats is a snapshot of manager state.
type Stats struct {
	Bundles     int
	Cache       glyphcache.Stats
	RegionUsed  int
	RegionTotal int
}

// New returns an empty manager drawing bundle index memory from region and
// caching results in cache. The cache must be initialized before the first
// RegisterBundle. opts may be nil.
func New(region *alloc.Region, cache *glyphcache.Cache, opts *Options) *Manager {
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.Logger
	if log == nil {
		log = DefaultOptions().Logger
	}
	return &Manager{
		region: region,
		cache:  cache,
		mapped: opts.Mapped,
		log:    log,
	}
}

// RegisterBundle opens the bundle starting at byte start of the file at path
// and appends it to the fallback order. The path is the bundle's name.
//
// It fails with types.ErrNotReady when the cache is not initialized and with
// types.ErrDuplicate when a bundle of the same name is registered. Any
// failure leaves the manager unchanged.
func (m *Manager) RegisterBundle(path string, start int64) error {
	return m.register(path, nil, func(opts bundle.Options) (*bundle.Bundle, error) {
		if m.mapped {
			return bundle.OpenMapped(path, start, m.region, opts)
		}
		return bundle.Open(path, start, m.region, opts)
	})
}

// RegisterSource is RegisterBundle for an already opened source. The
// manager owns src from here on and closes it if registration fails.
func (m *Manager) RegisterSource(name string, src bundle.Source, start int64) error {
	return m.register(name, src, func(opts bundle.Options) (*bundle.Bundle, error) {
		return bundle.NewReader(src, start, m.region, opts)
	})
}

func (m *Manager) register(name string, src bundle.Source, open func(bundle.Options) (*bundle.Bundle, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reject := func(err error) error {
		if src != nil {
			_ = src.Close()
		}
		m.log.Warn("bundle rejected", "name", name, "err", err)
		return err
	}

	switch {
	case m.closed:
		return reject(types.ErrClosed)
	case !m.cache.Ready():
		return reject(types.ErrNotReady)
	case len(m.bundles) >= MaxBundles:
		return reject(&types.Error{Kind: types.ErrKindCapacity, Msg: fmt.Sprintf("%d bundles registered", len(m.bundles))})
	}
	for _, b := range m.bundles {
		if b.MatchesName(name) {
			return reject(&types.Error{Kind: types.ErrKindDuplicate, Msg: fmt.Sprintf("bundle %q already registered", name)})
		}
	}

	b, err := open(bundle.Options{Name: name, Logger: m.log})
	if err != nil {
		m.log.Warn("bundle rejected", "name", name, "err", err)
		return err
	}
	m.bundles = append(m.bundles, b)
	m.log.Info("bundle registered",
		"name", b.Name(),
		"index", len(m.bundles)-1,
		"version", b.Version(),
		"fonts", len(b.FontIDs()),
		"regionUsed", m.region.UsedBytes())
	return nil
}

// ResolveGlyph returns the node for (unicode, fontID). The cache is
// consulted first; on a miss the bundles are scanned in registration order
// and the first hit is cached and returned with FontID set to fontID.
//
// A glyph no bundle has yields types.ErrNotFound. Bundles that fail with a
// format or I/O error are skipped; if none has the glyph the last such
// failure is attached as the cause of the not-found error.
func (m *Manager) ResolveGlyph(unicode uint32, fontID types.FontID) (types.GlyphNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.resolve(unicode, fontID)
	if err != nil {
		return types.GlyphNode{}, err
	}
	return e.Node, nil
}

func (m *Manager) resolve(unicode uint32, fontID types.FontID) (glyphcache.Entry, error) {
	if m.closed {
		return glyphcache.Entry{}, types.ErrClosed
	}
	if unicode == 0 {
		return glyphcache.Entry{}, &types.Error{Kind: types.ErrKindNotFound, Msg: "code point 0 is never indexed"}
	}
	if e, ok := m.cache.Lookup(unicode, fontID); ok {
		return e, nil
	}

	var cause error
	for i, b := range m.bundles {
		node, err := b.LookupGlyph(unicode, fontID)
		if err == nil {
			e := glyphcache.Entry{Node: node, Bundle: uint16(i)}
			e.Node.FontID = fontID
			m.cache.Store(e)
			m.log.Debug("glyph resolved", "unicode", unicode, "font", fontID, "bundle", b.Name())
			return e, nil
		}
		if !errors.Is(err, types.ErrNotFound) {
			m.log.Warn("bundle lookup failed", "bundle", b.Name(), "unicode", unicode, "font", fontID, "err", err)
			cause = err
		}
	}
	return glyphcache.Entry{}, &types.Error{
		Kind: types.ErrKindNotFound,
		Msg:  fmt.Sprintf("U+%04X not in font %d of any bundle", unicode, fontID),
		Err:  cause,
	}
}

// GetBitmap resolves the glyph and returns a copy of its bitmap read from
// the bundle that produced the node.
func (m *Manager) GetBitmap(unicode uint32, fontID types.FontID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.resolve(unicode, fontID)
	if err != nil {
		return nil, err
	}
	out := make([]byte, e.Node.BitmapSize())
	n, err := m.bundles[e.Bundle].ReadBitmap(e.Node, out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// ReadBitmap is GetBitmap into a caller buffer, which must hold at least
// the node's bitmap size.
func (m *Manager) ReadBitmap(unicode uint32, fontID types.FontID, dst []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.resolve(unicode, fontID)
	if err != nil {
		return 0, err
	}
	return m.bundles[e.Bundle].ReadBitmap(e.Node, dst)
}

// GetFontHeader returns the header of fontID from the first bundle that has it.
func (m *Manager) GetFontHeader(fontID types.FontID) (types.FontHeader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.FontHeader{}, types.ErrClosed
	}
	for _, b := range m.bundles {
		if h, err := b.GetFontHeader(fontID); err == nil {
			return h, nil
		}
	}
	return types.FontHeader{}, &types.Error{Kind: types.ErrKindNotFound, Msg: fmt.Sprintf("font %d not in any bundle", fontID)}
}

// GetFontHeight returns the line height of fontID from the first bundle
// that has it.
func (m *Manager) GetFontHeight(fontID types.FontID) (uint16, error) {
	h, err := m.GetFontHeader(fontID)
	if err != nil {
		return 0, err
	}
	return h.FontHeight, nil
}

// GetFontVersion returns the version of the first registered bundle named
// path. A path that is not registered is read from storage directly, with
// its bundle header at byte offset start.
func (m *Manager) GetFontVersion(path string, start int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", types.ErrClosed
	}
	for _, b := range m.bundles {
		if b.MatchesName(path) {
			return b.Version(), nil
		}
	}
	return bundle.ReadVersion(path, start)
}

// Bundles lists the registered bundles in fallback order.
func (m *Manager) Bundles() []BundleInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]BundleInfo, len(m.bundles))
	for i, b := range m.bundles {
		out[i] = BundleInfo{
			Index:   i,
			Name:    b.Name(),
			Path:    b.Path(),
			Version: b.Version(),
			Fonts:   b.Fonts(),
		}
	}
	return out
}

// Stats returns a snapshot of bundle count, cache counters and region use.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		Bundles:     len(m.bundles),
		Cache:       m.cache.Stats(),
		RegionUsed:  m.region.UsedBytes(),
		RegionTotal: m.region.Capacity(),
	}
}

// Close closes every bundle. The region and cache are left to their owner.
// Later calls return nil.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	var errs []error
	for _, b := range m.bundles {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.bundles = nil
	m.log.Info("font set closed")
	return errors.Join(errs...)
}
