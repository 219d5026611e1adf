package bundle

import (
	"bytes"
	"io"
	"log/slog"
	"os"

	"github.com/joshuapare/glyphkit/font/alloc"
	"github.com/joshuapare/glyphkit/internal/mmfile"
)

// Source is the storage a bundle is read from. *os.File satisfies it.
type Source interface {
	io.ReaderAt
	io.Closer
}

// Options controls how a bundle is opened.
type Options struct {
	// Name is the registration name used by MatchesName. Empty selects the
	// file path. Names longer than format.MaxNameLen keep their trailing bytes.
	Name string

	// Logger receives open/verify events. Nil discards them.
	Logger *slog.Logger
}

// Open opens the bundle starting at byte start of the file at path.
func Open(path string, start int64, region *alloc.Region, opts Options) (*Bundle, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	if opts.Name == "" {
		opts.Name = path
	}
	b, err := newBundle(f, path, start, region, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return b, nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapIOErr("open bundle "+path, err)
	}
	return f, nil
}

// OpenMapped is Open over a read-only memory mapping of the file.
func OpenMapped(path string, start int64, region *alloc.Region, opts Options) (*Bundle, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, wrapIOErr("map bundle "+path, err)
	}
	if opts.Name == "" {
		opts.Name = path
	}
	src := &mappedSource{Reader: bytes.NewReader(data), unmap: unmap}
	b, err := newBundle(src, path, start, region, opts)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return b, nil
}

// NewReader opens a bundle from an arbitrary source. The bundle takes
// ownership of src and closes it on Close, or immediately when opening fails.
func NewReader(src Source, start int64, region *alloc.Region, opts Options) (*Bundle, error) {
	b, err := newBundle(src, "", start, region, opts)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return b, nil
}

// BytesSource adapts an in-memory bundle image to Source.
func BytesSource(data []byte) Source {
	return &mappedSource{Reader: bytes.NewReader(data)}
}

type mappedSource struct {
	*bytes.Reader
	unmap func() error
}

func (m *mappedSource) Close() error {
	if m.unmap == nil {
		return nil
	}
	err := m.unmap()
	m.unmap = nil
	return err
}
