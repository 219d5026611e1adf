package bundle

import (
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/glyphkit/font/alloc"
	"github.com/joshuapare/glyphkit/internal/format"
	"github.com/joshuapare/glyphkit/pkg/types"
)

func wrapFormatErr(msg string, err error) error {
	switch {
	case errors.Is(err, format.ErrFontCount), errors.Is(err, format.ErrFontID):
		return &types.Error{Kind: types.ErrKindCapacity, Msg: msg, Err: err}
	case errors.Is(err, alloc.ErrNoSpace), errors.Is(err, alloc.ErrNoRegion),
		errors.Is(err, alloc.ErrReleased), errors.Is(err, alloc.ErrBadSize):
		return &types.Error{Kind: types.ErrKindCapacity, Msg: msg, Err: err}
	default:
		return &types.Error{Kind: types.ErrKindFormat, Msg: msg, Err: err}
	}
}

func wrapIOErr(msg string, err error) error {
	return &types.Error{Kind: types.ErrKindIO, Msg: msg, Err: err}
}

func notFound(format string, args ...any) error {
	return &types.Error{Kind: types.ErrKindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// readFull reads exactly len(p) bytes at off. ReadAt may legally return
// io.EOF together with a full buffer at the end of the file.
func readFull(src io.ReaderAt, p []byte, off int64) error {
	n, err := src.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("read %d bytes at 0x%X (got %d): %w", len(p), off, n, err)
}
