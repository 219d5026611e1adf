package types

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat    ErrKind = iota // bad magic, corrupt header, kernOff <= dataOff
	ErrKindCapacity                 // region exhausted, fontNum/fontId over the limit
	ErrKindIO                       // short read, seek or open failure
	ErrKindNotFound                 // glyph or font absent (a normal outcome)
	ErrKindDuplicate                // bundle name already registered
	ErrKindState                    // invalid operation for current state (e.g., empty builder)
	ErrKindNotReady                 // glyph cache not initialized
	ErrKindClosed                   // engine, font set or bundle already closed
)

// String returns the lowercase category name.
func (k ErrKind) String() string {
	switch k {
	case ErrKindFormat:
		return "format"
	case ErrKindCapacity:
		return "capacity"
	case ErrKindIO:
		return "io"
	case ErrKindNotFound:
		return "not found"
	case ErrKindDuplicate:
		return "duplicate"
	case ErrKindState:
		return "state"
	case ErrKindNotReady:
		return "not ready"
	case ErrKindClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same kind, so that
// errors.Is(err, types.ErrNotFound) matches every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrKind, bool) {
	for err != nil {
		if te, ok := err.(*Error); ok {
			return te.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0, false
		}
		err = u.Unwrap()
	}
	return 0, false
}

// Sentinels commonly returned by implementations. Compare with errors.Is.
var (
	// ErrFormat indicates a malformed bundle (bad magic, inconsistent header).
	ErrFormat = &Error{Kind: ErrKindFormat, Msg: "malformed font bundle"}
	// ErrCorruptNode indicates a glyph node whose bitmap range is empty or inverted.
	ErrCorruptNode = &Error{Kind: ErrKindFormat, Msg: "corrupt glyph node"}
	// ErrCapacity indicates a configured limit or the region was exceeded.
	ErrCapacity = &Error{Kind: ErrKindCapacity, Msg: "capacity exceeded"}
	// ErrIO indicates the backing storage failed or returned short data.
	ErrIO = &Error{Kind: ErrKindIO, Msg: "font bundle i/o"}
	// ErrNotFound indicates a missing glyph or font.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrDuplicate indicates a bundle with the same name is already registered.
	ErrDuplicate = &Error{Kind: ErrKindDuplicate, Msg: "font bundle already registered"}
	// ErrNotReady indicates the glyph cache has not been initialized.
	ErrNotReady = &Error{Kind: ErrKindNotReady, Msg: "glyph cache not initialized"}
	// ErrClosed indicates use of a torn-down engine or bundle.
	ErrClosed = &Error{Kind: ErrKindClosed, Msg: "font engine closed"}
)
