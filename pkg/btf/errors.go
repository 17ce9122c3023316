package btf

// ErrorKind is a closed taxonomy of the ways BTF decoding or querying can
// fail. Keeping this set closed (rather than wrapping arbitrary errors)
// lets callers branch on Kind() without string matching.
type ErrorKind int

const (
	// ErrIO wraps a failure from the underlying Source.
	ErrIO ErrorKind = iota

	// ErrEOF means a read started at or past the end of the available
	// bytes.
	ErrEOF

	// ErrInvalidOffset means a read started inside the available bytes
	// but would run past their end, or an Offset addition overflowed.
	ErrInvalidOffset

	// ErrInvalidMagic means the file header's magic number matched
	// neither the little- nor big-endian BTF magic value.
	ErrInvalidMagic

	// ErrInvalidBTFKind means a type header's kind field did not
	// correspond to any known BTF_KIND_* value.
	ErrInvalidBTFKind

	// ErrInvalidStringOffset means a name offset pointed outside the
	// string section.
	ErrInvalidStringOffset

	// ErrInvalidString means a string was missing its terminating NUL or
	// contained invalid UTF-8.
	ErrInvalidString

	// ErrUnsupportedType means a construction step encountered a kind
	// this library has no decoder for.
	ErrUnsupportedType

	// ErrInvalidTypeHeaderAttribute means a size computed from type
	// fields overflowed (an array's total size or an indexed element's
	// offset). Per-kind decoders do not check that a type's trailing data
	// fits inside the type section.
	ErrInvalidTypeHeaderAttribute

	// ErrInvalidTypeSectionOffset means the file header's type section
	// bounds overflow, or a type header would run past the type section
	// end.
	ErrInvalidTypeSectionOffset

	// ErrInvalidTypePath means a member path string failed to lex or
	// named a component a query could not resolve.
	ErrInvalidTypePath

	// ErrInvalidTypeID means a type id was referenced that does not
	// exist in the graph.
	ErrInvalidTypeID

	// ErrNotSized means SizeOf was asked for the size of a type that has
	// no well-defined size (e.g. Func, a non-completed Fwd).
	ErrNotSized

	// ErrUnexpectedBitfield means an offset computation walked into a
	// bitfield member where a byte-aligned continuation was required.
	ErrUnexpectedBitfield
)

func (k ErrorKind) String() string {
	switch k {
	case ErrIO:
		return "IOError"
	case ErrEOF:
		return "EOF"
	case ErrInvalidOffset:
		return "InvalidOffset"
	case ErrInvalidMagic:
		return "InvalidMagic"
	case ErrInvalidBTFKind:
		return "InvalidBTFKind"
	case ErrInvalidStringOffset:
		return "InvalidStringOffset"
	case ErrInvalidString:
		return "InvalidString"
	case ErrUnsupportedType:
		return "UnsupportedType"
	case ErrInvalidTypeHeaderAttribute:
		return "InvalidTypeHeaderAttribute"
	case ErrInvalidTypeSectionOffset:
		return "InvalidTypeSectionOffset"
	case ErrInvalidTypePath:
		return "InvalidTypePath"
	case ErrInvalidTypeID:
		return "InvalidTypeID"
	case ErrNotSized:
		return "NotSized"
	case ErrUnexpectedBitfield:
		return "UnexpectedBitfield"
	default:
		return "Unknown"
	}
}

// Error is the library's public error type. It is always one of the
// ErrorKind values above, never an opaque wrapped error, so construction
// and query failures can be distinguished programmatically.
type Error struct {
	kind    ErrorKind
	message string
}

// NewError builds an Error of the given kind carrying message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string {
	return e.message
}

// Kind returns the closed error category.
func (e *Error) Kind() ErrorKind {
	return e.kind
}

// Message returns the human-readable detail string.
func (e *Error) Message() string {
	return e.message
}
