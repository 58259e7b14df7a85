package bson

import (
	"errors"
	"strconv"
)

var (
	// ErrWriterInvalid is returned by operations on a writer that never
	// owned a buffer (bad construction parameters) or that has already
	// been released or closed.
	ErrWriterInvalid = errors.New("bson: writer is invalid")

	// ErrWriterLocked is returned when appending to or extracting bytes
	// from a writer that has an open child subdocument, and when closing
	// a writer out of nesting order.
	ErrWriterLocked = errors.New("bson: writer is locked")

	// ErrEmptyName is returned when an element name is empty.
	ErrEmptyName = errors.New("bson: element name must not be empty")

	// ErrInvalidName is returned when an element name contains a NUL
	// byte, which the wire format cannot represent.
	ErrInvalidName = errors.New("bson: element name contains NUL")

	// ErrValueTooLarge is returned when a string or binary payload would
	// exceed the signed 32-bit length field.
	ErrValueTooLarge = errors.New("bson: value exceeds maximum document size")

	// ErrBufferFull is returned when an append does not fit in a
	// fixed-capacity buffer. The buffer is left unchanged.
	ErrBufferFull = errors.New("bson: fixed buffer exhausted")

	// ErrNotReleasable is returned by Release on writers that do not own
	// a growable buffer.
	ErrNotReleasable = errors.New("bson: writer does not own a releasable buffer")

	// ErrShortBytes is returned when a buffer is too short to contain
	// even the document length prefix.
	ErrShortBytes = errors.New("bson: too few bytes left to read document")

	// ErrMalformedDocument is returned when a traversal encounters a
	// structurally invalid document (bad lengths, missing terminators,
	// unterminated names, unknown type tags).
	ErrMalformedDocument = errors.New("bson: malformed document")

	// ErrMaxDepthExceeded is returned when nested documents exceed the
	// recursion limit during validation or conversion.
	ErrMaxDepthExceeded = errors.New("bson: max depth exceeded")
)

// PathError decorates a traversal error with the dotted path of element
// names leading to the failure.
type PathError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *PathError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + " at " + strconv.Quote(e.Path)
}

// Unwrap returns the underlying cause.
func (e *PathError) Unwrap() error { return e.Err }

// pathErr wraps err with a path component, extending an existing
// PathError rather than nesting.
func pathErr(err error, name string) error {
	if pe, ok := err.(*PathError); ok {
		if pe.Path == "" {
			return &PathError{Path: name, Err: pe.Err}
		}
		return &PathError{Path: name + "." + pe.Path, Err: pe.Err}
	}
	return &PathError{Path: name, Err: err}
}
