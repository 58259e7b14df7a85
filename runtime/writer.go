package bson

import (
	"encoding/binary"
	"math"
	"strings"
)

// ownership discriminates what a Writer stands on: its own growable
// buffer, a caller-supplied fixed buffer, or a parent writer it borrows
// the root buffer from. ownerNone marks the invalid sentinel writers
// produced by bad construction parameters, Release and Close.
type ownership uint8

const (
	ownerNone ownership = iota
	ownerGrowable
	ownerFixed
	ownerChild
)

// Writer incrementally serializes typed key/value elements into a single
// contiguous buffer. The document header and terminator are rewritten on
// every append, so the buffer is always a readable document between
// appends.
//
// AddDocument/AddArray return a child Writer that shares the root buffer;
// while a child is open its parent is locked and rejects appends. Closing
// the child back-patches the parent's length field. Writers are not safe
// for concurrent use.
type Writer struct {
	owner  ownership
	buf    []byte  // root writers only; len(buf) is the capacity
	parent *Writer // child writers only
	offset int     // next byte offset within the root buffer
	locked bool
}

// NewWriter constructs a writer over a dynamically grown buffer.
func NewWriter() *Writer {
	w := &Writer{owner: ownerGrowable, buf: make([]byte, initialCapacity)}
	w.updateOffset(w, 4)
	return w
}

// NewFixedWriter constructs a writer over the caller's buffer, which is
// never reallocated: once full, appends fail with ErrBufferFull. Buffers
// shorter than MinDocumentSize or longer than MaxDocumentSize yield an
// invalid writer whose operations all fail with ErrWriterInvalid.
func NewFixedWriter(buf []byte) *Writer {
	if len(buf) < MinDocumentSize || len(buf) > MaxDocumentSize {
		return &Writer{owner: ownerNone, locked: true}
	}
	w := &Writer{owner: ownerFixed, buf: buf}
	w.updateOffset(w, 4)
	return w
}

// Valid reports whether the writer is usable at all. Invalid writers are
// inert: every operation on them fails without side effects.
func (w *Writer) Valid() bool { return w.owner != ownerNone }

// root walks the parent chain to the writer owning the buffer and
// reports the number of hops, which equals the count of open ancestor
// documents still needing their own terminator byte.
func (w *Writer) root() (*Writer, int) {
	target, depth := w, 0
	for target.owner == ownerChild {
		target = target.parent
		depth++
	}
	return target, depth
}

// headerOffset returns the position of this writer's own total-length
// field within the root buffer.
func (w *Writer) headerOffset() int {
	if w.owner == ownerChild {
		return w.parent.offset - 5
	}
	return 0
}

// updateOffset rewrites this writer's total-length field and terminator
// for the given new write offset. root must be the buffer-owning writer.
func (w *Writer) updateOffset(root *Writer, newOffset int) {
	h := w.headerOffset()
	binary.LittleEndian.PutUint32(root.buf[h:], uint32(newOffset+1-h))
	root.buf[newOffset] = 0x00
	w.offset = newOffset
}

// addElement appends the tag and name of a new element, reserves space
// payload bytes, updates the header and terminator, and returns the
// payload region for the caller to fill.
func (w *Writer) addElement(name string, t Type, space int) ([]byte, error) {
	if w.owner == ownerNone {
		return nil, ErrWriterInvalid
	}
	if w.locked {
		return nil, ErrWriterLocked
	}
	if len(name) == 0 {
		return nil, ErrEmptyName
	}
	if strings.IndexByte(name, 0) >= 0 {
		return nil, ErrInvalidName
	}

	root, depth := w.root()
	nameLen := len(name) + 1

	// One extra byte per open ancestor so every ancestor can still write
	// its own terminator without growing the buffer again.
	required := w.offset + 1 + nameLen + space + 1 + depth
	if required > MaxDocumentSize {
		return nil, ErrValueTooLarge
	}
	if required > len(root.buf) {
		if root.owner != ownerGrowable {
			return nil, ErrBufferFull
		}
		newCap := len(root.buf)
		for newCap < required {
			newCap *= 2
		}
		nb := make([]byte, newCap)
		copy(nb, root.buf)
		root.buf = nb
	}

	dest := w.offset
	root.buf[dest] = byte(t)
	copy(root.buf[dest+1:], name)
	root.buf[dest+nameLen] = 0x00
	payload := dest + 1 + nameLen
	w.updateOffset(root, payload+space)
	return root.buf[payload : payload+space], nil
}

// AddDouble appends a 64-bit IEEE-754 float element.
func (w *Writer) AddDouble(name string, value float64) error {
	dest, err := w.addElement(name, TypeDouble, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(dest, math.Float64bits(value))
	return nil
}

// AddString appends a string element. The value may contain NUL bytes;
// the encoded length field counts the trailing NUL the format requires.
func (w *Writer) AddString(name, value string) error {
	if len(value)+1 > math.MaxInt32 {
		return ErrValueTooLarge
	}
	dest, err := w.addElement(name, TypeString, len(value)+5)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(dest, uint32(len(value)+1))
	copy(dest[4:], value)
	dest[4+len(value)] = 0x00
	return nil
}

// AddBinary appends a binary element with the given subtype. The encoded
// length field counts the data only, not the subtype byte.
func (w *Writer) AddBinary(name string, data []byte, subtype Subtype) error {
	if len(data) > math.MaxInt32 {
		return ErrValueTooLarge
	}
	dest, err := w.addElement(name, TypeBinary, len(data)+5)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(dest, uint32(len(data)))
	dest[4] = byte(subtype)
	copy(dest[5:], data)
	return nil
}

// AddUndefined appends an undefined element.
func (w *Writer) AddUndefined(name string) error {
	_, err := w.addElement(name, TypeUndefined, 0)
	return err
}

// AddBool appends a boolean element.
func (w *Writer) AddBool(name string, value bool) error {
	dest, err := w.addElement(name, TypeBool, 1)
	if err != nil {
		return err
	}
	if value {
		dest[0] = 0x01
	} else {
		dest[0] = 0x00
	}
	return nil
}

// AddTrue appends a boolean true element.
func (w *Writer) AddTrue(name string) error { return w.AddBool(name, true) }

// AddFalse appends a boolean false element.
func (w *Writer) AddFalse(name string) error { return w.AddBool(name, false) }

// AddNull appends a null element.
func (w *Writer) AddNull(name string) error {
	_, err := w.addElement(name, TypeNull, 0)
	return err
}

// AddInt32 appends a 32-bit signed integer element.
func (w *Writer) AddInt32(name string, value int32) error {
	dest, err := w.addElement(name, TypeInt32, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(dest, uint32(value))
	return nil
}

// AddInt64 appends a 64-bit signed integer element.
func (w *Writer) AddInt64(name string, value int64) error {
	dest, err := w.addElement(name, TypeInt64, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(dest, uint64(value))
	return nil
}

// AddDocument appends an embedded document element and returns a child
// writer for its contents. The receiver is locked until the child is
// closed; only one child may be open at a time.
func (w *Writer) AddDocument(name string) (*Writer, error) {
	return w.addSubdocument(name, TypeDocument)
}

// AddArray appends an array element and returns a child writer for its
// contents. Array elements are conventionally named "0", "1", ...; this
// layer does not enforce or interpret the names.
func (w *Writer) AddArray(name string) (*Writer, error) {
	return w.addSubdocument(name, TypeArray)
}

func (w *Writer) addSubdocument(name string, t Type) (*Writer, error) {
	dest, err := w.addElement(name, t, 5)
	if err != nil {
		return nil, err
	}
	// Placeholder for the empty nested document; the real length is
	// back-patched when the child closes.
	binary.LittleEndian.PutUint32(dest, 5)
	dest[4] = 0x00
	w.locked = true
	return &Writer{owner: ownerChild, parent: w, offset: w.offset - 1}, nil
}

// AddDocumentFrom appends the fully-materialized bytes of an already
// complete writer as an embedded document element. Fails with
// ErrWriterLocked while the source still has an open child.
func (w *Writer) AddDocumentFrom(name string, sub *Writer) error {
	return w.addSubdocumentFrom(name, TypeDocument, sub)
}

// AddArrayFrom appends the bytes of an already complete writer as an
// array element.
func (w *Writer) AddArrayFrom(name string, sub *Writer) error {
	return w.addSubdocumentFrom(name, TypeArray, sub)
}

func (w *Writer) addSubdocumentFrom(name string, t Type, sub *Writer) error {
	src, err := sub.Bytes()
	if err != nil {
		return err
	}
	dest, err := w.addElement(name, t, len(src))
	if err != nil {
		return err
	}
	copy(dest, src)
	return nil
}

// Close finalizes the writer. Closing a child unlocks its parent and
// back-patches the parent's total-length field to cover the child's
// final bytes; each ancestor is patched exactly once, when its own child
// closes. Closing a writer that still has an open child returns
// ErrWriterLocked: descendants must be closed innermost-first.
//
// Closing a root writer releases its buffer reference and invalidates
// the writer; extract the bytes first with Bytes or Release.
func (w *Writer) Close() error {
	if w.owner == ownerNone {
		return ErrWriterInvalid
	}
	if w.locked {
		return ErrWriterLocked
	}
	w.locked = true
	if w.owner == ownerChild {
		root, _ := w.root()
		w.parent.locked = false
		w.parent.updateOffset(root, w.offset+1)
		w.parent = nil
	} else {
		w.buf = nil
	}
	w.owner = ownerNone
	return nil
}

// Bytes returns this writer's logical span within the shared buffer: its
// own total-length field through its own terminator. The returned slice
// aliases the writer's buffer and is invalidated by further appends.
// Fails with ErrWriterLocked while a child is open.
func (w *Writer) Bytes() ([]byte, error) {
	if w.owner == ownerNone {
		return nil, ErrWriterInvalid
	}
	if w.locked {
		return nil, ErrWriterLocked
	}
	root, _ := w.root()
	h := w.headerOffset()
	return root.buf[h : w.offset+1], nil
}

// Release transfers ownership of the document bytes to the caller and
// invalidates the writer. Only growable root writers can release.
func (w *Writer) Release() ([]byte, error) {
	if w.owner == ownerNone {
		return nil, ErrWriterInvalid
	}
	if w.locked {
		return nil, ErrWriterLocked
	}
	if w.owner != ownerGrowable {
		return nil, ErrNotReleasable
	}
	b := w.buf[:w.offset+1]
	w.owner = ownerNone
	w.buf = nil
	w.offset = 0
	w.locked = true
	return b, nil
}
