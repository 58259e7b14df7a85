package bson

import "encoding/binary"

// Reader is an immutable, non-owning view over a byte buffer believed to
// contain a document. The zero Reader is invalid and usable as the
// "no value" default for AsDocument/AsArray.
type Reader struct {
	buf []byte
}

// NewReader constructs a Reader over the provided buffer. The buffer is
// not copied and must outlive the Reader and every Element derived from
// it. No validation happens here; malformed buffers surface as a failed
// iterator.
func NewReader(b []byte) Reader { return Reader{buf: b} }

// Valid reports whether the reader references a buffer at all.
func (r Reader) Valid() bool { return r.buf != nil }

// Bytes returns the underlying buffer view.
func (r Reader) Bytes() []byte { return r.buf }

// QuerySize returns the declared total length of the document starting
// at b, or -1 if fewer than 4 bytes are available. Callers must verify
// len(b) covers the returned size before trusting the buffer as a
// complete document.
func QuerySize(b []byte) int {
	if len(b) < 4 {
		return -1
	}
	return int(int32(binary.LittleEndian.Uint32(b)))
}

// Iter returns an iterator positioned before the first element.
func (r Reader) Iter() *Iter { return newIter(r) }

// Find scans the document for the first element with the given name and
// returns it. ok is false if no such element exists or the document is
// malformed before the match.
func (r Reader) Find(name string) (Element, bool) {
	it := r.Iter()
	for it.Next() {
		e := it.Element()
		if string(e.NameBytes()) == name {
			return e, true
		}
	}
	return Element{}, false
}
