package bson

import "encoding/binary"

// iterState is the explicit state of the parsing state machine. The
// failed/ended distinction matters: Ended means the terminator byte was
// reached cleanly, Failed means the buffer was structurally malformed.
type iterState uint8

const (
	iterFailed iterState = iota
	iterEnded
	iterInitial
	iterPositioned
)

// Iter walks a document buffer element by element, validating structural
// bounds as it advances. It never reads past the buffer handed to the
// Reader, and malformed input degrades to the failed state rather than
// an out-of-bounds access or panic.
//
// Usage follows the scanner pattern:
//
//	it := r.Iter()
//	for it.Next() {
//		e := it.Element()
//		...
//	}
//	if it.Fail() {
//		// document was malformed
//	}
type Iter struct {
	buf   []byte
	cur   Element
	next  int // offset of the next unparsed element
	end   int // offset one past the terminator byte
	state iterState
}

// newIter validates the document framing and positions the iterator
// before the first element. A nil buffer, a missing length prefix, or a
// declared length below 4 or beyond the buffer puts the iterator in the
// failed state immediately.
func newIter(r Reader) *Iter {
	it := &Iter{state: iterFailed}
	if r.buf == nil || len(r.buf) < 4 {
		return it
	}
	total := int(int32(binary.LittleEndian.Uint32(r.buf)))
	if total < 4 || total > len(r.buf) {
		return it
	}
	it.buf = r.buf
	it.next = 4
	it.end = total
	it.state = iterInitial
	return it
}

// Next advances to the next element. It returns false when the document
// ends, cleanly or not; check Fail to distinguish.
func (it *Iter) Next() bool {
	switch it.state {
	case iterFailed, iterEnded:
		return false
	}
	return it.advance()
}

// Element returns the element the iterator is positioned at. It returns
// an invalid Element when the iterator is not positioned.
func (it *Iter) Element() Element { return it.cur }

// Fail reports whether iteration stopped because the document was
// malformed, as opposed to reaching the terminator cleanly.
func (it *Iter) Fail() bool { return it.state == iterFailed }

// fail clears the current element and records abnormal termination.
func (it *Iter) fail() bool {
	it.cur = Element{}
	it.state = iterFailed
	return false
}

// advance is the core transition function: read the type tag, delimit
// the name, then skip the payload according to the tag's fixed or
// embedded-length rule, bounds-checking every step against the end of
// the document.
func (it *Iter) advance() bool {
	if it.next >= it.end {
		// Buffer ended without termination.
		return it.fail()
	}
	t := Type(it.buf[it.next])
	it.next++
	if t == 0x00 {
		// End of document.
		it.cur = Element{}
		it.state = iterEnded
		return false
	}

	nameStart := it.next
	for {
		if it.next >= it.end {
			// Abnormal termination in name.
			return it.fail()
		}
		if it.buf[it.next] == 0x00 {
			break
		}
		it.next++
	}
	name := it.buf[nameStart:it.next]
	it.next++
	dataStart := it.next

	switch t {
	case TypeDouble, TypeInt64:
		it.next += 8
		if it.next > it.end {
			return it.fail()
		}
	case TypeString:
		it.next += 4
		if it.next > it.end {
			return it.fail()
		}
		l := int(int32(binary.LittleEndian.Uint32(it.buf[dataStart:])))
		if l < 1 {
			return it.fail()
		}
		it.next += l
		if it.next > it.end || it.buf[it.next-1] != 0x00 {
			return it.fail()
		}
	case TypeDocument, TypeArray:
		if dataStart+4 > it.end {
			return it.fail()
		}
		l := int(int32(binary.LittleEndian.Uint32(it.buf[dataStart:])))
		if l < MinDocumentSize {
			return it.fail()
		}
		it.next = dataStart + l
		if it.next > it.end || it.buf[it.next-1] != 0x00 {
			return it.fail()
		}
	case TypeBinary:
		it.next += 4
		if it.next > it.end {
			return it.fail()
		}
		l := int(int32(binary.LittleEndian.Uint32(it.buf[dataStart:])))
		if l < 0 {
			return it.fail()
		}
		it.next += 1 + l
		if it.next > it.end {
			return it.fail()
		}
	case TypeUndefined, TypeNull:
		// Empty payload.
	case TypeBool:
		it.next++
		if it.next > it.end {
			return it.fail()
		}
	case TypeInt32:
		it.next += 4
		if it.next > it.end {
			return it.fail()
		}
	default:
		// Unsupported or corrupted type tag.
		return it.fail()
	}

	it.cur = Element{typ: t, name: name, data: it.buf[dataStart:it.next]}
	it.state = iterPositioned
	return true
}
