// Package bson implements a minimal-overhead codec for flat-buffer BSON
// documents: length-prefixed, zero-terminated sequences of typed key/value
// elements.
//
// The package defines three "families" of types:
//   - Writer builds a document in place inside a single contiguous byte
//     buffer, including nested subdocuments that share the parent's buffer
//     and patch the parent's length fields on Close.
//   - Reader/Iter/Element walk a byte buffer lazily and expose typed,
//     bounds-checked views without copying or allocating.
//   - DumpBytes/ToJSON/FromJSON/ValidateDocument provide diagnostic and
//     interop entry points on top of the two.
//
// A document is laid out as
//
//	int32(LE) total_length | element* | 0x00
//
// and an element as
//
//	type tag (1 byte) | name (NUL-terminated) | payload
//
// Only the element types listed below are supported; the deprecated and
// MongoDB-internal tags are intentionally absent.
package bson

import "math"

// Type is a BSON element type tag.
type Type byte

// Supported element type tags.
const (
	TypeDouble    Type = 0x01
	TypeString    Type = 0x02
	TypeDocument  Type = 0x03
	TypeArray     Type = 0x04
	TypeBinary    Type = 0x05
	TypeUndefined Type = 0x06
	TypeBool      Type = 0x08
	TypeNull      Type = 0x0a
	TypeInt32     Type = 0x10
	TypeInt64     Type = 0x12
)

// String implements fmt.Stringer
func (t Type) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeDocument:
		return "document"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binary"
	case TypeUndefined:
		return "undefined"
	case TypeBool:
		return "bool"
	case TypeNull:
		return "null"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	default:
		return "<invalid>"
	}
}

// Subtype is a BSON binary subtype tag.
type Subtype byte

// Binary subtypes.
const (
	SubtypeGeneric     Subtype = 0x00
	SubtypeFunction    Subtype = 0x01
	SubtypeBinaryOld   Subtype = 0x02
	SubtypeUUIDOld     Subtype = 0x03
	SubtypeUUID        Subtype = 0x04
	SubtypeMD5         Subtype = 0x05
	SubtypeEncrypted   Subtype = 0x06
	SubtypeUserDefined Subtype = 0x80
)

// UnsafeStringDecode controls whether Element.StringValue and Element.Name
// convert zero-copy using UnsafeString instead of allocating. Only
// enable it when the source buffer outlives every string read from it
// and is never mutated. Disabled by default.
var UnsafeStringDecode = false

const (
	// MinDocumentSize is the size of an empty document: the 4-byte
	// length prefix plus the terminating zero byte.
	MinDocumentSize = 5

	// MaxDocumentSize is the largest representable document, bounded by
	// the signed 32-bit length prefix.
	MaxDocumentSize = math.MaxInt32

	// initialCapacity is the starting buffer size for dynamic writers.
	initialCapacity = 128

	// recursionLimit bounds the nesting depth of dynamic traversals
	// (validation, dump, JSON conversion). This limits the call depth on
	// adversarial data trying to exhaust the stack.
	recursionLimit = 100000
)
