package bson

import (
	"encoding/binary"
	"math"
)

// Element is a cursor to one key/value pair inside a document buffer.
// It carries the type tag plus zero-copy views of the name and payload;
// it never owns memory and must not outlive the buffer it points into.
//
// Elements are produced by Iter and Reader.Find, which bounds-check the
// payload before handing the element out. The typed accessors therefore
// read the payload without re-validating it.
type Element struct {
	typ  Type
	name []byte // name bytes, NUL excluded
	data []byte // payload span, exactly as validated by the iterator
}

// Valid reports whether the element references a key/value pair. The
// zero Element (and the result of a failed Find) is invalid; all typed
// accessors on it report a mismatch.
func (e Element) Valid() bool { return e.name != nil }

// Type returns the element's type tag, or 0 for an invalid element.
func (e Element) Type() Type {
	if !e.Valid() {
		return 0
	}
	return e.typ
}

// Name returns the element name. It allocates unless UnsafeStringDecode
// is enabled; use NameBytes on hot paths.
func (e Element) Name() string {
	if UnsafeStringDecode {
		return UnsafeString(e.name)
	}
	return string(e.name)
}

// NameBytes returns the element name as a view into the source buffer.
func (e Element) NameBytes() []byte { return e.name }

// IsDouble reports whether the element holds a double.
func (e Element) IsDouble() bool { return e.Valid() && e.typ == TypeDouble }

// IsString reports whether the element holds a string.
func (e Element) IsString() bool { return e.Valid() && e.typ == TypeString }

// IsDocument reports whether the element holds an embedded document.
func (e Element) IsDocument() bool { return e.Valid() && e.typ == TypeDocument }

// IsArray reports whether the element holds an array.
func (e Element) IsArray() bool { return e.Valid() && e.typ == TypeArray }

// IsBinary reports whether the element holds binary data.
func (e Element) IsBinary() bool { return e.Valid() && e.typ == TypeBinary }

// IsUndefined reports whether the element is undefined.
func (e Element) IsUndefined() bool { return e.Valid() && e.typ == TypeUndefined }

// IsBool reports whether the element holds a boolean.
func (e Element) IsBool() bool { return e.Valid() && e.typ == TypeBool }

// IsNull reports whether the element is null.
func (e Element) IsNull() bool { return e.Valid() && e.typ == TypeNull }

// IsNullOrUndefined reports whether the element is null or undefined.
func (e Element) IsNullOrUndefined() bool {
	return e.Valid() && (e.typ == TypeNull || e.typ == TypeUndefined)
}

// IsInt32 reports whether the element holds an int32.
func (e Element) IsInt32() bool { return e.Valid() && e.typ == TypeInt32 }

// IsInt64 reports whether the element holds an int64.
func (e Element) IsInt64() bool { return e.Valid() && e.typ == TypeInt64 }

// IsInteger reports whether the element holds an int32 or int64.
func (e Element) IsInteger() bool {
	return e.Valid() && (e.typ == TypeInt32 || e.typ == TypeInt64)
}

// IsNumber reports whether the element holds a double, int32 or int64.
func (e Element) IsNumber() bool {
	return e.Valid() && (e.typ == TypeDouble || e.typ == TypeInt32 || e.typ == TypeInt64)
}

// Double returns the double value. ok is false on type mismatch.
func (e Element) Double() (value float64, ok bool) {
	if !e.IsDouble() {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(e.data)), true
}

// AsDouble returns the double value, or def on type mismatch.
func (e Element) AsDouble(def float64) float64 {
	if v, ok := e.Double(); ok {
		return v
	}
	return def
}

// StringValue returns the string value with the trailing NUL stripped.
// The value may itself contain NUL bytes. ok is false on type mismatch.
func (e Element) StringValue() (value string, ok bool) {
	b, ok := e.StringBytes()
	if !ok {
		return "", false
	}
	if UnsafeStringDecode {
		return UnsafeString(b), true
	}
	return string(b), true
}

// StringBytes returns the string value as a view into the source buffer.
func (e Element) StringBytes() ([]byte, bool) {
	if !e.IsString() {
		return nil, false
	}
	l := int(int32(binary.LittleEndian.Uint32(e.data)))
	return e.data[4 : 4+l-1], true
}

// AsString returns the string value, or def on type mismatch.
func (e Element) AsString(def string) string {
	if v, ok := e.StringValue(); ok {
		return v
	}
	return def
}

// Binary returns the binary payload and its subtype as views into the
// source buffer. ok is false on type mismatch.
func (e Element) Binary() (data []byte, subtype Subtype, ok bool) {
	if !e.IsBinary() {
		return nil, 0, false
	}
	l := int(int32(binary.LittleEndian.Uint32(e.data)))
	return e.data[5 : 5+l], Subtype(e.data[4]), true
}

// AsBinary returns the binary payload, or def on type mismatch.
func (e Element) AsBinary(def []byte) []byte {
	if v, _, ok := e.Binary(); ok {
		return v
	}
	return def
}

// Bool returns the boolean value. ok is false on type mismatch.
func (e Element) Bool() (value, ok bool) {
	if !e.IsBool() {
		return false, false
	}
	return e.data[0] != 0x00, true
}

// AsBool returns the boolean value, or def on type mismatch.
func (e Element) AsBool(def bool) bool {
	if v, ok := e.Bool(); ok {
		return v
	}
	return def
}

// Int32 returns the int32 value. ok is false on type mismatch.
func (e Element) Int32() (value int32, ok bool) {
	if !e.IsInt32() {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(e.data)), true
}

// AsInt32 returns the int32 value, or def on type mismatch.
func (e Element) AsInt32(def int32) int32 {
	if v, ok := e.Int32(); ok {
		return v
	}
	return def
}

// Int64 returns the int64 value. ok is false on type mismatch.
func (e Element) Int64() (value int64, ok bool) {
	if !e.IsInt64() {
		return 0, false
	}
	return int64(binary.LittleEndian.Uint64(e.data)), true
}

// AsInt64 returns the int64 value, or def on type mismatch.
func (e Element) AsInt64(def int64) int64 {
	if v, ok := e.Int64(); ok {
		return v
	}
	return def
}

// Int returns an int32 or int64 value widened to 64 bits.
func (e Element) Int() (value int64, ok bool) {
	switch e.Type() {
	case TypeInt32:
		return int64(int32(binary.LittleEndian.Uint32(e.data))), true
	case TypeInt64:
		return int64(binary.LittleEndian.Uint64(e.data)), true
	default:
		return 0, false
	}
}

// AsInt returns the widened integer value, or def on type mismatch.
func (e Element) AsInt(def int64) int64 {
	if v, ok := e.Int(); ok {
		return v
	}
	return def
}

// Number returns a double, int32 or int64 value widened to float64.
func (e Element) Number() (value float64, ok bool) {
	switch e.Type() {
	case TypeDouble:
		return math.Float64frombits(binary.LittleEndian.Uint64(e.data)), true
	case TypeInt32:
		return float64(int32(binary.LittleEndian.Uint32(e.data))), true
	case TypeInt64:
		return float64(int64(binary.LittleEndian.Uint64(e.data))), true
	default:
		return 0, false
	}
}

// AsNumber returns the widened numeric value, or def on type mismatch.
func (e Element) AsNumber(def float64) float64 {
	if v, ok := e.Number(); ok {
		return v
	}
	return def
}

// AsDocument returns a Reader over the embedded document bytes, or def
// if the element is not a document.
func (e Element) AsDocument(def Reader) Reader {
	return e.asSubdocument(def, TypeDocument)
}

// AsArray returns a Reader over the array bytes, or def if the element
// is not an array.
func (e Element) AsArray(def Reader) Reader {
	return e.asSubdocument(def, TypeArray)
}

func (e Element) asSubdocument(def Reader, t Type) Reader {
	if e.Type() != t {
		return def
	}
	return Reader{buf: e.data}
}

// Truthy reports whether the element's value is truthy: non-zero,
// non-NaN doubles; non-empty strings; documents, arrays and binaries
// always; true booleans; non-zero integers. Undefined, null and invalid
// elements are always falsy.
func (e Element) Truthy() bool {
	switch e.Type() {
	case TypeDouble:
		f := math.Float64frombits(binary.LittleEndian.Uint64(e.data))
		return !math.IsNaN(f) && f != 0
	case TypeString:
		return int32(binary.LittleEndian.Uint32(e.data)) > 1
	case TypeDocument, TypeArray, TypeBinary:
		return true
	case TypeBool:
		return e.data[0] != 0x00
	case TypeInt32:
		return int32(binary.LittleEndian.Uint32(e.data)) != 0
	case TypeInt64:
		return int64(binary.LittleEndian.Uint64(e.data)) != 0
	default:
		return false
	}
}

// Falsy reports the negation of Truthy.
func (e Element) Falsy() bool { return !e.Truthy() }
