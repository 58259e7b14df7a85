package bson

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// DumpBytes renders the document in b in diagnostic notation:
//
//	{"a": 1.5, "s": "hi", "bin": h'cafe', "u": undefined, "d": {...}}
//
// Arrays render as bracketed lists; their element names are ignored,
// matching the format's treatment of array indices. Binary payloads with
// a non-generic subtype carry it as a suffix: h'00ff'(0x80).
//
// Malformed documents yield ErrMalformedDocument decorated with the path
// of the failing element.
func DumpBytes(b []byte) (string, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	if err := dumpDocument(bb, b, false, 0); err != nil {
		return "", err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return string(out), nil
}

func dumpDocument(buf *ByteBuffer, b []byte, asArray bool, depth int) error {
	if depth > recursionLimit {
		return ErrMaxDepthExceeded
	}
	opener, closer := "{", "}"
	if asArray {
		opener, closer = "[", "]"
	}
	buf.WriteString(opener)
	it := NewReader(b).Iter()
	first := true
	for it.Next() {
		e := it.Element()
		if !first {
			buf.WriteString(", ")
		}
		first = false
		if !asArray {
			buf.WriteString(strconv.Quote(e.Name()))
			buf.WriteString(": ")
		}
		if err := dumpElement(buf, e, depth); err != nil {
			return pathErr(err, e.Name())
		}
	}
	if it.Fail() {
		return ErrMalformedDocument
	}
	buf.WriteString(closer)
	return nil
}

func dumpElement(buf *ByteBuffer, e Element, depth int) error {
	switch e.Type() {
	case TypeDouble:
		v, _ := e.Double()
		buf.WriteString(formatDoubleDiag(v))
	case TypeString:
		v, _ := e.StringValue()
		buf.WriteString(strconv.Quote(v))
	case TypeDocument:
		return dumpDocument(buf, e.AsDocument(Reader{}).Bytes(), false, depth+1)
	case TypeArray:
		return dumpDocument(buf, e.AsArray(Reader{}).Bytes(), true, depth+1)
	case TypeBinary:
		data, sub, _ := e.Binary()
		buf.WriteString("h'")
		d := buf.Extend(hex.EncodedLen(len(data)))
		hex.Encode(d, data)
		buf.WriteString("'")
		if sub != SubtypeGeneric {
			buf.WriteString("(0x")
			dst := buf.Extend(2)
			hex.Encode(dst, []byte{byte(sub)})
			buf.WriteString(")")
		}
	case TypeUndefined:
		buf.WriteString("undefined")
	case TypeBool:
		if v, _ := e.Bool(); v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case TypeNull:
		buf.WriteString("null")
	case TypeInt32:
		v, _ := e.Int32()
		buf.WriteString(strconv.FormatInt(int64(v), 10))
	case TypeInt64:
		v, _ := e.Int64()
		buf.WriteString(strconv.FormatInt(v, 10))
	default:
		return ErrMalformedDocument
	}
	return nil
}

// formatDoubleDiag returns a diagnostic string for a double, preferring
// fixed-point for reasonable magnitudes.
func formatDoubleDiag(f float64) string {
	if math.IsInf(f, +1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	af := math.Abs(f)
	if af == 0 || af < 1e15 {
		return trimTrailingZerosDot(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func trimTrailingZerosDot(s string) string {
	if strings.IndexByte(s, '.') < 0 {
		return s
	}
	// Trim trailing zeros and optional dot
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}
