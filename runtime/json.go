package bson

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ToJSON converts the document in b to JSON. Values without a native
// JSON representation use wrapper objects:
//
//	int64           -> {"$numberLong": "123"}
//	NaN/Infinity    -> {"$numberDouble": "NaN"}
//	binary          -> {"$binary": "<base64>", "$type": "<hex subtype>"}
//	undefined       -> {"$undefined": true}
//
// Doubles with an integral value render with a trailing ".0" so that
// FromJSON maps them back to doubles rather than integers.
func ToJSON(b []byte) ([]byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	if err := jsonDocument(bb, b, false, 0); err != nil {
		return nil, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, nil
}

func jsonDocument(buf *ByteBuffer, b []byte, asArray bool, depth int) error {
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
			buf.WriteString(",")
		}
		first = false
		if !asArray {
			if err := jsonString(buf, e.Name()); err != nil {
				return pathErr(err, e.Name())
			}
			buf.WriteString(":")
		}
		if err := jsonElement(buf, e, depth); err != nil {
			return pathErr(err, e.Name())
		}
	}
	if it.Fail() {
		return ErrMalformedDocument
	}
	buf.WriteString(closer)
	return nil
}

func jsonElement(buf *ByteBuffer, e Element, depth int) error {
	switch e.Type() {
	case TypeDouble:
		v, _ := e.Double()
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString(`{"$numberDouble":"`)
			buf.WriteString(formatDoubleDiag(v))
			buf.WriteString(`"}`)
			return nil
		}
		s := strconv.FormatFloat(v, 'g', -1, 64)
		buf.WriteString(s)
		if !strings.ContainsAny(s, ".eE") {
			buf.WriteString(".0")
		}
	case TypeString:
		v, _ := e.StringValue()
		return jsonString(buf, v)
	case TypeDocument:
		return jsonDocument(buf, e.AsDocument(Reader{}).Bytes(), false, depth+1)
	case TypeArray:
		return jsonDocument(buf, e.AsArray(Reader{}).Bytes(), true, depth+1)
	case TypeBinary:
		data, sub, _ := e.Binary()
		buf.WriteString(`{"$binary":"`)
		buf.WriteString(base64.StdEncoding.EncodeToString(data))
		buf.WriteString(`","$type":"`)
		dst := buf.Extend(2)
		hex.Encode(dst, []byte{byte(sub)})
		buf.WriteString(`"}`)
	case TypeUndefined:
		buf.WriteString(`{"$undefined":true}`)
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
		buf.WriteString(`{"$numberLong":"`)
		buf.WriteString(strconv.FormatInt(v, 10))
		buf.WriteString(`"}`)
	default:
		return ErrMalformedDocument
	}
	return nil
}

func jsonString(buf *ByteBuffer, s string) error {
	q, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(q)
	return nil
}

// FromJSON converts a JSON object into document bytes, recognizing the
// wrapper objects emitted by ToJSON. Plain JSON numbers map to int32
// when they are integral and fit, to int64 when only the width demands
// it, and to double otherwise. Object keys are written in sorted order
// so the output is deterministic.
func FromJSON(js []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("bson: top-level JSON value must be an object")
	}
	w := NewWriter()
	if err := jsonToDocument(w, obj); err != nil {
		return nil, err
	}
	return w.Release()
}

func jsonToDocument(w *Writer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := jsonToElement(w, k, m[k]); err != nil {
			return pathErr(err, k)
		}
	}
	return nil
}

func jsonToElement(w *Writer, name string, v any) error {
	switch x := v.(type) {
	case nil:
		return w.AddNull(name)
	case bool:
		return w.AddBool(name, x)
	case string:
		return w.AddString(name, x)
	case json.Number:
		return jsonToNumber(w, name, x)
	case []any:
		child, err := w.AddArray(name)
		if err != nil {
			return err
		}
		for i, elem := range x {
			if err := jsonToElement(child, strconv.Itoa(i), elem); err != nil {
				return err
			}
		}
		return child.Close()
	case map[string]any:
		if done, err := jsonWrapper(w, name, x); done || err != nil {
			return err
		}
		child, err := w.AddDocument(name)
		if err != nil {
			return err
		}
		if err := jsonToDocument(child, x); err != nil {
			return err
		}
		return child.Close()
	default:
		return errors.New("bson: unsupported JSON value")
	}
}

func jsonToNumber(w *Writer, name string, n json.Number) error {
	if strings.ContainsAny(string(n), ".eE") {
		f, err := n.Float64()
		if err != nil {
			return err
		}
		return w.AddDouble(name, f)
	}
	i, err := n.Int64()
	if err != nil {
		// Integer too wide even for int64; fall back to double.
		f, ferr := n.Float64()
		if ferr != nil {
			return err
		}
		return w.AddDouble(name, f)
	}
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return w.AddInt32(name, int32(i))
	}
	return w.AddInt64(name, i)
}

// jsonWrapper recognizes the extended-value wrapper objects. done is
// true when m was consumed as a wrapper.
func jsonWrapper(w *Writer, name string, m map[string]any) (done bool, err error) {
	if u, ok := m["$undefined"]; ok {
		if u != true {
			return true, errors.New("bson: $undefined wrapper must be true")
		}
		return true, w.AddUndefined(name)
	}
	if l, ok := m["$numberLong"]; ok {
		s, ok := l.(string)
		if !ok {
			return true, errors.New("bson: $numberLong wrapper must hold a string")
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return true, err
		}
		return true, w.AddInt64(name, i)
	}
	if d, ok := m["$numberDouble"]; ok {
		s, ok := d.(string)
		if !ok {
			return true, errors.New("bson: $numberDouble wrapper must hold a string")
		}
		var f float64
		switch s {
		case "NaN":
			f = math.NaN()
		case "Infinity":
			f = math.Inf(+1)
		case "-Infinity":
			f = math.Inf(-1)
		default:
			f, err = strconv.ParseFloat(s, 64)
			if err != nil {
				return true, err
			}
		}
		return true, w.AddDouble(name, f)
	}
	if b, ok := m["$binary"]; ok {
		s, ok := b.(string)
		if !ok {
			return true, errors.New("bson: $binary wrapper must hold a string")
		}
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return true, err
		}
		sub := SubtypeGeneric
		if t, ok := m["$type"]; ok {
			ts, ok := t.(string)
			if !ok {
				return true, errors.New("bson: $type wrapper must hold a string")
			}
			raw, err := hex.DecodeString(ts)
			if err != nil || len(raw) != 1 {
				return true, errors.New("bson: $type wrapper must hold one hex byte")
			}
			sub = Subtype(raw[0])
		}
		return true, w.AddBinary(name, data, sub)
	}
	return false, nil
}
