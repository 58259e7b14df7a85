package bson_test

import (
	"testing"

	bson "github.com/synadia-labs/bson.go/runtime"
)

func TestIterRejectsBadFraming(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
	}{
		{"nil buffer", nil},
		{"short buffer", mustHex(t, "05 00 00")},
		{"declared length zero", mustHex(t, "00 00 00 00")},
		{"declared length negative", mustHex(t, "ff ff ff ff 00")},
		{"declared beyond supplied", mustHex(t, "06 00 00 00 00")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			it := bson.NewReader(tc.buf).Iter()
			if it.Next() {
				t.Fatal("Next succeeded on bad framing")
			}
			if !it.Fail() {
				t.Fatal("iterator did not fail")
			}
			if it.Element().Valid() {
				t.Fatal("failed iterator yielded a valid element")
			}
		})
	}
}

func TestIterEmptyDocument(t *testing.T) {
	it := bson.NewReader(mustHex(t, "05 00 00 00 00")).Iter()
	if it.Next() {
		t.Fatal("empty document yielded an element")
	}
	if it.Fail() {
		t.Fatal("clean termination reported as failure")
	}
}

// The declared length bounds iteration; trailing garbage beyond it is
// never inspected.
func TestIterUnderflowIgnoresTrailingBytes(t *testing.T) {
	it := bson.NewReader(mustHex(t, "05 00 00 00 00 aa")).Iter()
	if it.Next() {
		t.Fatal("empty document yielded an element")
	}
	if it.Fail() {
		t.Fatal("clean termination reported as failure")
	}
}

func TestIterMissingTerminator(t *testing.T) {
	// Length says 5 but the fifth byte is not the terminator and there
	// is no room for an element either.
	it := bson.NewReader(mustHex(t, "05 00 00 00 aa")).Iter()
	if it.Next() {
		t.Fatal("Next succeeded")
	}
	if !it.Fail() {
		t.Fatal("iterator did not fail")
	}
}

func TestIterWalksElements(t *testing.T) {
	// {"A": undefined, "B": null}
	it := bson.NewReader(mustHex(t, "0b 00 00 00 06 41 00 0a 42 00 00")).Iter()

	if !it.Next() {
		t.Fatal("first Next failed")
	}
	e := it.Element()
	if e.Name() != "A" || !e.IsUndefined() {
		t.Fatalf("first element = %s %v", e.Type(), e.Name())
	}

	if !it.Next() {
		t.Fatal("second Next failed")
	}
	e = it.Element()
	if e.Name() != "B" || !e.IsNull() {
		t.Fatalf("second element = %s %v", e.Type(), e.Name())
	}

	if it.Next() {
		t.Fatal("third Next succeeded")
	}
	if it.Fail() {
		t.Fatal("clean termination reported as failure")
	}
}

// Failure after a successful element must be sticky and clear the
// current element.
func TestIterFailsMidDocument(t *testing.T) {
	// First element fine, then an unknown type tag.
	it := bson.NewReader(mustHex(t, "09 00 00 00 06 41 00 aa 00")).Iter()
	if !it.Next() {
		t.Fatal("first Next failed")
	}
	if it.Next() {
		t.Fatal("Next succeeded on unknown tag")
	}
	if !it.Fail() {
		t.Fatal("iterator did not fail")
	}
	if it.Element().Valid() {
		t.Fatal("failed iterator kept a stale element")
	}
	if it.Next() || !it.Fail() {
		t.Fatal("failure was not sticky")
	}
}

func TestIterRejectsMalformedElements(t *testing.T) {
	cases := []struct {
		name string
		hex  string
	}{
		{"unterminated name", "07 00 00 00 08 41 42"},
		{"truncated double", "0c 00 00 00 01 41 00 00 00 00 00 00"},
		{"truncated bool", "08 00 00 00 08 41 00 00"},
		{"truncated int32", "0a 00 00 00 10 41 00 78 56 00"},
		{"string length zero", "0c 00 00 00 02 41 00 00 00 00 00 00"},
		{"string length negative", "0c 00 00 00 02 41 00 ff ff ff ff 00"},
		{"string length overruns", "0d 00 00 00 02 41 00 ff 00 00 00 61 00"},
		{"string missing nul", "0d 00 00 00 02 41 00 02 00 00 00 61 62"},
		{"subdocument length short", "0d 00 00 00 03 41 00 04 00 00 00 00 00"},
		{"subdocument overruns", "0d 00 00 00 03 41 00 ff 00 00 00 00 00"},
		{"subdocument missing terminator", "0d 00 00 00 03 41 00 05 00 00 00 aa 00"},
		{"binary length negative", "0d 00 00 00 05 41 00 ff ff ff ff 00 00"},
		{"binary overruns", "0d 00 00 00 05 41 00 ff 00 00 00 00 00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			it := bson.NewReader(mustHex(t, tc.hex)).Iter()
			for it.Next() {
			}
			if !it.Fail() {
				t.Fatal("malformed document iterated cleanly")
			}
		})
	}
}

func TestQuerySize(t *testing.T) {
	if got := bson.QuerySize(nil); got != -1 {
		t.Fatalf("QuerySize(nil) = %d", got)
	}
	if got := bson.QuerySize(mustHex(t, "05 00 00")); got != -1 {
		t.Fatalf("QuerySize(short) = %d", got)
	}
	if got := bson.QuerySize(mustHex(t, "05 00 00 00 00")); got != 5 {
		t.Fatalf("QuerySize(empty doc) = %d", got)
	}
	// QuerySize reports the prefix as-is; it does not verify the buffer
	// actually holds that many bytes.
	if got := bson.QuerySize(mustHex(t, "40 00 00 00")); got != 64 {
		t.Fatalf("QuerySize(truncated doc) = %d", got)
	}
}

func TestReaderFind(t *testing.T) {
	// {"a": true, "b": 42, "c": null}
	buf := mustHex(t, "13 00 00 00 08 61 00 01 10 62 00 2a 00 00 00 0a 63 00 00")
	r := bson.NewReader(buf)

	e, ok := r.Find("b")
	if !ok {
		t.Fatal("Find missed an existing element")
	}
	if v, _ := e.Int32(); v != 42 {
		t.Fatalf("found wrong element: %v", e.Type())
	}

	if _, ok := r.Find("nope"); ok {
		t.Fatal("Find matched a missing name")
	}
}
