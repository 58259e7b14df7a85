package bson

// ValidateDocument checks that b holds a structurally well-formed
// document: a sane length prefix, every element parseable within
// bounds, a clean terminator, and the same recursively for embedded
// documents and arrays. Trailing bytes beyond the declared length are
// permitted, matching Reader semantics.
//
// Errors from nested documents are decorated with the element path.
func ValidateDocument(b []byte) error {
	return validateDocument(b, 0)
}

func validateDocument(b []byte, depth int) error {
	if depth > recursionLimit {
		return ErrMaxDepthExceeded
	}
	if len(b) < 4 {
		return ErrShortBytes
	}
	it := NewReader(b).Iter()
	for it.Next() {
		e := it.Element()
		switch e.Type() {
		case TypeDocument:
			if err := validateDocument(e.AsDocument(Reader{}).Bytes(), depth+1); err != nil {
				return pathErr(err, e.Name())
			}
		case TypeArray:
			if err := validateDocument(e.AsArray(Reader{}).Bytes(), depth+1); err != nil {
				return pathErr(err, e.Name())
			}
		}
	}
	if it.Fail() {
		return ErrMalformedDocument
	}
	return nil
}
