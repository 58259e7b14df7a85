package bson

// Encoded payload sizes for the fixed-width types, and prefix sizes for
// the variable-length ones. For strings the total payload is
// StringPrefixSize plus the value length (the prefix covers the length
// field and the trailing NUL); for binaries it is BinaryPrefixSize plus
// the data length (length field and subtype byte).
const (
	DoubleSize       = 8
	BoolSize         = 1
	Int32Size        = 4
	Int64Size        = 8
	StringPrefixSize = 5
	BinaryPrefixSize = 5
	HeaderSize       = 4
)

// ElementSize returns the encoded size of one element: type tag, name
// with its NUL terminator, and payload bytes. Useful for pre-sizing
// fixed writer buffers together with MinDocumentSize.
func ElementSize(name string, payload int) int {
	return 1 + len(name) + 1 + payload
}
