package tools

import "bytes"

// newReader adapts a raw JSON Schema document for jsonschema.UnmarshalJSON,
// which expects an io.Reader.
func newReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
