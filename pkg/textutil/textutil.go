// Package textutil holds byte-level checks applied to source files before parsing.
package textutil

import "bytes"

// BinarySniffLength bounds how many leading bytes IsBinary inspects.
const BinarySniffLength = 8000

// IsBinary reports whether data holds a NUL byte in its first
// BinarySniffLength bytes. Empty data is text.
func IsBinary(data []byte) bool {
	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}
