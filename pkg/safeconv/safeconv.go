// Package safeconv converts tree-sitter offsets to Go ints.
package safeconv

// MaxInt is the largest int on this platform.
const MaxInt = int(^uint(0) >> 1)

// MustUintToInt converts v to int and panics when it does not fit.
// Callers pass parser offsets, which never exceed the source length.
func MustUintToInt(v uint) int {
	if v > uint(MaxInt) {
		panic("safeconv: uint to int overflow")
	}

	return int(v)
}
