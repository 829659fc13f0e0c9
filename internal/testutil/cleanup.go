// Package testutil provides helpers for examples and tests.
package testutil

import (
	"encoding/binary"
	"math"
	"os"
)

// RemoveAll removes the path and any children. Errors are ignored.
// Use for defer cleanup in examples and tests.
//
// Usage:
//
//	defer testutil.RemoveAll(tmpDir)
func RemoveAll(path string) { _ = os.RemoveAll(path) }

// Float32Bytes encodes values as a headerless little-endian float32 array.
func Float32Bytes(values ...float32) []byte {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	return b
}

// WriteSamples writes values to path in the raw float32 format.
func WriteSamples(path string, values ...float32) error {
	return os.WriteFile(path, Float32Bytes(values...), 0o644)
}
