// Package hash wraps xxHash64, the checksum used to fingerprint octree streams.
package hash

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Digest accumulates an xxHash64 over everything written to it.
type Digest = xxhash.Digest

// New returns an empty Digest.
func New() *Digest {
	return xxhash.New()
}

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Format renders a checksum as 16 lowercase hex digits.
func Format(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
