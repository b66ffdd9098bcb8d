package format

import (
	"path/filepath"
	"strings"
)

type (
	LeafKind        uint8
	CompressionType uint8
)

const (
	LeafBlock LeafKind = 0x1 // LeafBlock leaves carry the mean value of their region.
	LeafPoint LeafKind = 0x2 // LeafPoint leaves carry a center sample value plus its coordinate.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Leaf payload sizes in bytes, excluding the tag byte.
const (
	BlockLeafPayloadSize = 4  // value:f32
	PointLeafPayloadSize = 16 // value:f32, x:f32, y:f32, z:f32
)

func (k LeafKind) String() string {
	switch k {
	case LeafBlock:
		return "Block"
	case LeafPoint:
		return "Point"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is a known leaf kind.
func (k LeafKind) Valid() bool {
	return k == LeafBlock || k == LeafPoint
}

// PayloadSize returns the number of bytes following a leaf tag, or 0 for an unknown kind.
func (k LeafKind) PayloadSize() int {
	switch k {
	case LeafBlock:
		return BlockLeafPayloadSize
	case LeafPoint:
		return PointLeafPayloadSize
	default:
		return 0
	}
}

// ParseLeafKind parses "block" or "point", case-insensitive.
func ParseLeafKind(s string) (LeafKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "block", "":
		return LeafBlock, true
	case "point":
		return LeafPoint, true
	default:
		return 0, false
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression parses a compression name ("none", "zstd", "s2", "lz4").
func ParseCompression(s string) (CompressionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return CompressionNone, true
	case "zstd", "zst":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

// CompressionFromPath maps a container file extension to its compression type.
// Unknown extensions mean an uncompressed octree stream.
func CompressionFromPath(path string) CompressionType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return CompressionZstd
	case ".s2":
		return CompressionS2
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}
