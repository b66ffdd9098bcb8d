package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeafKind(t *testing.T) {
	require.Equal(t, "Block", LeafBlock.String())
	require.Equal(t, "Point", LeafPoint.String())
	require.Equal(t, "Unknown", LeafKind(0).String())

	require.Equal(t, 4, LeafBlock.PayloadSize())
	require.Equal(t, 16, LeafPoint.PayloadSize())
	require.Equal(t, 0, LeafKind(9).PayloadSize())

	require.True(t, LeafBlock.Valid())
	require.False(t, LeafKind(0).Valid())
}

func TestParseLeafKind(t *testing.T) {
	tests := []struct {
		in   string
		want LeafKind
		ok   bool
	}{
		{"block", LeafBlock, true},
		{"Point", LeafPoint, true},
		{"", LeafBlock, true},
		{"voxel", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLeafKind(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCompressionFromPath(t *testing.T) {
	require.Equal(t, CompressionZstd, CompressionFromPath("octree.bin.zst"))
	require.Equal(t, CompressionS2, CompressionFromPath("/tmp/a.S2"))
	require.Equal(t, CompressionLZ4, CompressionFromPath("a.lz4"))
	require.Equal(t, CompressionNone, CompressionFromPath("octree.bin"))

	c, ok := ParseCompression("zstd")
	require.True(t, ok)
	require.Equal(t, CompressionZstd, c)
	_, ok = ParseCompression("gzip")
	require.False(t, ok)
}
