package voxoct

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/voxoct/errs"
	"github.com/arloliu/voxoct/format"
	"github.com/arloliu/voxoct/octree"
	"github.com/arloliu/voxoct/section"
	"github.com/arloliu/voxoct/stream"
	"github.com/arloliu/voxoct/volume"
)

func mustSphere(t testing.TB) *volume.Grid {
	t.Helper()

	g, err := volume.Sphere(16, 12, 10, 200, 0)
	require.NoError(t, err)

	return g
}

func TestCompress(t *testing.T) {
	t.Run("Uniform", func(t *testing.T) {
		g, err := volume.Uniform(4, 4, 4, 7)
		require.NoError(t, err)

		tree, data, err := Compress(g)
		require.NoError(t, err)
		require.Equal(t, 1, tree.Count().Total)
		require.Len(t, data, section.HeaderSize+section.BlockLeafSize)
	})

	t.Run("PointLeaves", func(t *testing.T) {
		tree, data, err := Compress(mustSphere(t), octree.WithPointLeaves())
		require.NoError(t, err)
		require.Equal(t, format.LeafPoint, tree.LeafKind)

		stats, err := stream.NewBytesDecoder(data, format.LeafPoint).Stats()
		require.NoError(t, err)
		require.Equal(t, tree.Count(), stats.Counts)
		require.Equal(t, int64(len(data)), stats.BytesRead)
	})

	t.Run("InvalidOption", func(t *testing.T) {
		_, _, err := Compress(mustSphere(t), octree.WithFluctuationThreshold(-1))
		require.ErrorIs(t, err, errs.ErrInvalidThreshold)
	})

	t.Run("NilSource", func(t *testing.T) {
		_, _, err := Compress(nil)
		require.ErrorIs(t, err, errs.ErrNilSource)
	})
}

func TestAnalyze(t *testing.T) {
	t.Run("Consistent", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		tree, data, err := Compress(mustSphere(t))
		require.NoError(t, err)

		report, err := Analyze(data, format.LeafBlock, zap.New(core))
		require.NoError(t, err)
		require.False(t, report.Mismatch)
		require.Equal(t, tree.Voxels(), report.VoxelsRepresented)
		require.Equal(t, 0, logs.Len())
	})

	t.Run("MismatchWarns", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)

		data := section.NewHeader(2, 2, 1).Bytes()
		data = append(data, section.TagInternal)
		for range 8 {
			data = append(data, section.TagLeaf, 0, 0, 0, 0)
		}

		report, err := Analyze(data, format.LeafBlock, zap.New(core))
		require.NoError(t, err)
		require.True(t, report.Mismatch)

		entries := logs.FilterMessage("octree voxel count mismatch").All()
		require.Len(t, entries, 1)
		require.Equal(t, zapcore.WarnLevel, entries[0].Level)
		require.Equal(t, int64(4), entries[0].ContextMap()["empty_nodes"])
	})

	t.Run("NilLogger", func(t *testing.T) {
		_, data, err := Compress(mustSphere(t))
		require.NoError(t, err)

		_, err = Analyze(data, format.LeafBlock, nil)
		require.NoError(t, err)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, data, err := Compress(mustSphere(t))
		require.NoError(t, err)

		_, err = Analyze(data[:len(data)-1], format.LeafBlock, nil)
		require.ErrorIs(t, err, errs.ErrTruncated)
	})
}

func TestFileRoundTrip(t *testing.T) {
	tree, want, err := Compress(mustSphere(t), octree.WithFluctuationThreshold(10))
	require.NoError(t, err)

	for _, name := range []string{"tree.bin", "tree.bin.zst", "tree.bin.s2", "tree.bin.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			stats, err := WriteFile(path, tree)
			require.NoError(t, err)
			require.Equal(t, path, stats.Path)
			require.Equal(t, format.CompressionFromPath(name), stats.Algorithm)
			require.Equal(t, int64(len(want)), stats.OriginalSize)

			info, err := os.Stat(path)
			require.NoError(t, err)
			require.Equal(t, stats.CompressedSize, info.Size())

			got, err := ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, want, got)

			report, err := AnalyzeFile(path, format.LeafBlock)
			require.NoError(t, err)
			require.Equal(t, tree.Count(), report.Counts)
			require.False(t, report.Mismatch)

			fast, err := StatsFile(path, format.LeafBlock)
			require.NoError(t, err)
			require.Equal(t, report.Checksum, fast.Checksum)
		})
	}
}

func TestFileOptions(t *testing.T) {
	tree, want, err := Compress(mustSphere(t))
	require.NoError(t, err)

	t.Run("ForcedCompression", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tree.dat")

		stats, err := WriteFile(path, tree, WithCompression(format.CompressionZstd))
		require.NoError(t, err)
		require.Equal(t, format.CompressionZstd, stats.Algorithm)

		got, err := ReadFile(path, WithCompression(format.CompressionZstd))
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("UnsupportedCompression", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tree.bin")

		_, err := WriteFile(path, tree, WithCompression(format.CompressionType(0x7f)))
		require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
	})

	t.Run("NilTree", func(t *testing.T) {
		_, err := WriteFile(filepath.Join(t.TempDir(), "tree.bin"), nil)
		require.ErrorIs(t, err, errs.ErrNilTree)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := AnalyzeFile(filepath.Join(t.TempDir(), "missing.bin"), format.LeafBlock)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("DebugLog", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		path := filepath.Join(t.TempDir(), "tree.bin.s2")

		_, err := WriteFile(path, tree, WithLogger(zap.New(core)))
		require.NoError(t, err)
		require.Equal(t, 1, logs.FilterMessage("octree file written").Len())
	})
}

func BenchmarkCompress(b *testing.B) {
	g, err := volume.Sphere(64, 64, 64, 200, 0)
	require.NoError(b, err)

	b.ReportAllocs()
	for b.Loop() {
		if _, _, err := Compress(g); err != nil {
			b.Fatal(err)
		}
	}
}
