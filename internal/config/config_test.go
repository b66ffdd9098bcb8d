package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/voxoct/errs"
	"github.com/arloliu/voxoct/format"
	"github.com/arloliu/voxoct/octree"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, octree.DefaultFluctuationThreshold, cfg.Build.Threshold)
	require.Equal(t, "block", cfg.Build.Leaf)
	require.Nil(t, cfg.Build.MaxDepth)

	_, ok := cfg.Build.CompressionOverride()
	require.False(t, ok)

	_, _, _, ok = cfg.Volume.Dimensions()
	require.False(t, ok)
}

func TestParse(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		cfg, err := Parse([]byte(`
volume:
  dims: [301, 1335, 1001]
  byte_order: little
build:
  threshold: 12.5
  leaf: point
  max_depth: 9
  compression: zstd
log:
  level: debug
`))
		require.NoError(t, err)

		nx, ny, nz, ok := cfg.Volume.Dimensions()
		require.True(t, ok)
		require.Equal(t, [3]uint32{301, 1335, 1001}, [3]uint32{nx, ny, nz})
		require.Equal(t, float32(12.5), cfg.Build.Threshold)
		require.Equal(t, 9, *cfg.Build.MaxDepth)
		require.Equal(t, "debug", cfg.Log.Level)
		require.Equal(t, "console", cfg.Log.Encoding)
		require.Len(t, cfg.Build.BuilderOptions(), 3)

		ct, ok := cfg.Build.CompressionOverride()
		require.True(t, ok)
		require.Equal(t, format.CompressionZstd, ct)
	})

	t.Run("Empty", func(t *testing.T) {
		cfg, err := Parse(nil)
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		_, err := Parse([]byte("build:\n  treshold: 3\n"))
		require.Error(t, err)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		_, err := Parse([]byte(`
volume:
  dims: [4, 0]
build:
  threshold: -1
  leaf: voxel
  max_depth: -3
  compression: gzip
`))
		require.ErrorIs(t, err, errs.ErrInvalidDimensions)
		require.ErrorIs(t, err, errs.ErrInvalidThreshold)
		require.ErrorIs(t, err, errs.ErrInvalidLeafKind)
		require.ErrorIs(t, err, errs.ErrInvalidMaxDepth)
		require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
	})
}

func TestBuilderOptions_BuildsWithConfig(t *testing.T) {
	cfg, err := Parse([]byte("build:\n  leaf: point\n  max_depth: 0\n"))
	require.NoError(t, err)

	builder, err := octree.NewBuilder(cfg.Build.BuilderOptions()...)
	require.NoError(t, err)
	require.NotNil(t, builder)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxoct.yaml")
	require.NoError(t, os.WriteFile(path, []byte("build:\n  threshold: 0\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, float32(0), cfg.Build.Threshold)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
