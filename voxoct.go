// Package voxoct compresses dense 3D scalar volumes into adaptive octrees.
//
// A volume is recursively halved; regions whose values fluctuate by no more
// than a threshold collapse into a single leaf. The tree is stored as a
// compact pre-order byte stream without per-node geometry: every node's
// extent is recovered by replaying the same halving rule from the volume
// dimensions in the 12-byte header.
//
// # Basic Usage
//
// Building and encoding a tree:
//
//	grid, _ := volume.LoadRawFile("Saltf", 301, 1335, 1001, endian.GetBigEndianEngine())
//	tree, data, err := voxoct.Compress(grid, octree.WithFluctuationThreshold(50))
//
// Inspecting a stream:
//
//	report, err := voxoct.Analyze(data, format.LeafBlock, logger)
//	fmt.Println(report.Counts.Total, report.CompressionRatio())
//
// Writing a zstd-compressed container file and reading it back:
//
//	stats, err := voxoct.WriteFile("octree.bin.zst", tree)
//	report, err := voxoct.AnalyzeFile("octree.bin.zst", format.LeafBlock)
//
// # Package Structure
//
// This package wraps the octree, stream and compress packages for the most
// common use cases. Use those packages directly for finer control.
package voxoct

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/arloliu/voxoct/compress"
	"github.com/arloliu/voxoct/format"
	"github.com/arloliu/voxoct/internal/options"
	"github.com/arloliu/voxoct/internal/pool"
	"github.com/arloliu/voxoct/octree"
	"github.com/arloliu/voxoct/stream"
	"github.com/arloliu/voxoct/volume"
)

// NewBuilder creates an octree builder.
//
// Available options:
//   - octree.WithFluctuationThreshold(float32), default 50
//   - octree.WithBlockLeaves() / octree.WithPointLeaves() / octree.WithLeafKind(kind)
//   - octree.WithMaxDepth(int), point leaves only
//   - octree.WithLogger(*zap.Logger)
func NewBuilder(opts ...octree.BuilderOption) (*octree.Builder, error) {
	return octree.NewBuilder(opts...)
}

// Compress builds an octree over src and encodes it.
//
// Returns:
//   - *octree.Tree: The built tree
//   - []byte: The encoded stream, using the tree's leaf kind
//   - error: Builder configuration, volume or encoding errors
func Compress(src volume.Source, opts ...octree.BuilderOption) (*octree.Tree, []byte, error) {
	builder, err := octree.NewBuilder(opts...)
	if err != nil {
		return nil, nil, err
	}

	tree, err := builder.Build(src)
	if err != nil {
		return nil, nil, err
	}

	data, err := stream.EncodeBytes(tree)
	if err != nil {
		return nil, nil, err
	}

	return tree, data, nil
}

// Analyze runs the detailed decoding pass over an in-memory stream.
//
// A geometry mismatch is not an error; it is reported through
// Report.Mismatch and logged at warn level. A nil logger disables logging.
func Analyze(data []byte, kind format.LeafKind, logger *zap.Logger) (stream.Report, error) {
	report, err := stream.NewBytesDecoder(data, kind).Analyze()
	if err != nil {
		return stream.Report{}, err
	}

	warnMismatch(logger, report)

	return report, nil
}

func warnMismatch(logger *zap.Logger, report stream.Report) {
	if !report.Mismatch || logger == nil {
		return
	}

	logger.Warn("octree voxel count mismatch",
		zap.Stringer("dims", report.Header),
		zap.Uint64("expected_voxels", report.Voxels()),
		zap.Uint64("represented_voxels", report.VoxelsRepresented),
		zap.Int("empty_nodes", report.EmptyNodes),
	)
}

// FileConfig holds the options of the file helpers.
type FileConfig struct {
	compression    format.CompressionType
	hasCompression bool
	logger         *zap.Logger
}

// FileOption configures WriteFile, ReadFile and AnalyzeFile.
type FileOption = options.Option[*FileConfig]

// WithCompression forces the container codec instead of deriving it from
// the file extension.
func WithCompression(ct format.CompressionType) FileOption {
	return options.New(func(c *FileConfig) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return err
		}
		c.compression = ct
		c.hasCompression = true

		return nil
	})
}

// WithLogger sets the logger for file operations and mismatch warnings.
func WithLogger(logger *zap.Logger) FileOption {
	return options.NoError(func(c *FileConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

func newFileConfig(path string, opts []FileOption) (*FileConfig, error) {
	cfg := &FileConfig{logger: zap.NewNop()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if !cfg.hasCompression {
		cfg.compression = format.CompressionFromPath(path)
	}

	return cfg, nil
}

// FileStats describes a written octree file.
type FileStats struct {
	Path string
	compress.CompressionStats
}

// WriteFile encodes t and writes it to path, applying the container codec
// chosen by WithCompression or the path extension (.zst, .s2, .lz4).
//
// Returns:
//   - FileStats: Stream size before and after the container codec
//   - error: Encoding, compression or I/O errors, including the close error
func WriteFile(path string, t *octree.Tree, opts ...FileOption) (stats FileStats, err error) {
	cfg, err := newFileConfig(path, opts)
	if err != nil {
		return FileStats{}, err
	}

	data, err := stream.EncodeBytes(t)
	if err != nil {
		return FileStats{}, err
	}

	packed, cstats, err := compress.CompressWithStats(cfg.compression, data)
	if err != nil {
		return FileStats{}, err
	}

	f, err := os.Create(path)
	if err != nil {
		return FileStats{}, fmt.Errorf("create octree file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if _, err := f.Write(packed); err != nil {
		return FileStats{}, fmt.Errorf("write octree file: %w", err)
	}

	cfg.logger.Debug("octree file written",
		zap.String("path", path),
		zap.Stringer("compression", cfg.compression),
		zap.Int64("stream_bytes", cstats.OriginalSize),
		zap.Int64("file_bytes", cstats.CompressedSize),
	)

	return FileStats{Path: path, CompressionStats: cstats}, nil
}

// ReadFile reads path and removes the container codec, returning the raw
// octree stream.
func ReadFile(path string, opts ...FileOption) (data []byte, err error) {
	cfg, err := newFileConfig(path, opts)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open octree file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	buf := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(buf)

	if _, err := io.Copy(buf, f); err != nil {
		return nil, fmt.Errorf("read octree file: %w", err)
	}

	if cfg.compression == format.CompressionNone {
		return buf.Clone(), nil
	}

	data, err = codec.Decompress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}

	return data, nil
}

// AnalyzeFile reads an octree file and runs the detailed decoding pass.
func AnalyzeFile(path string, kind format.LeafKind, opts ...FileOption) (stream.Report, error) {
	cfg, err := newFileConfig(path, opts)
	if err != nil {
		return stream.Report{}, err
	}

	data, err := ReadFile(path, opts...)
	if err != nil {
		return stream.Report{}, err
	}

	return Analyze(data, kind, cfg.logger)
}

// StatsFile reads an octree file and runs the fast decoding pass.
func StatsFile(path string, kind format.LeafKind, opts ...FileOption) (stream.Stats, error) {
	data, err := ReadFile(path, opts...)
	if err != nil {
		return stream.Stats{}, err
	}

	return stream.NewBytesDecoder(data, kind).Stats()
}
