package sizing

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/voxoct/compress"
	"github.com/arloliu/voxoct/errs"
	"github.com/arloliu/voxoct/format"
	"github.com/arloliu/voxoct/internal/options"
	"github.com/arloliu/voxoct/octree"
	"github.com/arloliu/voxoct/stream"
	"github.com/arloliu/voxoct/volume"
)

// Sample is the measured size of one build.
type Sample struct {
	Threshold   float32
	Nodes       int
	Leaves      int
	StreamBytes int64 // encoded octree stream
	Bytes       int64 // after the container codec; equals StreamBytes without one
	BuildTime   time.Duration
}

// SweepConfig holds the options of Sweep.
type SweepConfig struct {
	builderOpts []octree.BuilderOption
	compression format.CompressionType
	logger      *zap.Logger
}

// SweepOption configures Sweep.
type SweepOption = options.Option[*SweepConfig]

// WithBuilderOptions adds builder options applied to every build. A
// threshold option given here is overridden by the swept threshold.
func WithBuilderOptions(opts ...octree.BuilderOption) SweepOption {
	return options.NoError(func(c *SweepConfig) {
		c.builderOpts = append(c.builderOpts, opts...)
	})
}

// WithCompression measures sizes after the given container codec.
func WithCompression(ct format.CompressionType) SweepOption {
	return options.New(func(c *SweepConfig) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return err
		}
		c.compression = ct

		return nil
	})
}

// WithLogger sets the logger for per-threshold debug output.
func WithLogger(logger *zap.Logger) SweepOption {
	return options.NoError(func(c *SweepConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// Sweep builds and encodes src once per threshold and records the sizes.
//
// Returns:
//   - []Sample: One sample per threshold, in input order
//   - error: ErrInsufficientSamples without thresholds, or the first build,
//     encoding or compression error
func Sweep(src volume.Source, thresholds []float32, opts ...SweepOption) ([]Sample, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("%w: no thresholds", errs.ErrInsufficientSamples)
	}

	cfg := &SweepConfig{compression: format.CompressionNone, logger: zap.NewNop()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(thresholds))
	for _, th := range thresholds {
		s, err := measure(src, th, cfg)
		if err != nil {
			return nil, fmt.Errorf("threshold %v: %w", th, err)
		}

		cfg.logger.Debug("threshold measured",
			zap.Float32("threshold", th),
			zap.Int("nodes", s.Nodes),
			zap.Int64("stream_bytes", s.StreamBytes),
			zap.Int64("bytes", s.Bytes),
			zap.Duration("build_time", s.BuildTime),
		)
		samples = append(samples, s)
	}

	return samples, nil
}

func measure(src volume.Source, threshold float32, cfg *SweepConfig) (Sample, error) {
	opts := append(append([]octree.BuilderOption(nil), cfg.builderOpts...), octree.WithFluctuationThreshold(threshold))
	builder, err := octree.NewBuilder(opts...)
	if err != nil {
		return Sample{}, err
	}

	start := time.Now()
	tree, err := builder.Build(src)
	if err != nil {
		return Sample{}, err
	}
	elapsed := time.Since(start)

	data, err := stream.EncodeBytes(tree)
	if err != nil {
		return Sample{}, err
	}

	_, stats, err := compress.CompressWithStats(cfg.compression, data)
	if err != nil {
		return Sample{}, err
	}

	counts := tree.Count()

	return Sample{
		Threshold:   threshold,
		Nodes:       counts.Total,
		Leaves:      counts.Leaves,
		StreamBytes: stats.OriginalSize,
		Bytes:       stats.CompressedSize,
		BuildTime:   elapsed,
	}, nil
}
