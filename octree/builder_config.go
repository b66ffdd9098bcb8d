package octree

import (
	"fmt"
	"math"
	"math/bits"

	"go.uber.org/zap"

	"github.com/arloliu/voxoct/errs"
	"github.com/arloliu/voxoct/format"
	"github.com/arloliu/voxoct/internal/options"
)

// DefaultFluctuationThreshold is the max-min spread under which a region
// collapses into a single leaf.
const DefaultFluctuationThreshold float32 = 50

// autoMaxDepth asks the builder to derive the point-policy depth cap from the
// volume dimensions.
const autoMaxDepth = -1

// BuilderConfig holds the build parameters collected from BuilderOption values.
type BuilderConfig struct {
	threshold float32
	leafKind  format.LeafKind
	maxDepth  int
	logger    *zap.Logger
}

func newBuilderConfig() *BuilderConfig {
	return &BuilderConfig{
		threshold: DefaultFluctuationThreshold,
		leafKind:  format.LeafBlock,
		maxDepth:  autoMaxDepth,
		logger:    zap.NewNop(),
	}
}

// Threshold returns the configured fluctuation threshold.
func (c *BuilderConfig) Threshold() float32 {
	return c.threshold
}

// LeafKind returns the configured leaf policy.
func (c *BuilderConfig) LeafKind() format.LeafKind {
	return c.leafKind
}

func (c *BuilderConfig) setThreshold(v float32) error {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || v < 0 {
		return fmt.Errorf("%w: %v", errs.ErrInvalidThreshold, v)
	}
	c.threshold = v

	return nil
}

func (c *BuilderConfig) setLeafKind(kind format.LeafKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %v", errs.ErrInvalidLeafKind, kind)
	}
	c.leafKind = kind

	return nil
}

func (c *BuilderConfig) setMaxDepth(depth int) error {
	if depth < 0 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidMaxDepth, depth)
	}
	c.maxDepth = depth

	return nil
}

// effectiveMaxDepth resolves the depth cap for a volume.
//
// Block trees are never capped. Point trees default to floor(log2(min dim)) + 1.
func (c *BuilderConfig) effectiveMaxDepth(nx, ny, nz uint32) int {
	if c.leafKind != format.LeafPoint {
		return Unbounded
	}
	if c.maxDepth != autoMaxDepth {
		return c.maxDepth
	}

	return DefaultMaxDepth(nx, ny, nz)
}

// DefaultMaxDepth returns floor(log2(min(nx, ny, nz))) + 1, the point-policy
// depth cap used when none is configured. It returns 0 for an empty volume.
func DefaultMaxDepth(nx, ny, nz uint32) int {
	return bits.Len32(min(nx, ny, nz))
}

// BuilderOption configures a Builder.
type BuilderOption = options.Option[*BuilderConfig]

// WithFluctuationThreshold sets the max-min spread at or below which a region
// becomes a leaf. Negative, NaN and infinite values are rejected.
func WithFluctuationThreshold(threshold float32) BuilderOption {
	return options.New(func(c *BuilderConfig) error {
		return c.setThreshold(threshold)
	})
}

// WithBlockLeaves selects the block-leaf policy (region mean). This is the default.
func WithBlockLeaves() BuilderOption {
	return options.NoError(func(c *BuilderConfig) {
		c.leafKind = format.LeafBlock
	})
}

// WithPointLeaves selects the point-leaf policy (center sample plus coordinate).
func WithPointLeaves() BuilderOption {
	return options.NoError(func(c *BuilderConfig) {
		c.leafKind = format.LeafPoint
	})
}

// WithLeafKind selects the leaf policy by kind.
func WithLeafKind(kind format.LeafKind) BuilderOption {
	return options.New(func(c *BuilderConfig) error {
		return c.setLeafKind(kind)
	})
}

// WithMaxDepth caps the depth of point-leaf trees. The root is depth 0.
// Block-leaf trees ignore the cap.
func WithMaxDepth(depth int) BuilderOption {
	return options.New(func(c *BuilderConfig) error {
		return c.setMaxDepth(depth)
	})
}

// WithLogger sets the logger used for build summaries. A nil logger is ignored.
func WithLogger(logger *zap.Logger) BuilderOption {
	return options.NoError(func(c *BuilderConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}
