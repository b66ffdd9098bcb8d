package octree

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/voxoct/errs"
	"github.com/arloliu/voxoct/format"
	"github.com/arloliu/voxoct/internal/options"
	"github.com/arloliu/voxoct/region"
	"github.com/arloliu/voxoct/volume"
)

// Builder constructs octrees from volume sources.
//
// A Builder holds only configuration, so one Builder may be reused for many
// volumes and shared between goroutines.
type Builder struct {
	config *BuilderConfig
}

// NewBuilder creates a Builder with the given options.
//
// Configuration errors are reported here, before any volume is touched.
//
// Parameters:
//   - opts: Builder options (threshold, leaf policy, max depth, logger)
//
// Returns:
//   - *Builder: The configured builder
//   - error: ErrInvalidThreshold, ErrInvalidLeafKind or ErrInvalidMaxDepth
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	config := newBuilderConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	return &Builder{config: config}, nil
}

// Build subdivides src into an octree.
//
// The recursion is depth-first over region.Partition; every node's region is
// implied by its position, so the returned tree stores values only.
//
// Returns:
//   - *Tree: The built tree
//   - error: ErrNilSource, or ErrInvalidDimensions if any dimension is zero
func (b *Builder) Build(src volume.Source) (*Tree, error) {
	if src == nil {
		return nil, errs.ErrNilSource
	}

	nx, ny, nz := src.Dimensions()
	if nx == 0 || ny == 0 || nz == 0 {
		return nil, fmt.Errorf("%w: %dx%dx%d", errs.ErrInvalidDimensions, nx, ny, nz)
	}

	start := time.Now()
	run := &buildRun{
		src:       src,
		threshold: b.config.threshold,
		point:     b.config.leafKind == format.LeafPoint,
		maxDepth:  b.config.effectiveMaxDepth(nx, ny, nz),
	}

	tree := &Tree{
		Root:      run.build(region.Root(nx, ny, nz), 0),
		NX:        nx,
		NY:        ny,
		NZ:        nz,
		LeafKind:  b.config.leafKind,
		Threshold: b.config.threshold,
		MaxDepth:  run.maxDepth,
	}

	if ce := b.config.logger.Check(zap.DebugLevel, "octree built"); ce != nil {
		counts := tree.Count()
		ce.Write(
			zap.String("dims", fmt.Sprintf("%dx%dx%d", nx, ny, nz)),
			zap.Stringer("leaf_kind", tree.LeafKind),
			zap.Float32("threshold", tree.Threshold),
			zap.Int("max_depth", tree.MaxDepth),
			zap.Int("nodes", counts.Total),
			zap.Int("leaves", counts.Leaves),
			zap.Float64("ratio", tree.CompressionRatio()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	return tree, nil
}

// buildRun carries per-call state through the recursion.
type buildRun struct {
	src       volume.Source
	threshold float32
	point     bool
	maxDepth  int
}

func (b *buildRun) build(r region.Region, depth int) Node {
	if r.Empty() {
		return b.emptyLeaf(r)
	}

	if b.point && (depth >= b.maxDepth || !r.CanSplit()) {
		// the center sample decides the value, no scan needed unless it falls outside
		return b.pointLeaf(r, nil)
	}

	if r.IsUnit() {
		if volume.InBounds(b.src, r.MinX, r.MinY, r.MinZ) {
			return NewBlockLeaf(b.src.Sample(r.MinX, r.MinY, r.MinZ))
		}

		return NewBlockLeaf(0)
	}

	stats := volume.Scan(b.src, r)
	if stats.Count == 0 {
		return b.emptyLeaf(r)
	}

	if stats.Fluctuation() <= b.threshold || !r.CanSplit() {
		return b.leaf(r, &stats)
	}

	var children [region.ChildCount]Node
	for i, child := range region.Partition(r) {
		children[i] = b.build(child, depth+1)
	}

	return NewInternal(children)
}

func (b *buildRun) leaf(r region.Region, stats *volume.RegionStats) Node {
	if b.point {
		return b.pointLeaf(r, stats)
	}

	return NewBlockLeaf(stats.Mean())
}

func (b *buildRun) emptyLeaf(r region.Region) Node {
	if b.point {
		return NewPointLeaf(0, b.clampedCenter(r))
	}

	return NewBlockLeaf(0)
}

// pointLeaf samples the region center. When the center lies outside the
// volume the region mean is used instead; stats is computed lazily if nil.
func (b *buildRun) pointLeaf(r region.Region, stats *volume.RegionStats) Node {
	cx, cy, cz := r.Center()
	if volume.InBounds(b.src, cx, cy, cz) {
		return NewPointLeaf(b.src.Sample(cx, cy, cz), Coord{X: cx, Y: cy, Z: cz})
	}

	if stats == nil {
		s := volume.Scan(b.src, r)
		stats = &s
	}

	return NewPointLeaf(stats.Mean(), b.clampedCenter(r))
}

func (b *buildRun) clampedCenter(r region.Region) Coord {
	nx, ny, nz := b.src.Dimensions()
	cx, cy, cz := r.Center()

	return Coord{
		X: clamp(cx, int(nx)-1),
		Y: clamp(cy, int(ny)-1),
		Z: clamp(cz, int(nz)-1),
	}
}

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}
