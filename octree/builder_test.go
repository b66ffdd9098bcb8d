package octree

import (
	"math"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/voxoct/errs"
	"github.com/arloliu/voxoct/format"
	"github.com/arloliu/voxoct/region"
	"github.com/arloliu/voxoct/volume"
)

// flatSource reports arbitrary dimensions without backing storage.
type flatSource struct {
	nx, ny, nz uint32
	v          float32
}

func (s flatSource) Dimensions() (uint32, uint32, uint32) { return s.nx, s.ny, s.nz }
func (s flatSource) Sample(int, int, int) float32         { return s.v }

func buildTree(t *testing.T, src volume.Source, opts ...BuilderOption) *Tree {
	t.Helper()

	builder, err := NewBuilder(opts...)
	require.NoError(t, err)

	tree, err := builder.Build(src)
	require.NoError(t, err)

	return tree
}

// leafVoxels sums the voxel counts of all leaf regions.
func leafVoxels(t *testing.T, tree *Tree) uint64 {
	t.Helper()

	var sum uint64
	require.NoError(t, tree.Walk(func(n *Node, r region.Region, _ int) error {
		if n.IsLeaf() {
			sum += r.Voxels()
		}

		return nil
	}))

	return sum
}

func TestNewBuilder_Defaults(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)
	require.Equal(t, DefaultFluctuationThreshold, builder.config.Threshold())
	require.Equal(t, format.LeafBlock, builder.config.LeafKind())
}

func TestNewBuilder_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		opt     BuilderOption
		wantErr error
	}{
		{"NegativeThreshold", WithFluctuationThreshold(-1), errs.ErrInvalidThreshold},
		{"NaNThreshold", WithFluctuationThreshold(float32(math.NaN())), errs.ErrInvalidThreshold},
		{"InfThreshold", WithFluctuationThreshold(float32(math.Inf(1))), errs.ErrInvalidThreshold},
		{"NegativeMaxDepth", WithMaxDepth(-2), errs.ErrInvalidMaxDepth},
		{"UnknownLeafKind", WithLeafKind(format.LeafKind(7)), errs.ErrInvalidLeafKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder, err := NewBuilder(tt.opt)
			require.ErrorIs(t, err, tt.wantErr)
			require.Nil(t, builder)
		})
	}
}

func TestBuild_InvalidSource(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	_, err = builder.Build(nil)
	require.ErrorIs(t, err, errs.ErrNilSource)

	_, err = builder.Build(flatSource{nx: 4, ny: 0, nz: 4})
	require.ErrorIs(t, err, errs.ErrInvalidDimensions)
}

func TestBuild_UniformVolume(t *testing.T) {
	g, err := volume.Uniform(4, 4, 4, 7)
	require.NoError(t, err)

	for _, kind := range []format.LeafKind{format.LeafBlock, format.LeafPoint} {
		t.Run(kind.String(), func(t *testing.T) {
			tree := buildTree(t, g, WithLeafKind(kind))

			require.True(t, tree.Root.IsLeaf())
			require.Equal(t, float32(7), tree.Root.Value)
			require.Equal(t, Counts{Total: 1, Leaves: 1}, tree.Count())
			require.Equal(t, 0, tree.Depth())
			require.Equal(t, 64.0, tree.CompressionRatio())
		})
	}
}

func TestBuild_Checkerboard(t *testing.T) {
	g, err := volume.Checkerboard(8, 8, 8, 0, 1000)
	require.NoError(t, err)

	tree := buildTree(t, g)

	require.Equal(t, Counts{Total: 585, Leaves: 512, Internals: 73}, tree.Count())
	require.Equal(t, 3, tree.Depth())

	require.NoError(t, tree.Walk(func(n *Node, r region.Region, _ int) error {
		if n.IsLeaf() {
			require.Equal(t, uint64(1), r.Voxels())
			require.Equal(t, g.Sample(r.MinX, r.MinY, r.MinZ), n.Value)
		}

		return nil
	}))
}

func TestBuild_ThresholdBoundary(t *testing.T) {
	// z-slabs 0, 10, 20, 30
	g, err := volume.Gradient(4, 4, 4, 0, 30)
	require.NoError(t, err)

	t.Run("AtThreshold", func(t *testing.T) {
		tree := buildTree(t, g, WithFluctuationThreshold(30))
		require.True(t, tree.Root.IsLeaf())
		require.InDelta(t, 15.0, tree.Root.Value, 1e-5)
	})

	t.Run("BelowThreshold", func(t *testing.T) {
		tree := buildTree(t, g, WithFluctuationThreshold(29))
		require.Equal(t, Counts{Total: 9, Leaves: 8, Internals: 1}, tree.Count())

		for i, child := range tree.Root.Children {
			want := float32(5)
			if i%2 == 1 {
				want = 25
			}
			require.Equal(t, want, child.Value, "child %d", i)
		}
	})
}

func TestBuild_TerminationDepth(t *testing.T) {
	dims := [][3]uint32{{5, 7, 9}, {2, 2, 2}, {3, 1, 6}, {16, 3, 11}, {1, 1, 1}}

	for _, d := range dims {
		g, err := volume.Checkerboard(d[0], d[1], d[2], 0, 1000)
		require.NoError(t, err)

		tree := buildTree(t, g, WithFluctuationThreshold(0))

		bound := bits.Len32(max(d[0], d[1], d[2]) - 1)
		require.LessOrEqual(t, tree.Depth(), bound, "dims %v", d)
		require.Equal(t, tree.Voxels(), leafVoxels(t, tree), "dims %v", d)
	}
}

func TestBuild_OddDimensionsCover(t *testing.T) {
	g, err := volume.Sphere(9, 5, 7, 1000, 0)
	require.NoError(t, err)

	for _, kind := range []format.LeafKind{format.LeafBlock, format.LeafPoint} {
		tree := buildTree(t, g, WithLeafKind(kind))
		require.Equal(t, uint64(9*5*7), leafVoxels(t, tree))
	}
}

func TestBuild_PointLeaves(t *testing.T) {
	g, err := volume.Checkerboard(8, 8, 8, 0, 1000)
	require.NoError(t, err)

	t.Run("DefaultMaxDepth", func(t *testing.T) {
		tree := buildTree(t, g, WithPointLeaves())
		require.Equal(t, DefaultMaxDepth(8, 8, 8), tree.MaxDepth)
		require.Equal(t, 4, tree.MaxDepth)
		require.Equal(t, 585, tree.Count().Total)
	})

	t.Run("DepthCap", func(t *testing.T) {
		tree := buildTree(t, g, WithPointLeaves(), WithMaxDepth(1))
		require.Equal(t, Counts{Total: 9, Leaves: 8, Internals: 1}, tree.Count())
		require.Equal(t, 1, tree.Depth())

		children := region.Partition(tree.RootRegion())
		for i, child := range tree.Root.Children {
			cx, cy, cz := children[i].Center()
			require.Equal(t, KindPointLeaf, child.Kind)
			require.Equal(t, Coord{X: cx, Y: cy, Z: cz}, child.Point)
			require.Equal(t, g.Sample(cx, cy, cz), child.Value)
		}
	})

	t.Run("ZeroDepthCap", func(t *testing.T) {
		tree := buildTree(t, g, WithPointLeaves(), WithMaxDepth(0))
		require.True(t, tree.Root.IsLeaf())
		require.Equal(t, Coord{X: 4, Y: 4, Z: 4}, tree.Root.Point)
	})

	t.Run("BlockIgnoresCap", func(t *testing.T) {
		tree := buildTree(t, g, WithBlockLeaves(), WithMaxDepth(1))
		require.Equal(t, Unbounded, tree.MaxDepth)
		require.Equal(t, 3, tree.Depth())
	})
}

func TestPointLeaf_CenterOutsideVolume(t *testing.T) {
	g, err := volume.Uniform(4, 4, 4, 7)
	require.NoError(t, err)

	run := &buildRun{src: g, point: true}

	leaf := run.pointLeaf(region.Region{MinX: 3, SizeX: 4, SizeY: 4, SizeZ: 4}, nil)
	require.Equal(t, KindPointLeaf, leaf.Kind)
	require.Equal(t, float32(7), leaf.Value)
	require.Equal(t, Coord{X: 3, Y: 2, Z: 2}, leaf.Point)

	empty := run.build(region.Region{MinX: 10, SizeX: 2, SizeY: 2, SizeZ: 2}, 0)
	require.Equal(t, float32(0), empty.Value)
	require.Equal(t, Coord{X: 3, Y: 1, Z: 1}, empty.Point)
}

func TestBuild_EmptyRegionBlockLeaf(t *testing.T) {
	g, err := volume.Uniform(2, 2, 2, 9)
	require.NoError(t, err)

	run := &buildRun{src: g, threshold: DefaultFluctuationThreshold, maxDepth: Unbounded}

	require.Equal(t, NewBlockLeaf(0), run.build(region.Region{MinX: 4, SizeX: 2, SizeY: 2, SizeZ: 2}, 0))
	require.Equal(t, NewBlockLeaf(0), run.build(region.Region{MinX: 5, SizeX: 1, SizeY: 1, SizeZ: 1}, 0))
	require.Equal(t, NewBlockLeaf(0), run.build(region.Region{SizeX: 0, SizeY: 2, SizeZ: 2}, 0))
}

func TestBuild_LogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	g, err := volume.Uniform(2, 2, 2, 1)
	require.NoError(t, err)

	buildTree(t, g, WithLogger(zap.New(core)))

	entries := logs.FilterMessage("octree built").All()
	require.Len(t, entries, 1)
	require.Equal(t, int64(1), entries[0].ContextMap()["nodes"])
}

func BenchmarkBuild_Sphere(b *testing.B) {
	g, err := volume.Sphere(64, 64, 64, 1000, 0)
	require.NoError(b, err)

	builder, err := NewBuilder()
	require.NoError(b, err)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := builder.Build(g); err != nil {
			b.Fatal(err)
		}
	}
}
