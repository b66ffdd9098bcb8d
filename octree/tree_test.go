package octree

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/voxoct/region"
	"github.com/arloliu/voxoct/volume"
)

func gradientTree(t *testing.T, opts ...BuilderOption) *Tree {
	t.Helper()

	g, err := volume.Gradient(4, 4, 4, 0, 30)
	require.NoError(t, err)

	return buildTree(t, g, append([]BuilderOption{WithFluctuationThreshold(29)}, opts...)...)
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "BlockLeaf", KindBlockLeaf.String())
	require.Equal(t, "PointLeaf", KindPointLeaf.String())
	require.Equal(t, "Internal", KindInternal.String())
	require.Equal(t, "Unknown", Kind(9).String())
}

func TestTree_Walk(t *testing.T) {
	tree := gradientTree(t)

	var depths []int
	var regions []region.Region
	err := tree.Walk(func(_ *Node, r region.Region, depth int) error {
		depths = append(depths, depth)
		regions = append(regions, r)

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 1, 1, 1, 1, 1, 1, 1}, depths)
	require.Equal(t, tree.RootRegion(), regions[0])
	require.Equal(t, region.Region{MinZ: 2, SizeX: 2, SizeY: 2, SizeZ: 2}, regions[2])

	t.Run("StopsOnError", func(t *testing.T) {
		stop := errors.New("stop")
		visited := 0
		err := tree.Walk(func(*Node, region.Region, int) error {
			visited++
			if visited == 3 {
				return stop
			}

			return nil
		})
		require.ErrorIs(t, err, stop)
		require.Equal(t, 3, visited)
	})
}

func TestTree_LeafPoints(t *testing.T) {
	t.Run("BlockLeavesUseRegionCenter", func(t *testing.T) {
		g, err := volume.Uniform(4, 4, 4, 7)
		require.NoError(t, err)

		points := buildTree(t, g).LeafPoints()
		require.Equal(t, []Point{{Position: r3.Vector{X: 2, Y: 2, Z: 2}, Value: 7}}, points)
	})

	t.Run("PointLeavesUseStoredCoord", func(t *testing.T) {
		tree := gradientTree(t, WithPointLeaves())

		points := tree.LeafPoints()
		require.Len(t, points, 8)
		// child 1 covers z in [2, 4), centered at (1, 1, 3)
		require.Equal(t, r3.Vector{X: 1, Y: 1, Z: 3}, points[1].Position)
		require.Equal(t, float32(30), points[1].Value)
	})
}

func TestTree_FindLeaf(t *testing.T) {
	tree := gradientTree(t)

	leaf, r, ok := tree.FindLeaf(0, 0, 3)
	require.True(t, ok)
	require.Equal(t, float32(25), leaf.Value)
	require.Equal(t, region.Region{MinZ: 2, SizeX: 2, SizeY: 2, SizeZ: 2}, r)

	leaf, r, ok = tree.FindLeaf(3, 3, 0)
	require.True(t, ok)
	require.Equal(t, float32(5), leaf.Value)
	require.Equal(t, region.Region{MinX: 2, MinY: 2, SizeX: 2, SizeY: 2, SizeZ: 2}, r)

	_, _, ok = tree.FindLeaf(4, 0, 0)
	require.False(t, ok)
	_, _, ok = tree.FindLeaf(0, -1, 0)
	require.False(t, ok)
}

func TestTree_ValueSummary(t *testing.T) {
	t.Run("Split", func(t *testing.T) {
		s := gradientTree(t).ValueSummary()
		require.Equal(t, 8, s.Leaves)
		require.Equal(t, 5.0, s.Min)
		require.Equal(t, 25.0, s.Max)
		require.InDelta(t, 15.0, s.Mean, 1e-9)
		require.InDelta(t, 15.0, s.WeightedMean, 1e-9)
		require.InDelta(t, math.Sqrt(800.0/7), s.StdDev, 1e-9)
	})

	t.Run("SingleLeaf", func(t *testing.T) {
		g, err := volume.Uniform(3, 3, 3, -2)
		require.NoError(t, err)

		s := buildTree(t, g).ValueSummary()
		require.Equal(t, Summary{Leaves: 1, Min: -2, Max: -2, Mean: -2, WeightedMean: -2}, s)
	})
}

func TestTree_Dimensions(t *testing.T) {
	g, err := volume.Uniform(3, 5, 2, 0)
	require.NoError(t, err)

	tree := buildTree(t, g)
	nx, ny, nz := tree.Dimensions()
	require.Equal(t, [3]uint32{3, 5, 2}, [3]uint32{nx, ny, nz})
	require.Equal(t, uint64(30), tree.Voxels())
	require.Equal(t, region.Root(3, 5, 2), tree.RootRegion())
}
