package octree

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/voxoct/format"
	"github.com/arloliu/voxoct/region"
)

// Unbounded is the MaxDepth of trees built without a depth cap.
const Unbounded = -1

// Tree is a built octree over an NX × NY × NZ volume.
//
// A Tree is immutable after Build returns and safe for concurrent reads.
type Tree struct {
	Root Node

	NX, NY, NZ uint32
	LeafKind   format.LeafKind
	Threshold  float32
	MaxDepth   int // Unbounded for block-leaf trees
}

// Counts holds node counts of a tree or stream.
type Counts struct {
	Total     int
	Leaves    int
	Internals int
}

// Point is a leaf value anchored at a position in voxel space.
type Point struct {
	Position r3.Vector
	Value    float32
}

// Summary describes the distribution of leaf values.
type Summary struct {
	Leaves       int
	Min          float64
	Max          float64
	Mean         float64 // unweighted mean over leaves
	StdDev       float64 // unweighted standard deviation over leaves
	WeightedMean float64 // mean weighted by leaf voxel count
}

// Dimensions returns the volume size the tree was built over.
func (t *Tree) Dimensions() (nx, ny, nz uint32) {
	return t.NX, t.NY, t.NZ
}

// Voxels returns NX*NY*NZ.
func (t *Tree) Voxels() uint64 {
	return uint64(t.NX) * uint64(t.NY) * uint64(t.NZ)
}

// RootRegion returns the region covered by the root node.
func (t *Tree) RootRegion() region.Region {
	return region.Root(t.NX, t.NY, t.NZ)
}

// Walk visits every node in depth-first pre-order, passing the node's
// implicit region and depth. Returning an error from fn stops the walk and
// Walk returns that error.
func (t *Tree) Walk(fn func(n *Node, r region.Region, depth int) error) error {
	return walk(&t.Root, t.RootRegion(), 0, fn)
}

func walk(n *Node, r region.Region, depth int, fn func(*Node, region.Region, int) error) error {
	if err := fn(n, r, depth); err != nil {
		return err
	}

	if n.Kind != KindInternal {
		return nil
	}

	children := region.Partition(r)
	for i := range n.Children {
		if err := walk(&n.Children[i], children[i], depth+1, fn); err != nil {
			return err
		}
	}

	return nil
}

// Count returns the total, leaf and internal node counts.
func (t *Tree) Count() Counts {
	var c Counts
	_ = t.Walk(func(n *Node, _ region.Region, _ int) error {
		c.Total++
		if n.IsLeaf() {
			c.Leaves++
		} else {
			c.Internals++
		}

		return nil
	})

	return c
}

// Depth returns the depth of the deepest node; a single-leaf tree has depth 0.
func (t *Tree) Depth() int {
	deepest := 0
	_ = t.Walk(func(_ *Node, _ region.Region, depth int) error {
		deepest = max(deepest, depth)
		return nil
	})

	return deepest
}

// CompressionRatio returns voxel count divided by node count.
func (t *Tree) CompressionRatio() float64 {
	return float64(t.Voxels()) / float64(t.Count().Total)
}

// LeafPoints returns one point per leaf in pre-order.
//
// Point leaves report their stored sample coordinate. Block leaves report
// the geometric center of their region.
func (t *Tree) LeafPoints() []Point {
	var points []Point
	_ = t.Walk(func(n *Node, r region.Region, _ int) error {
		switch n.Kind {
		case KindPointLeaf:
			points = append(points, Point{
				Position: r3.Vector{X: float64(n.Point.X), Y: float64(n.Point.Y), Z: float64(n.Point.Z)},
				Value:    n.Value,
			})
		case KindBlockLeaf:
			points = append(points, Point{Position: RegionCenter(r), Value: n.Value})
		case KindInternal:
		}

		return nil
	})

	return points
}

// FindLeaf returns the leaf covering voxel (x, y, z) and its region.
// The boolean is false when the coordinate is outside the volume.
func (t *Tree) FindLeaf(x, y, z int) (*Node, region.Region, bool) {
	root := t.RootRegion()
	if !root.Contains(x, y, z) {
		return nil, region.Region{}, false
	}

	n, r := &t.Root, root
	for !n.IsLeaf() {
		children := region.Partition(r)
		next := -1
		for i, c := range children {
			if c.Contains(x, y, z) {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, region.Region{}, false
		}
		n, r = &n.Children[next], children[next]
	}

	return n, r, true
}

// ValueSummary computes statistics over all leaf values.
func (t *Tree) ValueSummary() Summary {
	var values, weights []float64
	_ = t.Walk(func(n *Node, r region.Region, _ int) error {
		if n.IsLeaf() {
			values = append(values, float64(n.Value))
			weights = append(weights, float64(r.Voxels()))
		}

		return nil
	})

	if len(values) == 0 {
		return Summary{}
	}

	s := Summary{Leaves: len(values), Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range values {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}

	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		s.StdDev = 0
	}
	s.WeightedMean = stat.Mean(values, weights)

	return s
}

// RegionCenter returns the geometric center of r, the position reported for
// block leaves.
func RegionCenter(r region.Region) r3.Vector {
	return r3.Vector{
		X: float64(r.MinX) + float64(r.SizeX)/2,
		Y: float64(r.MinY) + float64(r.SizeY)/2,
		Z: float64(r.MinZ) + float64(r.SizeZ)/2,
	}
}
