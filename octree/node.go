package octree

import "github.com/arloliu/voxoct/region"

// Kind identifies the variant of a Node.
type Kind uint8

const (
	// KindBlockLeaf is a leaf holding the mean value of its region.
	KindBlockLeaf Kind = iota
	// KindPointLeaf is a leaf holding one representative sample and its coordinate.
	KindPointLeaf
	// KindInternal is a node owning exactly eight children.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindBlockLeaf:
		return "BlockLeaf"
	case KindPointLeaf:
		return "PointLeaf"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Coord is an integer voxel coordinate.
type Coord struct {
	X, Y, Z int
}

// Node is one octree node.
//
// Leaves carry no geometry besides the optional point coordinate; a node's
// region is implied by its position in the tree (see region.Partition).
// Internal nodes exclusively own their children, in partition order.
type Node struct {
	Children *[region.ChildCount]Node // set only for KindInternal
	Value    float32                  // leaf value
	Point    Coord                    // sample coordinate, KindPointLeaf only
	Kind     Kind
}

// IsLeaf reports whether n is a block or point leaf.
func (n *Node) IsLeaf() bool {
	return n.Kind != KindInternal
}

// NewBlockLeaf returns a block leaf with value v.
func NewBlockLeaf(v float32) Node {
	return Node{Kind: KindBlockLeaf, Value: v}
}

// NewPointLeaf returns a point leaf sampled at p.
func NewPointLeaf(v float32, p Coord) Node {
	return Node{Kind: KindPointLeaf, Value: v, Point: p}
}

// NewInternal returns an internal node owning children.
func NewInternal(children [region.ChildCount]Node) Node {
	return Node{Kind: KindInternal, Children: &children}
}
