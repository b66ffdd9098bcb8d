package section

import "github.com/arloliu/voxoct/format"

// Node tags, one byte ahead of every node.
const (
	TagLeaf     = 0x00 // TagLeaf is followed by a leaf payload.
	TagInternal = 0x01 // TagInternal is followed by exactly eight child nodes.
)

// offset and section sizes in the octree stream
const (
	HeaderSize      = 12 // fixed header size in bytes: nx, ny, nz as uint32
	TagSize         = 1  // node tag size in bytes
	RootNodeOffset  = HeaderSize
	BlockLeafSize   = TagSize + format.BlockLeafPayloadSize // tag + value
	PointLeafSize   = TagSize + format.PointLeafPayloadSize // tag + value + x, y, z
	MinStreamLength = HeaderSize + BlockLeafSize            // a single block leaf
)
