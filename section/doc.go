// Package section defines the low-level binary structures and constants of the
// voxoct octree stream.
//
// # Stream Structure
//
// An octree stream is a fixed header followed by the tree in depth-first
// pre-order:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (12 bytes, fixed)                                │
//	│  - nx, ny, nz (uint32 little-endian)                    │
//	├─────────────────────────────────────────────────────────┤
//	│ Root node (variable)                                    │
//	│  - tag 0x01: internal, followed by 8 child nodes        │
//	│  - tag 0x00: leaf, followed by a leaf payload           │
//	└─────────────────────────────────────────────────────────┘
//
// # Leaf Payloads
//
//	Kind   | Bytes | Fields
//	-------|-------|----------------------------------------
//	Block  | 4     | value:f32
//	Point  | 16    | value:f32, x:f32, y:f32, z:f32
//
// The stream carries no leaf-kind marker and no per-node geometry. Readers
// must know the leaf kind in advance and recover each node's region by
// replaying region.Partition from the header dimensions.
//
// # Byte Order
//
// All multi-byte fields are little-endian.
//
// # Usage Examples
//
// Serializing a header:
//
//	buf := section.NewHeader(64, 64, 32).Bytes()
//
// Parsing from bytes:
//
//	header, err := section.ParseHeader(data)
//
// Encoding a point leaf:
//
//	buf = append(buf, section.TagLeaf)
//	buf, err = section.LeafPayload{Value: 7, X: 2, Y: 2, Z: 2}.AppendTo(buf, format.LeafPoint)
//
// Most users should use the stream package instead of this package directly.
package section
