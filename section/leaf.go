package section

import (
	"fmt"

	"github.com/arloliu/voxoct/endian"
	"github.com/arloliu/voxoct/errs"
	"github.com/arloliu/voxoct/format"
)

// LeafPayload is the data following a TagLeaf byte.
//
// Block leaves serialize Value only (4 bytes). Point leaves serialize Value
// then X, Y, Z (16 bytes), with the integer sample coordinate stored as float32.
type LeafPayload struct {
	Value   float32
	X, Y, Z float32 // point leaves only
}

// AppendTo appends the payload for the given leaf kind to dst.
//
// Returns:
//   - []byte: dst with the payload appended
//   - error: ErrInvalidLeafKind for an unknown kind
func (p LeafPayload) AppendTo(dst []byte, kind format.LeafKind) ([]byte, error) {
	engine := endian.GetLittleEndianEngine()

	switch kind {
	case format.LeafBlock:
		return endian.AppendFloat32(engine, dst, p.Value), nil
	case format.LeafPoint:
		dst = endian.AppendFloat32(engine, dst, p.Value)
		dst = endian.AppendFloat32(engine, dst, p.X)
		dst = endian.AppendFloat32(engine, dst, p.Y)

		return endian.AppendFloat32(engine, dst, p.Z), nil
	default:
		return dst, fmt.Errorf("%w: %v", errs.ErrInvalidLeafKind, kind)
	}
}

// ParseLeafPayload decodes a payload of the given kind from data.
//
// Parameters:
//   - data: Byte slice holding exactly kind.PayloadSize() bytes
//   - kind: Leaf kind of the stream
//
// Returns:
//   - LeafPayload: Decoded payload; X, Y, Z are zero for block leaves
//   - error: ErrInvalidLeafKind, or ErrTruncated if data has the wrong length
func ParseLeafPayload(data []byte, kind format.LeafKind) (LeafPayload, error) {
	size := kind.PayloadSize()
	if size == 0 {
		return LeafPayload{}, fmt.Errorf("%w: %v", errs.ErrInvalidLeafKind, kind)
	}
	if len(data) != size {
		return LeafPayload{}, fmt.Errorf("%w: leaf payload has %d bytes, want %d", errs.ErrTruncated, len(data), size)
	}

	engine := endian.GetLittleEndianEngine()
	p := LeafPayload{Value: endian.Float32(engine, data[0:4])}
	if kind == format.LeafPoint {
		p.X = endian.Float32(engine, data[4:8])
		p.Y = endian.Float32(engine, data[8:12])
		p.Z = endian.Float32(engine, data[12:16])
	}

	return p, nil
}
