package section

import (
	"fmt"

	"github.com/arloliu/voxoct/endian"
	"github.com/arloliu/voxoct/errs"
)

// Header is the fixed 12-byte section at the start of an octree stream.
//
// It records the full volume dimensions the root node covers. Nothing else
// about the stream is self-describing: the leaf kind is agreed out of band.
type Header struct {
	NX uint32 // byte offset 0-3
	NY uint32 // byte offset 4-7
	NZ uint32 // byte offset 8-11
}

// NewHeader creates a header for an nx × ny × nz volume.
func NewHeader(nx, ny, nz uint32) Header {
	return Header{NX: nx, NY: ny, NZ: nz}
}

// Voxels returns NX*NY*NZ.
func (h Header) Voxels() uint64 {
	return uint64(h.NX) * uint64(h.NY) * uint64(h.NZ)
}

func (h Header) String() string {
	return fmt.Sprintf("%dx%dx%d", h.NX, h.NY, h.NZ)
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 12 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 12 bytes
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: got %d bytes, want %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	engine := endian.GetLittleEndianEngine()
	h.NX = engine.Uint32(data[0:4])
	h.NY = engine.Uint32(data[4:8])
	h.NZ = engine.Uint32(data[8:12])

	return nil
}

// Bytes serializes the header into a new 12-byte slice.
func (h Header) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// AppendTo appends the serialized header to dst.
func (h Header) AppendTo(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()
	dst = engine.AppendUint32(dst, h.NX)
	dst = engine.AppendUint32(dst, h.NY)

	return engine.AppendUint32(dst, h.NZ)
}

// ParseHeader parses a Header from the first HeaderSize bytes of data.
//
// Returns:
//   - Header: Parsed header
//   - error: ErrInvalidHeaderSize if data is shorter than HeaderSize
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: got %d bytes, want %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	var h Header
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
