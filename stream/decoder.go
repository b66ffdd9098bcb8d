package stream

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/golang/geo/r3"

	"github.com/arloliu/voxoct/errs"
	"github.com/arloliu/voxoct/format"
	"github.com/arloliu/voxoct/internal/hash"
	"github.com/arloliu/voxoct/octree"
	"github.com/arloliu/voxoct/region"
	"github.com/arloliu/voxoct/section"
)

// MaxDecodeDepth bounds the recursion of every decoding pass. A well-formed
// stream over a volume with dimensions below 2^32 never nests deeper than 33.
const MaxDecodeDepth = 64

// Decoder reads octree streams.
//
// A Decoder built with NewBytesDecoder may run any number of passes over its
// data. A Decoder built with NewDecoder consumes its reader on the first pass.
//
// Note: Decoder is NOT thread-safe.
type Decoder struct {
	src       io.Reader
	data      []byte
	fromBytes bool
	kind      format.LeafKind
}

// NewDecoder creates a decoder reading a kind stream from r.
func NewDecoder(r io.Reader, kind format.LeafKind) *Decoder {
	return &Decoder{src: r, kind: kind}
}

// NewBytesDecoder creates a decoder over an in-memory kind stream.
func NewBytesDecoder(data []byte, kind format.LeafKind) *Decoder {
	return &Decoder{data: data, fromBytes: true, kind: kind}
}

// LeafKind returns the leaf kind the decoder expects.
func (d *Decoder) LeafKind() format.LeafKind {
	return d.kind
}

// Stats holds the result of a fast decoding pass.
type Stats struct {
	Header        section.Header
	Counts        octree.Counts
	MaxDepth      int    // depth of the deepest node
	BytesRead     int64  // header plus tree, excluding trailing bytes
	TrailingBytes int64  // bytes after the root node
	Checksum      uint64 // xxHash64 of the BytesRead bytes
}

// Voxels returns the voxel count declared by the header.
func (s Stats) Voxels() uint64 {
	return s.Header.Voxels()
}

// CompressionRatio returns declared voxels divided by total nodes.
func (s Stats) CompressionRatio() float64 {
	if s.Counts.Total == 0 {
		return 0
	}

	return float64(s.Voxels()) / float64(s.Counts.Total)
}

// SpaceSaving returns 1 - nodes/voxels, the fraction of per-voxel storage avoided.
func (s Stats) SpaceSaving() float64 {
	v := s.Voxels()
	if v == 0 {
		return 0
	}

	return 1 - float64(s.Counts.Total)/float64(v)
}

// Visit describes one node reached by Walk.
type Visit struct {
	Kind   octree.Kind
	Depth  int
	Region region.Region
	Value  float32 // leaves only
	// Point is the stored sample coordinate of point leaves and the region
	// center of block leaves. Zero for internal nodes.
	Point r3.Vector
}

// Stats runs the fast pass: node counts, checksum and trailing bytes.
// Node regions are not tracked.
//
// Returns:
//   - Stats: Counts and stream metadata
//   - error: ErrInvalidHeaderSize, ErrTruncated, ErrInvalidTag, ErrDepthExceeded or ErrInvalidLeafKind
func (d *Decoder) Stats() (Stats, error) {
	return d.run(false, func(*Visit) error { return nil })
}

// Walk visits every node in stream order.
//
// Returning an error from fn stops the walk; Walk returns that error.
func (d *Decoder) Walk(fn func(Visit) error) error {
	_, err := d.run(true, func(v *Visit) error {
		return fn(*v)
	})

	return err
}

// run decodes the header and root node, calling fn for every node.
func (d *Decoder) run(withRegions bool, fn func(*Visit) error) (Stats, error) {
	if !d.kind.Valid() {
		return Stats{}, fmt.Errorf("%w: %v", errs.ErrInvalidLeafKind, d.kind)
	}

	c := d.open()

	raw, err := c.read(section.HeaderSize)
	if err != nil {
		if errors.Is(err, errs.ErrTruncated) {
			return Stats{}, fmt.Errorf("%w: stream shorter than %d bytes", errs.ErrInvalidHeaderSize, section.HeaderSize)
		}

		return Stats{}, err
	}

	header, err := section.ParseHeader(raw)
	if err != nil {
		return Stats{}, err
	}

	w := &walker{
		cursor:      c,
		kind:        d.kind,
		payloadSize: d.kind.PayloadSize(),
		withRegions: withRegions,
		fn:          fn,
	}

	if err := w.node(region.Root(header.NX, header.NY, header.NZ), 0); err != nil {
		return Stats{}, err
	}

	trailing, err := io.Copy(io.Discard, c.r)
	if err != nil {
		return Stats{}, fmt.Errorf("read octree stream trailer: %w", err)
	}

	return Stats{
		Header:        header,
		Counts:        w.counts,
		MaxDepth:      w.maxDepth,
		BytesRead:     c.offset,
		TrailingBytes: trailing,
		Checksum:      c.digest.Sum64(),
	}, nil
}

func (d *Decoder) open() *cursor {
	src := d.src
	if d.fromBytes || src == nil {
		src = bytes.NewReader(d.data)
	}

	return &cursor{r: bufio.NewReader(src), digest: hash.New()}
}

// cursor reads the stream sequentially, hashing and counting consumed bytes.
type cursor struct {
	r      *bufio.Reader
	digest *hash.Digest
	offset int64
	buf    [format.PointLeafPayloadSize]byte
}

// read returns the next n bytes; the slice is valid until the next call.
func (c *cursor) read(n int) ([]byte, error) {
	b := c.buf[:n]
	got, err := io.ReadFull(c.r, b)
	_, _ = c.digest.Write(b[:got])
	c.offset += int64(got)

	if err != nil {
		start := c.offset - int64(got)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: need %d bytes at offset %d, got %d", errs.ErrTruncated, n, start, got)
		}

		return nil, fmt.Errorf("read octree stream at offset %d: %w", start, err)
	}

	return b, nil
}

// walker carries the state of one decoding pass.
type walker struct {
	cursor      *cursor
	kind        format.LeafKind
	payloadSize int
	withRegions bool
	fn          func(*Visit) error

	counts   octree.Counts
	maxDepth int
}

func (w *walker) node(r region.Region, depth int) error {
	if depth > MaxDecodeDepth {
		return fmt.Errorf("%w: depth %d at offset %d", errs.ErrDepthExceeded, depth, w.cursor.offset)
	}

	offset := w.cursor.offset
	tag, err := w.cursor.read(section.TagSize)
	if err != nil {
		return err
	}

	w.counts.Total++
	w.maxDepth = max(w.maxDepth, depth)

	switch tag[0] {
	case section.TagLeaf:
		w.counts.Leaves++
		return w.leaf(r, depth)

	case section.TagInternal:
		w.counts.Internals++
		if err := w.fn(&Visit{Kind: octree.KindInternal, Depth: depth, Region: r}); err != nil {
			return err
		}

		var children [region.ChildCount]region.Region
		if w.withRegions {
			children = region.Partition(r)
		}
		for i := range children {
			if err := w.node(children[i], depth+1); err != nil {
				return err
			}
		}

		return nil

	default:
		return fmt.Errorf("%w: 0x%02x at offset %d", errs.ErrInvalidTag, tag[0], offset)
	}
}

func (w *walker) leaf(r region.Region, depth int) error {
	raw, err := w.cursor.read(w.payloadSize)
	if err != nil {
		return err
	}

	payload, err := section.ParseLeafPayload(raw, w.kind)
	if err != nil {
		return err
	}

	v := Visit{Depth: depth, Region: r, Value: payload.Value}
	if w.kind == format.LeafPoint {
		v.Kind = octree.KindPointLeaf
		v.Point = r3.Vector{X: float64(payload.X), Y: float64(payload.Y), Z: float64(payload.Z)}
	} else {
		v.Kind = octree.KindBlockLeaf
		if w.withRegions {
			v.Point = octree.RegionCenter(r)
		}
	}

	return w.fn(&v)
}
