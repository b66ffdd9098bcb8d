package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/voxoct/errs"
	"github.com/arloliu/voxoct/format"
	"github.com/arloliu/voxoct/internal/pool"
	"github.com/arloliu/voxoct/octree"
	"github.com/arloliu/voxoct/section"
)

// flushThreshold is the buffered size at which the encoder writes through to
// the underlying writer.
const flushThreshold = pool.StreamBufferDefaultSize

var errNilWriter = errors.New("nil writer")

// Encoder writes octrees to an io.Writer.
//
// Every leaf of an encoded tree must match the encoder's leaf kind; streams
// are single-kind end to end.
//
// Note: Encoder is NOT thread-safe.
type Encoder struct {
	w       io.Writer
	kind    format.LeafKind
	buf     *pool.ByteBuffer
	written int64
}

// NewEncoder creates an encoder writing kind leaves to w.
func NewEncoder(w io.Writer, kind format.LeafKind) *Encoder {
	return &Encoder{w: w, kind: kind}
}

// Encode writes the header and all nodes of t.
//
// Output is buffered in a pooled buffer and written through in chunks, so on
// error some bytes may already have reached the writer.
//
// Returns:
//   - error: ErrNilTree, ErrInvalidLeafKind, ErrLeafKindMismatch,
//     ErrMalformedNode, or a wrapped write error
func (e *Encoder) Encode(t *octree.Tree) error {
	if e.w == nil {
		return errNilWriter
	}

	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	return e.encodeInto(t, buf)
}

// BytesWritten returns the number of bytes written to the underlying writer.
func (e *Encoder) BytesWritten() int64 {
	return e.written
}

// EncodeBytes encodes t in memory using the tree's own leaf kind.
//
// Returns:
//   - []byte: The complete stream
//   - error: Same conditions as Encoder.Encode
func EncodeBytes(t *octree.Tree) ([]byte, error) {
	if t == nil {
		return nil, errs.ErrNilTree
	}

	e := &Encoder{kind: t.LeafKind}
	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	if err := e.encodeInto(t, buf); err != nil {
		return nil, err
	}

	return buf.Clone(), nil
}

func (e *Encoder) encodeInto(t *octree.Tree, buf *pool.ByteBuffer) error {
	if t == nil {
		return errs.ErrNilTree
	}
	if !e.kind.Valid() {
		return fmt.Errorf("%w: %v", errs.ErrInvalidLeafKind, e.kind)
	}

	e.buf = buf
	defer func() { e.buf = nil }()

	buf.B = section.NewHeader(t.NX, t.NY, t.NZ).AppendTo(buf.B)
	if err := e.appendNode(&t.Root); err != nil {
		return err
	}

	if e.w != nil {
		return e.flush()
	}

	return nil
}

func (e *Encoder) appendNode(n *octree.Node) error {
	switch n.Kind {
	case octree.KindInternal:
		if n.Children == nil {
			return fmt.Errorf("%w: internal node without children", errs.ErrMalformedNode)
		}

		e.buf.B = append(e.buf.B, section.TagInternal)
		for i := range n.Children {
			if err := e.appendNode(&n.Children[i]); err != nil {
				return err
			}
		}

		return nil

	case octree.KindBlockLeaf, octree.KindPointLeaf:
		return e.appendLeaf(n)

	default:
		return fmt.Errorf("%w: unknown node kind %v", errs.ErrMalformedNode, n.Kind)
	}
}

func (e *Encoder) appendLeaf(n *octree.Node) error {
	if kind := leafKindOf(n.Kind); kind != e.kind {
		return fmt.Errorf("%w: %v leaf in %v stream", errs.ErrLeafKindMismatch, kind, e.kind)
	}

	payload := section.LeafPayload{Value: n.Value}
	if n.Kind == octree.KindPointLeaf {
		payload.X = float32(n.Point.X)
		payload.Y = float32(n.Point.Y)
		payload.Z = float32(n.Point.Z)
	}

	e.buf.B = append(e.buf.B, section.TagLeaf)

	var err error
	if e.buf.B, err = payload.AppendTo(e.buf.B, e.kind); err != nil {
		return err
	}

	if e.w != nil && e.buf.Len() >= flushThreshold {
		return e.flush()
	}

	return nil
}

func (e *Encoder) flush() error {
	if e.buf == nil || e.buf.Len() == 0 {
		return nil
	}

	n, err := e.buf.WriteTo(e.w)
	e.written += n
	e.buf.Reset()
	if err != nil {
		return fmt.Errorf("write octree stream: %w", err)
	}

	return nil
}

func leafKindOf(k octree.Kind) format.LeafKind {
	if k == octree.KindPointLeaf {
		return format.LeafPoint
	}

	return format.LeafBlock
}
