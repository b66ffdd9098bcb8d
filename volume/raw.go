package volume

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"

	"github.com/arloliu/voxoct/endian"
	"github.com/arloliu/voxoct/errs"
)

// rawChunkSamples is the number of samples decoded per read call.
const rawChunkSamples = 16 * 1024

// ReadRaw reads nx*ny*nz float32 samples, z-major, in the byte order of engine.
//
// The input must contain exactly the expected number of samples; short or
// oversized input fails with ErrVolumeSizeMismatch.
//
// Parameters:
//   - r: Sample source
//   - nx, ny, nz: Volume dimensions
//   - engine: Byte order of the samples (reference volumes are big-endian)
//
// Returns:
//   - *Grid: Loaded volume
//   - error: ErrInvalidDimensions, ErrVolumeSizeMismatch, or a read error
func ReadRaw(r io.Reader, nx, ny, nz uint32, engine endian.EndianEngine) (*Grid, error) {
	g, err := NewGrid(nx, ny, nz)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, rawChunkSamples*4)
	for off := 0; off < len(g.data); {
		n := min(rawChunkSamples, len(g.data)-off)
		chunk := buf[:n*4]
		if _, err := io.ReadFull(r, chunk); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: expected %d samples, input ended near sample %d",
					errs.ErrVolumeSizeMismatch, len(g.data), off)
			}

			return nil, fmt.Errorf("read volume samples: %w", err)
		}

		for i := range n {
			g.data[off+i] = endian.Float32(engine, chunk[i*4:])
		}
		off += n
	}

	var probe [1]byte
	if n, _ := r.Read(probe[:]); n > 0 {
		return nil, fmt.Errorf("%w: input has more than %d samples", errs.ErrVolumeSizeMismatch, len(g.data))
	}

	return g, nil
}

// LoadRawFile opens path and reads it with ReadRaw.
func LoadRawFile(path string, nx, ny, nz uint32, engine endian.EndianEngine) (g *Grid, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	g, err = ReadRaw(bufio.NewReader(f), nx, ny, nz, engine)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return g, nil
}

// WriteRaw writes every sample of src, z-major, in the byte order of engine.
func WriteRaw(w io.Writer, src Source, engine endian.EndianEngine) error {
	nx, ny, nz := src.Dimensions()
	row := make([]byte, 0, int(nx)*4)

	for z := range int(nz) {
		for y := range int(ny) {
			row = row[:0]
			for x := range int(nx) {
				row = endian.AppendFloat32(engine, row, src.Sample(x, y, z))
			}
			if _, err := w.Write(row); err != nil {
				return fmt.Errorf("write volume samples: %w", err)
			}
		}
	}

	return nil
}

// SaveRawFile writes src to path with WriteRaw.
func SaveRawFile(path string, src Source, engine endian.EndianEngine) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	bw := bufio.NewWriter(f)
	if err := WriteRaw(bw, src, engine); err != nil {
		return err
	}

	return bw.Flush()
}
