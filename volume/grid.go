// Package volume provides read access to dense, regularly sampled 3D scalar
// fields: the Source interface consumed by the octree builder, an in-memory
// Grid, raw float32 file loading, and synthetic test volumes.
//
// # Layout
//
// Samples are stored z-major, matching the raw files produced by the seismic
// tooling the format originates from:
//
//	index = (z*ny + y)*nx + x
package volume

import (
	"fmt"
	"math"

	"github.com/arloliu/voxoct/errs"
)

// Source is a read-only 3D scalar grid.
//
// Sample is only called with 0 <= x < nx, 0 <= y < ny, 0 <= z < nz; bounds
// checking is the caller's responsibility.
type Source interface {
	Dimensions() (nx, ny, nz uint32)
	Sample(x, y, z int) float32
}

// Grid is a dense in-memory Source.
//
// Note: Grid is safe for concurrent reads. Set must not race with readers.
type Grid struct {
	nx, ny, nz int
	data       []float32
}

var _ Source = (*Grid)(nil)

// NewGrid allocates a zero-filled nx × ny × nz grid.
//
// Returns:
//   - *Grid: The allocated grid
//   - error: ErrInvalidDimensions if any dimension is zero or the volume overflows int
func NewGrid(nx, ny, nz uint32) (*Grid, error) {
	n, err := voxelCount(nx, ny, nz)
	if err != nil {
		return nil, err
	}

	return &Grid{nx: int(nx), ny: int(ny), nz: int(nz), data: make([]float32, n)}, nil
}

// NewGridFromSlice wraps data, laid out z-major, as an nx × ny × nz grid.
// The grid takes ownership of data.
//
// Returns:
//   - *Grid: The wrapping grid
//   - error: ErrInvalidDimensions, or ErrVolumeSizeMismatch if len(data) != nx*ny*nz
func NewGridFromSlice(nx, ny, nz uint32, data []float32) (*Grid, error) {
	n, err := voxelCount(nx, ny, nz)
	if err != nil {
		return nil, err
	}

	if len(data) != n {
		return nil, fmt.Errorf("%w: expected %d samples, got %d", errs.ErrVolumeSizeMismatch, n, len(data))
	}

	return &Grid{nx: int(nx), ny: int(ny), nz: int(nz), data: data}, nil
}

func voxelCount(nx, ny, nz uint32) (int, error) {
	if nx == 0 || ny == 0 || nz == 0 {
		return 0, fmt.Errorf("%w: %d×%d×%d", errs.ErrInvalidDimensions, nx, ny, nz)
	}

	n := uint64(nx) * uint64(ny) * uint64(nz)
	if n > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d×%d×%d is too large for memory", errs.ErrInvalidDimensions, nx, ny, nz)
	}

	return int(n), nil
}

// Dimensions returns the grid size.
func (g *Grid) Dimensions() (nx, ny, nz uint32) {
	return uint32(g.nx), uint32(g.ny), uint32(g.nz) //nolint: gosec
}

// Sample returns the value at (x, y, z).
func (g *Grid) Sample(x, y, z int) float32 {
	return g.data[g.index(x, y, z)]
}

// Set stores v at (x, y, z).
func (g *Grid) Set(x, y, z int, v float32) {
	g.data[g.index(x, y, z)] = v
}

// Fill sets every sample to v.
func (g *Grid) Fill(v float32) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Len returns the number of samples.
func (g *Grid) Len() int {
	return len(g.data)
}

// Values returns the backing z-major sample slice.
// The caller must not modify it while the grid is in use.
func (g *Grid) Values() []float32 {
	return g.data
}

func (g *Grid) index(x, y, z int) int {
	return (z*g.ny+y)*g.nx + x
}
