package volume

import (
	"fmt"
	"strings"

	"github.com/arloliu/voxoct/errs"
)

// Shape names a synthetic volume generator.
type Shape string

const (
	ShapeUniform  Shape = "uniform"  // every sample equal
	ShapeChecker  Shape = "checker"  // alternating extremes, maximal fluctuation
	ShapeGradient Shape = "gradient" // linear ramp along z
	ShapeSphere   Shape = "sphere"   // high-valued ball in a low-valued background
)

// Shapes lists the supported synthetic shapes.
func Shapes() []Shape {
	return []Shape{ShapeUniform, ShapeChecker, ShapeGradient, ShapeSphere}
}

// Synthesize builds an nx × ny × nz grid of the given shape.
//
// lo and hi bound the generated values: uniform volumes use lo only, the
// other shapes take values in [lo, hi].
func Synthesize(shape Shape, nx, ny, nz uint32, lo, hi float32) (*Grid, error) {
	switch Shape(strings.ToLower(string(shape))) {
	case ShapeUniform:
		return Uniform(nx, ny, nz, lo)
	case ShapeChecker:
		return Checkerboard(nx, ny, nz, lo, hi)
	case ShapeGradient:
		return Gradient(nx, ny, nz, lo, hi)
	case ShapeSphere:
		return Sphere(nx, ny, nz, hi, lo)
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidShape, shape)
	}
}

// Uniform returns a grid with every sample set to v.
func Uniform(nx, ny, nz uint32, v float32) (*Grid, error) {
	g, err := NewGrid(nx, ny, nz)
	if err != nil {
		return nil, err
	}
	g.Fill(v)

	return g, nil
}

// Checkerboard alternates lo and hi between face-adjacent voxels.
func Checkerboard(nx, ny, nz uint32, lo, hi float32) (*Grid, error) {
	g, err := NewGrid(nx, ny, nz)
	if err != nil {
		return nil, err
	}

	for z := range g.nz {
		for y := range g.ny {
			for x := range g.nx {
				v := lo
				if (x+y+z)%2 == 1 {
					v = hi
				}
				g.Set(x, y, z, v)
			}
		}
	}

	return g, nil
}

// Gradient ramps linearly from lo at z=0 to hi at z=nz-1.
func Gradient(nx, ny, nz uint32, lo, hi float32) (*Grid, error) {
	g, err := NewGrid(nx, ny, nz)
	if err != nil {
		return nil, err
	}

	for z := range g.nz {
		v := lo
		if g.nz > 1 {
			v = lo + (hi-lo)*float32(z)/float32(g.nz-1)
		}
		for y := range g.ny {
			for x := range g.nx {
				g.Set(x, y, z, v)
			}
		}
	}

	return g, nil
}

// Sphere places a ball of value inside, radius a third of the smallest
// dimension, at the volume center; everything else is outside.
func Sphere(nx, ny, nz uint32, inside, outside float32) (*Grid, error) {
	g, err := NewGrid(nx, ny, nz)
	if err != nil {
		return nil, err
	}

	cx, cy, cz := float64(g.nx)/2, float64(g.ny)/2, float64(g.nz)/2
	r := float64(min(g.nx, g.ny, g.nz)) / 3
	r2 := r * r

	for z := range g.nz {
		for y := range g.ny {
			for x := range g.nx {
				dx, dy, dz := float64(x)+0.5-cx, float64(y)+0.5-cy, float64(z)+0.5-cz
				v := outside
				if dx*dx+dy*dy+dz*dz <= r2 {
					v = inside
				}
				g.Set(x, y, z, v)
			}
		}
	}

	return g, nil
}
