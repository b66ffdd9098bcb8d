package volume

import (
	"math"

	"github.com/arloliu/voxoct/region"
)

// RegionStats summarizes the samples inside a region.
type RegionStats struct {
	Count uint64
	Min   float32
	Max   float32
	Sum   float64
}

// Mean returns the arithmetic mean of the scanned samples, or 0 when there are none.
func (s RegionStats) Mean() float32 {
	if s.Count == 0 {
		return 0
	}

	return float32(s.Sum / float64(s.Count))
}

// Fluctuation returns Max - Min, or 0 when there are no samples.
func (s RegionStats) Fluctuation() float32 {
	if s.Count == 0 {
		return 0
	}

	return s.Max - s.Min
}

// Clip intersects r with the bounds of src.
func Clip(src Source, r region.Region) region.Region {
	nx, ny, nz := src.Dimensions()
	x0, y0, z0 := max(r.MinX, 0), max(r.MinY, 0), max(r.MinZ, 0)
	x1, y1, z1 := r.Max()
	x1, y1, z1 = min(x1, int(nx)), min(y1, int(ny)), min(z1, int(nz))

	return region.Region{
		MinX: x0, MinY: y0, MinZ: z0,
		SizeX: max(x1-x0, 0), SizeY: max(y1-y0, 0), SizeZ: max(z1-z0, 0),
	}
}

// InBounds reports whether (x, y, z) is a valid sample coordinate of src.
func InBounds(src Source, x, y, z int) bool {
	nx, ny, nz := src.Dimensions()

	return x >= 0 && x < int(nx) && y >= 0 && y < int(ny) && z >= 0 && z < int(nz)
}

// Scan computes count, min, max and sum of the samples of src inside r.
// Parts of r outside the volume are ignored, so a region entirely outside
// the volume yields a zero Count.
func Scan(src Source, r region.Region) RegionStats {
	c := Clip(src, r)
	if c.Empty() {
		return RegionStats{}
	}

	stats := RegionStats{
		Min: float32(math.Inf(1)),
		Max: float32(math.Inf(-1)),
	}

	if g, ok := src.(*Grid); ok {
		scanGrid(g, c, &stats)
		return stats
	}

	mx, my, mz := c.Max()
	for z := c.MinZ; z < mz; z++ {
		for y := c.MinY; y < my; y++ {
			for x := c.MinX; x < mx; x++ {
				stats.add(src.Sample(x, y, z))
			}
		}
	}

	return stats
}

// scanGrid walks contiguous x-rows of the backing slice directly.
func scanGrid(g *Grid, c region.Region, stats *RegionStats) {
	mx, my, mz := c.Max()
	for z := c.MinZ; z < mz; z++ {
		for y := c.MinY; y < my; y++ {
			start := g.index(c.MinX, y, z)
			for _, v := range g.data[start : start+(mx-c.MinX)] {
				stats.add(v)
			}
		}
	}
}

func (s *RegionStats) add(v float32) {
	s.Count++
	s.Sum += float64(v)
	if v < s.Min {
		s.Min = v
	}
	if v > s.Max {
		s.Max = v
	}
}
