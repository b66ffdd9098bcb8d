// Package region implements the axis-aligned integer boxes an octree is built
// over, and the deterministic halving rule that splits a box into eight children.
//
// Octree streams store no per-node geometry. A decoder recovers every node's
// extent by replaying Partition from the header dimensions, so Partition is the
// single definition shared by the builder, the encoder and the decoder.
//
// # Split Rule
//
// For each axis of size d, the low child gets half = (d+1)/2 and the high child
// gets d-half, so the low child is never smaller than the high child.
//
// # Child Order
//
// Children are enumerated X outer, Y middle, Z inner:
//
//	index = dx*4 + dy*2 + dz   (dx, dy, dz ∈ {0=low, 1=high})
package region

import "fmt"

// ChildCount is the number of children produced by Partition.
const ChildCount = 8

// Region is an axis-aligned box of voxels described by its origin and size.
type Region struct {
	MinX, MinY, MinZ    int
	SizeX, SizeY, SizeZ int
}

// Root returns the region covering a whole nx × ny × nz volume.
func Root(nx, ny, nz uint32) Region {
	return Region{SizeX: int(nx), SizeY: int(ny), SizeZ: int(nz)}
}

// Voxels returns the number of voxels covered by the region.
// A region with any non-positive size covers zero voxels.
func (r Region) Voxels() uint64 {
	if r.Empty() {
		return 0
	}

	return uint64(r.SizeX) * uint64(r.SizeY) * uint64(r.SizeZ)
}

// Empty reports whether any size component is non-positive.
func (r Region) Empty() bool {
	return r.SizeX <= 0 || r.SizeY <= 0 || r.SizeZ <= 0
}

// IsUnit reports whether all three size components are at most 1.
func (r Region) IsUnit() bool {
	return r.SizeX <= 1 && r.SizeY <= 1 && r.SizeZ <= 1
}

// MinSize returns the smallest size component.
func (r Region) MinSize() int {
	return min(r.SizeX, r.SizeY, r.SizeZ)
}

// CanSplit reports whether Partition yields eight non-empty children,
// which requires every axis to be at least 2 voxels wide.
func (r Region) CanSplit() bool {
	return r.MinSize() >= 2
}

// Max returns the exclusive upper corner of the region.
func (r Region) Max() (x, y, z int) {
	return r.MinX + r.SizeX, r.MinY + r.SizeY, r.MinZ + r.SizeZ
}

// Center returns origin + size/2 on each axis.
func (r Region) Center() (x, y, z int) {
	return r.MinX + r.SizeX/2, r.MinY + r.SizeY/2, r.MinZ + r.SizeZ/2
}

// Contains reports whether the voxel (x, y, z) lies inside the region.
func (r Region) Contains(x, y, z int) bool {
	mx, my, mz := r.Max()

	return x >= r.MinX && x < mx && y >= r.MinY && y < my && z >= r.MinZ && z < mz
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d,%d)+[%d×%d×%d]", r.MinX, r.MinY, r.MinZ, r.SizeX, r.SizeY, r.SizeZ)
}

// Partition splits r into its eight children in the fixed X-Y-Z order.
//
// Callers must only partition regions for which CanSplit is true when they
// need non-empty children; for thinner regions some children have a zero size.
func Partition(r Region) [ChildCount]Region {
	hx := (r.SizeX + 1) / 2
	hy := (r.SizeY + 1) / 2
	hz := (r.SizeZ + 1) / 2

	xs := [2][2]int{{r.MinX, hx}, {r.MinX + hx, r.SizeX - hx}}
	ys := [2][2]int{{r.MinY, hy}, {r.MinY + hy, r.SizeY - hy}}
	zs := [2][2]int{{r.MinZ, hz}, {r.MinZ + hz, r.SizeZ - hz}}

	var children [ChildCount]Region
	i := 0
	for dx := range 2 {
		for dy := range 2 {
			for dz := range 2 {
				children[i] = Region{
					MinX: xs[dx][0], SizeX: xs[dx][1],
					MinY: ys[dy][0], SizeY: ys[dy][1],
					MinZ: zs[dz][0], SizeZ: zs[dz][1],
				}
				i++
			}
		}
	}

	return children
}
