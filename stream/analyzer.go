package stream

import "github.com/arloliu/voxoct/octree"

// LevelStats aggregates the nodes found at one tree depth.
type LevelStats struct {
	Level       int
	Leaves      int
	Internals   int
	Voxels      uint64  // voxels covered by the leaves of this level
	AvgLeafSize float64 // Voxels / Leaves, 0 without leaves
}

// Report holds the result of a detailed decoding pass.
type Report struct {
	Stats

	// Levels is indexed by depth, from the root at level 0.
	Levels []LevelStats
	// VoxelsRepresented sums the voxels of every leaf region.
	VoxelsRepresented uint64
	// AvgVoxelsPerLeaf is the declared voxel count divided by the leaf count.
	AvgVoxelsPerLeaf float64
	// EmptyNodes counts nodes whose replayed region holds no voxels. The
	// builder never emits them, so a non-zero value means the stream was
	// written for other dimensions.
	EmptyNodes int
	// Mismatch is set when the replayed geometry disagrees with the header:
	// VoxelsRepresented differs from the declared count or EmptyNodes > 0.
	// It is a warning, not a decoding error.
	Mismatch bool
}

// Analyze runs the detailed pass, replaying every node's region from the
// header dimensions.
//
// Returns:
//   - Report: Stats plus per-level breakdown and geometry consistency
//   - error: Same conditions as Stats
func (d *Decoder) Analyze() (Report, error) {
	var levels []LevelStats
	var represented uint64
	empty := 0

	stats, err := d.run(true, func(v *Visit) error {
		for len(levels) <= v.Depth {
			levels = append(levels, LevelStats{Level: len(levels)})
		}
		lvl := &levels[v.Depth]

		if v.Region.Empty() {
			empty++
		}

		if v.Kind == octree.KindInternal {
			lvl.Internals++
			return nil
		}

		voxels := v.Region.Voxels()
		lvl.Leaves++
		lvl.Voxels += voxels
		represented += voxels

		return nil
	})
	if err != nil {
		return Report{}, err
	}

	for i := range levels {
		if levels[i].Leaves > 0 {
			levels[i].AvgLeafSize = float64(levels[i].Voxels) / float64(levels[i].Leaves)
		}
	}

	report := Report{
		Stats:             stats,
		Levels:            levels,
		VoxelsRepresented: represented,
		EmptyNodes:        empty,
		Mismatch:          represented != stats.Voxels() || empty > 0,
	}
	if stats.Counts.Leaves > 0 {
		report.AvgVoxelsPerLeaf = float64(stats.Voxels()) / float64(stats.Counts.Leaves)
	}

	return report, nil
}
