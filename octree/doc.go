// Package octree builds adaptive octrees over dense scalar volumes.
//
// The builder recursively halves a volume with region.Partition and stops
// wherever the samples are coherent enough to be replaced by one value. The
// resulting Tree stores values only; node extents are implied by tree position
// and re-derived on demand, which is what lets the stream format omit geometry.
//
// # Leaf Policies
//
// **Block leaves** (format.LeafBlock) hold the mean of their region. A region
// becomes a block leaf when, checked in order:
//   - every size is at most 1 (the leaf holds the single sample)
//   - it holds no samples (the leaf holds 0)
//   - max - min <= threshold (the leaf holds the mean)
//   - its smallest size is below 2 (the leaf holds the mean)
//
// **Point leaves** (format.LeafPoint) hold the sample at the region center
// origin + size/2 together with that coordinate. The same rules apply, plus a
// depth cap that defaults to floor(log2(min(nx, ny, nz))) + 1. If the center
// falls outside the volume the region mean is stored with the clamped center.
//
// # Usage
//
//	builder, err := octree.NewBuilder(
//	    octree.WithFluctuationThreshold(50),
//	    octree.WithPointLeaves(),
//	)
//	if err != nil {
//	    return err
//	}
//
//	tree, err := builder.Build(grid)
//	if err != nil {
//	    return err
//	}
//
//	fmt.Println(tree.Count().Total, tree.CompressionRatio())
package octree
