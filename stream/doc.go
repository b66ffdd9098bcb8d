// Package stream serializes octrees to the voxoct binary format and reads
// them back without materializing a tree.
//
// # Encoding
//
// An Encoder writes the 12-byte header followed by the nodes in depth-first
// pre-order. Internal nodes become tag 0x01 and their eight children in
// region.Partition order; leaves become tag 0x00 and a payload whose width is
// fixed by the stream's leaf kind.
//
//	var buf bytes.Buffer
//	enc := stream.NewEncoder(&buf, format.LeafBlock)
//	if err := enc.Encode(tree); err != nil {
//	    return err
//	}
//
// # Decoding
//
// A Decoder walks the stream with O(depth) memory. The leaf kind is not
// recorded in the stream and must be supplied by the caller.
//
//   - Stats: fast pass counting nodes, with a checksum of the bytes consumed
//   - Analyze: detailed pass replaying node regions and building per-level statistics
//   - Walk: visits every node with its region and leaf payload
//
// Truncated input fails with errs.ErrTruncated; no partial result is returned.
//
//	dec := stream.NewBytesDecoder(data, format.LeafBlock)
//	report, err := dec.Analyze()
//	if err != nil {
//	    return err
//	}
//	if report.Mismatch {
//	    // stream geometry disagrees with the header dimensions
//	}
package stream
