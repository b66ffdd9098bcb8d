package compress

// ZstdCompressor provides Zstandard compression, the best ratio of the
// built-in codecs for archived octree files.
//
// The pure-Go implementation (klauspost/compress) is used by default. Building
// with cgo and the gozstd tag switches to the libzstd binding instead; both
// produce standard zstd frames and can read each other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
