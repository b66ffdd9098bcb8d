// Package compress provides the outer codecs applied to whole octree files.
//
// The octree stream itself is never altered: a container file is simply the
// stream run through one of these codecs, and decompressing it yields the
// bit-exact stream again. The codec is chosen by format.CompressionType,
// usually derived from the file extension (see format.CompressionFromPath).
//
// # Supported Algorithms
//
//	Type                    | Extension    | Library
//	------------------------|--------------|---------------------------------
//	format.CompressionNone  | (any other)  | none
//	format.CompressionZstd  | .zst, .zstd  | klauspost/compress/zstd (or valyala/gozstd with -tags gozstd)
//	format.CompressionS2    | .s2          | klauspost/compress/s2
//	format.CompressionLZ4   | .lz4         | pierrec/lz4/v4 (frame format)
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(stream)
//	restored, err := codec.Decompress(packed)
//
// CompressWithStats additionally reports sizes and timing:
//
//	packed, stats, err := compress.CompressWithStats(format.CompressionS2, stream)
//	fmt.Printf("%.1f%% saved\n", stats.SpaceSavings())
//
// # Thread Safety
//
// All codecs are stateless values backed by pooled encoders and decoders and
// are safe for concurrent use.
package compress
