// Package errs defines the sentinel errors returned by voxoct packages.
//
// Errors are wrapped with context using fmt.Errorf("%w: ...") at the point of
// detection; callers match them with errors.Is.
package errs

import "errors"

// Configuration errors, detected before any recursion begins.
var (
	ErrInvalidDimensions = errors.New("invalid volume dimensions")
	ErrInvalidThreshold  = errors.New("invalid fluctuation threshold")
	ErrInvalidMaxDepth   = errors.New("invalid max depth")
	ErrInvalidLeafKind   = errors.New("invalid leaf kind")
	ErrNilSource         = errors.New("nil volume source")
	ErrNilTree           = errors.New("nil octree")
)

// Volume loading errors.
var (
	ErrVolumeSizeMismatch = errors.New("volume data size mismatch")
	ErrInvalidShape       = errors.New("invalid synthetic volume shape")
)

// Stream encoding and decoding errors.
var (
	ErrInvalidHeaderSize = errors.New("invalid header size")
	ErrTruncated         = errors.New("truncated octree stream")
	ErrInvalidTag        = errors.New("invalid node tag")
	ErrDepthExceeded     = errors.New("octree depth exceeded")
	ErrLeafKindMismatch  = errors.New("leaf kind mismatch")
	ErrMalformedNode     = errors.New("malformed octree node")
)

// Container errors.
var (
	ErrUnsupportedCompression = errors.New("unsupported compression type")
)

// Size estimation errors.
var (
	ErrInsufficientSamples = errors.New("insufficient samples for size model")
	ErrUnknownModel        = errors.New("unknown size model")
	ErrTargetUnreachable   = errors.New("target size unreachable")
)
