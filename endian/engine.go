// Package endian provides byte order utilities for the voxoct binary formats.
//
// Octree streams are always little-endian. Raw volume files come in either
// order (the reference seismic volumes are big-endian float32), so the volume
// loader takes an EndianEngine chosen by the caller.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	buf = endian.AppendFloat32(engine, buf, 7.0)
//	v := endian.Float32(engine, buf[0:4])
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"math"
	"strings"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ByName returns the engine for "little"/"le" or "big"/"be".
// The second result is false for any other name.
func ByName(name string) (EndianEngine, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "little", "le", "":
		return binary.LittleEndian, true
	case "big", "be":
		return binary.BigEndian, true
	default:
		return nil, false
	}
}

// Float32 decodes an IEEE-754 float32 from the first 4 bytes of b.
func Float32(engine EndianEngine, b []byte) float32 {
	return math.Float32frombits(engine.Uint32(b))
}

// PutFloat32 encodes v into the first 4 bytes of b.
func PutFloat32(engine EndianEngine, b []byte, v float32) {
	engine.PutUint32(b, math.Float32bits(v))
}

// AppendFloat32 appends the 4-byte encoding of v to b.
func AppendFloat32(engine EndianEngine, b []byte, v float32) []byte {
	return engine.AppendUint32(b, math.Float32bits(v))
}
