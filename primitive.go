package nodelim

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Shapes of the built-in kinds.
var (
	Int8    Shape[int8]    = Integer[int8]()
	Int16   Shape[int16]   = Integer[int16]()
	Int32   Shape[int32]   = Integer[int32]()
	Int64   Shape[int64]   = Integer[int64]()
	Uint8   Shape[uint8]   = Integer[uint8]()
	Uint16  Shape[uint16]  = Integer[uint16]()
	Uint32  Shape[uint32]  = Integer[uint32]()
	Uint64  Shape[uint64]  = Integer[uint64]()
	Float32 Shape[float32] = Float[float32]()
	Float64 Shape[float64] = Float[float64]()

	Int128  Shape[I128] = int128Shape{}
	Uint128 Shape[U128] = uint128Shape{}

	Bool   Shape[bool]     = boolShape{}
	String Shape[string]   = stringShape{}
	Bytes  Shape[[]byte]   = bytesShape{}
	Unit   Shape[struct{}] = unitShape{}

	// Size encodes a uint64 with the variable-width size code instead of a
	// fixed width. It is the shape of lengths, counts and indices.
	Size Shape[uint64] = sizeShape{}
)

type integerShape[T constraints.Integer] struct{ width uintptr }

// Integer returns the fixed-width little-endian shape of an integer type,
// including named types such as `type Port uint16`. The width is the size of
// T, so int and uint are 8 bytes on 64-bit platforms and 4 bytes on 32-bit
// ones; use sized types for data that crosses platforms.
func Integer[T constraints.Integer]() Shape[T] {
	var zero T
	return integerShape[T]{width: unsafe.Sizeof(zero)}
}

func (s integerShape[T]) Encode(e *Encoder, v T) {
	switch s.width {
	case 1:
		e.WriteUint8(uint8(v))
	case 2:
		e.WriteUint16(uint16(v))
	case 4:
		e.WriteUint32(uint32(v))
	default:
		e.WriteUint64(uint64(v))
	}
}

func (s integerShape[T]) Decode(d *Decoder) T {
	switch s.width {
	case 1:
		return T(d.ReadUint8())
	case 2:
		return T(d.ReadUint16())
	case 4:
		return T(d.ReadUint32())
	default:
		return T(d.ReadUint64())
	}
}

type floatShape[T constraints.Float] struct{ width uintptr }

// Float returns the IEEE 754 little-endian shape of a float type.
func Float[T constraints.Float]() Shape[T] {
	var zero T
	return floatShape[T]{width: unsafe.Sizeof(zero)}
}

func (s floatShape[T]) Encode(e *Encoder, v T) {
	if s.width == 4 {
		e.WriteFloat32(float32(v))
		return
	}
	e.WriteFloat64(float64(v))
}

func (s floatShape[T]) Decode(d *Decoder) T {
	if s.width == 4 {
		return T(d.ReadFloat32())
	}
	return T(d.ReadFloat64())
}

type boolShape struct{}

func (boolShape) Encode(e *Encoder, v bool) { e.WriteBool(v) }
func (boolShape) Decode(d *Decoder) bool   { return d.ReadBool() }

type stringShape struct{}

func (stringShape) Encode(e *Encoder, v string) { e.WriteString(v) }
func (stringShape) Decode(d *Decoder) string   { return d.ReadString() }

type bytesShape struct{}

func (bytesShape) Encode(e *Encoder, v []byte) { e.WriteBytes(v) }
func (bytesShape) Decode(d *Decoder) []byte   { return d.ReadBytes() }

type unitShape struct{}

func (unitShape) Encode(*Encoder, struct{}) {}
func (unitShape) Decode(*Decoder) struct{} { return struct{}{} }
