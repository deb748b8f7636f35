package nodelim

import (
	"encoding/binary"
	"math"
)

// Size code markers. A first byte below sizeMarker32 is the value itself.
const (
	sizeMarker32 = 254
	sizeMarker64 = 255
)

// SizeLen returns the number of bytes the size code of n occupies: 1, 5 or 9.
func SizeLen(n uint64) int {
	switch {
	case n < sizeMarker32:
		return 1
	case n <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}

// AppendSize appends the size code of n to dst and returns the extended slice.
func AppendSize(dst []byte, n uint64) []byte {
	switch {
	case n < sizeMarker32:
		return append(dst, byte(n))
	case n <= math.MaxUint32:
		dst = append(dst, sizeMarker32)
		return binary.LittleEndian.AppendUint32(dst, uint32(n))
	default:
		dst = append(dst, sizeMarker64)
		return binary.LittleEndian.AppendUint64(dst, n)
	}
}

// ReadSize decodes a size code from the front of src. It returns the value
// and the number of bytes consumed, or ErrTruncatedData when src is too short.
func ReadSize(src []byte) (uint64, int, error) {
	if len(src) == 0 {
		return 0, 0, ErrTruncatedData
	}
	switch src[0] {
	case sizeMarker32:
		if len(src) < 5 {
			return 0, 0, ErrTruncatedData
		}
		return uint64(binary.LittleEndian.Uint32(src[1:])), 5, nil
	case sizeMarker64:
		if len(src) < 9 {
			return 0, 0, ErrTruncatedData
		}
		return binary.LittleEndian.Uint64(src[1:]), 9, nil
	default:
		return uint64(src[0]), 1, nil
	}
}

// WriteSize appends the size code of n.
func (e *Encoder) WriteSize(n uint64) {
	e.buf = AppendSize(e.buf, n)
}

// WriteLen appends the size code of a length or count.
func (e *Encoder) WriteLen(n int) {
	e.buf = AppendSize(e.buf, uint64(n))
}

// ReadSize reads a size code.
func (d *Decoder) ReadSize() uint64 {
	if d.err != nil {
		return 0
	}
	v, n, err := ReadSize(d.B[d.N:])
	if err != nil {
		d.fail(err)
		return 0
	}
	d.N += n
	return v
}

// ReadLen reads a size code used as a length or element count. Values that
// cannot be represented as an int latch ErrSizeOverflow.
func (d *Decoder) ReadLen() int {
	v := d.ReadSize()
	if v > math.MaxInt {
		d.fail(ErrSizeOverflow)
		return 0
	}
	return int(v)
}

type sizeShape struct{}

func (sizeShape) Encode(e *Encoder, v uint64) { e.WriteSize(v) }
func (sizeShape) Decode(d *Decoder) uint64   { return d.ReadSize() }
