package nodelim

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Decoder is a read cursor over a caller-owned byte slice. It never copies
// the slice; only the position advances.
//
// A Decoder tracks the first error that occurs. After an error all
// subsequent reads become no-ops returning zero values, so shapes can decode
// straight through and check Err once at the end.
//
// A Decoder must not be shared between goroutines.
type Decoder struct {
	B   []byte // source slice
	N   int    // current read position
	err error  // first error encountered
}

// NewDecoder creates a new Decoder reading from b.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{B: b}
}

// Err returns the first error encountered, or nil.
func (d *Decoder) Err() error { return d.err }

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int { return d.N }

// Available returns the number of unread bytes.
func (d *Decoder) Available() int {
	length := len(d.B) - d.N
	if length <= 0 {
		return 0
	}
	return length
}

// Fail latches err as the decoder's error, annotated with the current
// offset. Only the first error is kept; it preserves the root cause of a
// failure chain instead of a later, less relevant error. Custom Unmarshaler
// implementations use it to report their own malformed input.
func (d *Decoder) Fail(err error) {
	d.fail(err)
}

func (d *Decoder) fail(err error) {
	if d.err == nil && err != nil {
		d.err = fmt.Errorf("%w (offset %d)", err, d.N)
	}
}

// next consumes and returns the next n bytes as a view into B.
func (d *Decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.Available() < n {
		d.fail(fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedData, n, d.Available()))
		return nil
	}
	p := d.B[d.N : d.N+n : d.N+n]
	d.N += n
	return p
}

// ReadRaw consumes n bytes with no size prefix and returns them as a view
// into the source slice.
func (d *Decoder) ReadRaw(n int) []byte { return d.next(n) }

// --- Primitive Read Operations ---

// ReadBool reads a boolean. Only ASCII '1' decodes as true.
func (d *Decoder) ReadBool() bool {
	return d.ReadUint8() == '1'
}

// ReadOption reads the presence flag of an optional value. ASCII '0' means
// absent; any other byte means present.
func (d *Decoder) ReadOption() bool {
	b := d.ReadUint8()
	return d.err == nil && b != '0'
}

// ReadVariant reads a variant index and checks it against a variant table
// of n entries. It returns -1 if the index is out of range or the decoder
// has already failed.
func (d *Decoder) ReadVariant(n int) int {
	v := d.ReadSize()
	if d.err != nil {
		return -1
	}
	if v >= uint64(n) {
		d.fail(fmt.Errorf("%w: index %d, table has %d variants", ErrUnknownVariant, v, n))
		return -1
	}
	return int(v)
}

func (d *Decoder) ReadUint8() uint8 {
	p := d.next(1)
	if p == nil {
		return 0
	}
	return p[0]
}

func (d *Decoder) ReadUint16() uint16 {
	p := d.next(2)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(p)
}

func (d *Decoder) ReadUint32() uint32 {
	p := d.next(4)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(p)
}

func (d *Decoder) ReadUint64() uint64 {
	p := d.next(8)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(p)
}

func (d *Decoder) ReadInt8() int8 { return int8(d.ReadUint8()) }

func (d *Decoder) ReadInt16() int16 { return int16(d.ReadUint16()) }

func (d *Decoder) ReadInt32() int32 { return int32(d.ReadUint32()) }

func (d *Decoder) ReadInt64() int64 { return int64(d.ReadUint64()) }

func (d *Decoder) ReadFloat32() float32 { return math.Float32frombits(d.ReadUint32()) }

func (d *Decoder) ReadFloat64() float64 { return math.Float64frombits(d.ReadUint64()) }

// ReadString reads a size-prefixed string. The result is a copy and must be
// valid UTF-8; otherwise ErrInvalidUTF8 is latched.
func (d *Decoder) ReadString() string {
	p := d.ReadBytesView()
	if p == nil {
		return ""
	}
	if !utf8.Valid(p) {
		d.fail(ErrInvalidUTF8)
		return ""
	}
	return string(p)
}

// ReadBytes reads a size-prefixed byte buffer and returns a copy of it.
// An empty buffer decodes as a non-nil empty slice.
func (d *Decoder) ReadBytes() []byte {
	p := d.ReadBytesView()
	if p == nil {
		return nil
	}
	return append(make([]byte, 0, len(p)), p...)
}

// ReadBytesView reads a size-prefixed byte buffer and returns it as a view
// into the source slice, without copying. The view is valid as long as the
// source slice is.
func (d *Decoder) ReadBytesView() []byte {
	n := d.ReadLen()
	return d.next(n)
}
