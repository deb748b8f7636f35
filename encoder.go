package nodelim

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encoder appends encoded values to a growable byte slice.
// Encoding never fails; the zero Encoder is ready to use.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder that appends to buf.
func NewEncoder(buf []byte) *Encoder {
	return &Encoder{buf: buf}
}

// Bytes returns the encoded bytes. The slice aliases the Encoder's buffer
// and is only valid until the next write.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of bytes written.
func (e *Encoder) Len() int { return len(e.buf) }

// Reset discards the written bytes but keeps the buffer for reuse.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// Write implements the io.Writer interface. It appends p verbatim, with no
// size prefix, and never returns an error.
func (e *Encoder) Write(p []byte) (int, error) {
	e.buf = append(e.buf, p...)
	return len(p), nil
}

// WriteRaw appends p verbatim, with no size prefix.
func (e *Encoder) WriteRaw(p []byte) {
	e.buf = append(e.buf, p...)
}

// --- Primitive Write Operations ---

// WriteBool writes ASCII '1' for true and '0' for false.
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.buf = append(e.buf, '1')
	} else {
		e.buf = append(e.buf, '0')
	}
}

// WriteOption writes the presence flag of an optional value. The flag uses
// the same ASCII digits as WriteBool.
func (e *Encoder) WriteOption(present bool) {
	if present {
		e.buf = append(e.buf, '1')
	} else {
		e.buf = append(e.buf, '0')
	}
}

// WriteVariant writes a variant index as a size code.
func (e *Encoder) WriteVariant(index int) {
	e.WriteLen(index)
}

func (e *Encoder) WriteUint8(v uint8) { e.buf = append(e.buf, v) }

func (e *Encoder) WriteUint16(v uint16) { e.buf = binary.LittleEndian.AppendUint16(e.buf, v) }

func (e *Encoder) WriteUint32(v uint32) { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }

func (e *Encoder) WriteUint64(v uint64) { e.buf = binary.LittleEndian.AppendUint64(e.buf, v) }

func (e *Encoder) WriteInt8(v int8) { e.buf = append(e.buf, uint8(v)) }

func (e *Encoder) WriteInt16(v int16) { e.WriteUint16(uint16(v)) }

func (e *Encoder) WriteInt32(v int32) { e.WriteUint32(uint32(v)) }

func (e *Encoder) WriteInt64(v int64) { e.WriteUint64(uint64(v)) }

func (e *Encoder) WriteFloat32(v float32) { e.WriteUint32(math.Float32bits(v)) }

func (e *Encoder) WriteFloat64(v float64) { e.WriteUint64(math.Float64bits(v)) }

// WriteString writes the byte length of s as a size code followed by the bytes.
func (e *Encoder) WriteString(s string) {
	e.WriteLen(len(s))
	e.buf = append(e.buf, s...)
}

// WriteBytes writes len(p) as a size code followed by p.
// The encoding is identical to WriteString(string(p)).
func (e *Encoder) WriteBytes(p []byte) {
	e.WriteLen(len(p))
	e.buf = append(e.buf, p...)
}

// --- Collections ---

// SeqEncoder writes the elements of a sequence or the entries of a map.
// Obtain one from BeginSeq or BeginMap, call Next before writing each
// element, then End.
type SeqEncoder struct {
	parent  *Encoder
	scratch *Encoder // non-nil when the count was unknown up front
	want    int
	count   int
}

// BeginSeq starts a sequence of n elements.
//
// When n >= 0 the count is written immediately and elements are streamed
// straight into e. When n < 0 the count is not known yet: elements are
// collected in a scratch buffer and End writes the final count followed by
// the collected bytes.
func (e *Encoder) BeginSeq(n int) SeqEncoder {
	if n >= 0 {
		e.WriteLen(n)
		return SeqEncoder{parent: e, want: n}
	}
	return SeqEncoder{parent: e, scratch: getEncoder(), want: -1}
}

// BeginMap starts a map of n entries. Each call to Next covers one entry,
// key and value together. Negative n behaves as for BeginSeq.
func (e *Encoder) BeginMap(n int) SeqEncoder {
	return e.BeginSeq(n)
}

// Next returns the Encoder the next element (or map entry) must be written to.
func (s *SeqEncoder) Next() *Encoder {
	s.count++
	if s.scratch != nil {
		return s.scratch
	}
	return s.parent
}

// End finishes the sequence. For a sequence started with a known length it
// panics if the number of Next calls differs from that length.
func (s *SeqEncoder) End() {
	if s.scratch == nil {
		if s.count != s.want {
			panic(fmt.Sprintf("nodelim: sequence declared %d elements but wrote %d", s.want, s.count))
		}
		return
	}
	s.parent.WriteLen(s.count)
	s.parent.buf = append(s.parent.buf, s.scratch.buf...)
	putEncoder(s.scratch)
	s.scratch = nil
}
