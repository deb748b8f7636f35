package nodelim

import (
	"bytes"
	"fmt"
	"io"
)

// Marshal returns the encoding of v.
func Marshal[T any](s Shape[T], v T) []byte {
	return Append(nil, s, v)
}

// Append appends the encoding of v to dst and returns the extended slice.
func Append[T any](dst []byte, s Shape[T], v T) []byte {
	e := Encoder{buf: dst}
	s.Encode(&e, v)
	return e.buf
}

// Unmarshal decodes exactly one value from data. Bytes left over after the
// value are an error: the encoding has no end marker, so they indicate a
// shape mismatch between the two sides. On error the zero T is returned.
func Unmarshal[T any](s Shape[T], data []byte) (T, error) {
	v, n, err := UnmarshalPrefix(s, data)
	if err != nil {
		return v, err
	}
	if n != len(data) {
		var zero T
		return zero, fmt.Errorf("%w: %d of %d bytes unread", ErrTrailingData, len(data)-n, len(data))
	}
	return v, nil
}

// UnmarshalPrefix decodes one value from the front of data and returns it
// together with the number of bytes it occupied. Any remaining bytes are
// left for the caller, which is how concatenated values are read.
func UnmarshalPrefix[T any](s Shape[T], data []byte) (T, int, error) {
	d := Decoder{B: data}
	v := s.Decode(&d)
	if d.err != nil {
		var zero T
		return zero, d.N, d.err
	}
	return v, d.N, nil
}

// MustUnmarshal is like Unmarshal but panics on malformed input. It is for
// callers that treat undecodable data as fatal, such as data the program
// wrote itself.
func MustUnmarshal[T any](s Shape[T], data []byte) T {
	v, err := Unmarshal(s, data)
	if err != nil {
		panic(err)
	}
	return v
}

// Encode writes the encoding of v to w in a single Write call.
func Encode[T any](w io.Writer, s Shape[T], v T) error {
	if w == nil {
		return ErrNilIO
	}
	e := getEncoder()
	defer putEncoder(e)

	s.Encode(e, v)
	n, err := w.Write(e.buf)
	if err != nil {
		return err
	}
	if n < len(e.buf) {
		return io.ErrShortWrite
	}
	return nil
}

// Decode reads r to EOF and decodes exactly one value from what it read.
// WARNING: This is NOT a streaming implementation. The whole input is
// buffered before decoding, so it is unsuitable for very large inputs.
// The buffer is reused afterwards; custom Unmarshalers must not keep views
// returned by ReadBytesView or ReadRaw.
func Decode[T any](r io.Reader, s Shape[T]) (T, error) {
	if r == nil {
		var zero T
		return zero, ErrNilIO
	}
	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer putBytesBuf(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		var zero T
		return zero, err
	}
	return Unmarshal(s, buf.Bytes())
}

// Bound pairs a value with its shape so it satisfies the standard binary
// interfaces: encoding.BinaryMarshaler, encoding.BinaryUnmarshaler,
// io.WriterTo and io.ReaderFrom. It is the bridge to APIs that accept those
// interfaces, such as database drivers and KV clients.
type Bound[T any] struct {
	Shape Shape[T]
	Ptr   *T
}

// Bind returns a Bound reading from and writing to *p.
func Bind[T any](s Shape[T], p *T) Bound[T] {
	return Bound[T]{Shape: s, Ptr: p}
}

func (b Bound[T]) MarshalBinary() ([]byte, error) {
	return Marshal(b.Shape, *b.Ptr), nil
}

func (b Bound[T]) UnmarshalBinary(data []byte) error {
	v, err := Unmarshal(b.Shape, data)
	if err != nil {
		return err
	}
	*b.Ptr = v
	return nil
}

func (b Bound[T]) WriteTo(w io.Writer) (int64, error) {
	if w == nil {
		return 0, ErrNilIO
	}
	e := getEncoder()
	defer putEncoder(e)

	b.Shape.Encode(e, *b.Ptr)
	n, err := w.Write(e.buf)
	if err == nil && n < len(e.buf) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

func (b Bound[T]) ReadFrom(r io.Reader) (int64, error) {
	if r == nil {
		return 0, ErrNilIO
	}
	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer putBytesBuf(buf)

	n, err := buf.ReadFrom(r)
	if err != nil {
		return n, err
	}
	return n, b.UnmarshalBinary(buf.Bytes())
}
