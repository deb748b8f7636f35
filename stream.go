package nodelim

import (
	"errors"
	"fmt"
	"io"
)

// minRead is the smallest read issued to the underlying reader.
const minRead = 4096

// Reader decodes a stream of concatenated values from an io.Reader, such as
// a file of records written by successive Encode calls. Since the encoding
// has no delimiters, Reader buffers input and retries a value until enough
// bytes have arrived to decode it.
//
// Errors other than a clean end of stream are sticky: without delimiters
// there is no way to find the start of the next value.
type Reader struct {
	r     io.Reader
	buf   []byte
	start int   // first unread byte in buf
	off   int64 // bytes consumed by decoded values
	eof   bool
	err   error
}

// NewReader returns a Reader decoding from r.
func NewReader(r io.Reader) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	return &Reader{r: r}, nil
}

// Offset returns the number of stream bytes consumed by decoded values.
func (r *Reader) Offset() int64 { return r.off }

// Buffered returns the number of bytes read from the underlying reader but
// not yet decoded.
func (r *Reader) Buffered() int { return len(r.buf) - r.start }

// ReadValue decodes the next value from r with shape s. It returns io.EOF
// when the stream ends exactly at a value boundary, and an error wrapping
// both io.ErrUnexpectedEOF and ErrTruncatedData when it ends inside one.
//
// Decoded strings and byte slices are copies, but views obtained from the
// Decoder inside a custom Unmarshaler are only valid until the next call.
func ReadValue[T any](r *Reader, s Shape[T]) (T, error) {
	var zero T
	if r.err != nil {
		return zero, r.err
	}
	for {
		if r.Buffered() > 0 {
			v, n, err := UnmarshalPrefix(s, r.buf[r.start:])
			if err == nil {
				r.start += n
				r.off += int64(n)
				return v, nil
			}
			if !errors.Is(err, ErrTruncatedData) {
				r.err = err
				return zero, err
			}
			if r.eof {
				r.err = fmt.Errorf("%w: %w", io.ErrUnexpectedEOF, err)
				return zero, r.err
			}
		} else if r.eof {
			r.err = io.EOF
			return zero, io.EOF
		}
		if err := r.fill(); err != nil {
			r.err = err
			return zero, err
		}
	}
}

// fill moves unread bytes to the front of buf, grows it when full and
// reads once from the underlying reader.
func (r *Reader) fill() error {
	if r.start > 0 {
		n := copy(r.buf, r.buf[r.start:])
		r.buf = r.buf[:n]
		r.start = 0
	}
	if cap(r.buf)-len(r.buf) < minRead {
		grown := make([]byte, len(r.buf), max(2*cap(r.buf), len(r.buf)+minRead))
		copy(grown, r.buf)
		r.buf = grown
	}
	n, err := r.r.Read(r.buf[len(r.buf):cap(r.buf)])
	r.buf = r.buf[:len(r.buf)+n]
	if err == io.EOF {
		r.eof = true
		return nil
	}
	return err
}
