package nodelim

import (
	"bytes"
	"encoding"
	"errors"
	"io"
	"iter"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalTrailingData(t *testing.T) {
	_, err := Unmarshal(Uint16, []byte{1, 0, 0})
	require.ErrorIs(t, err, ErrTrailingData)
	assert.Contains(t, err.Error(), "1 of 3 bytes unread")
}

func TestUnmarshalReturnsZeroOnError(t *testing.T) {
	v, err := Unmarshal(flagsShape, []byte{0x7B, 0, 0, 0})
	require.Error(t, err)
	assert.Equal(t, flags{}, v)
}

func TestUnmarshalPrefix(t *testing.T) {
	// Concatenated values carry no separators; each read reports its length.
	var b []byte
	b = Append(b, String, "ab")
	b = Append(b, Int32, -5)
	b = Append(b, Option(Bool), nil)

	s, n, err := UnmarshalPrefix(String, b)
	require.NoError(t, err)
	assert.Equal(t, "ab", s)
	assert.Equal(t, 3, n)
	b = b[n:]

	i, n, err := UnmarshalPrefix(Int32, b)
	require.NoError(t, err)
	assert.Equal(t, int32(-5), i)
	assert.Equal(t, 4, n)
	b = b[n:]

	o, n, err := UnmarshalPrefix(Option(Bool), b)
	require.NoError(t, err)
	assert.Nil(t, o)
	assert.Equal(t, 1, n)
	assert.Len(t, b, n)
}

func TestAppend(t *testing.T) {
	prefix := []byte{0xAA}
	b := Append(prefix, Uint16, 0x0102)
	assert.Equal(t, []byte{0xAA, 0x02, 0x01}, b)
}

func TestMustUnmarshal(t *testing.T) {
	assert.Equal(t, "x", MustUnmarshal(String, []byte{1, 'x'}))
	assert.PanicsWithError(t, "nodelim: trailing data found after decoding: 1 of 3 bytes unread", func() {
		MustUnmarshal(String, []byte{1, 'x', 0})
	})
	assert.Panics(t, func() { MustUnmarshal(String, []byte{5}) })
}

type shortWriter struct{ limit int }

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		return w.limit, nil
	}
	return len(p), nil
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestEncodeDecodeIO(t *testing.T) {
	v := flags{A: -7, B: true, C: Ptr[uint8](1)}

	t.Run("RoundTrip", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, flagsShape, v))
		assert.Equal(t, Marshal(flagsShape, v), buf.Bytes())

		got, err := Decode(&buf, flagsShape)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	})

	t.Run("NilIO", func(t *testing.T) {
		assert.ErrorIs(t, Encode(nil, flagsShape, v), ErrNilIO)
		_, err := Decode(nil, flagsShape)
		assert.ErrorIs(t, err, ErrNilIO)
	})

	t.Run("ShortWrite", func(t *testing.T) {
		assert.ErrorIs(t, Encode(&shortWriter{limit: 2}, flagsShape, v), io.ErrShortWrite)
	})

	t.Run("WriterError", func(t *testing.T) {
		assert.ErrorIs(t, Encode(failingWriter{}, flagsShape, v), errWrite)
	})

	t.Run("DecodeTrailingData", func(t *testing.T) {
		r := bytes.NewReader(append(Marshal(flagsShape, v), 0))
		_, err := Decode(r, flagsShape)
		assert.ErrorIs(t, err, ErrTrailingData)
	})
}

func TestBound(t *testing.T) {
	v := flags{A: 5}
	var (
		_ encoding.BinaryMarshaler   = Bind(flagsShape, &v)
		_ encoding.BinaryUnmarshaler = Bind(flagsShape, &v)
		_ io.WriterTo                = Bind(flagsShape, &v)
		_ io.ReaderFrom              = Bind(flagsShape, &v)
	)

	data, err := Bind(flagsShape, &v).MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, Marshal(flagsShape, v), data)

	var got flags
	require.NoError(t, Bind(flagsShape, &got).UnmarshalBinary(data))
	assert.Equal(t, v, got)

	// A failed decode leaves the target untouched.
	got = flags{A: 99}
	assert.ErrorIs(t, Bind(flagsShape, &got).UnmarshalBinary(data[:2]), ErrTruncatedData)
	assert.Equal(t, flags{A: 99}, got)

	var buf bytes.Buffer
	n, err := Bind(flagsShape, &v).WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(data), n)

	got = flags{}
	n, err = Bind(flagsShape, &got).ReadFrom(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(data), n)
	assert.Equal(t, v, got)
}

func TestConcurrentUse(t *testing.T) {
	// Shapes are shared freely; each goroutine owns its Encoder and Decoder.
	s := Map(String, Iter(Int64))
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for g := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				seq := func(yield func(int64) bool) {
					for j := range i % 7 {
						if !yield(int64(g*j - i)) {
							return
						}
					}
				}
				b := Marshal(s, map[string]iter.Seq[int64]{"k": seq})
				got, err := Unmarshal(s, b)
				if err != nil {
					errs <- err
					return
				}
				n := 0
				for range got["k"] {
					n++
				}
				if n != i%7 {
					errs <- errors.New("wrong element count")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
