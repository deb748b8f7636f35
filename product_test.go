package nodelim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flags struct {
	A int32
	B bool
	C *uint8
}

var flagsShape = Struct(
	Field(Int32, func(f *flags) *int32 { return &f.A }),
	Field(Bool, func(f *flags) *bool { return &f.B }),
	Field(Option(Uint8), func(f *flags) **uint8 { return &f.C }),
)

func TestStruct(t *testing.T) {
	v := flags{A: 123, B: true}
	b := Marshal(flagsShape, v)
	// Fields back to back: no count, no delimiters.
	assert.Equal(t, []byte{0x7B, 0x00, 0x00, 0x00, '1', '0'}, b)
	assert.Equal(t, v, roundTrip(t, flagsShape, v))

	v.C = Ptr[uint8](9)
	assert.Equal(t, v, roundTrip(t, flagsShape, v))
}

func TestStructFieldOrder(t *testing.T) {
	type pair struct{ X, Y uint16 }
	xy := Struct(
		Field(Uint16, func(p *pair) *uint16 { return &p.X }),
		Field(Uint16, func(p *pair) *uint16 { return &p.Y }),
	)
	yx := Struct(
		Field(Uint16, func(p *pair) *uint16 { return &p.Y }),
		Field(Uint16, func(p *pair) *uint16 { return &p.X }),
	)
	v := pair{X: 1, Y: 2}
	assert.Equal(t, []byte{1, 0, 2, 0}, Marshal(xy, v))
	assert.Equal(t, []byte{2, 0, 1, 0}, Marshal(yx, v))

	// Decoding with the declaration order swapped silently swaps the fields:
	// nothing on the wire identifies them.
	got, err := Unmarshal(yx, Marshal(xy, v))
	require.NoError(t, err)
	assert.Equal(t, pair{X: 2, Y: 1}, got)
}

func TestStructTruncated(t *testing.T) {
	_, err := Unmarshal(flagsShape, []byte{0x7B, 0x00, 0x00, 0x00, '1'})
	assert.ErrorIs(t, err, ErrTruncatedData)
}

func TestEmptyStruct(t *testing.T) {
	type marker struct{}
	s := Struct[marker]()
	assert.Empty(t, Marshal(s, marker{}))
	assert.Equal(t, marker{}, roundTrip(t, s, marker{}))
}

func TestTuples(t *testing.T) {
	t2 := Tuple2Of(Uint8, String)
	assert.Equal(t, []byte{7, 2, 'o', 'k'}, Marshal(t2, Tuple2[uint8, string]{7, "ok"}))
	assert.Equal(t, Tuple2[uint8, string]{7, "ok"}, roundTrip(t, t2, Tuple2[uint8, string]{7, "ok"}))

	t3 := Tuple3Of(Bool, Int16, Option(Bool))
	v3 := Tuple3[bool, int16, *bool]{true, -1, nil}
	assert.Equal(t, []byte{'1', 0xFF, 0xFF, '0'}, Marshal(t3, v3))
	assert.Equal(t, v3, roundTrip(t, t3, v3))

	t4 := Tuple4Of(Uint8, Uint8, Uint8, Slice(Uint8))
	v4 := Tuple4[uint8, uint8, uint8, []uint8]{1, 2, 3, []uint8{4}}
	assert.Equal(t, []byte{1, 2, 3, 1, 4}, Marshal(t4, v4))
	assert.Equal(t, v4, roundTrip(t, t4, v4))
}

type tree struct {
	Value    int32
	Children []tree
}

func TestLazyRecursive(t *testing.T) {
	s := Lazy(func(self Shape[tree]) Shape[tree] {
		return Struct(
			Field(Int32, func(t *tree) *int32 { return &t.Value }),
			Field(Slice(self), func(t *tree) *[]tree { return &t.Children }),
		)
	})
	v := tree{Value: 1, Children: []tree{
		{Value: 2, Children: []tree{}},
		{Value: 3, Children: []tree{{Value: 4, Children: []tree{}}}},
	}}
	b := Marshal(s, v)
	assert.Equal(t, []byte{
		1, 0, 0, 0, 2,
		2, 0, 0, 0, 0,
		3, 0, 0, 0, 1,
		4, 0, 0, 0, 0,
	}, b)
	assert.Equal(t, v, roundTrip(t, s, v))
}
