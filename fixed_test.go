package nodelim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type header struct {
	Magic   [4]byte
	Version uint16
	Flags   int8
	Length  uint32
	Ratio   float32
}

func TestFixed(t *testing.T) {
	s := Fixed[header]()
	v := header{Magic: [4]byte{'N', 'D', 'L', 'M'}, Version: 2, Flags: -1, Length: 300, Ratio: 1}

	b := Marshal(s, v)
	assert.Equal(t, []byte{
		'N', 'D', 'L', 'M',
		2, 0,
		0xFF,
		0x2C, 0x01, 0, 0,
		0, 0, 0x80, 0x3F,
	}, b)
	assert.Equal(t, v, roundTrip(t, s, v))

	// The fast path is byte-compatible with the composed shape.
	composed := Struct(
		Field(Uint8, func(h *header) *uint8 { return &h.Magic[0] }),
		Field(Uint8, func(h *header) *uint8 { return &h.Magic[1] }),
		Field(Uint8, func(h *header) *uint8 { return &h.Magic[2] }),
		Field(Uint8, func(h *header) *uint8 { return &h.Magic[3] }),
		Field(Uint16, func(h *header) *uint16 { return &h.Version }),
		Field(Int8, func(h *header) *int8 { return &h.Flags }),
		Field(Uint32, func(h *header) *uint32 { return &h.Length }),
		Field(Float32, func(h *header) *float32 { return &h.Ratio }),
	)
	assert.Equal(t, b, Marshal(composed, v))
}

func TestFixedArray(t *testing.T) {
	s := Fixed[[3]uint16]()
	assert.Equal(t, []byte{1, 0, 2, 0, 3, 0}, Marshal(s, [3]uint16{1, 2, 3}))
	assert.Equal(t, [3]uint16{1, 2, 3}, roundTrip(t, s, [3]uint16{1, 2, 3}))

	// Cached sizes are reused.
	assert.Equal(t, Marshal(s, [3]uint16{4, 5, 6}), Marshal(Fixed[[3]uint16](), [3]uint16{4, 5, 6}))
}

func TestFixedTruncated(t *testing.T) {
	_, err := Unmarshal(Fixed[header](), make([]byte, 10))
	require.ErrorIs(t, err, ErrTruncatedData)
}

func TestFixedRejectsUnsupportedTypes(t *testing.T) {
	assert.Panics(t, func() { Fixed[bool]() })
	assert.Panics(t, func() { Fixed[int]() })
	assert.Panics(t, func() { Fixed[struct{ S string }]() })
	assert.Panics(t, func() { Fixed[struct{ B [2]bool }]() })
	assert.Panics(t, func() { Fixed[*uint32]() })

	// encoding/binary cannot set unexported fields and pads blank ones.
	assert.Panics(t, func() { Fixed[struct{ x, y int32 }]() })
	assert.Panics(t, func() {
		Fixed[struct {
			A uint8
			_ uint8
			B uint16
		}]()
	})
}
