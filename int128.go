package nodelim

import "math/big"

// U128 is an unsigned 128-bit integer split into two 64-bit words.
type U128 struct {
	Lo, Hi uint64
}

// I128 is a two's-complement signed 128-bit integer split into two words.
// Hi carries the sign.
type I128 struct {
	Lo uint64
	Hi int64
}

// Big returns u as a big.Int.
func (u U128) Big() *big.Int {
	v := new(big.Int).SetUint64(u.Hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(u.Lo))
}

func (u U128) String() string { return u.Big().String() }

// Big returns i as a big.Int.
func (i I128) Big() *big.Int {
	v := big.NewInt(i.Hi)
	v.Lsh(v, 64)
	return v.Add(v, new(big.Int).SetUint64(i.Lo))
}

func (i I128) String() string { return i.Big().String() }

// 128-bit values are written low word first, so the 16 bytes are the
// little-endian representation of the whole integer.

type uint128Shape struct{}

func (uint128Shape) Encode(e *Encoder, v U128) {
	e.WriteUint64(v.Lo)
	e.WriteUint64(v.Hi)
}

func (uint128Shape) Decode(d *Decoder) U128 {
	lo := d.ReadUint64()
	return U128{Lo: lo, Hi: d.ReadUint64()}
}

type int128Shape struct{}

func (int128Shape) Encode(e *Encoder, v I128) {
	e.WriteUint64(v.Lo)
	e.WriteInt64(v.Hi)
}

func (int128Shape) Decode(d *Decoder) I128 {
	lo := d.ReadUint64()
	return I128{Lo: lo, Hi: d.ReadInt64()}
}
