package main

import "github.com/oy3o/nodelim"

const demoKey = "a"

// Record is the demo value: a fixed-width integer, a sequence of size codes
// and two optional integers.
type Record struct {
	A  int32
	V  []uint64
	O1 *int8
	O2 *uint16
}

var recordShape = nodelim.Struct(
	nodelim.Field(nodelim.Int32, func(r *Record) *int32 { return &r.A }),
	nodelim.Field(nodelim.Slice(nodelim.Size), func(r *Record) *[]uint64 { return &r.V }),
	nodelim.Field(nodelim.Option(nodelim.Int8), func(r *Record) **int8 { return &r.O1 }),
	nodelim.Field(nodelim.Option(nodelim.Uint16), func(r *Record) **uint16 { return &r.O2 }),
)

func sampleRecord() Record {
	return Record{
		A:  123,
		V:  []uint64{0, 1, 254, 255, 1 << 40},
		O2: nodelim.Ptr[uint16](256),
	}
}
