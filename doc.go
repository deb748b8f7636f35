/*
Package nodelim implements a compact binary encoding for values whose
structure is known to both the writer and the reader. The bytes carry no
field names, no type tags and no delimiters between sibling values; only
lengths, counts, option flags and variant indices are written besides the
data itself. A reader must therefore decode with exactly the shape the
writer encoded with.

Shapes are ordinary Go values built from the package's combinators, with
generics. Only Fixed inspects a type by reflection, once, when it is built:

	type Record struct {
		A  int32
		V  []uint64
		O1 *int8
		O2 *uint16
	}

	var record = nodelim.Struct(
		nodelim.Field(nodelim.Int32, func(r *Record) *int32 { return &r.A }),
		nodelim.Field(nodelim.Slice(nodelim.Size), func(r *Record) *[]uint64 { return &r.V }),
		nodelim.Field(nodelim.Option(nodelim.Int8), func(r *Record) **int8 { return &r.O1 }),
		nodelim.Field(nodelim.Option(nodelim.Uint16), func(r *Record) **uint16 { return &r.O2 }),
	)

	b := nodelim.Marshal(record, Record{A: 1})
	r, err := nodelim.Unmarshal(record, b)

Values written back to back with Encode can be read again with a Reader,
which buffers input until each value is complete.

# Encoding Scheme

Lengths, element counts and variant indices are written as a size code. A
value below 254 is the single byte holding it. Values up to 2^32-1 are the
byte 254 followed by a little-endian uint32, and anything larger is the
byte 255 followed by a little-endian uint64. So 17 is

	0x11

and 300 is

	0xFE 0x2C 0x01 0x00 0x00

Fixed-width numbers are written little-endian at their natural width; 128-bit
integers are the low word followed by the high word. A boolean is the ASCII
digit '1' or '0'. The unit value takes no bytes at all.

Strings and byte slices are their length as a size code followed by the raw
bytes. The string "hi" is

	0x02 'h' 'i'

An optional value is the presence flag '0' when absent, or '1' followed by
the value when present. A decoder treats any flag other than '0' as present.
A boxed value is encoded exactly like the value it points to.

Sequences, sets and maps are the element count followed by the elements, and
a map entry is its key followed by its value. Unordered sets and maps are
written in Go's iteration order, so equal maps may encode to different bytes;
OrderedSet and OrderedMap sort by key for callers that need stable bytes. A
sequence whose length is unknown up front (Iter) is buffered until it ends
and then written the same way.

Structs and tuples are their fields back to back in declared order, with
nothing before, between or after them. The struct {A: 123, B: true, C: nil}
with fields int32, bool and an optional value is

	0x7B 0x00 0x00 0x00 '1' '0'

A sum type is the index of the value's variant in the variant table, as a
size code, followed by that variant's payload. Unit variants have no payload.

There is no end marker, version or checksum. Unmarshal reports bytes left
over after a value as ErrTrailingData; UnmarshalPrefix returns how many
bytes the value used so concatenated values can be read in turn.
*/
package nodelim
