package nodelim

import "fmt"

// VariantKind is the payload kind of a variant.
type VariantKind uint8

const (
	KindUnit    VariantKind = iota // no payload
	KindNewtype                    // a single unnamed value
	KindTuple                      // several unnamed values
	KindStruct                     // several named fields
)

func (k VariantKind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindNewtype:
		return "newtype"
	case KindTuple:
		return "tuple"
	case KindStruct:
		return "struct"
	default:
		return fmt.Sprintf("VariantKind(%d)", uint8(k))
	}
}

// Variant is one entry of a sum type's variant table. Each variant is a
// distinct concrete type V implementing the sum type E, which is usually an
// interface.
type Variant[E any] struct {
	name   string
	kind   VariantKind
	match  func(E) bool
	encode func(e *Encoder, v E)
	decode func(d *Decoder) E
}

// Name returns the variant's name.
func (v Variant[E]) Name() string { return v.name }

// Kind returns the variant's payload kind.
func (v Variant[E]) Kind() VariantKind { return v.kind }

func newVariant[E, V any](name string, kind VariantKind, payload Shape[V]) Variant[E] {
	var zero V
	if _, ok := any(zero).(E); !ok {
		panic(fmt.Sprintf("nodelim: variant %s: %T is not assignable to the enum type", name, zero))
	}
	return Variant[E]{
		name: name,
		kind: kind,
		match: func(e E) bool {
			_, ok := any(e).(V)
			return ok
		},
		encode: func(enc *Encoder, e E) {
			if payload != nil {
				payload.Encode(enc, any(e).(V))
			}
		},
		decode: func(d *Decoder) E {
			var v V
			if payload != nil {
				v = payload.Decode(d)
			}
			return any(v).(E)
		},
	}
}

// UnitVariant declares a variant with no payload. Only the variant index is
// written; decoding yields the zero value of V.
func UnitVariant[E, V any](name string) Variant[E] {
	return newVariant[E, V](name, KindUnit, nil)
}

// NewtypeVariant declares a variant wrapping a single value.
func NewtypeVariant[E, V any](name string, payload Shape[V]) Variant[E] {
	return newVariant[E](name, KindNewtype, payload)
}

// TupleVariant declares a variant carrying several unnamed values, usually
// described with Struct or a TupleN shape.
func TupleVariant[E, V any](name string, payload Shape[V]) Variant[E] {
	return newVariant[E](name, KindTuple, payload)
}

// StructVariant declares a variant carrying named fields, usually described
// with Struct.
func StructVariant[E, V any](name string, payload Shape[V]) Variant[E] {
	return newVariant[E](name, KindStruct, payload)
}

// EnumShape is the shape of a sum type. A value is written as the index of
// its variant in the variant table, as a size code, followed by the
// variant's payload. Both sides must declare the same table in the same
// order.
type EnumShape[E any] struct {
	variants []Variant[E]
}

// Enum returns the shape of a sum type with the given variant table.
//
//	type Message interface{ isMessage() }
//	type Quit struct{}
//	type Write string
//
//	var message = nodelim.Enum(
//		nodelim.UnitVariant[Message, Quit]("Quit"),
//		nodelim.NewtypeVariant[Message]("Write", nodelim.Convert(nodelim.String,
//			func(s string) Write { return Write(s) },
//			func(w Write) string { return string(w) })),
//	)
func Enum[E any](variants ...Variant[E]) *EnumShape[E] {
	return &EnumShape[E]{variants: variants}
}

// Len returns the number of variants.
func (s *EnumShape[E]) Len() int { return len(s.variants) }

// Variant returns the i'th entry of the variant table.
func (s *EnumShape[E]) Variant(i int) Variant[E] { return s.variants[i] }

// Index returns the index of the variant v belongs to.
func (s *EnumShape[E]) Index(v E) (int, bool) {
	for i := range s.variants {
		if s.variants[i].match(v) {
			return i, true
		}
	}
	return -1, false
}

// Lookup returns the index of the variant with the given name.
func (s *EnumShape[E]) Lookup(name string) (int, bool) {
	for i := range s.variants {
		if s.variants[i].name == name {
			return i, true
		}
	}
	return -1, false
}

// Encode writes v. It panics if v matches no variant.
func (s *EnumShape[E]) Encode(e *Encoder, v E) {
	i, ok := s.Index(v)
	if !ok {
		panic(fmt.Sprintf("nodelim: %T is not a variant of the enum", v))
	}
	e.WriteVariant(i)
	s.variants[i].encode(e, v)
}

// Decode reads a variant index and then that variant's payload. The
// selected index is local to this call, so enums nested in the payload
// select their own variants independently.
func (s *EnumShape[E]) Decode(d *Decoder) E {
	i := d.ReadVariant(len(s.variants))
	if i < 0 {
		var zero E
		return zero
	}
	return s.variants[i].decode(d)
}

type constantsShape[E comparable] struct {
	values []E
	index  map[E]int
}

// Constants returns the shape of a C-like enumeration: a comparable type
// with a fixed list of values, each encoded as its position in values.
//
//	type Color uint8
//	const (Red Color = iota + 10; Green; Blue)
//	var color = nodelim.Constants(Red, Green, Blue) // Green encodes as 0x01
func Constants[E comparable](values ...E) Shape[E] {
	index := make(map[E]int, len(values))
	for i, v := range values {
		if _, dup := index[v]; dup {
			panic(fmt.Sprintf("nodelim: duplicate enum constant %v", v))
		}
		index[v] = i
	}
	return &constantsShape[E]{values: values, index: index}
}

func (s *constantsShape[E]) Encode(e *Encoder, v E) {
	i, ok := s.index[v]
	if !ok {
		panic(fmt.Sprintf("nodelim: %v is not a declared enum constant", v))
	}
	e.WriteVariant(i)
}

func (s *constantsShape[E]) Decode(d *Decoder) E {
	i := d.ReadVariant(len(s.values))
	if i < 0 {
		var zero E
		return zero
	}
	return s.values[i]
}
