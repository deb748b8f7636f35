package nodelim

// FieldOf is one field of a product type T, created by Field.
type FieldOf[T any] interface {
	encodeField(e *Encoder, v *T)
	decodeField(d *Decoder, v *T)
}

type field[T, F any] struct {
	shape Shape[F]
	get   func(*T) *F
}

// Field binds the shape of one struct field to an accessor returning the
// address of that field.
func Field[T, F any](shape Shape[F], get func(*T) *F) FieldOf[T] {
	return &field[T, F]{shape: shape, get: get}
}

func (f *field[T, F]) encodeField(e *Encoder, v *T) { f.shape.Encode(e, *f.get(v)) }
func (f *field[T, F]) decodeField(d *Decoder, v *T) { *f.get(v) = f.shape.Decode(d) }

type structShape[T any] struct {
	fields []FieldOf[T]
}

// Struct returns the shape of a product type. Fields are written back to
// back in the order given here, with no prefix, count or padding; the order
// of the arguments is the wire format. Fields of T not listed are skipped
// when encoding and left zero when decoding.
//
//	var point = nodelim.Struct(
//		nodelim.Field(nodelim.Int32, func(p *Point) *int32 { return &p.X }),
//		nodelim.Field(nodelim.Int32, func(p *Point) *int32 { return &p.Y }),
//	)
func Struct[T any](fields ...FieldOf[T]) Shape[T] {
	return &structShape[T]{fields: fields}
}

func (s *structShape[T]) Encode(e *Encoder, v T) {
	for _, f := range s.fields {
		f.encodeField(e, &v)
	}
}

func (s *structShape[T]) Decode(d *Decoder) T {
	var v T
	for _, f := range s.fields {
		if d.err != nil {
			break
		}
		f.decodeField(d, &v)
	}
	return v
}

// Tuple2 is an anonymous product of two values.
type Tuple2[T0, T1 any] struct {
	V0 T0
	V1 T1
}

// Tuple3 is an anonymous product of three values.
type Tuple3[T0, T1, T2 any] struct {
	V0 T0
	V1 T1
	V2 T2
}

// Tuple4 is an anonymous product of four values.
type Tuple4[T0, T1, T2, T3 any] struct {
	V0 T0
	V1 T1
	V2 T2
	V3 T3
}

// Tuple2Of returns the shape of a Tuple2. Like every product it has no
// prefix: the encoding is s0's followed by s1's.
func Tuple2Of[T0, T1 any](s0 Shape[T0], s1 Shape[T1]) Shape[Tuple2[T0, T1]] {
	return Struct(
		Field(s0, func(t *Tuple2[T0, T1]) *T0 { return &t.V0 }),
		Field(s1, func(t *Tuple2[T0, T1]) *T1 { return &t.V1 }),
	)
}

func Tuple3Of[T0, T1, T2 any](s0 Shape[T0], s1 Shape[T1], s2 Shape[T2]) Shape[Tuple3[T0, T1, T2]] {
	return Struct(
		Field(s0, func(t *Tuple3[T0, T1, T2]) *T0 { return &t.V0 }),
		Field(s1, func(t *Tuple3[T0, T1, T2]) *T1 { return &t.V1 }),
		Field(s2, func(t *Tuple3[T0, T1, T2]) *T2 { return &t.V2 }),
	)
}

func Tuple4Of[T0, T1, T2, T3 any](s0 Shape[T0], s1 Shape[T1], s2 Shape[T2], s3 Shape[T3]) Shape[Tuple4[T0, T1, T2, T3]] {
	return Struct(
		Field(s0, func(t *Tuple4[T0, T1, T2, T3]) *T0 { return &t.V0 }),
		Field(s1, func(t *Tuple4[T0, T1, T2, T3]) *T1 { return &t.V1 }),
		Field(s2, func(t *Tuple4[T0, T1, T2, T3]) *T2 { return &t.V2 }),
		Field(s3, func(t *Tuple4[T0, T1, T2, T3]) *T3 { return &t.V3 }),
	)
}
