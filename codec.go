package nodelim

// Shape describes how values of type T are laid out on the wire.
// It is the unit of composition of the package: composite shapes such as
// Slice, Option or Struct are built from the shapes of their children, so a
// single Encode/Decode pair serves every nesting of them.
//
// Implementations must be stateless after construction; a Shape may be
// shared by any number of goroutines.
type Shape[T any] interface {
	// Encode appends the encoding of v to e.
	Encode(e *Encoder, v T)
	// Decode reads one value from d. On malformed input it latches an error
	// on d and returns whatever partial value it has; callers check d.Err().
	Decode(d *Decoder) T
}

// Marshaler is implemented by types that write their own encoding.
// This is the hand-written equivalent of generated per-type glue: call the
// field shapes in declared field order.
type Marshaler interface {
	MarshalNoDelim(e *Encoder)
}

// Unmarshaler is implemented by types that read their own encoding.
// It must consume the fields in the same order MarshalNoDelim wrote them.
type Unmarshaler interface {
	UnmarshalNoDelim(d *Decoder)
}

// Codec groups Marshaler and Unmarshaler.
type Codec interface {
	Marshaler
	Unmarshaler
}

type customShape[T any, PT interface {
	*T
	Codec
}] struct{}

// Custom returns the shape of a type whose pointer implements Codec.
//
//	var pointShape = nodelim.Custom[Point]()
func Custom[T any, PT interface {
	*T
	Codec
}]() Shape[T] {
	return &customShape[T, PT]{}
}

func (*customShape[T, PT]) Encode(e *Encoder, v T) { PT(&v).MarshalNoDelim(e) }

func (*customShape[T, PT]) Decode(d *Decoder) T {
	var v T
	PT(&v).UnmarshalNoDelim(d)
	return v
}

type convertShape[T, U any] struct {
	inner Shape[U]
	to    func(U) T
	from  func(T) U
}

// Convert adapts a shape for U into a shape for T. The encoding is that of
// U; to and from convert between the two representations. It is typically
// used for named types and newtype structs:
//
//	type UserID uint64
//	var userID = nodelim.Convert(nodelim.Uint64,
//		func(v uint64) UserID { return UserID(v) },
//		func(v UserID) uint64 { return uint64(v) })
func Convert[T, U any](inner Shape[U], to func(U) T, from func(T) U) Shape[T] {
	return &convertShape[T, U]{inner: inner, to: to, from: from}
}

func (s *convertShape[T, U]) Encode(e *Encoder, v T) { s.inner.Encode(e, s.from(v)) }
func (s *convertShape[T, U]) Decode(d *Decoder) T   { return s.to(s.inner.Decode(d)) }

type lazyShape[T any] struct {
	shape Shape[T]
}

// Lazy builds a shape that may refer to itself, for recursive types:
//
//	var tree nodelim.Shape[Tree]
//	tree = nodelim.Lazy(func(self nodelim.Shape[Tree]) nodelim.Shape[Tree] {
//		return nodelim.Struct(
//			nodelim.Field(nodelim.Int32, func(t *Tree) *int32 { return &t.Value }),
//			nodelim.Field(nodelim.Slice(self), func(t *Tree) *[]Tree { return &t.Children }),
//		)
//	})
//
// build is called once, with a shape that forwards to its own result.
func Lazy[T any](build func(self Shape[T]) Shape[T]) Shape[T] {
	l := &lazyShape[T]{}
	l.shape = build(l)
	return l
}

func (l *lazyShape[T]) Encode(e *Encoder, v T) { l.shape.Encode(e, v) }
func (l *lazyShape[T]) Decode(d *Decoder) T   { return l.shape.Decode(d) }

// Ptr is a helper function to create a pointer to a value, making Option
// values and test setup cleaner.
func Ptr[T any](v T) *T { return &v }
