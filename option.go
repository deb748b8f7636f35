package nodelim

type optionShape[T any] struct {
	elem Shape[T]
}

// Option returns the shape of an optional value, represented as a pointer:
// nil is absent. A present value is written as the presence flag followed
// by the value itself.
func Option[T any](elem Shape[T]) Shape[*T] {
	return &optionShape[T]{elem: elem}
}

func (s *optionShape[T]) Encode(e *Encoder, v *T) {
	if v == nil {
		e.WriteOption(false)
		return
	}
	e.WriteOption(true)
	s.elem.Encode(e, *v)
}

func (s *optionShape[T]) Decode(d *Decoder) *T {
	if !d.ReadOption() {
		return nil
	}
	v := s.elem.Decode(d)
	if d.err != nil {
		return nil
	}
	return &v
}

type boxShape[T any] struct {
	elem Shape[T]
}

// Box returns the shape of a heap indirection. The pointer is transparent on
// the wire: a boxed value encodes exactly like the value. A nil pointer
// encodes as the zero value of T.
func Box[T any](elem Shape[T]) Shape[*T] {
	return &boxShape[T]{elem: elem}
}

func (s *boxShape[T]) Encode(e *Encoder, v *T) {
	if v == nil {
		var zero T
		s.elem.Encode(e, zero)
		return
	}
	s.elem.Encode(e, *v)
}

func (s *boxShape[T]) Decode(d *Decoder) *T {
	v := s.elem.Decode(d)
	return &v
}
