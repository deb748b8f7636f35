package nodelim

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// sizeCache holds the encoded size of every type already accepted by Fixed.
var sizeCache = xsync.NewMap[reflect.Type, int]()

type fixedShape[T any] struct {
	size int
}

// Fixed returns the shape of a fixed-layout type: a sized number, or an
// array or struct built only from them. Such a value is written as its
// fields in declaration order, each little-endian at its natural width, so
// the encoding equals that of the corresponding Struct and TupleN shapes
// with no per-field call overhead. Arrays encode like tuples: the elements
// with no count.
//
// Constraint: T must not contain bool, int, uint, uintptr, pointers,
// strings, slices, maps, interfaces, or unexported or blank struct fields.
// Fixed panics otherwise.
func Fixed[T any]() Shape[T] {
	t := reflect.TypeFor[T]()
	if size, ok := sizeCache.Load(t); ok {
		return fixedShape[T]{size: size}
	}
	if err := checkFixed(t); err != nil {
		panic(fmt.Sprintf("nodelim: Fixed[%v]: %v", t, err))
	}
	var zero T
	size := binary.Size(&zero)
	if size < 0 {
		panic(fmt.Sprintf("nodelim: Fixed[%v]: not a fixed-size type", t))
	}
	sizeCache.Store(t, size)
	return fixedShape[T]{size: size}
}

// checkFixed rejects kinds whose encoding/binary layout differs from this
// package's encoding or that have no fixed size.
func checkFixed(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Array:
		return checkFixed(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			switch {
			case f.Name == "_":
				return fmt.Errorf("blank field %d is written as zero padding", i)
			case !f.IsExported():
				return fmt.Errorf("field %s is unexported and cannot be decoded", f.Name)
			}
			if err := checkFixed(f.Type); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
		return nil
	case reflect.Bool:
		return fmt.Errorf("bool is written as an ASCII digit; use Struct with Bool")
	default:
		return fmt.Errorf("%v has no fixed-width encoding", t)
	}
}

func (s fixedShape[T]) Encode(e *Encoder, v T) {
	// binary.Append only fails for types Fixed has already rejected.
	e.buf, _ = binary.Append(e.buf, binary.LittleEndian, &v)
}

func (s fixedShape[T]) Decode(d *Decoder) T {
	var v T
	p := d.next(s.size)
	if p == nil {
		return v
	}
	if _, err := binary.Decode(p, binary.LittleEndian, &v); err != nil {
		d.fail(err)
	}
	return v
}
