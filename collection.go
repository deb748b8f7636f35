package nodelim

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"golang.org/x/exp/constraints"
)

// CollectionOps tells the generic collection shape how to walk and build a
// container C of elements E. Any container with a length, an iteration
// order and an insertion function can be encoded as a sequence:
// container/list, heaps, ring buffers, sets.
type CollectionOps[C, E any] struct {
	// Len reports the element count of c.
	Len func(c C) int
	// All yields the elements of c in encoding order.
	All func(c C) iter.Seq[E]
	// Make returns an empty container with room for about n elements.
	Make func(n int) C
	// Insert adds v to c and returns the updated container.
	Insert func(c C, v E) C
}

type collectionShape[C, E any] struct {
	elem Shape[E]
	ops  CollectionOps[C, E]
}

// Collection returns the sequence shape of a container described by ops:
// the element count as a size code, then each element in the order All
// yields them. Decoding inserts elements in wire order.
func Collection[C, E any](elem Shape[E], ops CollectionOps[C, E]) Shape[C] {
	return &collectionShape[C, E]{elem: elem, ops: ops}
}

func (s *collectionShape[C, E]) Encode(e *Encoder, c C) {
	seq := e.BeginSeq(s.ops.Len(c))
	for v := range s.ops.All(c) {
		s.elem.Encode(seq.Next(), v)
	}
	seq.End()
}

func (s *collectionShape[C, E]) Decode(d *Decoder) C {
	n := d.ReadLen()
	c := s.ops.Make(capHint(d, n))
	for i := 0; i < n && d.err == nil; i++ {
		start := d.N
		v := s.elem.Decode(d)
		if i == 0 {
			checkEmpty(d, start, n)
		}
		if d.err != nil {
			break
		}
		c = s.ops.Insert(c, v)
	}
	return c
}

// MaxEmptyElements is the largest count accepted for a sequence, set or map
// whose elements decode from zero bytes, such as Slice(Unit). Larger counts
// fail with ErrCountLimit instead of looping without consuming input.
const MaxEmptyElements = 1 << 24

// checkEmpty fails d when the first element of a count-n collection,
// decoded from offset start, took no bytes and n exceeds MaxEmptyElements.
func checkEmpty(d *Decoder, start, n int) {
	if d.err == nil && d.N == start && n > MaxEmptyElements {
		d.fail(fmt.Errorf("%w: count %d", ErrCountLimit, n))
	}
}

// capHint bounds a preallocation by the bytes left in d, so a corrupt count
// cannot force a huge allocation before decoding fails.
func capHint(d *Decoder, n int) int {
	if d.err != nil {
		return 0
	}
	return min(n, d.Available())
}

type sliceShape[T any] struct {
	elem Shape[T]
}

// Slice returns the shape of a sequence stored as a Go slice. A nil slice
// encodes like an empty one and an empty sequence decodes as a non-nil empty
// slice.
func Slice[T any](elem Shape[T]) Shape[[]T] {
	return &sliceShape[T]{elem: elem}
}

func (s *sliceShape[T]) Encode(e *Encoder, v []T) {
	seq := e.BeginSeq(len(v))
	for i := range v {
		s.elem.Encode(seq.Next(), v[i])
	}
	seq.End()
}

func (s *sliceShape[T]) Decode(d *Decoder) []T {
	n := d.ReadLen()
	if d.err != nil {
		return nil
	}
	out := make([]T, 0, capHint(d, n))
	for i := 0; i < n; i++ {
		start := d.N
		v := s.elem.Decode(d)
		if i == 0 {
			checkEmpty(d, start, n)
		}
		if d.err != nil {
			return out
		}
		out = append(out, v)
	}
	return out
}

// Set returns the shape of an unordered set. Elements are written in Go's
// map iteration order, so two encodings of the same set may differ byte for
// byte while decoding to equal sets. Use OrderedSet for stable bytes.
func Set[T comparable](elem Shape[T]) Shape[map[T]struct{}] {
	return Collection(elem, CollectionOps[map[T]struct{}, T]{
		Len:    func(m map[T]struct{}) int { return len(m) },
		All:    func(m map[T]struct{}) iter.Seq[T] { return maps.Keys(m) },
		Make:   func(n int) map[T]struct{} { return make(map[T]struct{}, n) },
		Insert: insertSet[T],
	})
}

// OrderedSet is Set with elements written in ascending order.
func OrderedSet[T constraints.Ordered](elem Shape[T]) Shape[map[T]struct{}] {
	return Collection(elem, CollectionOps[map[T]struct{}, T]{
		Len: func(m map[T]struct{}) int { return len(m) },
		All: func(m map[T]struct{}) iter.Seq[T] {
			return slices.Values(slices.Sorted(maps.Keys(m)))
		},
		Make:   func(n int) map[T]struct{} { return make(map[T]struct{}, n) },
		Insert: insertSet[T],
	})
}

func insertSet[T comparable](m map[T]struct{}, v T) map[T]struct{} {
	m[v] = struct{}{}
	return m
}

type mapShape[K comparable, V any] struct {
	key    Shape[K]
	value  Shape[V]
	sorted func(map[K]V) []K
}

// Map returns the shape of a map: the entry count, then each key followed
// by its value. Entries are written in Go's map iteration order; see Set.
// When the wire holds the same key twice the later entry wins.
func Map[K comparable, V any](key Shape[K], value Shape[V]) Shape[map[K]V] {
	return &mapShape[K, V]{key: key, value: value}
}

// OrderedMap is Map with entries written in ascending key order.
func OrderedMap[K constraints.Ordered, V any](key Shape[K], value Shape[V]) Shape[map[K]V] {
	return &mapShape[K, V]{key: key, value: value, sorted: func(m map[K]V) []K {
		return slices.Sorted(maps.Keys(m))
	}}
}

func (s *mapShape[K, V]) Encode(e *Encoder, m map[K]V) {
	seq := e.BeginMap(len(m))
	if s.sorted != nil {
		for _, k := range s.sorted(m) {
			entry := seq.Next()
			s.key.Encode(entry, k)
			s.value.Encode(entry, m[k])
		}
	} else {
		for k, v := range m {
			entry := seq.Next()
			s.key.Encode(entry, k)
			s.value.Encode(entry, v)
		}
	}
	seq.End()
}

func (s *mapShape[K, V]) Decode(d *Decoder) map[K]V {
	n := d.ReadLen()
	if d.err != nil {
		return nil
	}
	m := make(map[K]V, capHint(d, n))
	for i := 0; i < n; i++ {
		start := d.N
		k := s.key.Decode(d)
		v := s.value.Decode(d)
		if i == 0 {
			checkEmpty(d, start, n)
		}
		if d.err != nil {
			return m
		}
		m[k] = v
	}
	return m
}

type iterShape[T any] struct {
	elem Shape[T]
}

// Iter returns the shape of a lazily produced sequence whose length is not
// known until it has been consumed. The encoding is identical to Slice: the
// elements are buffered while the sequence runs and the count is written
// once it is exhausted. Decoding yields the elements of a fully decoded
// slice.
func Iter[T any](elem Shape[T]) Shape[iter.Seq[T]] {
	return &iterShape[T]{elem: elem}
}

func (s *iterShape[T]) Encode(e *Encoder, seq iter.Seq[T]) {
	w := e.BeginSeq(-1)
	if seq != nil {
		for v := range seq {
			s.elem.Encode(w.Next(), v)
		}
	}
	w.End()
}

func (s *iterShape[T]) Decode(d *Decoder) iter.Seq[T] {
	return slices.Values((&sliceShape[T]{elem: s.elem}).Decode(d))
}
