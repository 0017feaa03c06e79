package maa

import (
	"io"
	"iter"
)

// Set is a HashTable whose key and datum are the same element. Membership
// is decided by the compare function, never by identity.
type Set[T any] struct {
	table[T, struct{}]
}

// NewSet returns an empty set. Both functions are required.
func NewSet[T any](hash HashFunc[T], compare CompareFunc[T], opts ...Option) *Set[T] {
	var s Set[T]
	s.init("set", hash, compare, newConfig(opts))

	return &s
}

// newSetLike returns an empty set sharing s's functions and options.
func newSetLike[T any](s *Set[T]) *Set[T] {
	return NewSet(s.hash, s.compare, s.cfg.options()...)
}

// Destroy releases the set's own storage. Elements are left alone.
func (s *Set[T]) Destroy() {
	s.destroy()
}

// Insert adds elem, or returns ErrDuplicateKey if an equal element is present.
func (s *Set[T]) Insert(elem T) error {
	return s.insert("Insert", elem, struct{}{})
}

// Delete removes elem, or returns ErrNotFound.
func (s *Set[T]) Delete(elem T) error {
	return s.delete("Delete", elem)
}

// Member reports whether an element equal to elem is present.
func (s *Set[T]) Member(elem T) bool {
	_, ok := s.lookup("Member", elem)

	return ok
}

// Count returns the cardinality.
func (s *Set[T]) Count() int {
	s.check("Count")

	return s.entries
}

// Iterate calls fn for every element. A non-nil result stops the walk and
// is returned.
func (s *Set[T]) Iterate(fn func(elem T) error) error {
	return s.iterate("Iterate", func(e T, _ struct{}) error {
		return fn(e)
	})
}

// IterateSetWith is Iterate with an extra argument threaded to every call.
func IterateSetWith[T, A any](s *Set[T], arg A, fn func(elem T, arg A) error) error {
	return s.iterate("IterateWith", func(e T, _ struct{}) error {
		return fn(e, arg)
	})
}

// All returns an iterator over every element.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		_ = s.iterate("All", func(e T, _ struct{}) error {
			if !yield(e) {
				return errStopIteration
			}

			return nil
		})
	}
}

// Init opens a cursor on the first element and makes the set read-only.
func (s *Set[T]) Init() Position {
	return s.open()
}

func (s *Set[T]) Next(p Position) Position {
	return s.advance(p)
}

func (s *Set[T]) Get(p Position) T {
	return s.at(p).key
}

// End closes every open cursor.
func (s *Set[T]) End() {
	s.end()
}

func (s *Set[T]) ReadOnly() bool {
	s.check("ReadOnly")

	return s.readers > 0
}

func (s *Set[T]) HashFunc() HashFunc[T] {
	s.check("HashFunc")

	return s.hash
}

func (s *Set[T]) CompareFunc() CompareFunc[T] {
	s.check("CompareFunc")

	return s.compare
}

func (s *Set[T]) Stats() Stats {
	return s.stats()
}

func (s *Set[T]) PrintStats(w io.Writer) error {
	return s.stats().print(w, s.kind)
}

// each walks s read-only without surfacing errors.
func (s *Set[T]) each(op string, fn func(T)) {
	_ = s.iterate(op, func(e T, _ struct{}) error {
		fn(e)

		return nil
	})
}

// put inserts elem unless an equal element is already present.
func (s *Set[T]) put(op string, elem T) {
	s.checkWritable(op)

	if _, ok := s.find(elem); !ok {
		_ = s.insert(op, elem, struct{}{})
	}
}

// Add inserts into a every element of b that a lacks, and returns a.
func Add[T any](a, b *Set[T]) *Set[T] {
	a.checkWritable("Add")
	b.check("Add")

	if a == b {
		return a
	}

	b.each("Add", func(e T) {
		a.put("Add", e)
	})

	return a
}

// Del removes from a every element also present in b, and returns a.
// Elements of b absent from a are ignored.
func Del[T any](a, b *Set[T]) *Set[T] {
	a.checkWritable("Del")
	b.check("Del")

	if a == b {
		var all []T
		a.each("Del", func(e T) {
			all = append(all, e)
		})
		for _, e := range all {
			_ = a.delete("Del", e)
		}

		return a
	}

	b.each("Del", func(e T) {
		if _, ok := a.find(e); ok {
			_ = a.delete("Del", e)
		}
	})

	return a
}

// Union returns a new set holding every element of a or b once. When a and
// b hold equal elements, a's element is kept. The result uses a's functions.
func Union[T any](a, b *Set[T]) *Set[T] {
	a.check("Union")
	b.check("Union")

	u := newSetLike(a)
	a.each("Union", func(e T) {
		u.put("Union", e)
	})
	b.each("Union", func(e T) {
		u.put("Union", e)
	})

	return u
}

// Inter returns a new set holding the elements of a that are members of b.
func Inter[T any](a, b *Set[T]) *Set[T] {
	a.check("Inter")
	b.check("Inter")

	r := newSetLike(a)
	a.each("Inter", func(e T) {
		if b.Member(e) {
			r.put("Inter", e)
		}
	})

	return r
}

// Diff returns a new set holding the elements of a that are not members of b.
func Diff[T any](a, b *Set[T]) *Set[T] {
	a.check("Diff")
	b.check("Diff")

	r := newSetLike(a)
	a.each("Diff", func(e T) {
		if !b.Member(e) {
			r.put("Diff", e)
		}
	})

	return r
}

// Equal reports whether a and b have the same members.
func Equal[T any](a, b *Set[T]) bool {
	a.check("Equal")
	b.check("Equal")

	if a.entries != b.entries {
		return false
	}

	err := a.iterate("Equal", func(e T, _ struct{}) error {
		if !b.Member(e) {
			return errStopIteration
		}

		return nil
	})

	return err == nil
}
