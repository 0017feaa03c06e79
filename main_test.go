package maa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// requireInvariant runs fn and asserts it panics with an *InvariantError
// wrapping target.
func requireInvariant(t *testing.T, target error, fn func()) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected an invariant violation")

		ie, ok := r.(*InvariantError)
		require.Truef(t, ok, "panic value %T is not *InvariantError", r)
		require.ErrorIs(t, ie, target)
	}()

	fn()
}

func newStringTable[V any](opts ...Option) *HashTable[string, V] {
	return NewHashTable[string, V](StringHash, StringCompare, opts...)
}

func newIntSet(elems ...int) *Set[int] {
	s := NewSet(IntegerHash[int], OrderedCompare[int])
	for _, e := range elems {
		if err := s.Insert(e); err != nil {
			panic(err)
		}
	}

	return s
}

func setMembers[T any](s *Set[T]) []T {
	var out []T
	for e := range s.All() {
		out = append(out, e)
	}

	return out
}

// collisionHash sends every key to the same bucket.
func collisionHash[K any](K) uint64 {
	return 0
}
