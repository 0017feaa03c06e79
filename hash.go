package maa

import (
	"cmp"
	"hash/maphash"
	"strings"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// HashFunc maps a key to a 64-bit hash. Keys that compare equal must hash equal.
type HashFunc[K any] func(K) uint64

// CompareFunc reports 0 when a and b are equal. Only the zero/non-zero
// distinction is used by the containers.
type CompareFunc[K any] func(a, b K) int

// ComparableHash returns a seeded hash function for any comparable type.
func ComparableHash[K comparable]() HashFunc[K] {
	seed := maphash.MakeSeed()

	return func(k K) uint64 {
		return maphash.Comparable(seed, k)
	}
}

// ComparableCompare compares with ==.
func ComparableCompare[K comparable](a, b K) int {
	if a == b {
		return 0
	}

	return 1
}

// OrderedCompare is cmp.Compare, usable as a CompareFunc.
func OrderedCompare[K cmp.Ordered](a, b K) int {
	return cmp.Compare(a, b)
}

// StringHash hashes string content.
func StringHash(s string) uint64 {
	return xxhash.Sum64String(s)
}

// BytesHash hashes byte content. BytesHash(b) == StringHash(string(b)).
func BytesHash(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// StringCompare compares string content.
func StringCompare(a, b string) int {
	return strings.Compare(a, b)
}

// IntegerHash spreads an integer key over 64 bits (splitmix64 finalizer).
func IntegerHash[K constraints.Integer](k K) uint64 {
	return mix64(uint64(k))
}

// PointerHash hashes the address, not the pointee.
func PointerHash[T any](p *T) uint64 {
	return mix64(uint64(uintptr(unsafe.Pointer(p))))
}

// PointerCompare compares addresses.
func PointerCompare[T any](a, b *T) int {
	if a == b {
		return 0
	}

	return 1
}

func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31

	return x
}
