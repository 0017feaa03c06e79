package maa

import (
	"io"
	"iter"
)

// HashTable maps keys to data using caller-supplied hash and compare
// functions. Collisions are chained; the bucket count is kept prime and
// grows once the load factor passes 0.7. Entry nodes come from a private
// ObjectPool.
//
// The table references keys and data but never owns them. Iteration order
// is unspecified. A HashTable is not safe for concurrent use.
type HashTable[K, V any] struct {
	table[K, V]
}

// NewHashTable returns an empty table. Both functions are required.
func NewHashTable[K, V any](hash HashFunc[K], compare CompareFunc[K], opts ...Option) *HashTable[K, V] {
	var t HashTable[K, V]
	t.init("hash table", hash, compare, newConfig(opts))

	return &t
}

// Destroy releases buckets and entry nodes. Keys and data are left alone.
func (t *HashTable[K, V]) Destroy() {
	t.destroy()
}

// Insert adds a new pair. If an equal key is present it returns
// ErrDuplicateKey and keeps the existing datum.
func (t *HashTable[K, V]) Insert(key K, datum V) error {
	return t.insert("Insert", key, datum)
}

// Delete removes key, or returns ErrNotFound.
func (t *HashTable[K, V]) Delete(key K) error {
	return t.delete("Delete", key)
}

// Retrieve returns the datum stored under key.
func (t *HashTable[K, V]) Retrieve(key K) (V, bool) {
	e, ok := t.lookup("Retrieve", key)
	if !ok {
		var zero V
		return zero, false
	}

	return e.datum, true
}

// Len returns the number of entries.
func (t *HashTable[K, V]) Len() int {
	t.check("Len")

	return t.entries
}

// Iterate calls fn for every pair. The table is read-only for the duration.
// A non-nil result from fn stops the walk and is returned.
func (t *HashTable[K, V]) Iterate(fn func(key K, datum V) error) error {
	return t.iterate("Iterate", fn)
}

// IterateWith is Iterate with an extra argument threaded to every call.
func IterateWith[K, V, A any](t *HashTable[K, V], arg A, fn func(key K, datum V, arg A) error) error {
	return t.iterate("IterateWith", func(k K, v V) error {
		return fn(k, v, arg)
	})
}

// All returns an iterator over every pair. Breaking out of the loop
// restores write access.
func (t *HashTable[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		_ = t.iterate("All", func(k K, v V) error {
			if !yield(k, v) {
				return errStopIteration
			}

			return nil
		})
	}
}

// Init opens a cursor on the first entry and makes the table read-only.
func (t *HashTable[K, V]) Init() Position {
	return t.open()
}

// Next moves p to the following entry. Past the last entry it returns an
// invalid Position and the cursor closes by itself.
func (t *HashTable[K, V]) Next(p Position) Position {
	return t.advance(p)
}

// Get reads the pair under p.
func (t *HashTable[K, V]) Get(p Position) (K, V) {
	e := t.at(p)

	return e.key, e.datum
}

// End closes every open cursor. Call it when leaving a cursor loop early.
func (t *HashTable[K, V]) End() {
	t.end()
}

// ReadOnly reports whether a cursor is open.
func (t *HashTable[K, V]) ReadOnly() bool {
	t.check("ReadOnly")

	return t.readers > 0
}

func (t *HashTable[K, V]) HashFunc() HashFunc[K] {
	t.check("HashFunc")

	return t.hash
}

func (t *HashTable[K, V]) CompareFunc() CompareFunc[K] {
	t.check("CompareFunc")

	return t.compare
}

func (t *HashTable[K, V]) Stats() Stats {
	return t.stats()
}

// PrintStats writes a human-readable summary of Stats to w.
func (t *HashTable[K, V]) PrintStats(w io.Writer) error {
	return t.stats().print(w, t.kind)
}
