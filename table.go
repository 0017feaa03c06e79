package maa

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Resize once entries/buckets exceeds this ratio.
const loadFactor = 0.7

type entry[K, V any] struct {
	key   K
	datum V
	next  Ref
}

// table is the chained hash table shared by HashTable, Set and StringPool.
// Keys and data are referenced, never owned.
type table[K, V any] struct {
	buckets []Ref
	entries int

	hash    HashFunc[K]
	compare CompareFunc[K]
	nodes   *ObjectPool[entry[K, V]]

	// Open cursors. Any value above zero makes the table read-only.
	readers int
	// Bumped whenever the last cursor closes, invalidating old positions.
	epoch uint32

	resizings  int
	retrievals int
	hits       int
	misses     int

	kind      string
	cfg       config
	log       *zap.Logger
	destroyed bool
}

func (t *table[K, V]) init(kind string, hash HashFunc[K], compare CompareFunc[K], cfg config) {
	t.kind = kind
	t.cfg = cfg
	t.log = cfg.logger

	if hash == nil || compare == nil {
		fatal(t.log, "New", ErrInvalidArgument, "%s needs both a hash and a compare function", kind)
	}

	t.hash = hash
	t.compare = compare
	t.buckets = make([]Ref, NextPrime(uint64(cfg.initialSize)))
	t.nodes = NewObjectPool[entry[K, V]](WithLogger(cfg.logger), WithSlabSize(cfg.slabSize))
}

func (t *table[K, V]) check(op string) {
	if t.nodes == nil {
		if t.destroyed {
			fatal(t.log, op, ErrDestroyed, "%s already destroyed", t.kind)
		}
		fatal(nil, op, ErrInvalidHandle, "container not created with its constructor")
	}
}

func (t *table[K, V]) checkWritable(op string) {
	t.check(op)
	if t.readers > 0 {
		fatal(t.log, op, ErrConcurrentMutation, "%s has %d open cursor(s)", t.kind, t.readers)
	}
}

func (t *table[K, V]) destroy() {
	t.check("Destroy")

	t.nodes.Destroy()
	t.nodes = nil
	t.buckets = nil
	t.entries = 0
	t.readers = 0
	t.destroyed = true
}

func (t *table[K, V]) index(key K) int {
	return int(t.hash(key) % uint64(len(t.buckets)))
}

func (t *table[K, V]) node(ref Ref) *entry[K, V] {
	return t.nodes.Get(ref)
}

// lookup is a counted retrieval: hits are matches at the chain head,
// misses are unsuccessful lookups.
func (t *table[K, V]) lookup(op string, key K) (*entry[K, V], bool) {
	t.check(op)
	t.retrievals++

	ref := t.buckets[t.index(key)]
	for first := true; !ref.IsZero(); first = false {
		e := t.node(ref)
		if t.compare(e.key, key) == 0 {
			if first {
				t.hits++
			}

			return e, true
		}

		ref = e.next
	}

	t.misses++

	return nil, false
}

// find is an uncounted lookup for internal bookkeeping.
func (t *table[K, V]) find(key K) (*entry[K, V], bool) {
	for ref := t.buckets[t.index(key)]; !ref.IsZero(); {
		e := t.node(ref)
		if t.compare(e.key, key) == 0 {
			return e, true
		}

		ref = e.next
	}

	return nil, false
}

func (t *table[K, V]) insert(op string, key K, datum V) error {
	t.checkWritable(op)

	b := t.index(key)
	for ref := t.buckets[b]; !ref.IsZero(); {
		e := t.node(ref)
		if t.compare(e.key, key) == 0 {
			return errors.Wrap(ErrDuplicateKey, op)
		}

		ref = e.next
	}

	ref, e := t.nodes.Acquire()
	e.key = key
	e.datum = datum
	e.next = t.buckets[b]
	t.buckets[b] = ref
	t.entries++

	if float64(t.entries) > loadFactor*float64(len(t.buckets)) {
		t.resize()
	}

	return nil
}

func (t *table[K, V]) delete(op string, key K) error {
	t.checkWritable(op)

	b := t.index(key)
	var prev *entry[K, V]
	for ref := t.buckets[b]; !ref.IsZero(); {
		e := t.node(ref)
		if t.compare(e.key, key) != 0 {
			prev = e
			ref = e.next

			continue
		}

		if prev == nil {
			t.buckets[b] = e.next
		} else {
			prev.next = e.next
		}

		// Drop the caller's references before the node is recycled.
		*e = entry[K, V]{}
		t.nodes.Release(ref)
		t.entries--

		return nil
	}

	return errors.Wrap(ErrNotFound, op)
}

// resize relinks every node into a larger prime-sized bucket array.
// Nodes are moved, not reallocated.
func (t *table[K, V]) resize() {
	old := t.buckets
	t.buckets = make([]Ref, NextPrime(uint64(2*len(old)+1)))

	for _, ref := range old {
		for !ref.IsZero() {
			e := t.node(ref)
			next := e.next

			b := t.index(e.key)
			e.next = t.buckets[b]
			t.buckets[b] = ref

			ref = next
		}
	}

	t.resizings++

	t.log.Debug("hash table resized",
		zap.String("kind", t.kind),
		zap.Int("from", len(old)),
		zap.Int("to", len(t.buckets)),
		zap.Int("entries", t.entries),
	)
}

// iterate visits every pair with the table read-only. The first non-nil
// callback result stops the walk and is returned.
func (t *table[K, V]) iterate(op string, fn func(K, V) error) error {
	t.check(op)

	t.readers++
	defer t.closeReader()

	for _, ref := range t.buckets {
		for !ref.IsZero() {
			e := t.node(ref)
			next := e.next

			if err := fn(e.key, e.datum); err != nil {
				return err
			}

			ref = next
		}
	}

	return nil
}

func (t *table[K, V]) closeReader() {
	if t.nodes == nil || t.readers == 0 {
		return
	}

	t.readers--
	if t.readers == 0 {
		t.epoch++
	}
}

func (t *table[K, V]) stats() Stats {
	t.check("Stats")

	s := Stats{
		Size:       len(t.buckets),
		Resizings:  t.resizings,
		Entries:    t.entries,
		Retrievals: t.retrievals,
		Hits:       t.hits,
		Misses:     t.misses,
	}

	for _, ref := range t.buckets {
		n := 0
		for !ref.IsZero() {
			n++
			ref = t.node(ref).next
		}

		if n > 0 {
			s.BucketsUsed++
		}
		if n == 1 {
			s.Singletons++
		}

		s.MaximumLength = max(s.MaximumLength, n)
	}

	return s
}
