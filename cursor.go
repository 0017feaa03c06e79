package maa

// Position is a cursor into a HashTable, Set or StringPool. It is only
// meaningful to the container that issued it and only until End is called
// or the walk runs off the last entry.
//
//	for p := t.Init(); p.Valid(); p = t.Next(p) {
//		k, v := t.Get(p)
//		...
//	}
//	t.End() // required when leaving the loop early
type Position struct {
	epoch  uint32
	bucket int
	ref    Ref
}

// Valid reports whether p refers to an entry. Init and Next return an
// invalid Position once every entry has been visited.
func (p Position) Valid() bool {
	return !p.ref.IsZero()
}

// open starts a cursor: the table stays read-only until the walk completes
// or end is called.
func (t *table[K, V]) open() Position {
	t.check("Init")
	t.readers++

	return t.scan(0)
}

func (t *table[K, V]) advance(p Position) Position {
	t.checkPosition("Next", p)

	if e := t.node(p.ref); !e.next.IsZero() {
		return Position{epoch: t.epoch, bucket: p.bucket, ref: e.next}
	}

	return t.scan(p.bucket + 1)
}

func (t *table[K, V]) at(p Position) *entry[K, V] {
	t.checkPosition("Get", p)

	return t.node(p.ref)
}

// end closes every open cursor and clears the read-only state. Calling it
// after a completed walk is harmless.
func (t *table[K, V]) end() {
	t.check("End")

	if t.readers > 0 {
		t.readers = 0
		t.epoch++
	}
}

func (t *table[K, V]) scan(from int) Position {
	for b := from; b < len(t.buckets); b++ {
		if ref := t.buckets[b]; !ref.IsZero() {
			return Position{epoch: t.epoch, bucket: b, ref: ref}
		}
	}

	t.closeReader()

	return Position{}
}

func (t *table[K, V]) checkPosition(op string, p Position) {
	t.check(op)

	switch {
	case !p.Valid():
		fatal(t.log, op, ErrStaleHandle, "exhausted position")
	case p.ref.pool != t.nodes.id:
		fatal(t.log, op, ErrForeignHandle, "position belongs to another container")
	case t.readers == 0 || p.epoch != t.epoch:
		fatal(t.log, op, ErrStaleHandle, "position outlived its cursor")
	}
}
