package maa

import (
	"fmt"
	"io"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// poolIDs hands out pool identities so a Ref can be traced to its issuer.
var poolIDs atomic.Uint32

// Ref is a handle to an object acquired from an ObjectPool. The zero Ref
// refers to nothing.
type Ref struct {
	pool uint32
	idx  uint32 // slot index + 1
	gen  uint32
}

// IsZero reports whether r is the nil handle.
func (r Ref) IsZero() bool {
	return r.idx == 0
}

type slot[T any] struct {
	obj T

	// Bumped on every release, so refs to a previous tenant go stale.
	gen uint32

	// Freelist link (slot index + 1), meaningful only while the slot is free.
	next uint32
	live bool
}

// ObjectStats is a snapshot of ObjectPool counters.
type ObjectStats struct {
	Total    int     // objects requested
	Used     int     // objects currently acquired
	Reused   int     // requests served from the freelist
	Size     uintptr // bytes per object
	Slabs    int
	Capacity int // objects the current slabs can hold
}

// ObjectPool hands out fixed-size objects carved from geometrically growing
// slabs. Released objects go on an intrusive freelist and are handed out
// again before any new slab space is used. Not safe for concurrent use.
type ObjectPool[T any] struct {
	id       uint32
	slabs    [][]slot[T]
	slabSize uint32

	bump     uint32 // slots handed out from slabs so far
	capacity uint32
	free     uint32 // freelist head, slot index + 1

	total  int
	used   int
	reused int

	destroyed bool
	log       *zap.Logger
}

// NewObjectPool creates a pool of T. No slab is allocated until the first Acquire.
func NewObjectPool[T any](opts ...Option) *ObjectPool[T] {
	cfg := newConfig(opts)

	return &ObjectPool[T]{
		id:       poolIDs.Add(1),
		slabSize: uint32(cfg.slabSize),
		log:      cfg.logger,
	}
}

// Acquire returns an object, reusing a released one when available. The
// content of a reused object is whatever its previous holder left behind.
func (p *ObjectPool[T]) Acquire() (Ref, *T) {
	p.check("Acquire")

	var idx uint32
	if p.free != 0 {
		idx = p.free - 1
		s := p.slotAt(idx)
		p.free = s.next
		s.next = 0
		p.reused++
	} else {
		if p.bump == p.capacity {
			p.grow()
		}
		idx = p.bump
		p.bump++
	}

	p.total++
	p.used++

	s := p.slotAt(idx)
	s.live = true

	return Ref{pool: p.id, idx: idx + 1, gen: s.gen}, &s.obj
}

// AcquireZeroed is Acquire followed by zeroing the object.
func (p *ObjectPool[T]) AcquireZeroed() (Ref, *T) {
	ref, obj := p.Acquire()

	var zero T
	*obj = zero

	return ref, obj
}

// Get resolves a live ref. Stale or foreign refs are fatal.
func (p *ObjectPool[T]) Get(ref Ref) *T {
	return &p.resolve("Get", ref).obj
}

// Release puts the object back on the freelist. Releasing a ref twice, a
// zero ref or a ref from another pool is fatal.
func (p *ObjectPool[T]) Release(ref Ref) {
	s := p.resolve("Release", ref)

	s.live = false
	s.gen++
	s.next = p.free
	p.free = ref.idx
	p.used--
}

// Destroy drops every slab, including those holding unreleased objects.
func (p *ObjectPool[T]) Destroy() {
	p.check("Destroy")

	p.slabs = nil
	p.free = 0
	p.bump = 0
	p.capacity = 0
	p.destroyed = true
}

func (p *ObjectPool[T]) Stats() ObjectStats {
	p.check("Stats")

	var zero T

	return ObjectStats{
		Total:    p.total,
		Used:     p.used,
		Reused:   p.reused,
		Size:     unsafe.Sizeof(zero),
		Slabs:    len(p.slabs),
		Capacity: int(p.capacity),
	}
}

// PrintStats writes a human-readable summary of Stats to w.
func (p *ObjectPool[T]) PrintStats(w io.Writer) error {
	s := p.Stats()

	_, err := fmt.Fprintf(w,
		"Statistics for object pool #%d:\n"+
			"  %d objects of %d bytes requested, %d in use, %d reused\n"+
			"  %d slabs holding %d objects (%s)\n",
		p.id,
		s.Total, s.Size, s.Used, s.Reused,
		s.Slabs, s.Capacity, humanize.Bytes(uint64(s.Capacity)*uint64(s.Size)),
	)

	return err
}

func (p *ObjectPool[T]) check(op string) {
	if p == nil || p.id == 0 {
		fatal(nil, op, ErrInvalidHandle, "object pool not created with NewObjectPool")
	}
	if p.destroyed {
		fatal(p.log, op, ErrDestroyed, "object pool #%d", p.id)
	}
}

func (p *ObjectPool[T]) resolve(op string, ref Ref) *slot[T] {
	p.check(op)

	switch {
	case ref.IsZero():
		fatal(p.log, op, ErrStaleHandle, "zero ref")
	case ref.pool != p.id:
		fatal(p.log, op, ErrForeignHandle, "ref from pool #%d used with pool #%d", ref.pool, p.id)
	case ref.idx > p.bump:
		fatal(p.log, op, ErrForeignHandle, "slot %d never handed out", ref.idx-1)
	}

	s := p.slotAt(ref.idx - 1)
	if !s.live || s.gen != ref.gen {
		fatal(p.log, op, ErrStaleHandle, "slot %d generation %d, ref generation %d", ref.idx-1, s.gen, ref.gen)
	}

	return s
}

// Slab k holds slabSize<<k slots and starts at slot slabSize*(2^k-1).
func (p *ObjectPool[T]) slotAt(idx uint32) *slot[T] {
	q := idx/p.slabSize + 1
	k := bits.Len32(q) - 1
	off := idx - p.slabSize*(uint32(1)<<k-1)

	return &p.slabs[k][off]
}

func (p *ObjectPool[T]) grow() {
	n := p.slabSize << len(p.slabs)
	p.slabs = append(p.slabs, make([]slot[T], n))
	p.capacity += n

	p.log.Debug("object pool slab allocated",
		zap.Uint32("pool", p.id),
		zap.Int("slab", len(p.slabs)-1),
		zap.Uint32("objects", n),
		zap.Uint32("capacity", p.capacity),
	)
}
