package maa

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"unsafe"

	"github.com/dustin/go-humanize"
)

// StringStats is a snapshot of StringPool counters.
type StringStats struct {
	Count      int // distinct strings interned
	Bytes      int // bytes of interned content
	Retrievals int
	Hits       int
	Misses     int
}

// StringPool interns strings: equal content always yields the same string,
// backed by one copy of the bytes owned by the pool. Lookups hash and
// compare content. Grow and Finish build a string piecewise and intern it
// once complete.
type StringPool struct {
	table[string, struct{}]

	chars *arena

	// Pending Grow content, committed by Finish.
	scratch []byte
	growing bool

	unique int
}

// NewStringPool returns an empty pool.
func NewStringPool(opts ...Option) *StringPool {
	cfg := newConfig(opts)

	p := &StringPool{chars: newArena(cfg.chunkSize)}
	p.init("string pool", StringHash, StringCompare, cfg)

	return p
}

// Destroy frees every interned string's storage and any pending growth.
func (p *StringPool) Destroy() {
	p.destroy()
	p.chars.release()
	p.scratch = nil
	p.growing = false
}

// Find returns the interned copy of s without allocating.
func (p *StringPool) Find(s string) (string, bool) {
	e, ok := p.lookup("Find", s)
	if !ok {
		return "", false
	}

	return e.key, true
}

// Exists reports whether s has been interned.
func (p *StringPool) Exists(s string) bool {
	_, ok := p.lookup("Exists", s)

	return ok
}

// Copy returns the interned copy of s, interning it first if needed.
func (p *StringPool) Copy(s string) string {
	if e, ok := p.lookup("Copy", s); ok {
		return e.key
	}

	return p.intern("Copy", s)
}

// CopyN interns the first n bytes of s. n larger than len(s) is clamped;
// a negative n is fatal.
func (p *StringPool) CopyN(s string, n int) string {
	return p.Copy(s[:p.clamp("CopyN", n, len(s))])
}

// CopyBytes interns the content of b. b is not retained.
func (p *StringPool) CopyBytes(b []byte) string {
	if e, ok := p.lookup("CopyBytes", bytesView(b)); ok {
		return e.key
	}

	return p.intern("CopyBytes", bytesView(b))
}

// Grow appends the first n bytes of s to the pending string. n larger than
// len(s) is clamped; a negative n is fatal.
func (p *StringPool) Grow(s string, n int) {
	p.check("Grow")

	p.scratch = append(p.scratch, s[:p.clamp("Grow", n, len(s))]...)
	p.growing = true
}

// GrowBytes appends b to the pending string.
func (p *StringPool) GrowBytes(b []byte) {
	p.check("GrowBytes")

	p.scratch = append(p.scratch, b...)
	p.growing = true
}

// Finish interns the pending string, returns its canonical copy and resets
// the growth state. Finish without a preceding Grow is fatal.
func (p *StringPool) Finish() string {
	p.check("Finish")
	if !p.growing {
		fatal(p.log, "Finish", ErrNoGrowth, "no string under construction")
	}

	key := bytesView(p.scratch)

	var s string
	if e, ok := p.lookup("Finish", key); ok {
		s = e.key
	} else {
		s = p.intern("Finish", key)
	}

	p.scratch = p.scratch[:0]
	p.growing = false

	return s
}

// Unique interns and returns prefix followed by the lowest counter value
// that does not name an interned string yet.
func (p *StringPool) Unique(prefix string) string {
	p.checkWritable("Unique")

	for {
		s := prefix + strconv.Itoa(p.unique)
		p.unique++

		if _, ok := p.find(s); !ok {
			return p.intern("Unique", s)
		}
	}
}

// Len returns the number of interned strings.
func (p *StringPool) Len() int {
	p.check("Len")

	return p.entries
}

// Iterate calls fn for every interned string. A non-nil result stops the
// walk and is returned.
func (p *StringPool) Iterate(fn func(s string) error) error {
	return p.iterate("Iterate", func(s string, _ struct{}) error {
		return fn(s)
	})
}

// IterateStringsWith is Iterate with an extra argument threaded to every call.
func IterateStringsWith[A any](p *StringPool, arg A, fn func(s string, arg A) error) error {
	return p.iterate("IterateWith", func(s string, _ struct{}) error {
		return fn(s, arg)
	})
}

// All returns an iterator over every interned string.
func (p *StringPool) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = p.iterate("All", func(s string, _ struct{}) error {
			if !yield(s) {
				return errStopIteration
			}

			return nil
		})
	}
}

// Init opens a cursor on the first string and makes the pool read-only.
// Copy and Finish of content already interned remain allowed.
func (p *StringPool) Init() Position {
	return p.open()
}

func (p *StringPool) Next(pos Position) Position {
	return p.advance(pos)
}

func (p *StringPool) Get(pos Position) string {
	return p.at(pos).key
}

func (p *StringPool) End() {
	p.end()
}

func (p *StringPool) Stats() StringStats {
	s := p.stats()

	return StringStats{
		Count:      s.Entries,
		Bytes:      p.chars.size,
		Retrievals: s.Retrievals,
		Hits:       s.Hits,
		Misses:     s.Misses,
	}
}

// TableStats exposes the chain statistics of the underlying table.
func (p *StringPool) TableStats() Stats {
	return p.stats()
}

// PrintStats writes a human-readable summary of Stats to w.
func (p *StringPool) PrintStats(w io.Writer) error {
	s := p.Stats()

	_, err := fmt.Fprintf(w,
		"Statistics for string pool:\n"+
			"  %d strings using %s (%d chunks, %s reserved)\n"+
			"  %d retrievals (%d from top, %d failed)\n",
		s.Count, humanize.Bytes(uint64(s.Bytes)), len(p.chars.chunks), humanize.Bytes(uint64(p.chars.capacity)),
		s.Retrievals, s.Hits, s.Misses,
	)

	return err
}

// intern copies s into the arena and records the copy. s must not be
// interned yet.
func (p *StringPool) intern(op string, s string) string {
	p.checkWritable(op)

	buf := p.chars.alloc(len(s))
	copy(buf, s)

	c := bytesView(buf)
	if err := p.insert(op, c, struct{}{}); err != nil {
		fatal(p.log, op, err, "string pool out of sync with its table")
	}

	return c
}

func (p *StringPool) clamp(op string, n, limit int) int {
	if n < 0 {
		fatal(p.log, op, ErrInvalidArgument, "negative length %d", n)
	}

	return min(n, limit)
}

// bytesView aliases b as a string. The caller guarantees b is not modified
// while the string is in use.
func bytesView(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	return unsafe.String(unsafe.SliceData(b), len(b))
}
