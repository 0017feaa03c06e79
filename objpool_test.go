package maa

import (
	"bytes"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObject struct {
	a int64
	b int32
	c [4]byte
}

func TestObjectPool_Acquire(t *testing.T) {
	p := NewObjectPool[testObject]()

	ref, obj := p.Acquire()
	require.False(t, ref.IsZero())
	require.NotNil(t, obj)

	obj.a = 42
	require.Equal(t, int64(42), p.Get(ref).a)
	require.Same(t, obj, p.Get(ref))

	s := p.Stats()
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.Used)
	assert.Equal(t, 0, s.Reused)
	assert.Equal(t, unsafe.Sizeof(testObject{}), s.Size)
	assert.Equal(t, 1, s.Slabs)
	assert.Equal(t, defaultSlabSize, s.Capacity)
}

func TestObjectPool_ReleaseReuses(t *testing.T) {
	p := NewObjectPool[testObject]()

	r1, o1 := p.Acquire()
	o1.a = 7
	capacity := p.Stats().Capacity

	p.Release(r1)

	r2, o2 := p.Acquire()
	require.Same(t, o1, o2, "released object should be handed out again")
	require.NotEqual(t, r1, r2, "a recycled object gets a fresh generation")
	require.Equal(t, int64(7), o2.a, "Acquire does not zero recycled objects")

	s := p.Stats()
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Used)
	assert.Equal(t, 1, s.Reused)
	assert.Equal(t, capacity, s.Capacity, "reuse must not grow slab storage")
}

func TestObjectPool_AcquireZeroed(t *testing.T) {
	p := NewObjectPool[testObject]()

	r, o := p.Acquire()
	o.a, o.b, o.c = 1, 2, [4]byte{3}
	p.Release(r)

	_, o = p.AcquireZeroed()
	require.Equal(t, testObject{}, *o)
}

func TestObjectPool_FreelistIsLIFO(t *testing.T) {
	p := NewObjectPool[int]()

	refs := make([]Ref, 4)
	ptrs := make([]*int, 4)
	for i := range refs {
		refs[i], ptrs[i] = p.Acquire()
	}

	p.Release(refs[1])
	p.Release(refs[3])

	_, a := p.Acquire()
	_, b := p.Acquire()
	require.Same(t, ptrs[3], a)
	require.Same(t, ptrs[1], b)

	_, c := p.Acquire()
	require.NotSame(t, ptrs[0], c)
	require.NotSame(t, ptrs[2], c)
}

func TestObjectPool_SlabGrowth(t *testing.T) {
	p := NewObjectPool[int](WithSlabSize(4))

	seen := make(map[*int]bool)
	for i := range 4 + 8 + 16 + 1 {
		ref, obj := p.Acquire()
		*obj = i
		require.False(t, seen[obj], "object handed out twice")
		seen[obj] = true
		require.Equal(t, i, *p.Get(ref))
	}

	s := p.Stats()
	require.Equal(t, 4, s.Slabs)
	require.Equal(t, 4+8+16+32, s.Capacity)
	require.Equal(t, 29, s.Used)
	require.LessOrEqual(t, s.Used, s.Total)
}

func TestObjectPool_UsedNeverExceedsTotal(t *testing.T) {
	p := NewObjectPool[int](WithSlabSize(2))

	var live []Ref
	for i := range 200 {
		if i%3 == 2 && len(live) > 0 {
			p.Release(live[0])
			live = live[1:]
		} else {
			ref, _ := p.Acquire()
			live = append(live, ref)
		}

		s := p.Stats()
		require.LessOrEqual(t, s.Used, s.Total)
		require.Equal(t, len(live), s.Used)
	}
}

func TestObjectPool_Invariants(t *testing.T) {
	t.Run("double release", func(t *testing.T) {
		p := NewObjectPool[int]()
		ref, _ := p.Acquire()
		p.Release(ref)

		requireInvariant(t, ErrStaleHandle, func() { p.Release(ref) })
	})

	t.Run("stale get", func(t *testing.T) {
		p := NewObjectPool[int]()
		ref, _ := p.Acquire()
		p.Release(ref)
		p.Acquire()

		requireInvariant(t, ErrStaleHandle, func() { p.Get(ref) })
	})

	t.Run("foreign ref", func(t *testing.T) {
		p := NewObjectPool[int]()
		q := NewObjectPool[int]()
		ref, _ := q.Acquire()

		requireInvariant(t, ErrForeignHandle, func() { p.Release(ref) })
	})

	t.Run("zero ref", func(t *testing.T) {
		p := NewObjectPool[int]()

		requireInvariant(t, ErrStaleHandle, func() { p.Get(Ref{}) })
	})

	t.Run("use after destroy", func(t *testing.T) {
		p := NewObjectPool[int]()
		p.Acquire()
		p.Destroy()

		requireInvariant(t, ErrDestroyed, func() { p.Acquire() })
		requireInvariant(t, ErrDestroyed, func() { p.Destroy() })
	})

	t.Run("zero value", func(t *testing.T) {
		var p ObjectPool[int]

		requireInvariant(t, ErrInvalidHandle, func() { p.Acquire() })
	})
}

func TestObjectPool_DestroyWithOutstanding(t *testing.T) {
	p := NewObjectPool[int]()
	for range 100 {
		p.Acquire()
	}

	require.NotPanics(t, p.Destroy)
}

func TestObjectPool_PrintStats(t *testing.T) {
	p := NewObjectPool[int64]()
	r, _ := p.Acquire()
	p.Acquire()
	p.Release(r)
	p.Acquire()

	var buf bytes.Buffer
	require.NoError(t, p.PrintStats(&buf))
	require.Contains(t, buf.String(), "3 objects of 8 bytes requested, 2 in use, 1 reused")
	require.Contains(t, buf.String(), "1 slabs holding 16 objects")
}

func BenchmarkObjectPool_AcquireRelease(b *testing.B) {
	p := NewObjectPool[testObject]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ref, _ := p.Acquire()
		p.Release(ref)
	}
}
