package maa

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sameBacking(a, b string) bool {
	return unsafe.StringData(a) == unsafe.StringData(b) && len(a) == len(b)
}

func TestStringPool_Copy(t *testing.T) {
	p := NewStringPool()

	src1 := strings.Repeat("ab", 3)
	src2 := string([]byte("ababab"))
	require.False(t, sameBacking(src1, src2))

	s1 := p.Copy(src1)
	s2 := p.Copy(src2)
	require.Equal(t, "ababab", s1)
	require.True(t, sameBacking(s1, s2), "equal content must share one backing copy")
	require.False(t, sameBacking(s1, src1), "the pool keeps its own copy")

	require.True(t, p.Exists("ababab"))
	require.Equal(t, 1, p.Len())
}

func TestStringPool_Find(t *testing.T) {
	p := NewStringPool()

	_, ok := p.Find("x")
	require.False(t, ok)
	require.Equal(t, 0, p.Len(), "Find must not intern")

	c := p.Copy("x")
	f, ok := p.Find("x")
	require.True(t, ok)
	require.True(t, sameBacking(c, f))
}

func TestStringPool_CopyN(t *testing.T) {
	p := NewStringPool()

	s := p.CopyN("hello world", 5)
	require.Equal(t, "hello", s)
	require.True(t, sameBacking(s, p.Copy("hello")))

	require.Equal(t, "hi", p.CopyN("hi", 10))
	requireInvariant(t, ErrInvalidArgument, func() { p.CopyN("hi", -1) })
}

func TestStringPool_CopyBytes(t *testing.T) {
	p := NewStringPool()

	b := []byte("token")
	s := p.CopyBytes(b)
	b[0] = 'X'

	require.Equal(t, "token", s, "the pool must not alias the caller's bytes")
	require.True(t, sameBacking(s, p.CopyBytes([]byte("token"))))
}

func TestStringPool_Empty(t *testing.T) {
	p := NewStringPool()

	require.Equal(t, "", p.Copy(""))
	require.True(t, p.Exists(""))
	require.Equal(t, "", p.Copy(""))
	require.Equal(t, 1, p.Len())
}

func TestStringPool_GrowFinish(t *testing.T) {
	p := NewStringPool()

	p.Grow("foo", 3)
	p.Grow("barbaz", 3)
	p.GrowBytes([]byte("!"))
	require.False(t, p.Exists("foobar!"), "pending content is not interned yet")

	s := p.Finish()
	require.Equal(t, "foobar!", s)
	require.True(t, p.Exists("foobar!"))
	require.True(t, sameBacking(s, p.Copy("foobar!")))

	// Growing content that is already interned returns the existing copy.
	p.Grow("foobar!", 100)
	again := p.Finish()
	require.True(t, sameBacking(s, again))
	require.Equal(t, 1, p.Len())

	requireInvariant(t, ErrNoGrowth, func() { p.Finish() })
}

func TestStringPool_GrowEmpty(t *testing.T) {
	p := NewStringPool()

	p.Grow("abc", 0)
	require.Equal(t, "", p.Finish())
	require.True(t, p.Exists(""))
}

func TestStringPool_ManyStrings(t *testing.T) {
	p := NewStringPool(WithChunkSize(64))

	interned := make(map[string]string)
	for i := range 2000 {
		k := "key-" + strconv.Itoa(i%700)
		s := p.Copy(k)
		if prev, ok := interned[k]; ok {
			require.True(t, sameBacking(prev, s))
		}
		interned[k] = s
	}

	require.Equal(t, 700, p.Len())
	for k, s := range interned {
		require.Equal(t, k, s, "interned bytes must never be rewritten")
	}

	st := p.Stats()
	assert.Equal(t, 700, st.Count)
	assert.Equal(t, 2000, st.Retrievals)
	assert.Equal(t, 700, st.Misses)

	total := 0
	for k := range interned {
		total += len(k)
	}
	assert.Equal(t, total, st.Bytes)
}

func TestStringPool_Unique(t *testing.T) {
	p := NewStringPool()
	p.Copy("tmp0")
	p.Copy("tmp2")

	require.Equal(t, "tmp1", p.Unique("tmp"))
	require.Equal(t, "tmp3", p.Unique("tmp"))
	require.True(t, p.Exists("tmp1"))
	require.True(t, p.Exists("tmp3"))
}

func TestStringPool_Iterate(t *testing.T) {
	p := NewStringPool()
	words := []string{"alpha", "beta", "gamma"}
	for _, w := range words {
		p.Copy(w)
	}

	var got []string
	require.NoError(t, p.Iterate(func(s string) error {
		got = append(got, s)
		return nil
	}))
	require.ElementsMatch(t, words, got)

	got = got[:0]
	for s := range p.All() {
		got = append(got, s)
	}
	require.ElementsMatch(t, words, got)

	n := 0
	require.NoError(t, IterateStringsWith(p, &n, func(_ string, n *int) error {
		*n++
		return nil
	}))
	require.Equal(t, 3, n)

	stop := errors.New("stop")
	require.ErrorIs(t, p.Iterate(func(string) error { return stop }), stop)
}

func TestStringPool_Cursor(t *testing.T) {
	p := NewStringPool()
	p.Copy("a")
	p.Copy("b")

	var got []string
	for pos := p.Init(); pos.Valid(); pos = p.Next(pos) {
		got = append(got, p.Get(pos))
	}
	require.ElementsMatch(t, []string{"a", "b"}, got)

	pos := p.Init()
	require.True(t, pos.Valid())

	// Known content can still be copied while reading.
	require.Equal(t, "a", p.Copy("a"))
	requireInvariant(t, ErrConcurrentMutation, func() { p.Copy("c") })

	p.End()
	require.Equal(t, "c", p.Copy("c"))
}

func TestStringPool_Destroy(t *testing.T) {
	p := NewStringPool()
	p.Copy("x")
	p.Grow("pending", 7)
	p.Destroy()

	requireInvariant(t, ErrDestroyed, func() { p.Copy("x") })
	requireInvariant(t, ErrDestroyed, func() { p.Grow("y", 1) })
	requireInvariant(t, ErrDestroyed, func() { p.Finish() })
	requireInvariant(t, ErrDestroyed, func() { p.Exists("x") })
}

func TestStringPool_PrintStats(t *testing.T) {
	p := NewStringPool()
	p.Copy("hello")
	p.Copy("hello")
	p.Exists("nope")

	var buf bytes.Buffer
	require.NoError(t, p.PrintStats(&buf))

	out := buf.String()
	require.Contains(t, out, "Statistics for string pool:")
	require.Contains(t, out, "1 strings using 5 B")
	require.Contains(t, out, "3 retrievals (1 from top, 2 failed)")
}

func BenchmarkStringPool_Copy(b *testing.B) {
	p := NewStringPool()
	keys := make([]string, 1024)
	for i := range keys {
		keys[i] = "identifier_" + strconv.Itoa(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Copy(keys[i&1023])
	}
}
