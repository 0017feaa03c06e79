package maa

// Chunks never grow past this unless a single string needs more.
const maxChunkSize = 1 << 16

type chunk struct {
	buf    []byte
	offset int
}

// arena is a chunked bump allocator for interned characters. Allocated
// bytes are never moved or rewritten, so strings built over them stay valid
// for the life of the arena.
type arena struct {
	chunks    []chunk
	chunkSize int
	size      int // bytes handed out
	capacity  int
}

func newArena(chunkSize int) *arena {
	return &arena{chunkSize: chunkSize}
}

// alloc returns n bytes from the current chunk, or from a fresh one when
// they do not fit. Chunk sizes double up to maxChunkSize.
func (a *arena) alloc(n int) []byte {
	if n <= 0 {
		return nil
	}

	if len(a.chunks) > 0 {
		c := &a.chunks[len(a.chunks)-1]
		if c.offset+n <= len(c.buf) {
			b := c.buf[c.offset : c.offset+n : c.offset+n]
			c.offset += n
			a.size += n

			return b
		}
	}

	a.grow(n)

	c := &a.chunks[len(a.chunks)-1]
	c.offset = n
	a.size += n

	return c.buf[:n:n]
}

func (a *arena) grow(need int) {
	size := a.chunkSize
	if len(a.chunks) > 0 {
		size = min(len(a.chunks[len(a.chunks)-1].buf)*2, maxChunkSize)
		size = max(size, a.chunkSize)
	}
	size = max(size, need)

	a.chunks = append(a.chunks, chunk{buf: make([]byte, size)})
	a.capacity += size
}

func (a *arena) release() {
	a.chunks = nil
	a.size = 0
	a.capacity = 0
}
