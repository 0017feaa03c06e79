package maa

import "go.uber.org/zap"

const (
	defaultInitialSize = 11
	defaultSlabSize    = 16
	defaultChunkSize   = 1 << 12
)

type config struct {
	logger      *zap.Logger
	initialSize int
	slabSize    int
	chunkSize   int
}

// Option configures a container at construction time.
type Option func(c *config)

// WithLogger sets the logger used for debug events (resizes, slab growth)
// and for reporting invariant violations before panicking.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithInitialSize sets the initial bucket count hint. The actual count is
// the next prime not below the hint.
func WithInitialSize(n int) Option {
	return func(c *config) {
		if n > 2 {
			c.initialSize = n
		}
	}
}

// WithSlabSize sets the number of objects in the first ObjectPool slab.
// Every following slab doubles.
func WithSlabSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.slabSize = n
		}
	}
}

// WithChunkSize sets the minimum chunk size of the StringPool character arena.
func WithChunkSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		logger:      zap.NewNop(),
		initialSize: defaultInitialSize,
		slabSize:    defaultSlabSize,
		chunkSize:   defaultChunkSize,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

func (c config) options() []Option {
	return []Option{
		WithLogger(c.logger),
		WithInitialSize(c.initialSize),
		WithSlabSize(c.slabSize),
		WithChunkSize(c.chunkSize),
	}
}
