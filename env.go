package maa

import (
	"io"

	"go.uber.org/zap"
)

// Env carries the default string pool of a program or subsystem. It is
// created and torn down explicitly and passed to whoever needs it.
type Env struct {
	name string
	opts []Option
	log  *zap.Logger
	pool *StringPool
}

// NewEnv creates an environment with an empty default pool.
func NewEnv(name string, opts ...Option) *Env {
	cfg := newConfig(opts)
	log := cfg.logger.With(zap.String("env", name))

	e := &Env{
		name: name,
		opts: append(cfg.options(), WithLogger(log)),
		log:  log,
	}
	e.pool = NewStringPool(e.opts...)

	return e
}

func (e *Env) Name() string {
	return e.name
}

// Strings returns the default pool.
func (e *Env) Strings() *StringPool {
	return e.pool
}

func (e *Env) Find(s string) (string, bool) {
	return e.pool.Find(s)
}

func (e *Env) Exists(s string) bool {
	return e.pool.Exists(s)
}

func (e *Env) Copy(s string) string {
	return e.pool.Copy(s)
}

func (e *Env) CopyN(s string, n int) string {
	return e.pool.CopyN(s, n)
}

func (e *Env) Grow(s string, n int) {
	e.pool.Grow(s, n)
}

func (e *Env) Finish() string {
	return e.pool.Finish()
}

func (e *Env) Unique(prefix string) string {
	return e.pool.Unique(prefix)
}

func (e *Env) Stats() StringStats {
	return e.pool.Stats()
}

func (e *Env) PrintStats(w io.Writer) error {
	return e.pool.PrintStats(w)
}

// Reset destroys the default pool and starts a new, empty one. Strings
// handed out before stay readable but are no longer canonical.
func (e *Env) Reset() {
	e.pool.Destroy()
	e.pool = NewStringPool(e.opts...)
}

// Close logs the final pool statistics and destroys the pool. The Env must
// not be used afterwards.
func (e *Env) Close() {
	s := e.pool.Stats()
	e.log.Debug("string pool statistics",
		zap.Int("count", s.Count),
		zap.Int("bytes", s.Bytes),
		zap.Int("retrievals", s.Retrievals),
		zap.Int("hits", s.Hits),
		zap.Int("misses", s.Misses),
	)

	e.pool.Destroy()
}
