package maa

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrDuplicateKey is returned when inserting a key that compares equal
	// to one already present. The existing datum is left untouched.
	ErrDuplicateKey = errors.New("maa: duplicate key")

	// ErrNotFound is returned when deleting a key that is not present.
	ErrNotFound = errors.New("maa: key not found")

	// ErrConcurrentMutation indicates a structural change while a cursor is open.
	ErrConcurrentMutation = errors.New("maa: mutation while iterating")

	// ErrDestroyed indicates use of a container after Destroy.
	ErrDestroyed = errors.New("maa: use after destroy")

	// ErrInvalidHandle indicates use of a container that was never created
	// through its constructor.
	ErrInvalidHandle = errors.New("maa: invalid handle")

	// ErrStaleHandle indicates a Ref or Position that no longer refers to a
	// live object: released, exhausted or invalidated by End.
	ErrStaleHandle = errors.New("maa: stale handle")

	// ErrForeignHandle indicates a Ref or Position issued by another container.
	ErrForeignHandle = errors.New("maa: handle from another container")

	// ErrNoGrowth indicates Finish without a preceding Grow.
	ErrNoGrowth = errors.New("maa: finish without grow")

	// ErrInvalidArgument indicates a nil function or a negative length.
	ErrInvalidArgument = errors.New("maa: invalid argument")
)

// errStopIteration aborts an internal traversal without surfacing an error.
var errStopIteration = errors.New("maa: stop iteration")

// InvariantError is the panic value raised on programmer errors: use after
// Destroy, mutation during iteration, stale or foreign handles. It is never
// returned as an ordinary error.
type InvariantError struct {
	Op     string
	Err    error
	Detail string
}

func (e *InvariantError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Detail)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

// fatal logs the violation and panics with an *InvariantError.
func fatal(log *zap.Logger, op string, err error, format string, args ...any) {
	ie := &InvariantError{Op: op, Err: err, Detail: fmt.Sprintf(format, args...)}
	if log != nil {
		log.Error("invariant violation",
			zap.String("op", op),
			zap.Error(err),
			zap.String("detail", ie.Detail),
		)
	}

	panic(ie)
}
