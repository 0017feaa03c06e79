package maa

import (
	"fmt"
	"io"
)

// Stats is a snapshot of HashTable and Set counters. Chain figures are
// computed when the snapshot is taken.
type Stats struct {
	Size          int // buckets
	Resizings     int
	Entries       int
	BucketsUsed   int
	Singletons    int // chains of length one
	MaximumLength int

	Retrievals int
	Hits       int // matches at the head of a chain
	Misses     int // unsuccessful retrievals
}

// LoadFactor is Entries/Size.
func (s Stats) LoadFactor() float64 {
	if s.Size == 0 {
		return 0
	}

	return float64(s.Entries) / float64(s.Size)
}

func (s Stats) print(w io.Writer, kind string) error {
	_, err := fmt.Fprintf(w,
		"Statistics for %s:\n"+
			"  %d resizings to %d buckets (load factor %.2f)\n"+
			"  %d entries (%d buckets used, %d without overflow)\n"+
			"  maximum chain length is %d\n"+
			"  %d retrievals (%d from top, %d failed)\n",
		kind,
		s.Resizings, s.Size, s.LoadFactor(),
		s.Entries, s.BucketsUsed, s.Singletons,
		s.MaximumLength,
		s.Retrievals, s.Hits, s.Misses,
	)

	return err
}
