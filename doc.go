// Package maa provides the containers and allocators that parsers and
// protocol engines build on: a chained hash table over caller-supplied hash
// and compare functions, a set with union/intersection/difference, a
// fixed-size object pool with freelist reuse and a string interning pool.
//
// # Ownership
//
// HashTable and Set reference keys and data but never own them; Destroy
// releases only the container's own buckets and nodes. StringPool owns the
// bytes of every string it interns. ObjectPool owns its slabs.
//
// # Iteration
//
// Iterate, All and the cursor protocol (Init, Next, Get, End) make the
// container read-only while they run. Inserting or deleting during that
// window is a programmer error:
//
//	for p := t.Init(); p.Valid(); p = t.Next(p) {
//		k, v := t.Get(p)
//		if done(k, v) {
//			t.End()
//			break
//		}
//	}
//
// # Errors
//
// Recoverable conditions are returned: ErrDuplicateKey from Insert and
// ErrNotFound from Delete, both matchable with errors.Is. Programmer errors
// (use after Destroy, mutation during iteration, stale handles, Finish
// without Grow) panic with an *InvariantError.
//
// None of the types are safe for concurrent use.
package maa
