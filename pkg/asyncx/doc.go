// Package asyncx provides the concurrency primitives used across the
// service: futures, bounded gates for CPU-heavy work, fan-out, retries and
// timeouts, all with first-class context support.
//
// # Futures
//
// A [Future] represents a value that will be computed asynchronously.
// Use [Run] to start work immediately in a goroutine and [Future.Await] to
// block until the result is ready. Await is safe to call from multiple
// goroutines and caches the result after the first resolution.
//
//	fut := asyncx.Run(func() ([]byte, error) {
//	    return fetchTemplate(name)
//	})
//
//	// ... do other work ...
//
//	tmpl, err := fut.Await()
//
// # Gates
//
// A [Gate] bounds how many computations run at once. [Go] acquires a slot
// (waiting respects the caller's context), runs the function on its own
// goroutine and hands back a Future. Password hashing is dispatched through a
// gate so that a burst of signups cannot saturate every scheduler thread with
// memory-hard hash computations.
//
// # Fan-out
//
// [All] runs a set of functions concurrently and collects every result in
// the original order. It returns on the first error but still waits for all
// goroutines to finish, preventing goroutine leaks.
package asyncx
