// Package sim implements the simulation driver: the fixed per-tick
// worker phase pipeline, the rendezvous primitives (Barrier,
// SignalLink) that interleave worker goroutines with the render loop,
// and the run-mode dispatch (live run, benchmark run, planet-benchmark
// run).
package sim

import "sync"

// Barrier is a cyclic rendezvous point for a fixed number of
// participants: every call to Wait blocks until all n participants have
// called it, then all are released together and the barrier resets for
// its next use. Translates the original's boost::barrier into the
// stdlib's mutex+cond primitives.
//
// Go has no equivalent of boost::thread::interrupt, which the original
// relies on to pull workers out of a blocked wait during shutdown.
// Abort plays that role here: it wakes every blocked Wait immediately,
// and Wait reports whether it returned normally or because of an abort
// so callers can stop instead of starting another phase.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	n          int
	count      int
	generation uint64
	aborted    bool
}

// NewBarrier returns a barrier that releases once n participants have
// called Wait.
func NewBarrier(n int) *Barrier {
	b := &Barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks the calling goroutine until n goroutines total have
// called Wait on this generation, then releases all of them. Returns
// false if the barrier was aborted while waiting.
func (b *Barrier) Wait() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.aborted {
		return false
	}

	gen := b.generation
	b.count++
	if b.count == b.n {
		b.count = 0
		b.generation++
		b.cond.Broadcast()
		return true
	}
	for gen == b.generation && !b.aborted {
		b.cond.Wait()
	}
	return !b.aborted
}

// Abort wakes every goroutine currently blocked in Wait, and causes all
// future Wait calls to return false immediately.
func (b *Barrier) Abort() {
	b.mu.Lock()
	b.aborted = true
	b.cond.Broadcast()
	b.mu.Unlock()
}
