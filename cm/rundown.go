package cm

import "sync"

// rundown grants the "drain and block" semantic ExInitializeRundownProtection
// / ExAcquireRundownProtection / ExWaitForRundownProtectionRelease provide in
// ntfunc.c: acquirers succeed until a drain begins, after which every new
// acquire fails, and a waiter wakes only once the active count reaches zero.
//
// State machine: Live → PendingDelete → Drained. Transitions are one-way.
type rundown struct {
	mu       sync.Mutex
	cond     *sync.Cond
	active   int
	draining bool
}

func newRundown() *rundown {
	r := &rundown{}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// acquire succeeds (incrementing the active count) iff a drain has not
// started.
func (r *rundown) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.draining {
		return false
	}
	r.active++
	return true
}

// release drops one active acquisition, waking a blocked drain once the
// count reaches zero.
func (r *rundown) release() {
	r.mu.Lock()
	r.active--
	if r.active < 0 {
		r.active = 0
	}
	if r.draining && r.active == 0 {
		r.cond.Broadcast()
	}
	r.mu.Unlock()
}

// beginDrain flips the primitive into PendingDelete: every subsequent
// acquire fails, but acquisitions already in flight are left to finish.
func (r *rundown) beginDrain() {
	r.mu.Lock()
	r.draining = true
	r.mu.Unlock()
}

// waitForDrain blocks until the active count reaches zero. Must be called
// after beginDrain.
func (r *rundown) waitForDrain() {
	r.mu.Lock()
	for r.active > 0 {
		r.cond.Wait()
	}
	r.mu.Unlock()
}
