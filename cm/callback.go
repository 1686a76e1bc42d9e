package cm

import (
	"sync"
	"sync/atomic"

	"github.com/cmkernel/cmreg/ntstatus"
)

// NotifyClass tags the registry operation point a callback is invoked for.
// Grounded on ntfunc.c's REG_NOTIFY_CLASS argument to
// CmiCallRegisteredCallbacks at each dispatcher's call sites: all 26
// notify-class tags are honored at their documented points.
type NotifyClass int

const (
	RegNtPreCreateKey NotifyClass = iota
	RegNtPostCreateKey
	RegNtPreOpenKey
	RegNtPostOpenKey
	RegNtPreDeleteKey
	RegNtPostDeleteKey
	RegNtPreEnumerateKey
	RegNtPostEnumerateKey
	RegNtPreEnumerateValueKey
	RegNtPostEnumerateValueKey
	RegNtPreQueryKey
	RegNtPostQueryKey
	RegNtPreQueryValueKey
	RegNtPostQueryValueKey
	RegNtPreQueryMultipleValueKey
	RegNtPostQueryMultipleValueKey
	RegNtPreSetValueKey
	RegNtPostSetValueKey
	RegNtPreDeleteValueKey
	RegNtPostDeleteValueKey
	RegNtPreSetInformationKey
	RegNtPostSetInformationKey
	RegNtPreFlushKey
	RegNtPostFlushKey
	RegNtPreLoadKey
	RegNtPostLoadKey
)

// CallbackFunc is invoked around the registry operation named by class; arg
// is the notify-class-specific info struct: pre-callbacks carry
// `{Object?, CompleteName?, ...}`, post-callbacks carry `{Object, Status}`.
// A non-nil return from a pre-callback aborts the operation; nil means
// STATUS_SUCCESS.
type CallbackFunc func(context any, class NotifyClass, arg any) error

// Cookie identifies a registered callback. It is a per-process
// monotonically increasing counter rather than a borrowed callback-entry
// address: Go offers no stable, ABI-visible object address to repurpose
// the way the C implementation does, and a counter preserves the
// documented "unique 64-bit opaque" contract without exposing
// implementation memory layout.
type Cookie uint64

type callbackEntry struct {
	cookie  Cookie
	fn      CallbackFunc
	context any
	rd      *rundown
	pending atomic.Bool
}

// CallbackRegistry is the process-wide list of registered observers
// (component F). Grounded on CmRegisterCallback/CmUnRegisterCallback/
// CmiCallRegisteredCallbacks in ntfunc.c.
type CallbackRegistry struct {
	mu      sync.Mutex // callback_lock: guards the list only
	entries []*callbackEntry
	nextID  atomic.Uint64
}

func newCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{}
}

// Register appends a new callback and returns its cookie.
func (r *CallbackRegistry) Register(fn CallbackFunc, context any) Cookie {
	e := &callbackEntry{
		cookie:  Cookie(r.nextID.Add(1)),
		fn:      fn,
		context: context,
		rd:      newRundown(),
	}
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
	return e.cookie
}

// Unregister locates cookie and removes it, blocking until any in-flight
// invocation of that callback completes. Returns Unsuccessful if the
// cookie is unknown or already pending deletion, replicating ntfunc.c's
// CmUnRegisterCallback "pretend like it already is deleted" branch.
func (r *CallbackRegistry) Unregister(cookie Cookie) error {
	r.mu.Lock()
	var target *callbackEntry
	idx := -1
	for i, e := range r.entries {
		if e.cookie == cookie {
			target, idx = e, i
			break
		}
	}
	if target == nil {
		r.mu.Unlock()
		return ntstatus.Unsuccessful
	}
	if target.pending.Load() {
		r.mu.Unlock()
		return ntstatus.Unsuccessful
	}
	target.pending.Store(true)
	target.rd.beginDrain()
	r.mu.Unlock()

	target.rd.waitForDrain()

	r.mu.Lock()
	// Re-locate the entry rather than trusting idx: concurrent
	// Register/Unregister calls may have shifted the slice.
	for i, e := range r.entries {
		if e == target {
			idx = i
			break
		}
	}
	r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
	r.mu.Unlock()
	return nil
}

// Invoke walks the callback list, running each non-pending entry outside
// the callback lock under rundown protection, and stops at the first
// failure status, mirroring CmiCallRegisteredCallbacks. The list is copied
// under the lock and the walk runs over that copy without holding it, so
// a concurrent Register/Unregister cannot invalidate the iteration while a
// callback body runs; Unregister waits for rundown protection to drain
// before the entry's callback is gone.
func (r *CallbackRegistry) Invoke(class NotifyClass, arg any) error {
	r.mu.Lock()
	snapshot := make([]*callbackEntry, len(r.entries))
	copy(snapshot, r.entries)
	r.mu.Unlock()

	for _, e := range snapshot {
		if e.pending.Load() || !e.rd.acquire() {
			continue
		}

		err := e.fn(e.context, class, arg)

		e.rd.release()

		if err != nil {
			return err
		}
	}
	return nil
}
