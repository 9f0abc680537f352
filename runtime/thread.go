package runtime

import (
	"context"
	"sync"

	"github.com/kestrel-lang/kestrel/kerr"
	"github.com/kestrel-lang/kestrel/obj"
)

// Thread is the embedding contract's current-thread handle: a
// capability-backed Get/Set of named slots, used by a host to stash
// per-thread state (the reserved "__gc" slot, or anything else a host
// wants keyed by thread). The collector itself is threaded explicitly
// as a *Runtime method receiver everywhere internal to this module,
// preferring explicit parameters over thread-local state; Thread exists
// purely for the external embedding boundary a host needs.
type Thread struct {
	mu    sync.RWMutex
	slots map[string]obj.Ref
	rt    *Runtime
}

// NewThread creates a Thread bound to rt, with the reserved "__gc" slot
// already unavailable for reuse (attempting to Set it directly is
// rejected; use Runtime() to reach the collector).
func NewThread(rt *Runtime) *Thread {
	return &Thread{slots: make(map[string]obj.Ref), rt: rt}
}

// reservedGCSlot is the slot name reserved for the collector binding.
const reservedGCSlot = "__gc"

// Get retrieves the Ref stored under name, per the capability-backed
// Get contract named slots use elsewhere in the runtime.
func (th *Thread) Get(name string) (obj.Ref, error) {
	th.mu.RLock()
	defer th.mu.RUnlock()
	ref, ok := th.slots[name]
	if !ok {
		return nil, kerr.KeyError(name)
	}
	return ref, nil
}

// Set stores ref under name. Writing to the reserved "__gc" slot is
// rejected — that binding is derived from the Thread's Runtime, not
// user-settable.
func (th *Thread) Set(name string, ref obj.Ref) error {
	if name == reservedGCSlot {
		return kerr.ResourceError(name, "reserved slot, use Thread.Runtime()")
	}
	th.mu.Lock()
	defer th.mu.Unlock()
	th.slots[name] = ref
	return nil
}

// Mem reports whether name is bound.
func (th *Thread) Mem(name string) bool {
	th.mu.RLock()
	defer th.mu.RUnlock()
	_, ok := th.slots[name]
	return ok
}

// Rem removes name's binding.
func (th *Thread) Rem(name string) error {
	th.mu.Lock()
	defer th.mu.Unlock()
	if _, ok := th.slots[name]; !ok {
		return kerr.KeyError(name)
	}
	delete(th.slots, name)
	return nil
}

// Runtime returns the Runtime bound to this Thread — the de-facto
// reader for the reserved "__gc" slot.
func (th *Thread) Runtime() *Runtime { return th.rt }

type threadCtxKey struct{}

// WithThread binds th to ctx, for the embedding-compatibility boundary
// where a host's call graph doesn't carry an explicit Thread parameter
// (e.g. deep inside a third-party callback). Prefer passing *Thread or
// *Runtime explicitly wherever the call site allows it.
func WithThread(ctx context.Context, th *Thread) context.Context {
	return context.WithValue(ctx, threadCtxKey{}, th)
}

// ThreadFromContext recovers the Thread bound by WithThread, if any.
func ThreadFromContext(ctx context.Context) (*Thread, bool) {
	th, ok := ctx.Value(threadCtxKey{}).(*Thread)
	return th, ok
}
