package runtime

import (
	"log/slog"

	"github.com/kestrel-lang/kestrel/kerr"
	"github.com/kestrel-lang/kestrel/obj"
	"github.com/kestrel-lang/kestrel/obj/alloc"
	"github.com/kestrel-lang/kestrel/obj/gc"
)

// Runtime is one thread's view of the managed heap: its arena, its
// collector (nil when Config.GCEnabled is false), and the config it was
// built from. A host is expected to create exactly one Runtime per
// mutator thread — see package gc's Collector doc for why sharing one
// across goroutines is out of contract.
type Runtime struct {
	cfg   Config
	arena *alloc.Arena
	coll  *gc.Collector
	log   *slog.Logger
}

// New creates a Runtime from cfg. A zero Config is not valid; callers
// that don't need to customize anything should start from
// DefaultConfig().
func New(cfg Config) *Runtime {
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.DiscardHandler)
	}
	if cfg.SizeClass == (alloc.SizeClassConfig{}) {
		cfg.SizeClass = alloc.DefaultConfig
	}
	a := alloc.NewArena(cfg.SizeClass)
	rt := &Runtime{cfg: cfg, arena: a, log: cfg.Log}
	if cfg.GCEnabled {
		rt.coll = gc.New(a, cfg.Log)
		if cfg.GCInterval > 0 {
			rt.coll.Start(cfg.GCInterval)
		}
	}
	return rt
}

// Collector exposes the underlying collector for callers that need
// PushFrame/PopFrame or a forced Run; nil when GC is disabled.
func (rt *Runtime) Collector() *gc.Collector { return rt.coll }

// Alloc reserves zeroed Heap storage for t and installs its header,
// without registering it with the collector or running a constructor.
// A type with an Alloc capability overrides the arena entirely.
func (rt *Runtime) Alloc(t *obj.Type) (obj.Ref, error) {
	if allocCap, ok := obj.TypeInstance(t, obj.CapAlloc).(*obj.AllocCap); ok {
		ref, err := allocCap.Alloc(t)
		if err != nil {
			if rt.cfg.MemoryCheck {
				return nil, kerr.OutOfMemory(t.Name)
			}
			return nil, err
		}
		if err := rt.cfg.checkMagic(ref); err != nil {
			return nil, err
		}
		return ref, nil
	}
	ref, err := rt.arena.Alloc(t)
	if err != nil {
		if rt.cfg.MemoryCheck {
			return nil, kerr.OutOfMemory(t.Name)
		}
		return nil, err
	}
	if err := rt.cfg.checkMagic(ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// AllocStack installs a Stack header into caller-owned scratch and
// copies data into the payload. scratch must be at least
// obj.HeaderSize + t's instance size.
func AllocStack(scratch []byte, t *obj.Type, data []byte) obj.Ref {
	ref := obj.HeaderInit(scratch, t, obj.Stack)
	copy(obj.Payload(ref), data)
	return ref
}

// Dealloc releases ref's storage directly, bypassing the collector. It
// refuses non-Heap refs when AllocCheck is on, matching "fatal: attempt
// to free static/stack/embedded".
func (rt *Runtime) Dealloc(ref obj.Ref) error {
	if rt.cfg.AllocCheck {
		if ref == nil {
			return kerr.ResourceError("dealloc", "nil ref")
		}
		if obj.KindOf(ref) != obj.Heap {
			return kerr.ResourceError(obj.TypeOf(ref).Name, "dealloc: not a Heap object")
		}
	}
	if allocCap, ok := obj.TypeInstance(obj.TypeOf(ref), obj.CapAlloc).(*obj.AllocCap); ok && allocCap.Dealloc != nil {
		return allocCap.Dealloc(ref)
	}
	return rt.arena.Free(ref)
}

// ConstructWith invokes ref's New.Construct with args. If the type has
// no New capability and args has exactly one element, it falls back to
// Assign(ref, args[0]).
func ConstructWith(ref obj.Ref, args []obj.Ref) error {
	t := obj.TypeOf(ref)
	if newCap, ok := obj.TypeInstance(t, obj.CapNew).(*obj.NewCap); ok && newCap.Construct != nil {
		return newCap.Construct(ref, args)
	}
	if len(args) == 1 {
		return obj.Assign(ref, args[0])
	}
	return kerr.TypeError(t.Name, "New")
}

// Destruct invokes ref's New.Destruct, if present. Absence is not an
// error: most leaf types have nothing to release.
func Destruct(ref obj.Ref) error {
	t := obj.TypeOf(ref)
	if newCap, ok := obj.TypeInstance(t, obj.CapNew).(*obj.NewCap); ok && newCap.Destruct != nil {
		return newCap.Destruct(ref)
	}
	return nil
}

// New allocates, constructs, and (when GC is enabled) registers a fresh
// non-root instance of t.
func (rt *Runtime) New(t *obj.Type, args ...obj.Ref) (obj.Ref, error) {
	ref, err := rt.Alloc(t)
	if err != nil {
		return nil, err
	}
	if err := ConstructWith(ref, args); err != nil {
		_ = rt.Dealloc(ref)
		return nil, err
	}
	if rt.coll != nil {
		rt.coll.Add(ref)
	}
	return ref, nil
}

// NewRoot is New, but registers the result as a GC root: the collector
// will never reclaim it until RemoveRoot or Del.
func (rt *Runtime) NewRoot(t *obj.Type, args ...obj.Ref) (obj.Ref, error) {
	ref, err := rt.Alloc(t)
	if err != nil {
		return nil, err
	}
	if err := ConstructWith(ref, args); err != nil {
		_ = rt.Dealloc(ref)
		return nil, err
	}
	if rt.coll != nil {
		rt.coll.AddRoot(ref)
	}
	return ref, nil
}

// Del destructs, deallocates, and (when GC is enabled) removes ref from
// the registry, root or not — the explicit del() op.
func (rt *Runtime) Del(ref obj.Ref) error {
	if rt.coll != nil {
		return rt.coll.Del(ref)
	}
	if err := Destruct(ref); err != nil {
		return err
	}
	return rt.Dealloc(ref)
}

// RemoveRoot drops ref's root flag without freeing it, letting a future
// collection reclaim it if nothing else reaches it. A no-op when GC is
// disabled.
func (rt *Runtime) RemoveRoot(ref obj.Ref) {
	if rt.coll != nil {
		rt.coll.RemoveRoot(ref)
	}
}

// Copy produces an independent instance equal to ref: the type's Copy
// capability if present, else Alloc+Assign. The result is registered as
// non-root when GC is enabled.
func (rt *Runtime) Copy(ref obj.Ref) (obj.Ref, error) {
	t := obj.TypeOf(ref)
	var out obj.Ref
	if copyCap, ok := obj.TypeInstance(t, obj.CapCopy).(*obj.CopyCap); ok {
		c, err := copyCap.Copy(ref)
		if err != nil {
			return nil, err
		}
		if err := rt.cfg.checkMagic(c); err != nil {
			return nil, err
		}
		out = c
	} else {
		c, err := rt.Alloc(t)
		if err != nil {
			return nil, err
		}
		if err := obj.Assign(c, ref); err != nil {
			_ = rt.Dealloc(c)
			return nil, err
		}
		out = c
	}
	if rt.coll != nil {
		rt.coll.Add(out)
	}
	return out, nil
}

// Run forces a collection cycle. A no-op when GC is disabled.
func (rt *Runtime) Run() {
	if rt.coll != nil {
		rt.coll.Run()
	}
}

// Finish releases everything the runtime still owns: every remaining
// GC-tracked ref (root or not) is destructed and freed. Call at thread
// teardown.
func (rt *Runtime) Finish() {
	if rt.coll != nil {
		rt.coll.Stop()
		rt.coll.Finish()
	}
}
