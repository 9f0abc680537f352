package gc

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kestrel-lang/kestrel/kerr"
	"github.com/kestrel-lang/kestrel/obj"
)

// Deallocator is the minimal view of an arena.Arena the collector needs:
// somewhere to return swept storage to. Spelled as an interface here
// (rather than importing package alloc directly) so gc stays usable
// against any backing store, and so obj/alloc and obj/gc never need to
// import one another.
type Deallocator interface {
	Free(ref obj.Ref) error
}

// Collector is one thread's conservative mark-sweep collector: a
// registry of live refs, a stack of explicit root frames standing in
// for native-stack scanning (see roots.go), and the arena it returns
// freed storage to. Per spec, each mutator thread owns exactly one of
// these; cross-thread sharing of Refs is out of contract.
type Collector struct {
	mu     sync.Mutex
	reg    *Registry
	arena  Deallocator
	frames []*Frame
	leaves map[*obj.Type]bool
	mitems int
	log    *slog.Logger

	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a Collector backed by arena, with an initial pressure
// threshold generous enough to avoid a collection on the first handful
// of allocations.
func New(arena Deallocator, log *slog.Logger) *Collector {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Collector{
		reg:    NewRegistry(64),
		arena:  arena,
		leaves: make(map[*obj.Type]bool),
		mitems: 64,
		log:    log,
	}
}

// RegisterLeaf marks t as a type the mark phase must stop at
// immediately: a small fixed set of types known to contain no managed
// references (integers, floats, strings, types themselves, and
// similar). Registering a composite type here would silently hide
// its contents from the collector, so this is reserved for the host's
// genuine leaves, not a performance shortcut for ordinary types.
func (c *Collector) RegisterLeaf(t *obj.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaves[t] = true
}

// Add registers ref as a tracked, non-root entry and runs a collection
// first if the registry is over its pressure threshold — gc_add's
// auto-collect rule.
func (c *Collector) Add(ref obj.Ref) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reg.Len() >= c.mitems {
		c.runLocked()
	}
	c.reg.Add(ref, false)
}

// AddRoot registers ref as a root: it survives every future Run until
// RemoveRoot or Del removes it, even with no incoming references.
func (c *Collector) AddRoot(ref obj.Ref) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg.Add(ref, true)
}

// RemoveRoot drops ref's root status (without freeing it); the next Run
// will reclaim it if nothing else reaches it.
func (c *Collector) RemoveRoot(ref obj.Ref) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, _, ok := c.reg.Lookup(ref); ok {
		c.reg.Add(ref, false)
	}
}

// Del destructs and deallocates ref unconditionally, root or not, and
// removes it from the registry — the explicit del() lifecycle op.
func (c *Collector) Del(ref obj.Ref) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.reg.Remove(ref) {
		return kerr.ResourceError("gc", "del: ref not registered")
	}
	return c.destructAndFree(ref)
}

// Run forces one mark-sweep cycle. destructors run after the registry
// has been fully cleaned, per the stop-the-world contract: a destructor
// observing the registry mid-sweep would see a half-consistent view.
func (c *Collector) Run() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runLocked()
}

func (c *Collector) runLocked() {
	c.mark()
	freed := c.reg.Sweep()
	c.mitems = c.reg.Len() + c.reg.Len()/2 + 1
	c.log.Debug("gc: cycle complete", "freed", len(freed), "live", c.reg.Len(), "mitems", c.mitems)
	for _, ref := range freed {
		if err := c.destructAndFree(ref); err != nil {
			c.log.Warn("gc: destruct/free failed", "error", err)
		}
	}
}

func (c *Collector) destructAndFree(ref obj.Ref) error {
	if newCap, ok := obj.Instance(ref, obj.CapNew).(*obj.NewCap); ok && newCap.Destruct != nil {
		if err := newCap.Destruct(ref); err != nil {
			c.log.Warn("gc: destructor failed", "error", err)
		}
	}
	return c.arena.Free(ref)
}

// Len reports the number of live registry entries (root and non-root).
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reg.Len()
}

// Start launches a background goroutine substituting for the "collector
// thread lifecycle" original_source/GC.c exposes as explicit
// CollectorStart/CollectorStop calls: in Go, the natural analog is a
// goroutine a caller can stop deterministically rather than a raw OS
// thread handle, so Start/Stop wrap that instead of spawning a thread.
// interval > 0 drives an automatic Run on every tick; interval <= 0
// disables ticking and the goroutine only waits to be Stop'd — Run
// remains available for explicit triggering either way.
func (c *Collector) Start(interval time.Duration) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.mu.Unlock()

	go func() {
		defer close(c.done)
		if interval <= 0 {
			<-c.stop
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				c.Run()
			}
		}
	}()
}

// Stop ends the Collector's background goroutine, if one was started
// with Start, and blocks until it has exited.
func (c *Collector) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stop)
	done := c.done
	c.mu.Unlock()
	<-done
}

// Finish sweeps every remaining entry unconditionally — root or not —
// destructing and freeing each, and leaves the registry empty. This is
// gc_finish: thread teardown releasing everything the collector still
// owns.
func (c *Collector) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var all []obj.Ref
	c.reg.Each(func(ref obj.Ref, isRoot bool) { all = append(all, ref) })
	for _, ref := range all {
		c.reg.Remove(ref)
		if err := c.destructAndFree(ref); err != nil {
			c.log.Warn("gc: finish free failed", "error", err)
		}
	}
}
